package constants

// 订单状态常量
const (
	OrderStatusCreated          = "CREATED"
	OrderStatusAssigned         = "ASSIGNED"
	OrderStatusPickedUp         = "PICKED_UP"
	OrderStatusDelivering       = "DELIVERING"
	OrderStatusDeliveredSuccess = "DELIVERED_SUCCESS"
	OrderStatusDeliveryFailed   = "DELIVERY_FAILED"
	OrderStatusCancelled        = "CANCELLED"
	OrderStatusReturned         = "RETURNED"
)

// 台账类型常量
const (
	LedgerTypeCodCollected      = "COD_COLLECTED"      // 代收货款（增加 Shipper 对平台的欠款）
	LedgerTypeShippingFee       = "SHIPPING_FEE"       // 运费（Shipper 留存，冲减欠款）
	LedgerTypeSettlementPayment = "SETTLEMENT_PAYMENT" // 结算付款（清零欠款）
)

// 结算状态常量
const (
	SettlementStatusPending   = "PENDING"
	SettlementStatusPaid      = "PAID"
	SettlementStatusConfirmed = "CONFIRMED"
)

// 用户角色常量
const (
	RoleShop    = "SHOP"
	RoleShipper = "SHIPPER"
	RoleAdmin   = "ADMIN"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 派送结果常量
const (
	DeliveryOutcomeSuccess = "SUCCESS"
	DeliveryOutcomeFailure = "FAILURE"
)

// OrderCodePrefix 订单编号前缀
const OrderCodePrefix = "ORD-"

// DefaultDeliveryFailReason 默认派送失败原因
const DefaultDeliveryFailReason = "收件人拒收或无法联系"

// 允许验货标记
const (
	InspectionAllowed    = "YES"
	InspectionNotAllowed = "NO"
)

// 队列与任务常量
const (
	QueueDefault             = "default"
	TaskNotificationDispatch = "notification:dispatch"
)
