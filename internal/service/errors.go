package service

import "errors"

// 订单相关错误
var (
	ErrOrderNotFound      = errors.New("运单不存在")
	ErrOrderAccessDenied  = errors.New("无权操作该运单")
	ErrOrderStatusInvalid = errors.New("运单状态不允许该操作")
	ErrOrderValidation    = errors.New("运单必填字段缺失或非法")
	ErrOrderCodeExhausted = errors.New("运单编号生成失败")
)

// 结算相关错误
var (
	ErrSettlementNotFound      = errors.New("结算单不存在")
	ErrSettlementStatusInvalid = errors.New("结算单状态不允许该操作")
	ErrLedgerAlreadySettled    = errors.New("台账行已被其他结算单捕获")
)

// 用户与认证相关错误
var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidRole        = errors.New("不支持的用户角色")
	ErrUserDisabled       = errors.New("账号已被停用")
)
