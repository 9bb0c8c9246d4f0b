package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/daishou-next/internal/config"
	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/repository"
	"github.com/daishou-next/internal/service"

	"github.com/olekukonko/tablewriter"
)

func main() {
	var (
		shopID    uint
		shipperID uint
		fromRaw   string
		toRaw     string
	)
	flag.UintVar(&shopID, "shop-id", 0, "仅统计指定商家（0 表示不过滤）")
	flag.UintVar(&shipperID, "shipper-id", 0, "仅统计指定配送员（0 表示不过滤）")
	flag.StringVar(&fromRaw, "from", "", "起始日期（2006-01-02）")
	flag.StringVar(&toRaw, "to", "", "结束日期（2006-01-02）")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	from, err := parseDate(fromRaw)
	if err != nil {
		stdLog.Fatalf("起始日期格式错误: %v", err)
	}
	to, err := parseDate(toRaw)
	if err != nil {
		stdLog.Fatalf("结束日期格式错误: %v", err)
	}
	if to != nil {
		// 结束日期取当天末尾
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	reportService := service.NewReportService(
		repository.NewLedgerRepository(models.DB),
		repository.NewUserRepository(models.DB),
	)
	report, err := reportService.ReconciliationReport(shopID, shipperID, from, to)
	if err != nil {
		stdLog.Fatalf("生成对账报表失败: %v", err)
	}

	if len(report.Rows) == 0 {
		fmt.Println("时间窗内没有已妥投的运单")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("运单编号", "商家", "配送员", "妥投时间", "代收金额", "运费", "净额", "已结算")
	for _, row := range report.Rows {
		deliveredAt := ""
		if row.DeliveredAt != nil {
			deliveredAt = row.DeliveredAt.Format("2006-01-02 15:04")
		}
		settled := "否"
		if row.Settled {
			settled = "是"
		}
		if err := table.Append([]string{
			row.OrderCode,
			row.ShopName,
			row.ShipperName,
			deliveredAt,
			row.CodAmount.String(),
			row.ShippingFee.String(),
			row.Net.String(),
			settled,
		}); err != nil {
			stdLog.Fatalf("写入报表行失败: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		stdLog.Fatalf("渲染报表失败: %v", err)
	}

	fmt.Printf("代收合计: %s  运费合计: %s  净额合计: %s  生成时间: %s\n",
		report.TotalCod.String(),
		report.TotalFees.String(),
		report.TotalNet.String(),
		report.GeneratedAt.Format(time.RFC3339),
	)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
