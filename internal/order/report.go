package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SalesRow 销售汇总的一行：按（品牌, 车型）分组的已完成订单统计。
// AverageOrderValue 由 Service 从 sum/count 统一折算，存储实现不用填。
type SalesRow struct {
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	OrderCount        int64           `json:"order_count"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// SalesReport 汇总 [from, to] 区间内（含端点）状态为 completed 的订单，
// 可选按品牌过滤。结果按营收降序；区间内没有订单时返回空列表而不是错误。
func (s *Service) SalesReport(ctx context.Context, from, to time.Time, brandID string) ([]SalesRow, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if from.After(to) {
		return nil, fmt.Errorf("invalid date range: from is after to")
	}

	rows, err := s.store.SalesSummary(ctx, from, to, brandID)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if rows[i].OrderCount > 0 {
			rows[i].AverageOrderValue = rows[i].TotalRevenue.
				DivRound(decimal.NewFromInt(rows[i].OrderCount), 2)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalRevenue.GreaterThan(rows[j].TotalRevenue)
	})
	if rows == nil {
		rows = []SalesRow{}
	}
	return rows, nil
}
