package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单状态枚举（持久化为字符串）。
type Status string

const (
	StatusPending      Status = "pending"       // 已下单，待确认
	StatusConfirmed    Status = "confirmed"     // 销售已确认
	StatusInProduction Status = "in_production" // 生产/备车中
	StatusCompleted    Status = "completed"     // 已完成交付
	StatusCancelled    Status = "cancelled"     // 已取消（可被清理删除）
)

// Valid 判断是否为合法的订单状态值（边界处拒绝非法输入）。
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProduction, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order orders 表 GORM 模型。
// TotalPrice 在创建时一次性算定（车型基础价 + 配置加价 + 选装件之和），
// 之后目录调价不会回写到已有订单。
type Order struct {
	ID              string          `gorm:"primaryKey;size:36"`
	UserID          string          `gorm:"index;size:36;not null"`
	VehicleID       string          `gorm:"index;size:36;not null"`
	ConfigurationID string          `gorm:"size:36;not null"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          Status          `gorm:"type:varchar(16);index;not null"`
	OrderDate       time.Time       `gorm:"index;not null"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

// OrderOption 订单-选装件关联表，Price 为成交时的单价快照。
type OrderOption struct {
	ID       uint            `gorm:"primaryKey;autoIncrement"`
	OrderID  string          `gorm:"index;size:36;not null"`
	OptionID string          `gorm:"size:36;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// StatusHistory 订单状态审计表：每次状态落位（含创建）追加一行，只增不改。
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   string    `gorm:"index;size:36;not null"`
	Status    Status    `gorm:"type:varchar(16);not null"`
	Note      string    `gorm:"size:255"`
	ActorID   string    `gorm:"size:36"` // 操作人，系统动作可为空
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
