package inventory

import "time"

// Status 车辆库存状态（持久化为字符串）。
type Status string

const (
	StatusAvailable Status = "available" // 在库可售
	StatusReserved  Status = "reserved"  // 已被订单锁定
	StatusSold      Status = "sold"      // 已交付
)

// Valid 判断是否为合法的库存状态值（边界处拒绝非法输入）。
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// Vehicle vehicles 表 GORM 模型：一台具体车辆，可能是在库实车，
// 也可能是按订单生成的占位车（backorder，尚未生产）。
// VIN 全局唯一且一经分配不再变更。
type Vehicle struct {
	ID        string    `gorm:"primaryKey;size:36"`
	ModelID   string    `gorm:"index;size:36;not null"`
	Color     string    `gorm:"size:32;not null"`
	VIN       string    `gorm:"uniqueIndex;size:32;not null"`
	Mileage   int       `gorm:"not null;default:0"`
	Status    Status    `gorm:"type:varchar(16);index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
