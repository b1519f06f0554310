package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand 品牌表 GORM 模型。
type Brand struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"uniqueIndex;size:64;not null"`
	Country   string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Model 车型表 GORM 模型：可售卖的车系/配置基线。
// 基础价在下单时快照进订单，后续调价不影响已有订单。
type Model struct {
	ID           string          `gorm:"primaryKey;size:36"`
	BrandID      string          `gorm:"index;size:36;not null"`
	Name         string          `gorm:"size:64;not null"`
	BodyType     string          `gorm:"size:32"` // sedan / suv / wagon 等
	BasePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FuelType     string          `gorm:"size:16"`
	EnginePower  int             // 默认功率（马力）
	Transmission string          `gorm:"size:16"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

// Configuration 配置表：某车型下带加价的命名选装组合（trim）。
type Configuration struct {
	ID              string          `gorm:"primaryKey;size:36"`
	ModelID         string          `gorm:"index;size:36;not null"`
	Name            string          `gorm:"size:64;not null"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// 可选的发动机/变速箱覆盖项，空值表示沿用车型默认
	EnginePower    int
	EngineCapacity int // 排量，单位 cc
	FuelType       string    `gorm:"size:16"`
	Transmission   string    `gorm:"size:16"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// AdditionalOption 单点选装件（与配置无关，按件计价）。
type AdditionalOption struct {
	ID        string          `gorm:"primaryKey;size:36"`
	Name      string          `gorm:"size:64;not null"`
	Category  string          `gorm:"size:32"` // interior / exterior / tech 等
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}
