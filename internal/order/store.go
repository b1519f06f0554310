package order

import (
	"context"
	"time"

	"github.com/AutoDealHub/AutoDealHub/internal/catalog"
	"github.com/AutoDealHub/AutoDealHub/internal/inventory"
)

// Store 是订单引擎对存储层的全部依赖。
// 查询类方法在记录不存在时返回 (nil, nil)，由 Service 统一换算成分类错误；
// 目录数据（车型/配置/选装件）作为只读能力注入，Service 不做任何全局查表。
type Store interface {
	// 车辆
	VehicleByID(ctx context.Context, id string) (*inventory.Vehicle, error)
	// ReserveVehicle 对 available -> reserved 做原子 check-and-set，
	// 返回是否占用成功。并发下同一辆车只会有一个调用返回 true。
	ReserveVehicle(ctx context.Context, id string) (bool, error)
	CreateVehicle(ctx context.Context, v *inventory.Vehicle) error
	VINExists(ctx context.Context, vin string) (bool, error)

	// 目录（只读）
	ModelByID(ctx context.Context, id string) (*catalog.Model, error)
	ConfigurationByID(ctx context.Context, id string) (*catalog.Configuration, error)
	// OptionsByIDs 返回能找到的子集，未知 id 不报错（陈旧 id 不阻塞下单）。
	OptionsByIDs(ctx context.Context, ids []string) ([]catalog.AdditionalOption, error)

	// 订单
	CreateOrder(ctx context.Context, o *Order) error
	OrderByID(ctx context.Context, id string) (*Order, error)
	SaveOrder(ctx context.Context, o *Order) error
	AddOrderOptions(ctx context.Context, opts []OrderOption) error
	AppendHistory(ctx context.Context, h *StatusHistory) error
	HistoryByOrder(ctx context.Context, orderID string) ([]StatusHistory, error)
	// DeleteOrder 硬删订单并级联其选装与审计行，返回是否存在。
	DeleteOrder(ctx context.Context, orderID string) (bool, error)
	ListOrders(ctx context.Context, userID string, status Status, offset, limit int) ([]Order, int64, error)

	// 报表（读已提交视图即可，不加锁）
	SalesSummary(ctx context.Context, from, to time.Time, brandID string) ([]SalesRow, error)
}

// TxStore 在 Store 之上暴露显式的事务边界。
// fn 内通过传入的 Store 做的全部读写同属一个事务：fn 返回错误则整体回滚。
type TxStore interface {
	Store
	WithTransaction(ctx context.Context, fn func(tx Store) error) error
}
