package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AutoDealHub/AutoDealHub/internal/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 下单时写入审计行的备注，区分整车来源。
const (
	noteFromStock    = "vehicle taken from stock"
	noteBackorder    = "vehicle created on backorder"
	noteStatusChange = "status changed"
)

// Config 引擎的业务参数。
type Config struct {
	VINPrefix      string // 按单造车时的 VIN 前缀
	VINMaxAttempts int    // VIN 生成的碰撞重试上限
	DefaultColor   string // 请求未指定颜色时的基础色
}

func (c Config) withDefaults() Config {
	if c.VINPrefix == "" {
		c.VINPrefix = "ADH"
	}
	if c.VINMaxAttempts <= 0 {
		c.VINMaxAttempts = 100
	}
	if c.DefaultColor == "" {
		c.DefaultColor = "black"
	}
	return c
}

// Service 封装订单与库存生命周期的核心用例（不依赖 HTTP），便于复用和测试。
// 所有写操作都经 TxStore 的显式事务执行：要么整单落库，要么全部回滚，
// 不会出现“车被锁了但没有订单”或反过来的半截状态。
type Service struct {
	store TxStore
	cfg   Config
	now   func() time.Time
}

func NewService(store TxStore, cfg Config) *Service {
	return &Service{
		store: store,
		cfg:   cfg.withDefaults(),
		now:   time.Now,
	}
}

// CreateOrderInput 创建订单的入参。
// VehicleID 与 ModelID 二选一：给了 VehicleID 表示购买在库车辆，
// 只给 ModelID 表示按单定制（引擎会生成一台占位车）。
type CreateOrderInput struct {
	UserID          string
	VehicleID       string
	ModelID         string
	Color           string
	ConfigurationID string
	OptionIDs       []string
}

// ListOrdersFilter 订单查询条件。
type ListOrdersFilter struct {
	UserID string
	Status Status
	Offset int
	Limit  int
}

// CreateOrder 在单个事务内完成：占用/生成车辆、校验配置、解析选装件、
// 计算总价快照、写入订单 + 选装行 + 首条审计行。
// 任一步失败整体回滚（包括车辆占用），失败的下单可安全重试。
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	in.UserID = strings.TrimSpace(in.UserID)
	in.VehicleID = strings.TrimSpace(in.VehicleID)
	in.ModelID = strings.TrimSpace(in.ModelID)
	in.ConfigurationID = strings.TrimSpace(in.ConfigurationID)
	if in.UserID == "" {
		return nil, fmt.Errorf("user_id required")
	}
	if in.VehicleID == "" && in.ModelID == "" {
		return nil, fmt.Errorf("vehicle_id or model_id required")
	}
	if in.ConfigurationID == "" {
		return nil, fmt.Errorf("configuration_id required")
	}

	var created *Order
	err := s.store.WithTransaction(ctx, func(tx Store) error {
		vehicle, note, err := s.reserveVehicle(ctx, tx, in)
		if err != nil {
			return err
		}

		cfg, err := tx.ConfigurationByID(ctx, in.ConfigurationID)
		if err != nil {
			return err
		}
		if cfg == nil || cfg.ModelID != vehicle.ModelID {
			return fmt.Errorf("%w: %s", ErrConfigurationNotFound, in.ConfigurationID)
		}

		model, err := tx.ModelByID(ctx, vehicle.ModelID)
		if err != nil {
			return err
		}
		if model == nil {
			return fmt.Errorf("%w: %s", ErrModelNotFound, vehicle.ModelID)
		}

		// 未知选装 id 静默丢弃：陈旧的目录 id 不应导致整单失败。
		options, err := tx.OptionsByIDs(ctx, in.OptionIDs)
		if err != nil {
			return err
		}
		prices := make([]decimal.Decimal, 0, len(options))
		for _, opt := range options {
			prices = append(prices, opt.Price)
		}

		now := s.now()
		o := &Order{
			ID:              uuid.NewString(),
			UserID:          in.UserID,
			VehicleID:       vehicle.ID,
			ConfigurationID: cfg.ID,
			TotalPrice:      ComputeTotal(model.BasePrice, cfg.AdditionalPrice, prices),
			Status:          StatusPending,
			OrderDate:       now,
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		if len(options) > 0 {
			rows := make([]OrderOption, 0, len(options))
			for _, opt := range options {
				rows = append(rows, OrderOption{
					OrderID:  o.ID,
					OptionID: opt.ID,
					Price:    opt.Price, // 成交价快照，后续调价不追溯
				})
			}
			if err := tx.AddOrderOptions(ctx, rows); err != nil {
				return err
			}
		}

		if err := tx.AppendHistory(ctx, &StatusHistory{
			OrderID:   o.ID,
			Status:    StatusPending,
			Note:      note,
			ActorID:   in.UserID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// reserveVehicle 在事务内把请求解析成一台 reserved 状态的具体车辆。
// 在库分支依赖 ReserveVehicle 的原子 CAS，两个并发请求抢同一辆车时只有一个成功；
// 按单分支生成的占位车直接以 reserved 落库（它从未作为可售库存存在过）。
func (s *Service) reserveVehicle(ctx context.Context, tx Store, in CreateOrderInput) (*inventory.Vehicle, string, error) {
	if in.VehicleID != "" {
		v, err := tx.VehicleByID(ctx, in.VehicleID)
		if err != nil {
			return nil, "", err
		}
		if v == nil {
			return nil, "", fmt.Errorf("%w: %s", ErrVehicleUnavailable, in.VehicleID)
		}
		ok, err := tx.ReserveVehicle(ctx, v.ID)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrVehicleUnavailable, v.ID)
		}
		v.Status = inventory.StatusReserved
		return v, noteFromStock, nil
	}

	model, err := tx.ModelByID(ctx, in.ModelID)
	if err != nil {
		return nil, "", err
	}
	if model == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrModelNotFound, in.ModelID)
	}

	var vinErr error
	vin, err := inventory.GenerateVIN(s.cfg.VINPrefix, s.cfg.VINMaxAttempts, func(candidate string) bool {
		exists, e := tx.VINExists(ctx, candidate)
		if e != nil {
			vinErr = e
			return false
		}
		return exists
	})
	if vinErr != nil {
		return nil, "", vinErr
	}
	if err != nil {
		return nil, "", err
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = s.cfg.DefaultColor
	}
	v := &inventory.Vehicle{
		ID:        uuid.NewString(),
		ModelID:   model.ID,
		Color:     color,
		VIN:       vin,
		Mileage:   0,
		Status:    inventory.StatusReserved,
		CreatedAt: s.now(),
	}
	if err := tx.CreateVehicle(ctx, v); err != nil {
		return nil, "", err
	}
	return v, noteBackorder, nil
}

// UpdateStatus 按状态机规则流转订单状态，并追加一条审计行。
// 事务内重读当前状态再校验，保证并发流转请求按序生效，不会基于过期状态各自成功。
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to Status, note, actorID string) (*Order, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("order_id required")
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	var updated *Order
	err := s.store.WithTransaction(ctx, func(tx Store) error {
		o, err := tx.OrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		if !CanTransition(o.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
		}

		o.Status = to
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}
		if strings.TrimSpace(note) == "" {
			note = noteStatusChange
		}
		if err := tx.AppendHistory(ctx, &StatusHistory{
			OrderID:   o.ID,
			Status:    to,
			Note:      note,
			ActorID:   actorID,
			CreatedAt: s.now(),
		}); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOrder 硬删订单及其选装行与审计行。
// 只应作用于已取消（cancelled）订单的终态清理；引擎不在此强制，
// 调用方需要自行把关。
func (s *Service) DeleteOrder(ctx context.Context, orderID string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return fmt.Errorf("order_id required")
	}
	return s.store.WithTransaction(ctx, func(tx Store) error {
		existed, err := tx.DeleteOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !existed {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil
	})
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	o, err := s.store.OrderByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return o, nil
}

// History 返回订单的完整审计轨迹（按时间正序，第一条是创建）。
func (s *Service) History(ctx context.Context, orderID string) ([]StatusHistory, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	orderID = strings.TrimSpace(orderID)
	o, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return s.store.HistoryByOrder(ctx, orderID)
}

func (s *Service) ListOrders(ctx context.Context, f ListOrdersFilter) ([]Order, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.store.ListOrders(ctx, strings.TrimSpace(f.UserID), f.Status, f.Offset, f.Limit)
}
