// Package store 提供 order.TxStore 的 MySQL/GORM 实现。
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AutoDealHub/AutoDealHub/internal/catalog"
	"github.com/AutoDealHub/AutoDealHub/internal/inventory"
	"github.com/AutoDealHub/AutoDealHub/internal/order"
	"gorm.io/gorm"
)

type Gorm struct {
	db *gorm.DB
}

var _ order.TxStore = (*Gorm)(nil)

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) withCtx(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// WithTransaction 把 fn 内的全部读写放进同一个数据库事务。
// fn 返回错误（或 panic）时 GORM 回滚，包括事务内已执行的车辆占用。
func (s *Gorm) WithTransaction(ctx context.Context, fn func(tx order.Store) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store db is nil")
	}
	return s.withCtx(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func (s *Gorm) VehicleByID(ctx context.Context, id string) (*inventory.Vehicle, error) {
	var v inventory.Vehicle
	err := s.withCtx(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ReserveVehicle 用条件 UPDATE 做 available -> reserved 的原子 CAS。
// RowsAffected == 0 表示车辆不存在或已被别的事务抢走。
func (s *Gorm) ReserveVehicle(ctx context.Context, id string) (bool, error) {
	res := s.withCtx(ctx).Model(&inventory.Vehicle{}).
		Where("id = ? AND status = ?", id, inventory.StatusAvailable).
		Update("status", inventory.StatusReserved)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Gorm) CreateVehicle(ctx context.Context, v *inventory.Vehicle) error {
	return s.withCtx(ctx).Create(v).Error
}

func (s *Gorm) VINExists(ctx context.Context, vin string) (bool, error) {
	var count int64
	err := s.withCtx(ctx).Model(&inventory.Vehicle{}).Where("vin = ?", vin).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Gorm) ModelByID(ctx context.Context, id string) (*catalog.Model, error) {
	var m catalog.Model
	err := s.withCtx(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Gorm) ConfigurationByID(ctx context.Context, id string) (*catalog.Configuration, error) {
	var c catalog.Configuration
	err := s.withCtx(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Gorm) OptionsByIDs(ctx context.Context, ids []string) ([]catalog.AdditionalOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var opts []catalog.AdditionalOption
	if err := s.withCtx(ctx).Where("id IN ?", ids).Find(&opts).Error; err != nil {
		return nil, err
	}
	return opts, nil
}

func (s *Gorm) CreateOrder(ctx context.Context, o *order.Order) error {
	return s.withCtx(ctx).Create(o).Error
}

func (s *Gorm) OrderByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := s.withCtx(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Gorm) SaveOrder(ctx context.Context, o *order.Order) error {
	return s.withCtx(ctx).Save(o).Error
}

func (s *Gorm) AddOrderOptions(ctx context.Context, opts []order.OrderOption) error {
	if len(opts) == 0 {
		return nil
	}
	return s.withCtx(ctx).Create(&opts).Error
}

func (s *Gorm) AppendHistory(ctx context.Context, h *order.StatusHistory) error {
	return s.withCtx(ctx).Create(h).Error
}

func (s *Gorm) HistoryByOrder(ctx context.Context, orderID string) ([]order.StatusHistory, error) {
	var rows []order.StatusHistory
	err := s.withCtx(ctx).
		Where("order_id = ?", orderID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Gorm) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	db := s.withCtx(ctx)
	res := db.Where("id = ?", orderID).Delete(&order.Order{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := db.Where("order_id = ?", orderID).Delete(&order.OrderOption{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("order_id = ?", orderID).Delete(&order.StatusHistory{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (s *Gorm) ListOrders(ctx context.Context, userID string, status order.Status, offset, limit int) ([]order.Order, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := s.withCtx(ctx).Model(&order.Order{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []order.Order
	if err := q.Order("order_date DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// SalesSummary 已完成订单按（品牌, 车型）分组统计。均值由 Service 折算。
func (s *Gorm) SalesSummary(ctx context.Context, from, to time.Time, brandID string) ([]order.SalesRow, error) {
	sql := `SELECT b.name AS brand, m.name AS model,
	       COUNT(o.id) AS order_count, SUM(o.total_price) AS total_revenue
	FROM orders o
	JOIN vehicles v ON v.id = o.vehicle_id
	JOIN models m ON m.id = v.model_id
	JOIN brands b ON b.id = m.brand_id
	WHERE o.status = ? AND o.order_date BETWEEN ? AND ?`
	args := []any{order.StatusCompleted, from, to}
	if brandID != "" {
		sql += ` AND b.id = ?`
		args = append(args, brandID)
	}
	sql += ` GROUP BY b.name, m.name ORDER BY total_revenue DESC`

	var rows []order.SalesRow
	if err := s.withCtx(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
