package inventory

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repo 库存管理侧的车辆访问（列表、查询、运营改状态）。
// 下单路径上的“查+占用”必须在订单事务内完成，走 order.Store，不经过这里。
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// List 支持按车型/状态过滤 + 分页。
func (r *Repo) List(ctx context.Context, modelID string, status Status, offset, limit int) ([]Vehicle, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := db.Model(&Vehicle{})
	if modelID != "" {
		q = q.Where("model_id = ?", modelID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vehicles []Vehicle
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// MarkSold 运营侧把已锁定车辆置为已售（交付完成）。
// 这是订单状态机之外的管理操作，只允许 reserved -> sold。
func (r *Repo) MarkSold(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	res := db.Model(&Vehicle{}).
		Where("id = ? AND status = ?", id, StatusReserved).
		Update("status", StatusSold)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vehicle %s is not reserved", id)
	}
	return nil
}
