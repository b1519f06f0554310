package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repo 提供目录数据的只读访问。
// 下单事务内的查询走 order.Store（同一事务视图），这里只服务目录查询接口。
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

func (r *Repo) ModelByID(ctx context.Context, id string) (*Model, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var m Model
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListModels 支持按品牌过滤，只返回在售车型。
func (r *Repo) ListModels(ctx context.Context, brandID string) ([]Model, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Model{}).Where("active = ?", true)
	if brandID != "" {
		q = q.Where("brand_id = ?", brandID)
	}
	var models []Model
	if err := q.Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *Repo) ConfigurationsByModel(ctx context.Context, modelID string) ([]Configuration, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var cfgs []Configuration
	if err := db.Where("model_id = ?", modelID).Order("additional_price").Find(&cfgs).Error; err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *Repo) ListOptions(ctx context.Context, category string) ([]AdditionalOption, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&AdditionalOption{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var opts []AdditionalOption
	if err := q.Order("name").Find(&opts).Error; err != nil {
		return nil, err
	}
	return opts, nil
}
