package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AutoDealHub/AutoDealHub/internal/catalog"
	"github.com/AutoDealHub/AutoDealHub/internal/inventory"
)

// memStore 测试用的内存 TxStore 实现。
// WithTransaction 用互斥锁串行化事务，进事务前做快照，出错时整体还原，
// 行为上等价于数据库的提交/回滚，便于验证原子性与并发占用。
type memStore struct {
	mu sync.Mutex
	d  *memData
}

type memData struct {
	brands       map[string]catalog.Brand
	models       map[string]catalog.Model
	configs      map[string]catalog.Configuration
	options      map[string]catalog.AdditionalOption
	vehicles     map[string]inventory.Vehicle
	orders       map[string]Order
	orderOptions []OrderOption
	history      []StatusHistory
}

func newMemStore() *memStore {
	return &memStore{d: &memData{
		brands:   map[string]catalog.Brand{},
		models:   map[string]catalog.Model{},
		configs:  map[string]catalog.Configuration{},
		options:  map[string]catalog.AdditionalOption{},
		vehicles: map[string]inventory.Vehicle{},
		orders:   map[string]Order{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		brands:       make(map[string]catalog.Brand, len(d.brands)),
		models:       make(map[string]catalog.Model, len(d.models)),
		configs:      make(map[string]catalog.Configuration, len(d.configs)),
		options:      make(map[string]catalog.AdditionalOption, len(d.options)),
		vehicles:     make(map[string]inventory.Vehicle, len(d.vehicles)),
		orders:       make(map[string]Order, len(d.orders)),
		orderOptions: append([]OrderOption(nil), d.orderOptions...),
		history:      append([]StatusHistory(nil), d.history...),
	}
	for k, v := range d.brands {
		c.brands[k] = v
	}
	for k, v := range d.models {
		c.models[k] = v
	}
	for k, v := range d.configs {
		c.configs[k] = v
	}
	for k, v := range d.options {
		c.options[k] = v
	}
	for k, v := range d.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	return c
}

var _ TxStore = (*memStore)(nil)

func (s *memStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.d.clone()
	if err := fn(&memTx{d: s.d}); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// 非事务调用同样走 memTx，只是先拿锁。
func (s *memStore) tx() *memTx { return &memTx{d: s.d} }

func (s *memStore) VehicleByID(ctx context.Context, id string) (*inventory.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().VehicleByID(ctx, id)
}

func (s *memStore) ReserveVehicle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().ReserveVehicle(ctx, id)
}

func (s *memStore) CreateVehicle(ctx context.Context, v *inventory.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().CreateVehicle(ctx, v)
}

func (s *memStore) VINExists(ctx context.Context, vin string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().VINExists(ctx, vin)
}

func (s *memStore) ModelByID(ctx context.Context, id string) (*catalog.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().ModelByID(ctx, id)
}

func (s *memStore) ConfigurationByID(ctx context.Context, id string) (*catalog.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().ConfigurationByID(ctx, id)
}

func (s *memStore) OptionsByIDs(ctx context.Context, ids []string) ([]catalog.AdditionalOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().OptionsByIDs(ctx, ids)
}

func (s *memStore) CreateOrder(ctx context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().CreateOrder(ctx, o)
}

func (s *memStore) OrderByID(ctx context.Context, id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().OrderByID(ctx, id)
}

func (s *memStore) SaveOrder(ctx context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().SaveOrder(ctx, o)
}

func (s *memStore) AddOrderOptions(ctx context.Context, opts []OrderOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().AddOrderOptions(ctx, opts)
}

func (s *memStore) AppendHistory(ctx context.Context, h *StatusHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().AppendHistory(ctx, h)
}

func (s *memStore) HistoryByOrder(ctx context.Context, orderID string) ([]StatusHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().HistoryByOrder(ctx, orderID)
}

func (s *memStore) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().DeleteOrder(ctx, orderID)
}

func (s *memStore) ListOrders(ctx context.Context, userID string, status Status, offset, limit int) ([]Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().ListOrders(ctx, userID, status, offset, limit)
}

func (s *memStore) SalesSummary(ctx context.Context, from, to time.Time, brandID string) ([]SalesRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx().SalesSummary(ctx, from, to, brandID)
}

// memTx 事务内视图，调用方保证已串行化。
type memTx struct {
	d *memData
}

var _ Store = (*memTx)(nil)

func (t *memTx) VehicleByID(_ context.Context, id string) (*inventory.Vehicle, error) {
	if v, ok := t.d.vehicles[id]; ok {
		cp := v
		return &cp, nil
	}
	return nil, nil
}

func (t *memTx) ReserveVehicle(_ context.Context, id string) (bool, error) {
	v, ok := t.d.vehicles[id]
	if !ok || v.Status != inventory.StatusAvailable {
		return false, nil
	}
	v.Status = inventory.StatusReserved
	t.d.vehicles[id] = v
	return true, nil
}

func (t *memTx) CreateVehicle(_ context.Context, v *inventory.Vehicle) error {
	t.d.vehicles[v.ID] = *v
	return nil
}

func (t *memTx) VINExists(_ context.Context, vin string) (bool, error) {
	for _, v := range t.d.vehicles {
		if v.VIN == vin {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) ModelByID(_ context.Context, id string) (*catalog.Model, error) {
	if m, ok := t.d.models[id]; ok {
		cp := m
		return &cp, nil
	}
	return nil, nil
}

func (t *memTx) ConfigurationByID(_ context.Context, id string) (*catalog.Configuration, error) {
	if c, ok := t.d.configs[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (t *memTx) OptionsByIDs(_ context.Context, ids []string) ([]catalog.AdditionalOption, error) {
	var out []catalog.AdditionalOption
	for _, id := range ids {
		if o, ok := t.d.options[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (t *memTx) CreateOrder(_ context.Context, o *Order) error {
	t.d.orders[o.ID] = *o
	return nil
}

func (t *memTx) OrderByID(_ context.Context, id string) (*Order, error) {
	if o, ok := t.d.orders[id]; ok {
		cp := o
		return &cp, nil
	}
	return nil, nil
}

func (t *memTx) SaveOrder(_ context.Context, o *Order) error {
	t.d.orders[o.ID] = *o
	return nil
}

func (t *memTx) AddOrderOptions(_ context.Context, opts []OrderOption) error {
	t.d.orderOptions = append(t.d.orderOptions, opts...)
	return nil
}

func (t *memTx) AppendHistory(_ context.Context, h *StatusHistory) error {
	t.d.history = append(t.d.history, *h)
	return nil
}

func (t *memTx) HistoryByOrder(_ context.Context, orderID string) ([]StatusHistory, error) {
	var out []StatusHistory
	for _, h := range t.d.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (t *memTx) DeleteOrder(_ context.Context, orderID string) (bool, error) {
	if _, ok := t.d.orders[orderID]; !ok {
		return false, nil
	}
	delete(t.d.orders, orderID)

	opts := t.d.orderOptions[:0]
	for _, o := range t.d.orderOptions {
		if o.OrderID != orderID {
			opts = append(opts, o)
		}
	}
	t.d.orderOptions = opts

	hist := t.d.history[:0]
	for _, h := range t.d.history {
		if h.OrderID != orderID {
			hist = append(hist, h)
		}
	}
	t.d.history = hist
	return true, nil
}

func (t *memTx) ListOrders(_ context.Context, userID string, status Status, offset, limit int) ([]Order, int64, error) {
	var all []Order
	for _, o := range t.d.orders {
		if userID != "" && o.UserID != userID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OrderDate.After(all[j].OrderDate) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (t *memTx) SalesSummary(_ context.Context, from, to time.Time, brandID string) ([]SalesRow, error) {
	type key struct{ brand, model string }
	groups := map[key]*SalesRow{}
	var seq []key

	for _, o := range t.d.orders {
		if o.Status != StatusCompleted {
			continue
		}
		if o.OrderDate.Before(from) || o.OrderDate.After(to) {
			continue
		}
		v, ok := t.d.vehicles[o.VehicleID]
		if !ok {
			continue
		}
		m, ok := t.d.models[v.ModelID]
		if !ok {
			continue
		}
		if brandID != "" && m.BrandID != brandID {
			continue
		}
		b := t.d.brands[m.BrandID]

		k := key{brand: b.Name, model: m.Name}
		row, ok := groups[k]
		if !ok {
			row = &SalesRow{Brand: b.Name, Model: m.Name}
			groups[k] = row
			seq = append(seq, k)
		}
		row.OrderCount++
		row.TotalRevenue = row.TotalRevenue.Add(o.TotalPrice)
	}

	out := make([]SalesRow, 0, len(seq))
	for _, k := range seq {
		out = append(out, *groups[k])
	}
	return out, nil
}
