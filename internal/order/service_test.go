package order

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/AutoDealHub/AutoDealHub/internal/catalog"
	"github.com/AutoDealHub/AutoDealHub/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEnv 预置一套小目录 + 一辆在库车：
// 品牌 Volta，车型 m1（基础价 1000）/ m2（基础价 900），
// 配置 c1（m1 加价 200）/ c2（m2 加价 0），选装 o1=50 o2=30，在库车 v1（m1）。
func newTestEnv() (*memStore, *Service) {
	st := newMemStore()
	st.d.brands["b1"] = catalog.Brand{ID: "b1", Name: "Volta"}
	st.d.models["m1"] = catalog.Model{ID: "m1", BrandID: "b1", Name: "GT", BasePrice: dec("1000"), Active: true}
	st.d.models["m2"] = catalog.Model{ID: "m2", BrandID: "b1", Name: "City", BasePrice: dec("900"), Active: true}
	st.d.configs["c1"] = catalog.Configuration{ID: "c1", ModelID: "m1", Name: "Sport", AdditionalPrice: dec("200")}
	st.d.configs["c2"] = catalog.Configuration{ID: "c2", ModelID: "m2", Name: "Base", AdditionalPrice: dec("0")}
	st.d.options["o1"] = catalog.AdditionalOption{ID: "o1", Name: "Tow hook", Price: dec("50")}
	st.d.options["o2"] = catalog.AdditionalOption{ID: "o2", Name: "Roof rack", Price: dec("30")}
	st.d.vehicles["v1"] = inventory.Vehicle{
		ID: "v1", ModelID: "m1", Color: "red", VIN: "STOCK000001",
		Status: inventory.StatusAvailable,
	}
	svc := NewService(st, Config{VINPrefix: "TST"})
	return st, svc
}

func TestCreateOrderFromStock(t *testing.T) {
	st, svc := newTestEnv()
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID:          "u1",
		VehicleID:       "v1",
		ConfigurationID: "c1",
		OptionIDs:       []string{"o1", "o2"},
	})
	require.NoError(t, err)
	require.NotNil(t, o)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "v1", o.VehicleID)
	assert.True(t, o.TotalPrice.Equal(dec("1280")), "total = 1000 + 200 + 50 + 30, got %s", o.TotalPrice)

	// 车辆被锁定
	assert.Equal(t, inventory.StatusReserved, st.d.vehicles["v1"].Status)

	// 两行选装快照
	require.Len(t, st.d.orderOptions, 2)
	assert.True(t, st.d.orderOptions[0].Price.Equal(dec("50")))
	assert.True(t, st.d.orderOptions[1].Price.Equal(dec("30")))

	// 首条审计行：pending + 在库备注
	hist, err := svc.History(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, StatusPending, hist[0].Status)
	assert.Equal(t, noteFromStock, hist[0].Note)
}

func TestCreateOrderBackorder(t *testing.T) {
	st, svc := newTestEnv()
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID:          "u1",
		ModelID:         "m2",
		ConfigurationID: "c2",
	})
	require.NoError(t, err)
	assert.True(t, o.TotalPrice.Equal(dec("900")), "got %s", o.TotalPrice)

	// 生成了一辆占位车：直接 reserved，里程 0，VIN 带前缀且不与库存撞
	v := st.d.vehicles[o.VehicleID]
	assert.Equal(t, inventory.StatusReserved, v.Status)
	assert.Equal(t, 0, v.Mileage)
	assert.Equal(t, "black", v.Color) // 未指定颜色时用基础色
	assert.True(t, strings.HasPrefix(v.VIN, "TST"), "vin %s", v.VIN)
	assert.NotEqual(t, "STOCK000001", v.VIN)

	hist, err := svc.History(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, noteBackorder, hist[0].Note)
}

func TestCreateOrderUnknownOptionsDropped(t *testing.T) {
	_, svc := newTestEnv()

	// 陈旧的选装 id 不报错，也不计价
	o, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID:          "u1",
		VehicleID:       "v1",
		ConfigurationID: "c1",
		OptionIDs:       []string{"o1", "gone-1", "gone-2"},
	})
	require.NoError(t, err)
	assert.True(t, o.TotalPrice.Equal(dec("1250")), "got %s", o.TotalPrice)
}

func TestCreateOrderVehicleUnavailable(t *testing.T) {
	st, svc := newTestEnv()
	ctx := context.Background()

	v := st.d.vehicles["v1"]
	v.Status = inventory.StatusReserved
	st.d.vehicles["v1"] = v

	_, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID: "u1", VehicleID: "v1", ConfigurationID: "c1",
	})
	require.ErrorIs(t, err, ErrVehicleUnavailable)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		UserID: "u1", VehicleID: "no-such-vehicle", ConfigurationID: "c1",
	})
	require.ErrorIs(t, err, ErrVehicleUnavailable)
}

func TestCreateOrderModelNotFound(t *testing.T) {
	st, svc := newTestEnv()

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: "u1", ModelID: "no-such-model", ConfigurationID: "c2",
	})
	require.ErrorIs(t, err, ErrModelNotFound)
	// 失败的按单下单不残留占位车
	assert.Len(t, st.d.vehicles, 1)
}

func TestCreateOrderRollsBackReservation(t *testing.T) {
	st, svc := newTestEnv()

	// 配置不存在：整个事务回滚，v1 必须还是 available
	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: "u1", VehicleID: "v1", ConfigurationID: "no-such-config",
	})
	require.ErrorIs(t, err, ErrConfigurationNotFound)

	assert.Equal(t, inventory.StatusAvailable, st.d.vehicles["v1"].Status)
	assert.Empty(t, st.d.orders)
	assert.Empty(t, st.d.history)
}

func TestCreateOrderConfigurationModelMismatch(t *testing.T) {
	st, svc := newTestEnv()

	// c2 属于 m2，配到 m1 的在库车上视同配置不存在
	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: "u1", VehicleID: "v1", ConfigurationID: "c2",
	})
	require.ErrorIs(t, err, ErrConfigurationNotFound)
	assert.Equal(t, inventory.StatusAvailable, st.d.vehicles["v1"].Status)
}

func TestConcurrentReservationSingleWinner(t *testing.T) {
	st, svc := newTestEnv()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(ctx, CreateOrderInput{
				UserID: "u1", VehicleID: "v1", ConfigurationID: "c1",
			})
		}(i)
	}
	wg.Wait()

	// 同一辆在库车只能被一个请求抢到
	var okCount, unavailCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		default:
			require.ErrorIs(t, err, ErrVehicleUnavailable)
			unavailCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, unavailCount)
	assert.Equal(t, inventory.StatusReserved, st.d.vehicles["v1"].Status)
	assert.Len(t, st.d.orders, 1)
}

func TestUpdateStatusFlowAndAudit(t *testing.T) {
	_, svc := newTestEnv()
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID: "u1", VehicleID: "v1", ConfigurationID: "c1",
	})
	require.NoError(t, err)

	for _, next := range []Status{StatusConfirmed, StatusInProduction, StatusCompleted} {
		updated, err := svc.UpdateStatus(ctx, o.ID, next, "", "staff-1")
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// 创建 + 3 次流转 = 4 行审计，按时间顺序逐级推进
	hist, err := svc.History(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, hist, 4)
	want := []Status{StatusPending, StatusConfirmed, StatusInProduction, StatusCompleted}
	for i, h := range hist {
		assert.Equal(t, want[i], h.Status)
		assert.False(t, hist[i].CreatedAt.Before(hist[0].CreatedAt))
	}
	// 未给备注时写默认备注
	assert.Equal(t, noteStatusChange, hist[1].Note)

	// 终态不再接受任何流转，审计不增长
	_, err = svc.UpdateStatus(ctx, o.ID, StatusCancelled, "", "staff-1")
	require.ErrorIs(t, err, ErrInvalidTransition)
	hist, err = svc.History(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 4)
}

func TestUpdateStatusRejectsSkipsAndBackwards(t *testing.T) {
	_, svc := newTestEnv()
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID: "u1", VehicleID: "v1", ConfigurationID: "c1",
	})
	require.NoError(t, err)

	// pending 不能跳到 in_production / completed
	_, err = svc.UpdateStatus(ctx, o.ID, StatusInProduction, "", "")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.UpdateStatus(ctx, o.ID, StatusCompleted, "", "")
	require.ErrorIs(t, err, ErrInvalidTransition)

	// confirmed 之后不能回到 pending
	_, err = svc.UpdateStatus(ctx, o.ID, StatusConfirmed, "", "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, o.ID, StatusPending, "", "")
	require.ErrorIs(t, err, ErrInvalidTransition)

	// 集合之外的值在边界处就被拒绝
	_, err = svc.UpdateStatus(ctx, o.ID, Status("shipped"), "", "")
	require.ErrorIs(t, err, ErrInvalidTransition)

	got, err := svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	_, svc := newTestEnv()
	_, err := svc.UpdateStatus(context.Background(), "missing", StatusConfirmed, "", "")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrderCascades(t *testing.T) {
	st, svc := newTestEnv()
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID: "u1", VehicleID: "v1", ConfigurationID: "c1", OptionIDs: []string{"o1"},
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, o.ID, StatusCancelled, "customer backed out", "staff-1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, o.ID))
	assert.Empty(t, st.d.orders)
	assert.Empty(t, st.d.orderOptions)
	assert.Empty(t, st.d.history)

	require.ErrorIs(t, svc.DeleteOrder(ctx, o.ID), ErrOrderNotFound)
}

func TestListOrdersFilter(t *testing.T) {
	_, svc := newTestEnv()
	ctx := context.Background()

	o1, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: "u1", VehicleID: "v1", ConfigurationID: "c1"})
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, CreateOrderInput{UserID: "u2", ModelID: "m2", ConfigurationID: "c2"})
	require.NoError(t, err)

	orders, total, err := svc.ListOrders(ctx, ListOrdersFilter{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, o1.ID, orders[0].ID)

	orders, total, err = svc.ListOrders(ctx, ListOrdersFilter{Status: StatusPending, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)
}
