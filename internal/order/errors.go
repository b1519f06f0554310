package order

import "errors"

// 引擎的错误分类。调用方用 errors.Is 判断，而不是匹配错误文本；
// 不在此列的错误一律视为存储层故障，整个操作已回滚，可安全重试。
var (
	// ErrVehicleUnavailable 指定车辆不存在或已不处于可售状态。
	ErrVehicleUnavailable = errors.New("vehicle unavailable")
	// ErrModelNotFound 车型不存在。
	ErrModelNotFound = errors.New("model not found")
	// ErrConfigurationNotFound 配置不存在，或不属于所订车辆的车型。
	ErrConfigurationNotFound = errors.New("configuration not found")
	// ErrOrderNotFound 订单不存在。
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition 目标状态从当前状态不可达。
	ErrInvalidTransition = errors.New("invalid status transition")
)
