package order

// AllowTransition 订单状态机的允许流转关系（有向图配置）。
// 没有 pending -> in_production、confirmed -> completed 之类的跳跃：
// 订单必须逐级经过每个中间状态。
var AllowTransition = map[Status][]Status{
	StatusPending:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed:    {StatusInProduction, StatusCancelled},
	StatusInProduction: {StatusCompleted},
	// 终态：completed / cancelled 不再流转（cancelled 订单可被清理删除）
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition 判断 from -> to 是否允许。
// 原状态重复提交（from == to）不在流转表里，同样拒绝。
func CanTransition(from, to Status) bool {
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
