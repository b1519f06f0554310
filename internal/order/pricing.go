package order

import "github.com/shopspring/decimal"

// ComputeTotal 计算订单总价：车型基础价 + 配置加价 + 各选装件单价之和。
// 金额用定点十进制累加，避免浮点在分位上漂移。纯函数，无副作用；
// 负数入参由调用方在边界处拦截，这里不再校验。
func ComputeTotal(basePrice, configurationSurcharge decimal.Decimal, optionPrices []decimal.Decimal) decimal.Decimal {
	total := basePrice.Add(configurationSurcharge)
	for _, p := range optionPrices {
		total = total.Add(p)
	}
	return total
}
