package inventory

import (
	"fmt"
	"math/rand"
)

const (
	// vinSuffixSpace 六位数字后缀空间。对有限库存规模足够，
	// 碰撞重试达到上限视为配置错误而不是无限自旋。
	vinSuffixSpace    = 1_000_000
	defaultVINRetries = 100
)

// ErrVINExhausted 连续生成均与既有库存冲突，视为致命配置问题。
var ErrVINExhausted = fmt.Errorf("vin space exhausted after retries")

// GenerateVIN 生成不与现有库存冲突的 VIN：固定前缀 + 六位随机后缀。
// exists 由调用方提供（通常查 vehicles 表的唯一索引），本函数自身无副作用。
func GenerateVIN(prefix string, maxAttempts int, exists func(string) bool) (string, error) {
	if prefix == "" {
		prefix = "ADH"
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultVINRetries
	}
	for i := 0; i < maxAttempts; i++ {
		vin := fmt.Sprintf("%s%06d", prefix, rand.Intn(vinSuffixSpace))
		if exists == nil || !exists(vin) {
			return vin, nil
		}
	}
	return "", ErrVINExhausted
}
