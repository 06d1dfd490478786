package util

import (
	"math"
	"strconv"
)

// ParseLimit 解析分页数量，非法或越界时返回默认值，超过上限时截断
func ParseLimit(s string, def, max int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// Percent 计算百分比并保留一位小数
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}
