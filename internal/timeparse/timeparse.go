package timeparse

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay 是分钟序数的开区间上界
const MinutesPerDay = 24 * 60

// Parse 把 12 小时制的时间字符串（"9am"、"2:30pm"）解析成当天的分钟序数
// 省略分钟的写法等价于整点，大小写和首尾空白不敏感
// "N/A" 以及一切不符合格式的输入一律报错，这里是哨兵字符串能流入的最后一道边界
func Parse(s string) (int, error) {
	t := strings.ToLower(strings.TrimSpace(s))

	var pm bool
	switch {
	case strings.HasSuffix(t, "am"):
		t = strings.TrimSuffix(t, "am")
	case strings.HasSuffix(t, "pm"):
		t = strings.TrimSuffix(t, "pm")
		pm = true
	default:
		return 0, fmt.Errorf("时间 %q 缺少 am/pm 后缀", s)
	}
	t = strings.TrimSpace(t)

	hourPart, minutePart, hasMinute := strings.Cut(t, ":")

	if !isDigits(hourPart) {
		return 0, fmt.Errorf("时间 %q 的小时部分非法", s)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("时间 %q 的小时部分非法", s)
	}

	minute := 0
	if hasMinute {
		if len(minutePart) != 2 || !isDigits(minutePart) {
			return 0, fmt.Errorf("时间 %q 的分钟部分必须是两位数字", s)
		}
		minute, err = strconv.Atoi(minutePart)
		if err != nil || minute > 59 {
			return 0, fmt.Errorf("时间 %q 的分钟部分非法", s)
		}
	}

	// 12am 是 0 点，12pm 是 12 点
	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}

	return hour*60 + minute, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
