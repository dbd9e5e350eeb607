package compliance

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFrequency 在频率取值不在封闭枚举内时返回，属于配置错误而非用户输入错误
	ErrInvalidFrequency = errors.New("invalid protocol frequency")
	// ErrInvalidTargetCount 在目标完成次数小于 1 时返回
	ErrInvalidTargetCount = errors.New("protocol target count must be at least 1")
	// ErrInvalidShiftHour 在班次切换小时超出 0-23 时返回
	ErrInvalidShiftHour = errors.New("shift boundary hour out of range")
)

// Frequency 表示检查协议的周期类型
// SHIFT_START/SHIFT_END 共享按班次日切分的窗口，仅展示语义不同
type Frequency string

const (
	FrequencyDaily      Frequency = "DAILY"
	FrequencyWeekly     Frequency = "WEEKLY"
	FrequencyMonthly    Frequency = "MONTHLY"
	FrequencyShiftStart Frequency = "SHIFT_START"
	FrequencyShiftEnd   Frequency = "SHIFT_END"
)

// ParseFrequency 将外部字符串解析为 Frequency。
// 未识别的取值视为上游不变量被破坏，直接报错，绝不静默回退。
func ParseFrequency(raw string) (Frequency, error) {
	switch freq := Frequency(strings.ToUpper(strings.TrimSpace(raw))); freq {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyShiftStart, FrequencyShiftEnd:
		return freq, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, raw)
	}
}
