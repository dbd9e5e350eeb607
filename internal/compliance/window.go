package compliance

import (
	"fmt"
	"time"
)

// Window 表示左闭右开的统计窗口 [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains 判断时间点是否落在窗口内。
// 恰好等于 End 的时间点归属下一个窗口（右开边界）。
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Calculator 根据频率推导统计窗口。
// 纯函数：相同输入永远得到相同边界，不读取系统时钟。
type Calculator struct {
	Location          *time.Location // 窗口所在时区，为空时使用 time.Local
	WeekStart         time.Weekday   // 周窗口的起始日，零值回退到周一
	ShiftBoundaryHour int            // 班次日的切换小时（0-23）
}

func (c Calculator) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// WeekStartSunday 供需要周日起始周窗口的部署显式配置。
// time.Weekday 的零值恰好是周日，无法与“未配置”区分，因此用哨兵值表达。
const WeekStartSunday = time.Weekday(7)

func (c Calculator) weekStart() time.Weekday {
	switch c.WeekStart {
	case WeekStartSunday:
		return time.Sunday
	case time.Sunday:
		return time.Monday
	default:
		return c.WeekStart
	}
}

// WindowFor 计算 reference 所在的当前窗口。
// 支持任意历史时刻，便于审计时重推旧窗口。
func (c Calculator) WindowFor(freq Frequency, reference time.Time) (Window, error) {
	loc := c.location()
	ref := reference.In(loc)

	switch freq {
	case FrequencyDaily:
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 0, 1)}, nil

	case FrequencyWeekly:
		day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
		offset := (int(day.Weekday()) - int(c.weekStart()) + 7) % 7
		start := day.AddDate(0, 0, -offset)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}, nil

	case FrequencyMonthly:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}, nil

	case FrequencyShiftStart, FrequencyShiftEnd:
		if c.ShiftBoundaryHour < 0 || c.ShiftBoundaryHour > 23 {
			return Window{}, fmt.Errorf("%w: %d", ErrInvalidShiftHour, c.ShiftBoundaryHour)
		}
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), c.ShiftBoundaryHour, 0, 0, 0, loc)
		if ref.Before(start) {
			start = start.AddDate(0, 0, -1)
		}
		return Window{Start: start, End: start.AddDate(0, 0, 1)}, nil

	default:
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}
}

// Previous 返回紧邻 w 之前的那个窗口
func (c Calculator) Previous(freq Frequency, w Window) (Window, error) {
	return c.WindowFor(freq, w.Start.Add(-time.Nanosecond))
}

// Next 返回紧邻 w 之后的那个窗口
func (c Calculator) Next(freq Frequency, w Window) (Window, error) {
	return c.WindowFor(freq, w.End)
}
