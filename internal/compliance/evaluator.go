package compliance

import (
	"fmt"
	"time"
)

// State 表示协议在某一时刻的合规状态
type State string

const (
	StateCompliant State = "COMPLIANT"
	StatePending   State = "PENDING"
	StateOverdue   State = "OVERDUE"
	StateNotYetDue State = "NOT_YET_DUE"
	StateInactive  State = "INACTIVE"
)

// Protocol 是评估器所需的最小协议视图，与存储模型解耦
type Protocol struct {
	Frequency   Frequency
	TargetCount int
	Active      bool
	CreatedAt   time.Time // 协议创建时刻，零值表示不限制
}

// Evaluation 是单个协议的只读评估结果
type Evaluation struct {
	State         State
	Window        Window // 评估时刻所在的当前窗口
	Count         int    // 当前窗口内的完成次数
	TargetCount   int
	PreviousCount int  // 上一窗口内的完成次数
	PreviousMet   bool // 上一窗口是否达标（或无义务）
}

// Evaluator 组合窗口计算与合规判定
type Evaluator struct {
	Calc Calculator
}

// Evaluate 根据协议定义与打卡历史计算 reference 时刻的合规状态。
// 状态永远从日志重新推导、不落库，同一快照重复评估结果恒等。
func (e Evaluator) Evaluate(p Protocol, completions []time.Time, reference time.Time) (Evaluation, error) {
	if p.TargetCount < 1 {
		return Evaluation{}, fmt.Errorf("%w: %d", ErrInvalidTargetCount, p.TargetCount)
	}

	current, err := e.Calc.WindowFor(p.Frequency, reference)
	if err != nil {
		return Evaluation{}, err
	}

	result := Evaluation{Window: current, TargetCount: p.TargetCount}

	if !p.Active {
		result.State = StateInactive
		return result, nil
	}

	if !p.CreatedAt.IsZero() && reference.Before(p.CreatedAt) {
		result.State = StateNotYetDue
		return result, nil
	}

	for _, ts := range completions {
		if current.Contains(ts) {
			result.Count++
		}
	}

	if result.Count >= p.TargetCount {
		result.State = StateCompliant
		return result, nil
	}

	previous, err := e.Calc.Previous(p.Frequency, current)
	if err != nil {
		return Evaluation{}, err
	}
	for _, ts := range completions {
		if previous.Contains(ts) {
			result.PreviousCount++
		}
	}

	// 协议在上一窗口关闭前已存在，才会对该窗口产生完成义务
	obligated := p.CreatedAt.IsZero() || p.CreatedAt.Before(previous.End)
	result.PreviousMet = !obligated || result.PreviousCount >= p.TargetCount

	// 上一窗口脱靶的逾期标记会一直携带，直到当前窗口出现新的完成记录
	if result.Count == 0 && !result.PreviousMet {
		result.State = StateOverdue
	} else {
		result.State = StatePending
	}

	return result, nil
}
