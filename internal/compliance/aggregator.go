package compliance

import (
	"fmt"
	"time"
)

// Summary 汇总一组协议在同一时刻的合规评估结果
type Summary struct {
	States map[uint]Evaluation // protocolID -> 评估结果
	Rollup map[State]int       // 各状态的协议数量
}

// Summarize 对一组协议逐个评估并产出状态映射与数量汇总。
// 没有日志的协议按 0 次完成处理，不视为错误；停用协议计入 INACTIVE。
func (e Evaluator) Summarize(protocols map[uint]Protocol, logsByProtocol map[uint][]time.Time, reference time.Time) (Summary, error) {
	summary := Summary{
		States: make(map[uint]Evaluation, len(protocols)),
		Rollup: make(map[State]int),
	}

	for id, p := range protocols {
		eval, err := e.Evaluate(p, logsByProtocol[id], reference)
		if err != nil {
			return Summary{}, fmt.Errorf("summarize protocol %d: %w", id, err)
		}
		summary.States[id] = eval
		summary.Rollup[eval.State]++
	}

	return summary, nil
}
