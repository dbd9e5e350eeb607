package compliance

import (
	"fmt"
	"time"
)

// RejectReason 标识打卡记录被拒绝的原因码，HTTP 层据此返回 400
type RejectReason string

const (
	RejectFutureDate RejectReason = "FUTURE_DATE"
	RejectTooOld     RejectReason = "TOO_OLD"
)

// Rejection 是携带原因码的校验错误
type Rejection struct {
	Reason RejectReason
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("completion date rejected: %s", r.Reason)
}

// Validator 在打卡记录落库前校验完成时间。
// 纯门禁、无副作用，持久化由外部存储层完成。
type Validator struct {
	SkewTolerance time.Duration // 允许的时钟偏移量，默认 0
	MaxBackfill   time.Duration // 允许的最大补录跨度，0 表示不限制
}

// Validate 校验 completion 相对 now 的合法性。
// completion 恰好等于 now 视为合法（边界含）；超出偏移容忍的未来时间拒绝。
func (v Validator) Validate(completion, now time.Time) error {
	if completion.After(now.Add(v.SkewTolerance)) {
		return &Rejection{Reason: RejectFutureDate}
	}
	if v.MaxBackfill > 0 && completion.Before(now.Add(-v.MaxBackfill)) {
		return &Rejection{Reason: RejectTooOld}
	}
	return nil
}
