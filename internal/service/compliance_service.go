package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/safetylog/internal/compliance"
	"github.com/safetylog/internal/db"
	"gorm.io/gorm"
)

// ComplianceService 将存储读取与纯评估逻辑组合成只读模型。
// 状态不落库，每次请求基于日志重新计算。
type ComplianceService struct {
	db        *gorm.DB
	evaluator compliance.Evaluator
}

// NewComplianceService 构造 ComplianceService
func NewComplianceService(gdb *gorm.DB, evaluator compliance.Evaluator) *ComplianceService {
	return &ComplianceService{db: gdb, evaluator: evaluator}
}

// Status 计算单个协议在 reference 时刻的合规状态
func (s *ComplianceService) Status(protocolID uint, reference time.Time) (*compliance.Evaluation, error) {
	var protocol db.Protocol
	if err := s.db.First(&protocol, protocolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProtocolNotFound
		}
		return nil, fmt.Errorf("load protocol: %w", err)
	}

	view, since, err := s.protocolView(protocol, reference)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionsSince(protocol.ID, since)
	if err != nil {
		return nil, err
	}

	eval, err := s.evaluator.Evaluate(view, completions, reference)
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

// Summary 对全部协议产出 reference 时刻的合规汇总
func (s *ComplianceService) Summary(reference time.Time) (*compliance.Summary, error) {
	var protocols []db.Protocol
	if err := s.db.Find(&protocols).Error; err != nil {
		return nil, fmt.Errorf("load protocols: %w", err)
	}

	views := make(map[uint]compliance.Protocol, len(protocols))
	logs := make(map[uint][]time.Time, len(protocols))

	for _, protocol := range protocols {
		view, since, err := s.protocolView(protocol, reference)
		if err != nil {
			return nil, err
		}

		completions, err := s.completionsSince(protocol.ID, since)
		if err != nil {
			return nil, err
		}

		views[protocol.ID] = view
		logs[protocol.ID] = completions
	}

	summary, err := s.evaluator.Summarize(views, logs, reference)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// protocolView 把存储模型转成评估器视图，并给出日志加载下界。
// 评估只看当前与上一窗口，因此只需加载上一窗口起点之后的日志，
// 扫描成本与历史总量无关。
func (s *ComplianceService) protocolView(protocol db.Protocol, reference time.Time) (compliance.Protocol, time.Time, error) {
	freq, err := compliance.ParseFrequency(protocol.Frequency)
	if err != nil {
		// 库里出现未知频率意味着上游不变量被破坏，按数据完整性故障上抛
		return compliance.Protocol{}, time.Time{}, fmt.Errorf("protocol %d: %w", protocol.ID, err)
	}

	current, err := s.evaluator.Calc.WindowFor(freq, reference)
	if err != nil {
		return compliance.Protocol{}, time.Time{}, fmt.Errorf("protocol %d: %w", protocol.ID, err)
	}
	previous, err := s.evaluator.Calc.Previous(freq, current)
	if err != nil {
		return compliance.Protocol{}, time.Time{}, fmt.Errorf("protocol %d: %w", protocol.ID, err)
	}

	view := compliance.Protocol{
		Frequency:   freq,
		TargetCount: protocol.TargetCount,
		Active:      protocol.Active,
		CreatedAt:   protocol.CreatedAt,
	}
	return view, previous.Start, nil
}

func (s *ComplianceService) completionsSince(protocolID uint, since time.Time) ([]time.Time, error) {
	var completions []time.Time
	if err := s.db.Model(&db.ComplianceLog{}).
		Where("protocol_id = ? AND completion_date >= ?", protocolID, since).
		Order("completion_date ASC").
		Pluck("completion_date", &completions).Error; err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	return completions, nil
}
