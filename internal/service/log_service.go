package service

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/safetylog/internal/compliance"
	"github.com/safetylog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrLogNotFound 在指定打卡记录不存在时返回
	ErrLogNotFound = errors.New("compliance log not found")
	// ErrLogInvalidInput 在备注超长等字段非法时返回
	ErrLogInvalidInput = errors.New("invalid compliance log input")
)

// ComplianceLogService 负责打卡记录的写入与查询。
// 写入前经过 compliance.Validator 门禁，入库后记录不可变。
type ComplianceLogService struct {
	db        *gorm.DB
	validator compliance.Validator
}

// ComplianceLogInput 定义打卡时的输入对象
type ComplianceLogInput struct {
	ProtocolID     uint
	CompletionDate time.Time
	Note           string
	Source         string
}

// ComplianceLogFilter 指定查询区间，区间为左闭右开 [Start, End)
type ComplianceLogFilter struct {
	ProtocolID uint
	Start      time.Time
	End        time.Time
}

// NewComplianceLogService 构造 ComplianceLogService
func NewComplianceLogService(gdb *gorm.DB, validator compliance.Validator) *ComplianceLogService {
	return &ComplianceLogService{db: gdb, validator: validator}
}

// Append 校验通过后追加一条打卡记录。
// now 由调用方显式传入，便于测试与历史重放；校验失败时返回 compliance.Rejection。
func (s *ComplianceLogService) Append(input ComplianceLogInput, now time.Time) (*db.ComplianceLog, error) {
	if utf8.RuneCountInString(input.Note) > 500 {
		return nil, fmt.Errorf("%w: note must be at most 500 characters", ErrLogInvalidInput)
	}

	var count int64
	if err := s.db.Model(&db.Protocol{}).Where("id = ?", input.ProtocolID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check protocol: %w", err)
	}
	if count == 0 {
		return nil, ErrProtocolNotFound
	}

	if err := s.validator.Validate(input.CompletionDate, now); err != nil {
		return nil, err
	}

	record := db.ComplianceLog{
		UID:            uuid.NewString(),
		ProtocolID:     input.ProtocolID,
		CompletionDate: input.CompletionDate,
		Note:           input.Note,
		Source:         input.Source,
	}

	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("append compliance log: %w", err)
	}
	return &record, nil
}

// ListForProtocol 返回协议的全部打卡记录，按完成时间升序
func (s *ComplianceLogService) ListForProtocol(protocolID uint) ([]db.ComplianceLog, error) {
	var logs []db.ComplianceLog
	if err := s.db.Where("protocol_id = ?", protocolID).
		Order("completion_date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list compliance logs: %w", err)
	}
	return logs, nil
}

// ListBetween 返回区间内的打卡记录，区间与评估窗口一致取左闭右开
func (s *ComplianceLogService) ListBetween(filter ComplianceLogFilter) ([]db.ComplianceLog, error) {
	if filter.ProtocolID == 0 {
		return nil, fmt.Errorf("%w: protocol id is required", ErrLogInvalidInput)
	}
	if filter.End.Before(filter.Start) {
		return nil, fmt.Errorf("%w: end before start", ErrLogInvalidInput)
	}

	var logs []db.ComplianceLog
	if err := s.db.Where("protocol_id = ?", filter.ProtocolID).
		Where("completion_date >= ? AND completion_date < ?", filter.Start, filter.End).
		Order("completion_date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list compliance logs: %w", err)
	}
	return logs, nil
}

// Delete 删除指定打卡记录。
// 删除是存储层的运维能力，核心评估始终把日志视为只追加。
func (s *ComplianceLogService) Delete(id uint) error {
	result := s.db.Delete(&db.ComplianceLog{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete compliance log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLogNotFound
	}
	return nil
}
