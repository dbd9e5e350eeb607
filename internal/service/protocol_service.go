package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/safetylog/internal/compliance"
	"github.com/safetylog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrProtocolNotFound 在指定协议不存在时返回
	ErrProtocolNotFound = errors.New("protocol not found")
	// ErrProtocolInvalidInput 在名称、目标次数等字段非法时返回
	ErrProtocolInvalidInput = errors.New("invalid protocol input")
	// ErrProtocolFrequencyLocked 在已有打卡记录的协议上修改频率时返回。
	// 窗口边界依赖频率，放任修改会静默改写历史窗口的合规结论。
	ErrProtocolFrequencyLocked = errors.New("protocol frequency is locked by existing logs")
)

// ProtocolService 负责协议数据的增删改查
// 校验输入不变量（名称长度、频率枚举、目标次数），合规判定交给 compliance 包
type ProtocolService struct {
	db *gorm.DB
}

// ProtocolFilter 描述后台列表过滤条件
type ProtocolFilter struct {
	Status string // active / inactive，空值表示不过滤
	ZoneID uint   // 仅列出关联到指定区域的协议
	Search string
}

// ProtocolInput 定义创建/更新协议时可配置字段
type ProtocolInput struct {
	Name        string
	Description string
	Frequency   string
	TargetCount int
	Active      bool
	ZoneIDs     []uint
}

// NewProtocolService 构造 ProtocolService
func NewProtocolService(gdb *gorm.DB) *ProtocolService {
	return &ProtocolService{db: gdb}
}

// List 返回协议集合，支持基本筛选
func (s *ProtocolService) List(filter ProtocolFilter) ([]db.Protocol, error) {
	var protocols []db.Protocol

	query := s.db.Model(&db.Protocol{}).Preload("Zones")

	switch strings.ToLower(strings.TrimSpace(filter.Status)) {
	case "active":
		query = query.Where("active = ?", true)
	case "inactive":
		query = query.Where("active = ?", false)
	}
	if filter.ZoneID != 0 {
		query = query.
			Joins("JOIN protocol_zones ON protocol_zones.protocol_id = protocols.id").
			Where("protocol_zones.hazard_zone_id = ?", filter.ZoneID)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.TrimSpace(filter.Search))
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Order("created_at DESC").Find(&protocols).Error; err != nil {
		return nil, fmt.Errorf("list protocols: %w", err)
	}

	return protocols, nil
}

// Get 根据 ID 获取协议及其关联区域
func (s *ProtocolService) Get(id uint) (*db.Protocol, error) {
	var protocol db.Protocol
	if err := s.db.Preload("Zones").First(&protocol, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProtocolNotFound
		}
		return nil, fmt.Errorf("get protocol: %w", err)
	}
	return &protocol, nil
}

// Create 新建协议
func (s *ProtocolService) Create(input ProtocolInput) (*db.Protocol, error) {
	freq, err := validateProtocolInput(input)
	if err != nil {
		return nil, err
	}

	zones, err := s.loadZones(input.ZoneIDs)
	if err != nil {
		return nil, err
	}

	protocol := db.Protocol{
		UID:         uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Frequency:   string(freq),
		TargetCount: input.TargetCount,
		Active:      input.Active,
		Zones:       zones,
	}

	if err := s.db.Create(&protocol).Error; err != nil {
		return nil, fmt.Errorf("create protocol: %w", err)
	}
	return &protocol, nil
}

// Update 更新协议。
// 已有打卡记录时频率不可变更（见 ErrProtocolFrequencyLocked），其余字段照常覆盖。
func (s *ProtocolService) Update(id uint, input ProtocolInput) (*db.Protocol, error) {
	freq, err := validateProtocolInput(input)
	if err != nil {
		return nil, err
	}

	var existing db.Protocol
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProtocolNotFound
		}
		return nil, fmt.Errorf("find protocol: %w", err)
	}

	if existing.Frequency != string(freq) {
		var logCount int64
		if err := s.db.Model(&db.ComplianceLog{}).Where("protocol_id = ?", id).Count(&logCount).Error; err != nil {
			return nil, fmt.Errorf("count protocol logs: %w", err)
		}
		if logCount > 0 {
			return nil, ErrProtocolFrequencyLocked
		}
	}

	zones, err := s.loadZones(input.ZoneIDs)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Description = strings.TrimSpace(input.Description)
	existing.Frequency = string(freq)
	existing.TargetCount = input.TargetCount
	existing.Active = input.Active

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update protocol: %w", err)
	}
	if err := s.db.Model(&existing).Association("Zones").Replace(zones); err != nil {
		return nil, fmt.Errorf("replace protocol zones: %w", err)
	}

	existing.Zones = zones
	return &existing, nil
}

// Delete 删除协议及其全部打卡记录（存储层级联，核心评估不感知）
func (s *ProtocolService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var protocol db.Protocol
		if err := tx.First(&protocol, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProtocolNotFound
			}
			return fmt.Errorf("find protocol: %w", err)
		}

		if err := tx.Model(&protocol).Association("Zones").Clear(); err != nil {
			return fmt.Errorf("clear protocol zones: %w", err)
		}
		if err := tx.Where("protocol_id = ?", id).Delete(&db.ComplianceLog{}).Error; err != nil {
			return fmt.Errorf("delete protocol logs: %w", err)
		}
		if err := tx.Delete(&db.Protocol{}, id).Error; err != nil {
			return fmt.Errorf("delete protocol: %w", err)
		}
		return nil
	})
}

func (s *ProtocolService) loadZones(ids []uint) ([]db.HazardZone, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var zones []db.HazardZone
	if err := s.db.Where("id IN ?", ids).Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	if len(zones) != len(uniqueIDs(ids)) {
		return nil, ErrZoneNotFound
	}
	return zones, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateProtocolInput(input ProtocolInput) (compliance.Frequency, error) {
	freq, err := compliance.ParseFrequency(input.Frequency)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProtocolInvalidInput, err)
	}

	if input.TargetCount < 1 {
		return "", fmt.Errorf("%w: target count must be at least 1", ErrProtocolInvalidInput)
	}

	name := strings.TrimSpace(input.Name)
	if length := utf8.RuneCountInString(name); length < 3 || length > 200 {
		return "", fmt.Errorf("%w: name must be 3-200 characters", ErrProtocolInvalidInput)
	}

	return freq, nil
}
