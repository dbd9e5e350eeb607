package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/safetylog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrZoneExists       = errors.New("hazard zone already exists")
	ErrZoneInUse        = errors.New("hazard zone is associated with protocols")
	ErrZoneNotFound     = errors.New("hazard zone not found")
	ErrZoneInvalidInput = errors.New("invalid hazard zone input")
)

// HazardZoneService wraps hazard zone related operations.
type HazardZoneService struct {
	db *gorm.DB
}

// ZoneInput 定义创建/更新区域时可配置字段
type ZoneInput struct {
	Name  string
	Color string
}

// NewHazardZoneService creates a HazardZoneService instance.
func NewHazardZoneService(gdb *gorm.DB) *HazardZoneService {
	return &HazardZoneService{db: gdb}
}

// List returns zones ordered by name.
func (s *HazardZoneService) List() ([]db.HazardZone, error) {
	var zones []db.HazardZone
	if err := s.db.Order("name asc").Order("id asc").Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return zones, nil
}

// Get 根据 ID 获取区域
func (s *HazardZoneService) Get(id uint) (*db.HazardZone, error) {
	var zone db.HazardZone
	if err := s.db.First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("get zone: %w", err)
	}
	return &zone, nil
}

// Create 新建区域，名称唯一
func (s *HazardZoneService) Create(input ZoneInput) (*db.HazardZone, error) {
	name, color, err := validateZoneInput(input)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&db.HazardZone{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check zone name: %w", err)
	}
	if count > 0 {
		return nil, ErrZoneExists
	}

	zone := db.HazardZone{UID: uuid.NewString(), Name: name, Color: color}
	if err := s.db.Create(&zone).Error; err != nil {
		return nil, fmt.Errorf("create zone: %w", err)
	}
	return &zone, nil
}

// Update 更新区域
func (s *HazardZoneService) Update(id uint, input ZoneInput) (*db.HazardZone, error) {
	name, color, err := validateZoneInput(input)
	if err != nil {
		return nil, err
	}

	var existing db.HazardZone
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("find zone: %w", err)
	}

	var count int64
	if err := s.db.Model(&db.HazardZone{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check zone name: %w", err)
	}
	if count > 0 {
		return nil, ErrZoneExists
	}

	existing.Name = name
	existing.Color = color
	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update zone: %w", err)
	}
	return &existing, nil
}

// Delete 删除区域；仍被协议引用时拒绝
func (s *HazardZoneService) Delete(id uint) error {
	var count int64
	if err := s.db.Table("protocol_zones").Where("hazard_zone_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check zone usage: %w", err)
	}
	if count > 0 {
		return ErrZoneInUse
	}

	if err := s.db.Delete(&db.HazardZone{}, id).Error; err != nil {
		return fmt.Errorf("delete zone: %w", err)
	}
	return nil
}

func validateZoneInput(input ZoneInput) (name, color string, err error) {
	name = strings.TrimSpace(input.Name)
	if length := utf8.RuneCountInString(name); length < 3 || length > 50 {
		return "", "", fmt.Errorf("%w: name must be 3-50 characters", ErrZoneInvalidInput)
	}

	color = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input.Color), "#"))
	if color != "" && !isHexColor(color) {
		return "", "", fmt.Errorf("%w: color must be a 6-digit hex code", ErrZoneInvalidInput)
	}

	return name, strings.ToLower(color), nil
}

func isHexColor(value string) bool {
	if len(value) != 6 {
		return false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
