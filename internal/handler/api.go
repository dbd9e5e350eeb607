package handler

import (
	"time"

	"github.com/safetylog/internal/compliance"
	"github.com/safetylog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	protocols  *service.ProtocolService
	zones      *service.HazardZoneService
	logs       *service.ComplianceLogService
	compliance *service.ComplianceService
	clock      func() time.Time
}

// Options 汇总评估引擎的运行参数，全部来自部署配置
type Options struct {
	Location          *time.Location
	WeekStart         time.Weekday
	ShiftBoundaryHour int
	SkewTolerance     time.Duration
	MaxBackfill       time.Duration
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	calc := compliance.Calculator{
		Location:          opts.Location,
		WeekStart:         opts.WeekStart,
		ShiftBoundaryHour: opts.ShiftBoundaryHour,
	}
	validator := compliance.Validator{
		SkewTolerance: opts.SkewTolerance,
		MaxBackfill:   opts.MaxBackfill,
	}
	evaluator := compliance.Evaluator{Calc: calc}

	return &API{
		db:         gdb,
		protocols:  service.NewProtocolService(gdb),
		zones:      service.NewHazardZoneService(gdb),
		logs:       service.NewComplianceLogService(gdb, validator),
		compliance: service.NewComplianceService(gdb, evaluator),
		clock:      time.Now,
	}
}

// now 返回请求处理用的当前时间；测试可注入固定时钟
func (a *API) now() time.Time {
	if a.clock != nil {
		return a.clock()
	}
	return time.Now()
}
