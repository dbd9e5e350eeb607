package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/safetylog/internal/compliance"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	SuperRootUserName string
	SuperRootPassword string

	// 评估引擎参数
	Location          *time.Location
	WeekStart         time.Weekday
	ShiftBoundaryHour int
	SkewTolerance     time.Duration
	MaxBackfill       time.Duration
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "safetylog.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "safetylog-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	superRootUserName := strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME"))
	superRootPassword := strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD"))

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		SessionSecret:     sessionSecret,
		GinMode:           ginMode,
		SuperRootUserName: superRootUserName,
		SuperRootPassword: superRootPassword,
		Location:          loadLocation(),
		WeekStart:         loadWeekStart(),
		ShiftBoundaryHour: intEnv("SHIFT_BOUNDARY_HOUR", 6),
		SkewTolerance:     time.Duration(intEnv("CLOCK_SKEW_SECONDS", 0)) * time.Second,
		MaxBackfill:       time.Duration(intEnv("MAX_BACKFILL_DAYS", 0)) * 24 * time.Hour,
	}
}

// loadLocation 解析 TIMEZONE；解析失败时退回本地时区并记录日志
func loadLocation() *time.Location {
	name := strings.TrimSpace(os.Getenv("TIMEZONE"))
	if name == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TIMEZONE %q, falling back to local: %v", name, err)
		return time.Local
	}
	return loc
}

// loadWeekStart 解析 WEEK_START_DAY，仅支持 monday/sunday，默认周一
func loadWeekStart() time.Weekday {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WEEK_START_DAY"))) {
	case "sunday":
		return compliance.WeekStartSunday
	default:
		return time.Monday
	}
}

func intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s %q, using default %d", key, raw, fallback)
		return fallback
	}
	return value
}
