package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/safetylog/internal/config"
	"github.com/safetylog/internal/db"
	"github.com/safetylog/internal/handler"
	"github.com/safetylog/internal/router"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按配置幂等地创建管理员账号
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	api := handler.NewAPI(db.DB, handler.Options{
		Location:          cfg.Location,
		WeekStart:         cfg.WeekStart,
		ShiftBoundaryHour: cfg.ShiftBoundaryHour,
		SkewTolerance:     cfg.SkewTolerance,
		MaxBackfill:       cfg.MaxBackfill,
	})

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
