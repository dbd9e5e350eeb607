package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/safetylog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("safetylog_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", handler.Login)
		admin.POST("/logout", handler.Logout)

		// 需要认证的 API 路由
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/protocols", api.ListProtocols)
			auth.GET("/protocols/:id", api.GetProtocol)
			auth.POST("/protocols", api.CreateProtocol)
			auth.PUT("/protocols/:id", api.UpdateProtocol)
			auth.DELETE("/protocols/:id", api.DeleteProtocol)

			auth.GET("/protocols/:id/logs", api.ListProtocolLogs)
			auth.POST("/protocols/:id/logs", api.CreateProtocolLog)
			auth.DELETE("/protocols/:id/logs/:logId", api.DeleteProtocolLog)

			auth.GET("/protocols/:id/compliance", api.GetProtocolCompliance)
			auth.GET("/compliance/summary", api.GetComplianceSummary)

			auth.GET("/zones", api.ListZones)
			auth.GET("/zones/:id", api.GetZone)
			auth.POST("/zones", api.CreateZone)
			auth.PUT("/zones/:id", api.UpdateZone)
			auth.DELETE("/zones/:id", api.DeleteZone)
		}
	}

	return r
}
