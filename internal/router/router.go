package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/config"
	"github.com/lenslog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("lenslog_session", store))

	// 公开站点跑在独立域名上，需要携带会话的跨域访问
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// 静态文件服务（本地上传的图片）
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 公开读取接口：仅投影查询，无任何写入能力
	public := r.Group("/api")
	{
		public.GET("/photos", api.ListPublicPhotos)
		public.GET("/components/:name/photos", api.ComponentPhotos)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/password", api.ChangePassword)

			auth.GET("/photos", api.ListPhotos)
			auth.GET("/photos/:id", api.GetPhoto)
			auth.POST("/photos", api.CreatePhoto)
			auth.PUT("/photos/:id", api.UpdatePhoto)
			auth.DELETE("/photos/:id", api.DeletePhoto)
			auth.POST("/photos/reorder", api.ReorderPhotos)
			auth.PUT("/photos/display-order", api.BatchDisplayOrder)

			auth.POST("/assignments", api.CreateAssignment)
			auth.GET("/assignments", api.ListAssignmentsByPhoto)
			auth.DELETE("/assignments/:id", api.DeleteAssignment)

			auth.POST("/upload", api.UploadImage)
		}
	}

	return r
}
