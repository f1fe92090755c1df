package router

import (
	"deeperweave/internal/api/handler"
	"deeperweave/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	mediaHandler *handler.MediaHandler,
	reviewHandler *handler.ReviewHandler,
	savedHandler *handler.SavedHandler,
	followHandler *handler.FollowHandler,
	listHandler *handler.ListHandler,
	searchHandler *handler.SearchHandler,
	notificationHandler *handler.NotificationHandler,
	adminMiddleware gin.HandlerFunc,
	onboardingMiddleware gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1")

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		authRequired := auth.Group("", middleware.AuthRequired())
		{
			authRequired.POST("/logout", authHandler.Logout)
			authRequired.GET("/me", authHandler.Me)
		}
	}

	// --- 用户模块 ---
	users := v1.Group("/users", middleware.AuthRequired())
	{
		users.PATCH("/me", userHandler.UpdateProfile)
		users.POST("/me/onboarding", userHandler.CompleteOnboarding)
		users.GET("/by-username/:username", userHandler.GetProfileByUsername)
		users.GET("/:user_id", userHandler.GetProfile)

		users.GET("/:user_id/reviews", reviewHandler.ListByUser)
		users.GET("/:user_id/lists", listHandler.ListByUser)
		users.GET("/:user_id/following", followHandler.GetFollowing)
		users.GET("/:user_id/followers", followHandler.GetFollowers)
	}

	// --- 管理模块 ---
	admin := v1.Group("/admin", middleware.AuthRequired(), adminMiddleware)
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.DELETE("/users/:user_id", userHandler.DeleteUser)
		admin.POST("/users/:user_id/restore", userHandler.RestoreUser)
		admin.PATCH("/users/:user_id/role", userHandler.SetUserRole)
	}

	// --- 媒体模块 ---
	media := v1.Group("/media", middleware.AuthRequired())
	{
		media.GET("/remote-search", mediaHandler.SearchRemote)
		media.GET("/:media_type/:media_id", mediaHandler.GetDetail)
		media.GET("/:media_type/:media_id/reviews", reviewHandler.ListByMedia)
		media.POST("/:media_type/:media_id/sync", mediaHandler.Sync)
	}

	// --- 观影记录模块 ---
	reviews := v1.Group("/reviews", middleware.AuthRequired())
	{
		reviews.POST("", onboardingMiddleware, reviewHandler.Create)
		reviews.GET("/my", reviewHandler.ListMy)
		reviews.GET("/:review_id", reviewHandler.Get)
		reviews.DELETE("/:review_id", reviewHandler.Delete)
	}

	// --- 收藏模块 ---
	saved := v1.Group("/saved", middleware.AuthRequired())
	{
		saved.POST("/:media_type/:media_id/toggle", savedHandler.Toggle)
		saved.GET("/:media_type/:media_id/status", savedHandler.GetStatus)
		saved.GET("/my", savedHandler.ListMy)
		saved.POST("/batch/status", savedHandler.BatchStatus)
	}

	// --- 关注模块 ---
	follows := v1.Group("/follows", middleware.AuthRequired())
	{
		follows.POST("/:user_id/toggle", followHandler.Toggle)
		follows.GET("/:user_id/status", followHandler.GetStatus)
		follows.GET("/mutual", followHandler.GetMutual)
		follows.POST("/batch/status", followHandler.BatchStatus)
	}

	// --- 片单模块 ---
	lists := v1.Group("/lists", middleware.AuthRequired())
	{
		lists.POST("", listHandler.Create)
		lists.GET("/:list_id", listHandler.Get)
		lists.PATCH("/:list_id", listHandler.Update)
		lists.DELETE("/:list_id", listHandler.Delete)
		lists.POST("/:list_id/items", listHandler.AddItem)
		lists.DELETE("/:list_id/items/:media_type/:media_id", listHandler.RemoveItem)
		lists.PUT("/:list_id/reorder", listHandler.Reorder)
	}

	// --- 搜索模块 ---
	search := v1.Group("/search", middleware.AuthRequired())
	{
		search.GET("/media", searchHandler.SearchMedia)
	}

	// --- 通知模块 ---
	notifications := v1.Group("/notifications", middleware.AuthRequired())
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:notification_id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
	}
}
