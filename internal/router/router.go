package router

import (
	"github.com/KrishnaNAcharya/mentorstack/internal/handler"
	"github.com/KrishnaNAcharya/mentorstack/internal/middleware"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/redis"
	"github.com/KrishnaNAcharya/mentorstack/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// 配置邮件环境
	emailCfg := pkg.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "no-reply@mentorstack.dev",
		Password: "changeme",
		From:     "MentorStack <no-reply@mentorstack.dev>",
	}

	emailSvc := service.NewEmailService(emailCfg)
	repSvc := service.NewReputationService(db, &redis.LeaderboardRepository{})

	user := handler.NewUserHandler(service.NewUserService(db, emailSvc))
	email := handler.NewEmailHandler(emailSvc)
	question := handler.NewQuestionHandler(service.NewQuestionService(db, repSvc))
	badge := handler.NewBadgeHandler(service.NewBadgeService(db))
	reputation := handler.NewReputationHandler(repSvc)

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/code", email.SendCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.GET("/me", user.Me)
	}

	// 问答相关接口
	questionGroup := r.Group("/api/question")
	questionGroup.Use(middleware.AuthMiddleware())
	{
		questionGroup.POST("/create", question.Create)
		questionGroup.GET("/list", question.List)
		questionGroup.GET("/:id", question.Get)
		questionGroup.POST("/:id/answer", question.Answer)
		questionGroup.POST("/:id/vote", question.VoteQuestion)
	}

	answerGroup := r.Group("/api/answer")
	answerGroup.Use(middleware.AuthMiddleware())
	{
		answerGroup.POST("/:id/vote", question.VoteAnswer)
		answerGroup.POST("/:id/accept", question.Accept)
	}

	// 徽章/声望公开读
	r.GET("/api/badge/list", badge.List)
	r.GET("/api/user/:id/badges", badge.UserBadges)
	r.GET("/api/reputation/leaderboard", reputation.Leaderboard)

	// 管理后台接口
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		adminGroup.GET("/users", user.Search)
		adminGroup.GET("/reputation/:id/history", reputation.History)
		adminGroup.POST("/reputation/adjust", reputation.Adjust)
		adminGroup.POST("/reputation/:id/rebuild", reputation.Rebuild)
		adminGroup.POST("/badges", badge.Create)
		adminGroup.PUT("/badges/:id", badge.Update)
		adminGroup.POST("/badges/:id/toggle", badge.ToggleActive)
	}

	return r
}
