package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/votaciones-campus/api/docs"
	v1 "github.com/votaciones-campus/api/internal/api/handler/v1"
	"github.com/votaciones-campus/api/internal/api/middleware"
	"github.com/votaciones-campus/api/internal/config"
	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/repository"
	"github.com/votaciones-campus/api/internal/repository/dao"
	"github.com/votaciones-campus/api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	hub *v1.ResultsHub
}

type handlers struct {
	auth     *v1.AuthHandler
	user     *v1.UserHandler
	campaign *v1.CampaignHandler
	report   *v1.ReportHandler
	health   *v1.HealthHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		hub:    v1.NewResultsHub(),
	}
	go s.hub.Run()

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db))

	return s
}

func (s *Server) initHandlers(db *gorm.DB) handlers {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	campaignRepo := repository.NewCampaignRepository(dao.NewCampaignDAO(db))
	voteRepo := repository.NewVoteRepository(dao.NewVoteDAO(db))

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	campaignSvc := service.NewCampaignService(campaignRepo, voteRepo, userRepo)
	reportSvc := service.NewReportService(campaignSvc)

	var pinger v1.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	} else {
		zap.L().Warn("no sql.DB behind gorm, health check will fail", zap.Error(err))
	}

	return handlers{
		auth:     v1.NewAuthHandler(s.Config.API, authSvc),
		user:     v1.NewUserHandler(userSvc),
		campaign: v1.NewCampaignHandler(campaignSvc, s.hub, s.Config.API.AllowedCORSDomains),
		report:   v1.NewReportHandler(reportSvc),
		health:   v1.NewHealthHandler(pinger),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)
	authenticated := authenticator.VerifyJWT()
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	voterOnly := middleware.RequireRole(domain.RoleVoter)
	loginLimiter := middleware.NewRateLimiter(s.Config.API.LoginAttempts, time.Minute)

	apiGroup := s.Router.Group(basePath)

	auth := apiGroup.Group("/auth")
	{
		auth.POST("/register", h.auth.HandleRegister)
		auth.POST("/login", loginLimiter.Middleware(), h.auth.HandleLogin)
		auth.GET("/me", authenticated, h.user.HandleMe)
		auth.POST("/admin", authenticated, adminOnly, h.auth.HandleCreateAdmin)
		auth.GET("/admins", authenticated, adminOnly, h.user.HandleListAdmins)
		auth.GET("/votantes", authenticated, adminOnly, h.user.HandleListVoters)
		auth.DELETE("/votantes/:userID", authenticated, adminOnly, h.user.HandleDeleteVoter)
	}

	profiles := apiGroup.Group("/profiles", authenticated, voterOnly)
	{
		profiles.GET("/me", h.user.HandleGetProfile)
		profiles.PUT("/me", h.user.HandleUpsertProfile)
	}

	campaigns := apiGroup.Group("/campaigns", authenticated)
	{
		campaigns.GET("", h.campaign.HandleListCampaigns)
		campaigns.POST("", adminOnly, h.campaign.HandleCreateCampaign)
		campaigns.GET("/candidates", adminOnly, h.campaign.HandleListCandidates)
		campaigns.DELETE("/candidates/:candidateID", adminOnly, h.campaign.HandleDeleteCandidate)
		campaigns.GET("/:campaignID", h.campaign.HandleGetCampaign)
		campaigns.PATCH("/:campaignID", adminOnly, h.campaign.HandleUpdateCampaign)
		campaigns.DELETE("/:campaignID", adminOnly, h.campaign.HandleDeleteCampaign)
		campaigns.POST("/:campaignID/candidates", adminOnly, h.campaign.HandleAddCandidate)
		campaigns.POST("/:campaignID/vote", voterOnly, h.campaign.HandleCastVote)
	}

	// Websocket clients can only pass the token in the query string.
	apiGroup.GET("/campaigns/:campaignID/live", authenticator.VerifyJWTFromQuery(), h.campaign.HandleLiveResults)

	reports := apiGroup.Group("/reports", authenticated, adminOnly)
	{
		reports.GET("/campaigns", h.report.HandleCampaignReport)
	}

	s.Router.GET("/", h.health.HandleHealthcheck)

	if s.Config.API.IsProduction() {
		return
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campus voting API"
	docs.SwaggerInfo.Description = "Voters register and vote once per campaign; administrators manage campaigns and read tallies."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.hub.Stop()
}
