package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/hungtabe/ezevent-api/docs"
	v1 "github.com/hungtabe/ezevent-api/internal/api/handler/v1"
	"github.com/hungtabe/ezevent-api/internal/api/middleware"
	"github.com/hungtabe/ezevent-api/internal/config"
	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/repository"
	"github.com/hungtabe/ezevent-api/internal/repository/dao"
	"github.com/hungtabe/ezevent-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	registrationHandler := s.initRegistrationHandler(db)
	reportHandler := s.initReportHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, registrationHandler, reportHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	svc := service.NewEventService(eventRepo, s.Config.API.BaseURL)
	regSvc := service.NewRegistrationService(registrationRepo, eventRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewEventHandler(svc, regSvc, uSvc)

	return handler
}

func (s *Server) initRegistrationHandler(db *gorm.DB) *v1.RegistrationHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	svc := service.NewRegistrationService(registrationRepo, eventRepo)
	eventSvc := service.NewEventService(eventRepo, s.Config.API.BaseURL)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewRegistrationHandler(svc, eventSvc, uSvc)

	return handler
}

func (s *Server) initReportHandler(db *gorm.DB) *v1.ReportHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	svc := service.NewReportService(registrationRepo, eventRepo)
	eventSvc := service.NewEventService(eventRepo, s.Config.API.BaseURL)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewReportHandler(svc, eventSvc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	registrationHandler *v1.RegistrationHandler,
	reportHandler *v1.ReportHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/register", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/detail", eventHandler.HandleGetEventDetail)
		public.GET("/events/qr", eventHandler.HandleGetEventByQR)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)
		authenticated.GET("/user/registrations", registrationHandler.HandleListMyRegistrations)

		authenticated.POST("/events", eventHandler.HandleCreateEvent)
		authenticated.POST("/events/delete", eventHandler.HandleDeleteEvent)
		authenticated.GET("/events/mine", eventHandler.HandleListMyEvents)
		authenticated.GET("/events/available", eventHandler.HandleListAvailableEvents)
		authenticated.GET("/events/roles", eventHandler.HandleListEventRoles)
		authenticated.POST("/events/roles", eventHandler.HandleGrantEventRole)

		authenticated.POST("/events/register", registrationHandler.HandleRegister)
		authenticated.POST("/events/qr/register", registrationHandler.HandleRegisterByQR)
		authenticated.GET("/events/registrations", registrationHandler.HandleListEventRegistrations)
		authenticated.GET("/events/participants", registrationHandler.HandleListEventParticipants)

		authenticated.GET("/events/report", reportHandler.HandleEventReport)
		authenticated.GET("/reports/summary", reportHandler.HandleAggregateReport)
		authenticated.GET("/organizer/stats", reportHandler.HandleOrganizerStats)
	}

	admins := s.Router.Group(
		basePath,
		middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT(),
		middleware.RequireRoles(domain.RoleAdmin),
	)
	{
		admins.GET("/admin/events", eventHandler.HandleListAllEvents)
		admins.POST("/events/approve", eventHandler.HandleApproveEvent)
		admins.POST("/events/checkin", registrationHandler.HandleCheckIn)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "EZEvent API"
	docs.SwaggerInfo.Description = "Event creation, QR registration and attendance tracking."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
