package server

import (
	"context"
	"net/http"

	"gymdesk/internal/activity"
	"gymdesk/internal/auth"
	"gymdesk/internal/config"
	"gymdesk/internal/email"
	"gymdesk/internal/gym"
	"gymdesk/internal/member"
	"gymdesk/internal/membership"
	"gymdesk/internal/payment"
	"gymdesk/internal/renewal"
	"gymdesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	renewalHandler := renewal.NewHandler(db, cfg.GymTimezone, cfg.RenewalThrottle, emailService)
	userHandler := user.NewHandler(db, cfg.JWTAccessSecret, cfg.JWTRefreshSecret, renewalHandler.Service())
	gymHandler := gym.NewHandler(db)
	memberHandler := member.NewHandler(db)
	activityHandler := activity.NewHandler(db)
	membershipHandler := membership.NewHandler(db, cfg.GymTimezone)
	paymentHandler := payment.NewHandler(db, cfg.GymTimezone)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTAccessSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.POST("/members", memberHandler.CreateMember)
		admin.GET("/members", memberHandler.ListMembers)
		admin.PATCH("/members/:memberID/status", memberHandler.SetStatus)

		admin.POST("/activities", activityHandler.CreateActivity)
		admin.GET("/activities", activityHandler.ListActivities)
		admin.GET("/activities/:activityID/price", activityHandler.GetCurrentPrice)
		admin.POST("/plans", activityHandler.CreatePlan)

		admin.POST("/members/:memberID/memberships", membershipHandler.AssignActivity)
		admin.GET("/members/:memberID/memberships", membershipHandler.ListByMember)
		admin.PATCH("/memberships/:id/status", membershipHandler.SetStatus)
		admin.PATCH("/memberships/:id/auto-renewal", membershipHandler.SetAutoRenewal)
		admin.POST("/memberships/:id/attendance", membershipHandler.RecordAttendance)
		admin.POST("/memberships/:id/renew", renewalHandler.RenewOne)

		admin.GET("/payments", paymentHandler.ListByGym)
		admin.GET("/members/:memberID/payments", paymentHandler.ListByMember)
		admin.POST("/payments/:id/pay", paymentHandler.RegisterPayment)

		admin.POST("/renewals/run", renewalHandler.RunBatch)
		admin.GET("/renewals/upcoming", renewalHandler.Upcoming)
		admin.GET("/renewals/history", renewalHandler.History)
	}

	// Gym management is reserved for the superadmin account.
	gyms := router.Group("/admin/gyms")
	gyms.Use(authMiddleware, auth.RequireRole("superadmin"))
	{
		gyms.POST("", gymHandler.CreateGym)
		gyms.GET("", gymHandler.ListGyms)
		gyms.GET("/:gymID", gymHandler.GetGym)
	}

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
