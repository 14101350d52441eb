package router

import (
	"time"

	"github.com/sebassmtz/backend-stockpro/internal/config"
	"github.com/sebassmtz/backend-stockpro/internal/handler"
	"github.com/sebassmtz/backend-stockpro/internal/infra"
	"github.com/sebassmtz/backend-stockpro/internal/middleware"
	"github.com/sebassmtz/backend-stockpro/internal/repository"
	"github.com/sebassmtz/backend-stockpro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the service layer shared by the HTTP router and the workers.
type Services struct {
	Auth          service.AuthService
	CashRegisters service.CashRegisterService
	Turns         service.TurnService
	Withdrawals   service.WithdrawalService
}

// NewServices wires repositories into services.
// Dependency graph: Service ← Repository ← DB, with the lock and queue from Redis.
func NewServices(cfg *config.Config, db *gorm.DB, locker service.Locker, reports service.ReportQueue) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	registerRepo := repository.NewCashRegisterRepository(db)
	turnRepo := repository.NewTurnRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	imbalanceRepo := repository.NewImbalanceRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	return &Services{
		Auth:          authSvc,
		CashRegisters: service.NewCashRegisterService(registerRepo, turnRepo, withdrawalRepo, imbalanceRepo, locker),
		Turns: service.NewTurnService(turnRepo, registerRepo, withdrawalRepo, imbalanceRepo, saleRepo, userRepo, authSvc, locker, service.TurnOptions{
			EnforceSingleActiveTurn: cfg.EnforceSingleActiveTurn,
			ReportQueue:             reports,
			NotifyEmail:             cfg.ReportNotifyEmail,
		}),
		Withdrawals: service.NewWithdrawalService(withdrawalRepo, turnRepo, registerRepo, cfg.AllowWithdrawalsOnClosedTurn),
	}
}

// New returns a configured Gin engine serving svcs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer, svcs *Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP
	r.NoRoute(handler.NotFound)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	registerH := handler.NewCashRegisterHandler(svcs.CashRegisters, svcs.Turns)
	turnH := handler.NewTurnHandler(svcs.Turns, infra.RenderTurnReport)
	withdrawalH := handler.NewWithdrawalHandler(svcs.Withdrawals)

	// ── Routes ───────────────────────────────────────────────────────────────
	var breaker handler.BreakerReporter
	if mailer != nil {
		breaker = mailer
	}
	r.GET("/health", handler.Health(db, rdb, breaker))

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.GET("/me", jwtMW, authH.Me)
	}

	// Auth marks are per route: register maintenance and listings are
	// protected, turn operations from the till are not.
	cr := r.Group("/api/cashRegister")
	{
		cr.GET("", jwtMW, registerH.List)
		cr.GET("/withdrawals", jwtMW, withdrawalH.ListAll)
		cr.GET("/:id", jwtMW, registerH.Get)
		cr.POST("", jwtMW, registerH.Create)
		cr.PUT("", jwtMW, registerH.Update)

		cr.POST("/:id", registerH.OpenTurn)
		cr.PUT("/:id", registerH.CloseTurn)
		cr.DELETE("/:id", registerH.Delete)
		cr.GET("/:id/withdrawals", withdrawalH.ListByCashRegister)

		turn := cr.Group("/turn")
		{
			turn.POST("/:id", withdrawalH.Create)
			turn.GET("/:id", turnH.Get)
			turn.GET("/:id/summary", turnH.Summary)
			turn.GET("/:id/report", turnH.Report)
			turn.GET("/sales/:id", turnH.Sales)
			turn.GET("/withdrawal/:id", withdrawalH.ListByTurn)
			turn.GET("/imbalance/:id", turnH.Imbalances)
		}
	}

	return r
}
