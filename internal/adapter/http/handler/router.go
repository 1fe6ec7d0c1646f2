package handler

import (
	"elearning-payments/internal/adapter/http/middleware"
	redisStore "elearning-payments/internal/adapter/storage/redis"
	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	PaymentSvc     ports.PaymentService
	PayoutSvc      ports.PayoutService
	CartSvc        ports.CartService
	EnrollSvc      ports.EnrollmentService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// The gateway confirms payments server to server with a signed query
	// string. No session exists on that call, the HMAC is the auth, and the
	// gateway owns the retry cadence so the route is not rate limited.
	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	v1.GET("/payments/vnpay-ipn", paymentHandler.VNPayIPN)

	// --- JWT-authenticated routes (students) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	cartHandler := NewCartHandler(deps.CartSvc)
	enrollHandler := NewEnrollmentHandler(deps.EnrollSvc)

	payments := v1.Group("/payments", jwtAuth)
	{
		payments.POST("/checkout", rl("checkout"), paymentHandler.Checkout)
		payments.GET("/history", rl("checkout"), paymentHandler.History)
	}

	cart := v1.Group("/cart", jwtAuth)
	{
		cart.POST("", rl("cart"), cartHandler.AddToCart)
		cart.GET("", rl("cart"), cartHandler.GetCart)
		cart.GET("/count", rl("cart"), cartHandler.CountItems)
		cart.DELETE("/:course_id", rl("cart"), cartHandler.RemoveFromCart)
	}

	enrollments := v1.Group("/enrollments", jwtAuth)
	{
		enrollments.GET("", rl("cart"), enrollHandler.ListMyCourses)
	}

	// --- Admin routes (JWT + admin role) ---
	payoutHandler := NewPayoutHandler(deps.PayoutSvc)
	dashboardHandler := NewDashboardHandler(deps.ReportingSvc)

	admin := v1.Group("/admin", jwtAuth, middleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/payouts", rl("admin"), payoutHandler.ListSummaries)
		admin.POST("/payouts/:teacher_id", rl("admin"), payoutHandler.PayoutToTeacher)
		admin.GET("/payouts/:teacher_id", rl("admin"), payoutHandler.ListByTeacher)
		admin.POST("/enrollments/:student_id/:course_id", rl("admin"), enrollHandler.Grant)
		admin.DELETE("/enrollments/:student_id/:course_id", rl("admin"), enrollHandler.Revoke)
		admin.GET("/dashboard/stats", rl("admin"), dashboardHandler.GetStats)
	}

	return r
}
