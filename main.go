package main

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	config "github.com/shuvo-dotcom/group-ordering-hub/configs"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/abtest"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/analytics"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/auth"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/consolidation"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/db"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/handlers"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/notifier"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/orders"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/shipping"
)

func main() {
	serverCfg := config.LoadServerConfig()

	log, err := logger.New(serverCfg.Mode)
	if err != nil {
		panic("failed to initialise logger: " + err.Error())
	}
	defer log.Sync()

	gdb, err := db.Open(config.LoadDBConfig())
	if err != nil {
		log.Fatal("database connection failed", "err", err)
	}
	if err := db.Seed(gdb); err != nil {
		log.Fatal("database seeding failed", "err", err)
	}

	truckRepo := repos.NewTruckRepo(gdb, log)
	orderRepo := repos.NewOrderRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)
	productRepo := repos.NewProductRepo(gdb, log)
	planRepo := repos.NewShippingPlanRepo(gdb, log)
	abTestRepo := repos.NewABTestRepo(gdb, log)

	mailer := notifier.NewEmailNotifier(config.LoadEmailConfig(), log)

	engine := consolidation.NewEngine(gdb, truckRepo, orderRepo, log)
	orderSvc := orders.NewService(orderRepo, planRepo, mailer, log)
	shippingSvc := shipping.NewService(planRepo, log)
	analyticsSvc := analytics.NewService(orderRepo, userRepo, log)
	registry := abtest.NewRegistry(abTestRepo, log)

	authenticator, err := auth.New(context.Background(), userRepo, log)
	if err != nil {
		log.Fatal("oidc provider initialisation failed", "err", err)
	}

	truckHandler := handlers.NewTruckHandler(truckRepo, productRepo, engine)
	orderHandler := handlers.NewOrderHandler(orderSvc, productRepo)
	productHandler := handlers.NewProductHandler(productRepo)
	shippingHandler := handlers.NewShippingHandler(shippingSvc)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc)
	abTestHandler := handlers.NewABTestHandler(registry)
	userHandler := handlers.NewUserHandler(userRepo)

	if serverCfg.Mode == "prod" || serverCfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(serverCfg.SessionSecret))
	r.Use(sessions.Sessions("gosess", store))

	// public endpoints
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/auth/login", authenticator.Login)
	r.GET("/auth/callback", authenticator.Callback)

	// protected API
	api := r.Group("/api")
	api.Use(authenticator.RequireAuth())
	{
		api.GET("/products", productHandler.List)
		api.GET("/products/:product_id", productHandler.Get)

		api.GET("/trucks", truckHandler.List)
		api.GET("/trucks/:truck_id", truckHandler.Get)
		api.POST("/trucks/:truck_id/join", truckHandler.Join)

		api.POST("/orders", orderHandler.Checkout)
		api.GET("/orders", orderHandler.ListMine)
		api.GET("/orders/:order_id", orderHandler.Get)
		api.POST("/orders/:order_id/pay", orderHandler.Pay)

		api.GET("/shipping/plans", shippingHandler.ListPlans)
		api.GET("/shipping/quotes", shippingHandler.Quotes)

		api.POST("/abtests/:test_id/assignment", abTestHandler.Assign)
	}

	// admin API
	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin())
	{
		admin.POST("/trucks/:truck_id/approve", truckHandler.Approve)
		admin.POST("/trucks/:truck_id/dispatch", truckHandler.Dispatch)
		admin.POST("/trucks/:truck_id/deliver", truckHandler.Deliver)

		admin.GET("/users", userHandler.List)
		admin.PATCH("/users/:user_id/role", userHandler.SetRole)

		admin.GET("/orders", orderHandler.ListByStatus)
		admin.GET("/orders/pending-weight", orderHandler.PendingWeight)
		admin.PATCH("/orders/:order_id/status", orderHandler.UpdateStatus)
		admin.POST("/orders/:order_id/shipping-plan", orderHandler.AssignShippingPlan)

		admin.GET("/analytics/orders", analyticsHandler.OrderMetrics)
		admin.GET("/analytics/users", analyticsHandler.UserMetrics)
		admin.GET("/analytics/advanced", analyticsHandler.AdvancedMetrics)
		admin.GET("/analytics/forecast", analyticsHandler.Forecast)
		admin.GET("/analytics/segments", analyticsHandler.Segments)
		admin.GET("/analytics/users/:user_id/activity", analyticsHandler.UserActivity)

		admin.POST("/abtests", abTestHandler.Create)
		admin.GET("/abtests", abTestHandler.ListActive)
		admin.POST("/abtests/:test_id/complete", abTestHandler.Complete)
	}

	log.Info("server starting", "addr", serverCfg.Addr)
	if err := r.Run(serverCfg.Addr); err != nil {
		log.Fatal("server exited", "err", err)
	}
}
