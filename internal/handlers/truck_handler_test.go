package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/auth"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/consolidation"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/handlers"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

type truckTestEnv struct {
	router *gin.Engine
	gdb    *gorm.DB
}

func setupTruckRouter(t *testing.T) *truckTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Truck{}, &models.TruckItem{},
		&models.Order{}, &models.OrderItem{},
	))

	log := logger.NewNop()
	truckRepo := repos.NewTruckRepo(gdb, log)
	orderRepo := repos.NewOrderRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)
	productRepo := repos.NewProductRepo(gdb, log)
	engine := consolidation.NewEngine(gdb, truckRepo, orderRepo, log)
	handler := handlers.NewTruckHandler(truckRepo, productRepo, engine)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret-key"))
	r.Use(sessions.Sessions("gosess", store))

	// test-only login endpoint that stamps the session
	r.POST("/test/login/:user_id", func(c *gin.Context) {
		require.NoError(t, auth.SetSessionUser(c, c.Param("user_id")))
		c.Status(http.StatusNoContent)
	})

	api := r.Group("/api")
	api.Use(auth.RequireAuthWith(userRepo))
	{
		api.GET("/trucks", handler.List)
		api.GET("/trucks/:truck_id", handler.Get)
		api.POST("/trucks/:truck_id/join", handler.Join)
	}
	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin())
	{
		admin.POST("/trucks/:truck_id/approve", handler.Approve)
	}

	return &truckTestEnv{router: r, gdb: gdb}
}

func (env *truckTestEnv) seedUser(t *testing.T, userID string, role models.Role) {
	t.Helper()
	require.NoError(t, env.gdb.Create(&models.User{
		UserID: userID,
		OIDCID: "oidc-" + userID,
		Name:   "Test User " + userID,
		Email:  userID + "@example.com",
		Role:   role,
	}).Error)
}

// login returns the session cookies for userID.
func (env *truckTestEnv) login(t *testing.T, userID string) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test/login/"+userID, nil)
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func (env *truckTestEnv) do(method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestTruckEndpoints(t *testing.T) {
	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		env := setupTruckRouter(t)
		w := env.do(http.MethodGet, "/api/trucks", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("join reports remaining capacity on rejection", func(t *testing.T) {
		env := setupTruckRouter(t)
		env.seedUser(t, "u-1", models.RoleUser)
		require.NoError(t, env.gdb.Create(&models.Truck{
			TruckID: "TRUCK-001", Status: models.TruckCollecting,
			CurrentWeight: 1990, MaxWeight: 2000,
		}).Error)
		require.NoError(t, env.gdb.Create(&models.Product{
			ProductID: "P001", Name: "Standing Desk", WeightKg: 15, Price: 320, Currency: "USD",
		}).Error)

		cookies := env.login(t, "u-1")
		w := env.do(http.MethodPost, "/api/trucks/TRUCK-001/join", gin.H{
			"items": []gin.H{{"product_id": "P001", "quantity": 1}},
		}, cookies)

		require.Equal(t, http.StatusConflict, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "capacity_exceeded", body["kind"])
		assert.InDelta(t, 10.0, body["remaining_kg"], 1e-9)
		assert.InDelta(t, 15.0, body["requested_kg"], 1e-9)
	})

	t.Run("join creates a pending order when the cart fits", func(t *testing.T) {
		env := setupTruckRouter(t)
		env.seedUser(t, "u-1", models.RoleUser)
		require.NoError(t, env.gdb.Create(&models.Truck{
			TruckID: "TRUCK-001", Status: models.TruckCollecting,
			CurrentWeight: 0, MaxWeight: 2000,
		}).Error)
		require.NoError(t, env.gdb.Create(&models.Product{
			ProductID: "P001", Name: "Standing Desk", WeightKg: 15, Price: 320, Currency: "USD",
		}).Error)

		cookies := env.login(t, "u-1")
		w := env.do(http.MethodPost, "/api/trucks/TRUCK-001/join", gin.H{
			"items": []gin.H{{"product_id": "P001", "quantity": 2}},
		}, cookies)

		require.Equal(t, http.StatusCreated, w.Code)
		var order models.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.Equal(t, models.OrderPending, order.Status)
		assert.InDelta(t, 30.0, order.TotalWeightKg, 1e-9)
		require.NotNil(t, order.TruckID)
		assert.Equal(t, "TRUCK-001", *order.TruckID)
	})

	t.Run("approve requires the admin role", func(t *testing.T) {
		env := setupTruckRouter(t)
		env.seedUser(t, "u-1", models.RoleUser)
		env.seedUser(t, "a-1", models.RoleAdmin)
		require.NoError(t, env.gdb.Create(&models.Truck{
			TruckID: "TRUCK-001", Status: models.TruckCollecting,
			CurrentWeight: 2000, MaxWeight: 2000,
		}).Error)

		w := env.do(http.MethodPost, "/api/admin/trucks/TRUCK-001/approve", nil, env.login(t, "u-1"))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = env.do(http.MethodPost, "/api/admin/trucks/TRUCK-001/approve", nil, env.login(t, "a-1"))
		require.Equal(t, http.StatusOK, w.Code)
		var truck models.Truck
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &truck))
		assert.Equal(t, models.TruckApproved, truck.Status)
	})

	t.Run("unknown truck returns 404", func(t *testing.T) {
		env := setupTruckRouter(t)
		env.seedUser(t, "u-1", models.RoleUser)
		w := env.do(http.MethodGet, "/api/trucks/TRUCK-404", nil, env.login(t, "u-1"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
