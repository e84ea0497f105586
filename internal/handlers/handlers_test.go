package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	"github.com/GreenvaleServices/lawn-portal/internal/config"
	dbpkg "github.com/GreenvaleServices/lawn-portal/internal/db"
	"github.com/GreenvaleServices/lawn-portal/internal/infra/repository"
	"github.com/GreenvaleServices/lawn-portal/internal/middleware"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
	ucRequest "github.com/GreenvaleServices/lawn-portal/internal/usecase/request"
	ucVisit "github.com/GreenvaleServices/lawn-portal/internal/usecase/visit"
)

type testEnv struct {
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
}

// newTestEnv wires the real handler stack over an in-memory database,
// mirroring routes.RegisterRoutes, with the email domain lookup stubbed
// so tests never touch the network.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A second pooled connection to :memory: would see an empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}

	visitRepo := repository.NewVisitGormRepository(db)
	requestRepo := repository.NewRequestGormRepository(db)
	dispatcher := audit.NewDispatcher(audit.New(db))

	authHandler := NewAuthHandler(db, cfg, dispatcher)
	meHandler := NewMeHandler(db)

	customerHandler := NewCustomerHandler(db, dispatcher)
	customerHandler.checkEmailDomain = func(string) bool { return true }

	userHandler := NewUserHandler(db, dispatcher)

	visitHandler := NewVisitHandler(
		db,
		ucVisit.NewCreateVisit(visitRepo, dispatcher),
		ucVisit.NewUpdateVisit(visitRepo, dispatcher),
		ucVisit.NewDeleteVisit(visitRepo, dispatcher),
	)
	feedbackHandler := NewFeedbackHandler(db, dispatcher, nil)
	requestHandler := NewRequestHandler(db, dispatcher, nil,
		ucRequest.NewResolveRequest(requestRepo, dispatcher))

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Identity(cfg))

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/activate/:token", authHandler.Activate)

	authed := api.Group("/", middleware.RequireAuth())
	authed.GET("/me", meHandler.GetMe)
	authed.GET("/visits", visitHandler.ListMine)
	authed.POST("/feedback", feedbackHandler.Submit)
	authed.POST("/requests", requestHandler.Create)
	authed.GET("/requests/mine", requestHandler.ListMine)
	authed.PATCH("/requests/:id/resolve", requestHandler.Resolve)

	staff := authed.Group("/", middleware.RequireStaff())
	staff.GET("/customers", customerHandler.List)
	staff.POST("/customers", customerHandler.Create)
	staff.GET("/customers/:id", customerHandler.GetByID)
	staff.GET("/customers/:id/visits", customerHandler.ListVisits)
	staff.GET("/customers/:id/requests", customerHandler.ListRequests)
	staff.POST("/visits", visitHandler.Create)
	staff.GET("/visits/date", visitHandler.ListByDate)
	staff.GET("/feedback/recent", feedbackHandler.Recent)
	staff.GET("/requests/recent", requestHandler.Recent)
	staff.GET("/requests", requestHandler.List)

	admin := authed.Group("/", middleware.RequireAdmin())
	admin.GET("/users", userHandler.List)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.GET("/visits/:id", visitHandler.GetByID)
	admin.PATCH("/visits/:id", visitHandler.Update)
	admin.DELETE("/visits/:id", visitHandler.Delete)

	return &testEnv{db: db, cfg: cfg, router: r}
}

func (e *testEnv) seedUser(t *testing.T, name, email, password, role string) *models.User {
	t.Helper()

	u := models.User{Name: name, Email: email, Role: role}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		u.PasswordHash = string(hashed)
	}

	if err := e.db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &u
}

func (e *testEnv) token(t *testing.T, u *models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  u.ID,
		"name": u.Name,
		"role": u.Role,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(e.cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
