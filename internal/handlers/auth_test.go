package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-api/internal/dto"
	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/repository"
	"github.com/yukikurage/task-api/internal/services"
	"github.com/yukikurage/task-api/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	router      *gin.Engine
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	require.NoError(t, err)

	codec := token.NewCodec([]byte("handler-test-secret"), time.Hour)
	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, codec)
	handler := NewAuthHandler(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/auth", handler.Login)
	router.POST("/api/auth/register", handler.Register)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		router:      router,
	}
}

func (env authTestEnv) postJSON(t *testing.T, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth/register", map[string]string{
		"name":     "Jane Example",
		"email":    "jane@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Jane Example", response.Name)
	require.Equal(t, "jane@example.com", response.Email)

	// the password never appears in the response, hashed or otherwise
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.NotContains(t, raw, "password")
	require.NotContains(t, w.Body.String(), "supersecret")
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth/register", map[string]string{
		"name":     "Jane Example",
		"email":    "jane@example.com",
		"password": "short",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["message"], "password")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{
		"name":     "Jane Example",
		"email":    "jane@example.com",
		"password": "supersecret",
	}

	w := env.postJSON(t, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	payload["name"] = "Jane Imposter"
	w = env.postJSON(t, "/api/auth/register", payload)
	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["message"], "email")
	require.Contains(t, body["message"], "already exists")
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Jane Example",
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/api/auth", map[string]string{
		"email":    "jane@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, "jane@example.com", response.User.Email)
	require.NotContains(t, w.Body.String(), "supersecret")
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Jane Example",
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// wrong password and unknown email produce the same rejection
	wrongPassword := env.postJSON(t, "/api/auth", map[string]string{
		"email":    "jane@example.com",
		"password": "wrongpassword",
	})
	unknownEmail := env.postJSON(t, "/api/auth", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusForbidden, wrongPassword.Code)
	require.Equal(t, http.StatusForbidden, unknownEmail.Code)
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthHandler_Login_InvalidBody(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/api/auth", map[string]string{"email": "jane@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
