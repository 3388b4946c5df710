package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/repository"
	"github.com/yukikurage/task-api/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret"

type middlewareTestEnv struct {
	db       *gorm.DB
	codec    *token.Codec
	userRepo repository.UserRepository
	router   *gin.Engine
}

func setupMiddlewareTestEnv(t *testing.T) middlewareTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	codec := token.NewCodec([]byte(testSecret), time.Hour)
	userRepo := repository.NewUserRepository(db)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAuth(codec, userRepo), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
	})

	return middlewareTestEnv{
		db:       db,
		codec:    codec,
		userRepo: userRepo,
		router:   router,
	}
}

func (env middlewareTestEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Middleware User",
		Email:    email,
		Password: "hash",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env middlewareTestEnv) request(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func responseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, w.Code, body.Status)
	return body.Message
}

func TestRequireAuth_ValidToken(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	user := env.createUser(t, "valid@example.com")

	tokenString, err := env.codec.Issue(user.ID)
	require.NoError(t, err)

	w := env.request(t, "Bearer "+tokenString)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, user.ID.String(), body["user_id"])
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	w := env.request(t, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_NotBearer(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	w := env.request(t, "Basic dXNlcjpwYXNz")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedToken(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	w := env.request(t, "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer token not valid", responseMessage(t, w))
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	user := env.createUser(t, "expired@example.com")

	expiredCodec := token.NewCodec([]byte(testSecret), -time.Minute)
	tokenString, err := expiredCodec.Issue(user.ID)
	require.NoError(t, err)

	w := env.request(t, "Bearer "+tokenString)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer token not valid", responseMessage(t, w))
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	user := env.createUser(t, "forged@example.com")

	forgedCodec := token.NewCodec([]byte("other-secret"), time.Hour)
	tokenString, err := forgedCodec.Issue(user.ID)
	require.NoError(t, err)

	w := env.request(t, "Bearer "+tokenString)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer token not valid", responseMessage(t, w))
}

func TestRequireAuth_SubjectNotAUserID(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	// well-signed token whose subject is not a uuid
	claims := jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := env.request(t, "Bearer "+tokenString)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Token not processable", responseMessage(t, w))
}

func TestRequireAuth_DeletedUserRejected(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	user := env.createUser(t, "gone@example.com")

	tokenString, err := env.codec.Issue(user.ID)
	require.NoError(t, err)

	// token works while the user exists
	w := env.request(t, "Bearer "+tokenString)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = env.userRepo.Delete(user.ID)
	require.NoError(t, err)

	// same still-signed, unexpired token dies at the store re-check
	w = env.request(t, "Bearer "+tokenString)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "User doesn't exist anymore", responseMessage(t, w))
}

func TestRequireAuth_StoreFailureIsNotUnauthorized(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	user := env.createUser(t, "unlucky@example.com")

	tokenString, err := env.codec.Issue(user.ID)
	require.NoError(t, err)

	// break the store so the identity re-check cannot run
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := env.request(t, "Bearer "+tokenString)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Internal server error", responseMessage(t, w))
}

func TestGetUserID_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	require.False(t, ok)
}
