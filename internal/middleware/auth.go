package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/task-api/internal/constants"
	apierrors "github.com/yukikurage/task-api/internal/errors"
	"github.com/yukikurage/task-api/internal/repository"
	"github.com/yukikurage/task-api/internal/token"
)

const bearerPrefix = "Bearer "

// RequireAuth validates the bearer token and resolves it to a live user
// identity. The store re-check is mandatory: a signed token for a deleted
// user must be rejected before its expiry.
func RequireAuth(codec *token.Codec, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		subject, err := codec.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			apierrors.Unauthorized(c, "Bearer token not valid")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			apierrors.Unauthorized(c, "Token not processable")
			c.Abort()
			return
		}

		exists, err := userRepo.Exists(userID)
		if err != nil {
			// a store failure is not an authorization verdict
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !exists {
			apierrors.Unauthorized(c, "User doesn't exist anymore")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return userID, true
}
