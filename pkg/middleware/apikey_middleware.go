package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tabiplan/pkg/utils"
)

// ApiKeyVerifier is implemented by the api key service; the middleware only
// needs the lookup, not the whole service surface.
type ApiKeyVerifier interface {
	VerifyKey(ctx context.Context, rawKey string) (string, error)
}

func APIKeyAuthMiddleware(verifier ApiKeyVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader("X-API-Key")
		if rawKey == "" {
			utils.RespondError(c, http.StatusUnauthorized, "X-API-Key header missing")
			c.Abort()
			return
		}

		keyID, err := verifier.VerifyKey(c.Request.Context(), rawKey)
		if err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		c.Set("api_key_id", keyID)
		c.Next()
	}
}
