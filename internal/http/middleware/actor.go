package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/tracker-backend/internal/http/response"
	"github.com/yungbote/tracker-backend/internal/platform/ctxutil"
)

// HeaderActorID carries the caller's user id, validated upstream.
const HeaderActorID = "X-Actor-Id"

// RequireActor attaches the caller identity to the request context.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderActorID))
		if raw == "" {
			response.RespondError(c, http.StatusUnauthorized, "missing_actor", errors.New("missing "+HeaderActorID+" header"))
			c.Abort()
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_actor", errors.New("invalid "+HeaderActorID+" header"))
			c.Abort()
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{ActorID: id})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
