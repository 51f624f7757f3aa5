package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/cablebill/internal/audit/domain"
	"github.com/smallbiznis/cablebill/internal/auditcontext"
	obsctx "github.com/smallbiznis/cablebill/internal/observability/context"
)

// auditMiddleware stores request attribution on the context so audit
// entries written downstream carry the caller's identity.
func auditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
		ctx = auditcontext.WithUserAgent(ctx, c.Request.UserAgent())

		if actorID := strings.TrimSpace(c.GetHeader("X-Actor-Id")); actorID != "" {
			ctx = obsctx.WithActor(ctx, string(auditdomain.ActorTypeUser), actorID)
		} else {
			ctx = obsctx.WithActor(ctx, string(auditdomain.ActorTypeSystem), "")
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
