package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/guildtag/internal/core"
	webmw "github.com/JonMunkholm/guildtag/internal/web/middleware"
)

// WithRequestMetadata adds the client IP and lookup session to ctx.
func WithRequestMetadata(ctx context.Context, r *http.Request, sessionID string) context.Context {
	ctx = core.ContextWithIPAddress(ctx, webmw.ClientIP(r)) // Already processed by TrustedRealIP
	ctx = core.ContextWithSessionID(ctx, sessionID)
	return ctx
}
