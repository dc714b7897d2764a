package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/postdesk/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for post history.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, clientIP(r)) // RemoteAddr already rewritten by TrustedRealIP
	ctx = core.ContextWithUserAgent(ctx, r.Header.Get("User-Agent"))
	return ctx
}
