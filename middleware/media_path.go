package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/media"
	"github.com/coursekit/media-gateway/utils"
)

// ExtractMediaPath decodes the wildcard tail of the media route,
// classifies it, and stores both in the request context. Every later
// stage reads the class from the context; classification happens
// exactly once per request.
func ExtractMediaPath(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The wildcard URL param is only populated once the terminal
			// route matches, which is after this middleware. RoutePath
			// carries the not-yet-matched tail at this point.
			var raw string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				raw = strings.TrimPrefix(rctx.RoutePath, "/")
			}
			if raw == "" {
				raw = chi.URLParam(r, "*")
			}
			if raw == "" {
				utils.WriteNotFound(w, "no media path")
				return
			}

			decoded, err := url.PathUnescape(raw)
			if err != nil {
				logger.Warn("undecodable media path",
					zap.String("raw_path", raw),
					zap.String("remote_addr", r.RemoteAddr),
				)
				utils.WriteNotFound(w, "invalid media path")
				return
			}
			decoded = strings.TrimPrefix(decoded, "/")

			class := media.Classify(decoded)

			ctx := WithMediaPath(r.Context(), decoded)
			ctx = WithAccessClass(ctx, class)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
