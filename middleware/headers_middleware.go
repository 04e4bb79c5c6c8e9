package middleware

import (
	"fmt"
	"net/http"

	"github.com/coursekit/media-gateway/media"
)

// SecurityHeaders applies the class-dependent response header policy
// before the handler writes the status line.
//
// Every media response gets a sniffing guard and a private cache
// directive. Videos additionally get framing restrictions, inline
// disposition, range advertisement, and the player-facing streaming
// markers. Documents get the framing restriction only.
func SecurityHeaders(cacheMaxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class, _ := GetAccessClassFromContext(r.Context())

			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Cache-Control", fmt.Sprintf("private, max-age=%d", cacheMaxAge))

			switch class {
			case media.ClassVideo:
				h.Set("X-Frame-Options", "SAMEORIGIN")
				h.Set("Content-Disposition", "inline")
				h.Set("Accept-Ranges", "bytes")
				h.Set("X-Video-Security", "protected")
				h.Set("X-Streaming-Only", "true")
				h.Set("X-No-Download", "true")
			case media.ClassDocument:
				h.Set("X-Frame-Options", "SAMEORIGIN")
			}

			next.ServeHTTP(w, r)
		})
	}
}
