package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/media"
	"github.com/coursekit/media-gateway/middleware"
	"github.com/coursekit/media-gateway/models"
	"github.com/coursekit/media-gateway/services"
	"github.com/coursekit/media-gateway/services/audit"
	"github.com/coursekit/media-gateway/utils"
)

// MediaHandler is the terminal stage of the media pipeline. By the time
// a request reaches it, authentication and authorization have passed;
// what remains is resolving the path, streaming bytes, and recording
// the outcome.
type MediaHandler struct {
	resolver *media.Resolver
	streamer *media.Streamer
	auditor  *audit.Service
	logger   *zap.Logger

	// verboseErrors includes the underlying error message and details
	// in response bodies. Off in production.
	verboseErrors bool
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(resolver *media.Resolver, streamer *media.Streamer, auditor *audit.Service, logger *zap.Logger, verboseErrors bool) *MediaHandler {
	return &MediaHandler{
		resolver:      resolver,
		streamer:      streamer,
		auditor:       auditor,
		logger:        logger,
		verboseErrors: verboseErrors,
	}
}

// HandleMedia handles GET /api/media/*
func (h *MediaHandler) HandleMedia(w http.ResponseWriter, r *http.Request) {
	mediaPath, ok := middleware.GetMediaPathFromContext(r.Context())
	if !ok {
		// Pipeline misconfiguration; ExtractMediaPath must run first.
		h.logger.Error("media handler reached without a media path")
		HandleServiceError(w, services.ErrInternal, h.logger)
		return
	}
	class, _ := middleware.GetAccessClassFromContext(r.Context())
	user, _ := middleware.GetUserFromContext(r.Context())

	asset, err := h.resolver.Resolve(mediaPath)
	if err != nil {
		h.deny(w, r, mediaPath, class, user, err)
		return
	}

	status, err := h.streamer.Serve(w, r, asset)
	if err != nil {
		if errors.Is(err, media.ErrUnsatisfiableRange) {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", asset.SizeBytes))
			if werr := utils.WriteRangeNotSatisfiable(w, ""); werr != nil {
				h.logger.Error("failed to write 416 response", zap.Error(werr))
			}
			h.record(r, mediaPath, class, user, models.DecisionError,
				http.StatusRequestedRangeNotSatisfiable, "range_not_satisfiable")
			return
		}
		// Pre-stream failure; no bytes written yet.
		HandleServiceError(w, err, h.logger)
		h.record(r, mediaPath, class, user, models.DecisionError,
			StatusForError(err), "streaming_failed")
		return
	}

	h.record(r, mediaPath, class, user, models.DecisionGranted, status, "")
}

// deny writes the error response for a failed resolution and audits it
func (h *MediaHandler) deny(w http.ResponseWriter, r *http.Request, mediaPath string, class media.AccessClass, user *models.User, err error) {
	status := StatusForError(err)
	decision := models.DecisionDenied
	reason := "resolve_failed"

	switch {
	case services.IsPathEscapeError(err):
		reason = "path_escape"
		h.logger.Warn("path escape attempt",
			zap.String("path", mediaPath),
			zap.String("remote_addr", r.RemoteAddr))
	case services.IsNotFoundError(err):
		reason = "not_found"
	default:
		decision = models.DecisionError
	}

	if h.verboseErrors {
		if werr := utils.WriteError(w, status, err.Error(), services.GetErrorDetails(err)); werr != nil {
			h.logger.Error("failed to write error response", zap.Error(werr))
		}
	} else {
		HandleServiceError(w, err, h.logger)
	}
	h.record(r, mediaPath, class, user, decision, status, reason)
}

func (h *MediaHandler) record(r *http.Request, mediaPath string, class media.AccessClass, user *models.User, decision models.AccessDecision, status int, reason string) {
	h.auditor.Record(models.NewAccessEvent(mediaPath, string(class), decision).
		WithUser(user).
		WithRequest(r.RemoteAddr, r.UserAgent()).
		WithOutcome(status, reason))
}
