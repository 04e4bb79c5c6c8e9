// Package handlers contains the terminal HTTP handlers: media serving
// and health probes. Policy decisions happen in the middleware
// pipeline; handlers only resolve, stream, and report.
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/services"
	"github.com/coursekit/media-gateway/utils"
)

// HandleServiceError maps domain errors to HTTP responses. Internal
// detail stays out of the body; clients get the category and a short
// message.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	switch {
	case services.IsCredentialError(err):
		writeOrLog(utils.WriteUnauthorized(w, "authentication required"), logger)

	case services.IsPathEscapeError(err), services.IsForbiddenError(err):
		// Path escapes are deliberately indistinguishable from other
		// forbidden responses on the wire.
		writeOrLog(utils.WriteForbidden(w, "access denied"), logger)

	case services.IsNotFoundError(err):
		writeOrLog(utils.WriteNotFound(w, "media not found"), logger)

	default:
		logger.Error("media request failed",
			zap.String("error_type", string(services.GetErrorType(err))),
			zap.Error(err))
		writeOrLog(utils.WriteInternalServerError(w, "internal server error"), logger)
	}
}

// StatusForError returns the HTTP status HandleServiceError would write
func StatusForError(err error) int {
	switch {
	case services.IsCredentialError(err):
		return http.StatusUnauthorized
	case services.IsPathEscapeError(err), services.IsForbiddenError(err):
		return http.StatusForbidden
	case services.IsNotFoundError(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeOrLog(err error, logger *zap.Logger) {
	if err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}
