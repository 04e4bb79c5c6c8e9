package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/services"
)

// ErrUnsatisfiableRange means the range start lies at or beyond the end
// of the file. Callers answer with 416 and a bytes */size header.
var ErrUnsatisfiableRange = errors.New("range not satisfiable")

// errMalformedRange is internal: a Range header the streamer cannot
// parse is treated as absent and the full file is served.
var errMalformedRange = errors.New("malformed range header")

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".zip":  "application/zip",
}

// ContentTypeFor returns the MIME type for a media path based on its
// extension, falling back to application/octet-stream.
func ContentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ByteRange is a single inclusive byte range within a file
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers
func (b ByteRange) Length() int64 {
	return b.End - b.Start + 1
}

// ParseRange parses a Range request header against a file size.
//
// Returns (nil, nil) when the header is absent, errMalformedRange for
// anything the streamer does not understand (multi-range, suffix
// ranges, garbage), and ErrUnsatisfiableRange when the start lies at or
// beyond the end of the file. An end beyond the file, or a missing end,
// is clamped to the last byte.
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}

	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return nil, errMalformedRange
	}

	spec := strings.TrimPrefix(header, prefix)
	if strings.Contains(spec, ",") {
		// Multi-range requests get the whole file instead.
		return nil, errMalformedRange
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, errMalformedRange
	}

	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || start < 0 {
		return nil, errMalformedRange
	}

	end := size - 1
	if trimmed := strings.TrimSpace(parts[1]); trimmed != "" {
		end, err = strconv.ParseInt(trimmed, 10, 64)
		if err != nil || end < start {
			return nil, errMalformedRange
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start >= size {
		return nil, ErrUnsatisfiableRange
	}

	return &ByteRange{Start: start, End: end}, nil
}

// Streamer serves resolved assets over HTTP with single-range support.
// Bodies are copied through a bounded buffer; files are never read into
// memory whole.
type Streamer struct {
	logger *zap.Logger
}

// NewStreamer creates a streamer that logs through the given logger
func NewStreamer(logger *zap.Logger) *Streamer {
	return &Streamer{logger: logger}
}

// Serve writes the asset body, honoring a single Range header, and
// returns the status it answered with.
//
// Full requests and malformed ranges answer 200 with the complete body;
// valid partial ranges answer 206 with Content-Range. An unsatisfiable
// range returns ErrUnsatisfiableRange before any byte is written, and
// the caller owns the 416 response. Errors after the status line has
// been sent cannot be turned into an error response anymore, so they
// are logged and swallowed.
func (s *Streamer) Serve(w http.ResponseWriter, r *http.Request, asset *ResolvedAsset) (int, error) {
	br, err := ParseRange(r.Header.Get("Range"), asset.SizeBytes)
	if err != nil {
		if errors.Is(err, ErrUnsatisfiableRange) {
			return 0, err
		}
		// Malformed: fall back to serving the whole file.
		br = nil
	}

	f, err := os.Open(asset.AbsolutePath)
	if err != nil {
		return 0, services.WrapStreaming("opening asset", err)
	}
	defer f.Close()

	w.Header().Set("Content-Type", asset.MimeType)

	if br == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(asset.SizeBytes, 10))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, f); err != nil {
			s.logStreamError(r, asset, err)
		}
		return http.StatusOK, nil
	}

	if _, err := f.Seek(br.Start, io.SeekStart); err != nil {
		return 0, services.WrapStreaming("seeking asset", err)
	}

	w.Header().Set("Content-Range",
		fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, asset.SizeBytes))
	w.Header().Set("Content-Length", strconv.FormatInt(br.Length(), 10))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := io.CopyN(w, f, br.Length()); err != nil {
		s.logStreamError(r, asset, err)
	}
	return http.StatusPartialContent, nil
}

func (s *Streamer) logStreamError(r *http.Request, asset *ResolvedAsset, err error) {
	// Usually a client that stopped watching; not an error condition.
	s.logger.Warn("stream interrupted",
		zap.String("path", asset.AbsolutePath),
		zap.String("remote_addr", r.RemoteAddr),
		zap.Error(err),
	)
}
