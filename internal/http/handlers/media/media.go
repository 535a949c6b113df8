package media

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/multipost-api/internal/services/publish"
	"github.com/princekumarofficial/multipost-api/internal/types/media"
	"github.com/princekumarofficial/multipost-api/internal/utils/response"
)

const (
	InvalidVideoMessage = "Please upload a valid video file"

	// probeSize is how much of the upload is read to check the stream.
	probeSize = 1024

	defaultPlatforms = "[]"
)

type Publisher interface {
	Publish(req media.UploadRequest) media.UploadResponse
}

type MediaHandlers struct {
	publisher      Publisher
	validate       *validator.Validate
	maxMemoryBytes int64
	maxBodyBytes   int64
}

// NewMediaHandlers creates a new media handlers instance
func NewMediaHandlers(publisher Publisher, maxMemoryBytes, maxBodyBytes int64) *MediaHandlers {
	return &MediaHandlers{
		publisher:      publisher,
		validate:       validator.New(),
		maxMemoryBytes: maxMemoryBytes,
		maxBodyBytes:   maxBodyBytes,
	}
}

// Upload accepts one video and pretends to queue it on several platforms
// @Summary Upload a video for publishing
// @Description Validates the video, reads its first kilobyte and returns mock job IDs per platform. Nothing is published.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "Video file (video/*)"
// @Param caption formData string false "Caption"
// @Param platforms formData string false "JSON array of platform names" default([])
// @Success 200 {object} media.UploadResponse "Video queued"
// @Failure 400 {object} response.Error "Not a video"
// @Failure 413 {object} response.Error "Upload too large"
// @Failure 429 {object} response.Error "Rate limit exceeded"
// @Failure 500 {object} response.Error "Internal server error"
// @Router /api/upload [post]
func (h *MediaHandlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

		if err := r.ParseMultipartForm(h.maxMemoryBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.Detail("upload too large"))
				return
			}
			slog.Debug("upload rejected", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.Detail(InvalidVideoMessage))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("video")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Detail(InvalidVideoMessage))
			return
		}
		defer file.Close()

		size := header.Size
		req := media.UploadRequest{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        &size,
		}

		if err := h.validate.Struct(req); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				slog.Debug("upload rejected", slog.String("reason", response.ValidationError(ve).Detail))
			}
			response.WriteJSON(w, http.StatusBadRequest, response.Detail(InvalidVideoMessage))
			return
		}

		req.Caption = formValue(r, "caption", "")
		req.Platforms = publish.ResolvePlatforms(formValue(r, "platforms", defaultPlatforms))

		// only the head of the stream is touched
		if _, err := io.ReadFull(file, make([]byte, probeSize)); err != nil &&
			!errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			slog.Error("failed to read upload", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.Detail("failed to read uploaded video"))
			return
		}

		resp := h.publisher.Publish(req)
		slog.Info("video queued",
			slog.String("filename", resp.FileName),
			slog.Int64("size", size),
			slog.Int("platforms", len(resp.Platforms)))

		response.WriteJSON(w, http.StatusOK, resp)
	}
}

// formValue returns the multipart field key, or def when the field is absent.
func formValue(r *http.Request, key, def string) string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return def
	}
	return values[0]
}
