package media

import "github.com/princekumarofficial/multipost-api/internal/types"

// UploadRequest is the parsed multipart form of POST /api/upload.
type UploadRequest struct {
	FileName    string           `json:"filename"`
	ContentType string           `json:"content_type" validate:"startswith=video/"`
	Size        *int64           `json:"size"`
	Caption     string           `json:"caption"`
	Platforms   []types.Platform `json:"platforms"`
}

// UploadResponse is returned once a video is (pretend) queued.
type UploadResponse struct {
	Message   string                    `json:"message"`
	FileName  string                    `json:"filename"`
	Size      *int64                    `json:"size"`
	Caption   string                    `json:"caption"`
	Platforms []types.Platform          `json:"platforms"`
	Jobs      map[types.Platform]string `json:"jobs"`
	Note      string                    `json:"note"`
}
