package publish

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/princekumarofficial/multipost-api/internal/types"
	"github.com/princekumarofficial/multipost-api/internal/types/media"
)

const (
	QueuedMessage = "Video queued for publishing to selected platforms."
	DemoNote      = "This is a demo endpoint. Replace with real platform integrations."

	// jobSuffix is shared by every synthesized job ID; nothing is tracked.
	jobSuffix = "12345"
)

// DefaultPlatforms returns the platforms used when the caller selects none.
func DefaultPlatforms() []types.Platform {
	return []types.Platform{
		types.PlatformYouTube,
		types.PlatformTikTok,
		types.PlatformInstagram,
	}
}

// ParsePlatforms decodes a JSON array of platform names. Anything that is not
// a well-formed JSON array yields an empty list. Non-string elements are kept
// as their JSON text.
func ParsePlatforms(raw string) []types.Platform {
	dec := json.NewDecoder(strings.NewReader(raw))

	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return nil
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil
	}

	platforms := make([]types.Platform, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			platforms = append(platforms, types.Platform(name))
			continue
		}
		platforms = append(platforms, types.Platform(compact(item)))
	}

	return platforms
}

// ResolvePlatforms applies ParsePlatforms and substitutes the defaults for an
// empty result, including an explicit "[]".
func ResolvePlatforms(raw string) []types.Platform {
	platforms := ParsePlatforms(raw)
	if len(platforms) == 0 {
		return DefaultPlatforms()
	}
	return platforms
}

// JobID synthesizes the placeholder job handle for a platform.
func JobID(p types.Platform) string {
	return fmt.Sprintf("job_%s_%s", p, jobSuffix)
}

// Service fabricates publishing jobs. It holds no state.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Publish builds the queued response for req. No platform is contacted.
func (s *Service) Publish(req media.UploadRequest) media.UploadResponse {
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = DefaultPlatforms()
	}

	jobs := make(map[types.Platform]string, len(platforms))
	for _, p := range platforms {
		jobs[p] = JobID(p)
	}

	return media.UploadResponse{
		Message:   QueuedMessage,
		FileName:  req.FileName,
		Size:      req.Size,
		Caption:   req.Caption,
		Platforms: platforms,
		Jobs:      jobs,
		Note:      DemoNote,
	}
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
