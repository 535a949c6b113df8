package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"reflect"
	"strings"
	"testing"

	"github.com/princekumarofficial/multipost-api/internal/services/publish"
)

type uploadBody struct {
	Message   string            `json:"message"`
	Filename  string            `json:"filename"`
	Size      *int64            `json:"size"`
	Caption   string            `json:"caption"`
	Platforms []string          `json:"platforms"`
	Jobs      map[string]string `json:"jobs"`
	Note      string            `json:"note"`
	Detail    string            `json:"detail"`
}

// newUploadRequest builds a multipart request. An empty contentType omits
// the video part entirely.
func newUploadRequest(t *testing.T, contentType string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if contentType != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="video"; filename="clip.mp4"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("Failed to create part: %v", err)
		}
		part.Write(content)
	}

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func doUpload(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, uploadBody) {
	t.Helper()

	h := NewMediaHandlers(publish.NewService(), 1<<20, 8<<20)
	rec := httptest.NewRecorder()
	h.Upload()(rec, req)

	var body uploadBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	return rec, body
}

func TestUpload_RejectsNonVideo(t *testing.T) {
	rec, body := doUpload(t, newUploadRequest(t, "image/png", []byte("png"), nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if body.Detail != "Please upload a valid video file" {
		t.Fatalf("Unexpected detail %q", body.Detail)
	}
}

func TestUpload_RejectsMissingVideo(t *testing.T) {
	rec, body := doUpload(t, newUploadRequest(t, "", nil, map[string]string{"caption": "x"}))

	if rec.Code != http.StatusBadRequest || body.Detail != InvalidVideoMessage {
		t.Fatalf("Expected 400 with fixed detail, got %d %q", rec.Code, body.Detail)
	}
}

func TestUpload_RejectsNonMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"video": "x"}`))
	req.Header.Set("Content-Type", "application/json")

	rec, body := doUpload(t, req)
	if rec.Code != http.StatusBadRequest || body.Detail != InvalidVideoMessage {
		t.Fatalf("Expected 400 with fixed detail, got %d %q", rec.Code, body.Detail)
	}
}

func TestUpload_DefaultPlatforms(t *testing.T) {
	content := bytes.Repeat([]byte{0x42}, 4096)
	rec, body := doUpload(t, newUploadRequest(t, "video/mp4", content, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	want := []string{"youtube", "tiktok", "instagram"}
	if !reflect.DeepEqual(body.Platforms, want) {
		t.Fatalf("Expected %v, got %v", want, body.Platforms)
	}
	if len(body.Jobs) != 3 {
		t.Fatalf("Expected 3 jobs, got %v", body.Jobs)
	}
	for _, p := range want {
		if body.Jobs[p] != fmt.Sprintf("job_%s_12345", p) {
			t.Fatalf("Unexpected job for %s: %q", p, body.Jobs[p])
		}
	}

	if body.Filename != "clip.mp4" || body.Caption != "" {
		t.Fatalf("Unexpected echo fields %+v", body)
	}
	if body.Size == nil || *body.Size != int64(len(content)) {
		t.Fatalf("Expected size %d, got %v", len(content), body.Size)
	}
	if body.Message != publish.QueuedMessage || body.Note != publish.DemoNote {
		t.Fatalf("Unexpected message/note %q / %q", body.Message, body.Note)
	}
}

func TestUpload_ExplicitPlatforms(t *testing.T) {
	req := newUploadRequest(t, "video/mp4", []byte("tiny"), map[string]string{
		"platforms": `["linkedin"]`,
		"caption":   "launch day",
	})
	rec, body := doUpload(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !reflect.DeepEqual(body.Platforms, []string{"linkedin"}) {
		t.Fatalf("Unexpected platforms %v", body.Platforms)
	}
	if !reflect.DeepEqual(body.Jobs, map[string]string{"linkedin": "job_linkedin_12345"}) {
		t.Fatalf("Unexpected jobs %v", body.Jobs)
	}
	if body.Caption != "launch day" {
		t.Fatalf("Unexpected caption %q", body.Caption)
	}
}

func TestUpload_MalformedPlatforms(t *testing.T) {
	for _, raw := range []string{"not-json", "[]", `{"a":1}`} {
		req := newUploadRequest(t, "video/quicktime", []byte("x"), map[string]string{"platforms": raw})
		rec, body := doUpload(t, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("platforms=%q: expected 200, got %d", raw, rec.Code)
		}
		if !reflect.DeepEqual(body.Platforms, []string{"youtube", "tiktok", "instagram"}) {
			t.Fatalf("platforms=%q: expected default list, got %v", raw, body.Platforms)
		}
	}
}

func TestUpload_TooLarge(t *testing.T) {
	h := NewMediaHandlers(publish.NewService(), 1024, 2048)
	req := newUploadRequest(t, "video/mp4", bytes.Repeat([]byte{1}, 8192), nil)
	rec := httptest.NewRecorder()

	h.Upload()(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected 413, got %d", rec.Code)
	}
}

func TestUpload_Idempotent(t *testing.T) {
	fields := map[string]string{"platforms": `["x","y"]`, "caption": "c"}
	_, first := doUpload(t, newUploadRequest(t, "video/mp4", []byte("abc"), fields))
	_, second := doUpload(t, newUploadRequest(t, "video/mp4", []byte("abc"), fields))

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Expected identical responses, got %+v and %+v", first, second)
	}
}
