package videos

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/clipdeck/videos-service/internal/http/middleware"
	"github.com/clipdeck/videos-service/internal/probe"
	"github.com/clipdeck/videos-service/internal/types"
	"github.com/clipdeck/videos-service/internal/upload"
)

type stubStore struct {
	videos    map[string]types.Video
	updateErr error
}

func newStubStore(videos ...types.Video) *stubStore {
	s := &stubStore{videos: make(map[string]types.Video)}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *stubStore) CreateUser(email, password string) (string, error) { return "1", nil }
func (s *stubStore) GetUserByEmail(email string) (string, string, error) {
	return "", "", sql.ErrNoRows
}

func (s *stubStore) CreateVideo(userID, title, description string) (string, error) {
	id := fmt.Sprintf("vid-%d", len(s.videos)+1)
	s.videos[id] = types.Video{ID: id, UserID: userID, Title: title, Description: description}
	return id, nil
}

func (s *stubStore) GetVideo(id string) (*types.Video, error) {
	v, ok := s.videos[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (s *stubStore) UpdateVideo(video *types.Video) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.videos[video.ID]; !ok {
		return sql.ErrNoRows
	}
	s.videos[video.ID] = *video
	return nil
}

func (s *stubStore) ListVideosForUser(userID string) ([]types.Video, error) {
	var out []types.Video
	for _, v := range s.videos {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

type stubProber struct {
	result probe.Result
	err    error
}

func (p *stubProber) Probe(ctx context.Context, path string) (probe.Result, error) {
	return p.result, p.err
}

type stubPlacer struct {
	err error
}

func (p *stubPlacer) Upload(ctx context.Context, objectKey, filePath, contentType string) error {
	return p.err
}

func (p *stubPlacer) MediaURL(objectKey string) string {
	return "http://localhost:9000/videos/" + objectKey
}

type stubPublisher struct {
	videoEvents     int
	thumbnailEvents int
}

func (p *stubPublisher) PublishVideoUploaded(videoID, ownerID, videoURL, aspectClass string) {
	p.videoEvents++
}

func (p *stubPublisher) PublishThumbnailUpdated(videoID, ownerID, thumbnailURL string) {
	p.thumbnailEvents++
}

// withUser stands in for the auth middleware in tests.
func withUser(userID string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type uploadFixture struct {
	mux       *http.ServeMux
	store     *stubStore
	publisher *stubPublisher
	scratch   string
}

func newUploadFixture(t *testing.T, store *stubStore, prober probe.Prober, placer upload.Placer) *uploadFixture {
	t.Helper()

	scratch := t.TempDir()
	staging, err := upload.NewStaging(scratch)
	if err != nil {
		t.Fatalf("NewStaging: %v", err)
	}

	policy := upload.Policy{MaxBytes: 1 << 30, AllowedTypes: []string{"video/mp4"}}
	ingestor := upload.NewIngestor(policy, staging, prober, placer, store)
	publisher := &stubPublisher{}

	mux := http.NewServeMux()
	mux.Handle("POST /videos/{videoID}", withUser("1", Upload(store, ingestor, publisher, 1<<30)))
	mux.Handle("GET /videos/{videoID}", withUser("1", GetVideo(store)))
	mux.Handle("POST /videos", withUser("1", CreateVideo(store)))

	return &uploadFixture{mux: mux, store: store, publisher: publisher, scratch: scratch}
}

func multipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func scratchFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	return len(entries)
}

func landscapeProber() *stubProber {
	return &stubProber{result: probe.Result{Width: 1920, Height: 1080, Ratio: "16:9"}}
}

func TestUploadHappyPath(t *testing.T) {
	store := newStubStore(types.Video{ID: "vid-1", UserID: "1", Title: "clip"})
	fx := newUploadFixture(t, store, landscapeProber(), &stubPlacer{})

	body, contentType := multipartBody(t, "video", "clip.mp4", "video/mp4", []byte("fake mp4 bytes"))
	req := httptest.NewRequest(http.MethodPost, "/videos/vid-1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var video types.Video
	if err := json.NewDecoder(rec.Body).Decode(&video); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := "http://localhost:9000/videos/landscape/vid-1.mp4"
	if video.VideoURL != want {
		t.Errorf("video_url = %q, want %q", video.VideoURL, want)
	}

	persisted := fx.store.videos["vid-1"]
	if persisted.VideoURL != want {
		t.Errorf("persisted video_url = %q, want %q", persisted.VideoURL, want)
	}

	if fx.publisher.videoEvents != 1 {
		t.Errorf("published %d events, want 1", fx.publisher.videoEvents)
	}
	if n := scratchFileCount(t, fx.scratch); n != 0 {
		t.Errorf("%d staging files left after success", n)
	}
}

func TestUploadDisallowedContentType(t *testing.T) {
	store := newStubStore(types.Video{ID: "vid-1", UserID: "1"})
	fx := newUploadFixture(t, store, landscapeProber(), &stubPlacer{})

	body, contentType := multipartBody(t, "video", "clip.avi", "video/avi", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/videos/vid-1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if n := scratchFileCount(t, fx.scratch); n != 0 {
		t.Errorf("rejected upload left %d staging files", n)
	}
	if got := fx.store.videos["vid-1"].VideoURL; got != "" {
		t.Errorf("video_url = %q after rejection", got)
	}
}

func TestUploadMissingFileField(t *testing.T) {
	store := newStubStore(types.Video{ID: "vid-1", UserID: "1"})
	fx := newUploadFixture(t, store, landscapeProber(), &stubPlacer{})

	body, contentType := multipartBody(t, "attachment", "clip.mp4", "video/mp4", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/videos/vid-1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadNotOwner(t *testing.T) {
	store := newStubStore(types.Video{ID: "vid-1", UserID: "2"})
	fx := newUploadFixture(t, store, landscapeProber(), &stubPlacer{})

	body, contentType := multipartBody(t, "video", "clip.mp4", "video/mp4", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/videos/vid-1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUploadUnknownVideo(t *testing.T) {
	fx := newUploadFixture(t, newStubStore(), landscapeProber(), &stubPlacer{})

	body, contentType := multipartBody(t, "video", "clip.mp4", "video/mp4", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/videos/nope", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUploadProbeReportsNoStreams(t *testing.T) {
	store := newStubStore(types.Video{ID: "vid-1", UserID: "1"})
	prober := &stubProber{err: probe.ErrNoVideoStream}
	fx := newUploadFixture(t, store, prober, &stubPlacer{})

	body, contentType := multipartBody(t, "video", "clip.mp4", "video/mp4", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/videos/vid-1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := fx.store.videos["vid-1"].VideoURL; got != "" {
		t.Errorf("video_url = %q after probe failure", got)
	}
	if n := scratchFileCount(t, fx.scratch); n != 0 {
		t.Errorf("%d staging files left after probe failure", n)
	}
	if fx.publisher.videoEvents != 0 {
		t.Error("event published for a failed ingestion")
	}
}

func TestUploadPlacementFailure(t *testing.T) {
	store := newStubStore(types.Video{ID: "vid-1", UserID: "1"})
	fx := newUploadFixture(t, store, landscapeProber(), &stubPlacer{err: errors.New("connection reset")})

	body, contentType := multipartBody(t, "video", "clip.mp4", "video/mp4", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/videos/vid-1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := fx.store.videos["vid-1"].VideoURL; got != "" {
		t.Errorf("video_url = %q after placement failure", got)
	}
	if n := scratchFileCount(t, fx.scratch); n != 0 {
		t.Errorf("%d staging files left after placement failure", n)
	}
}

func TestCreateVideo(t *testing.T) {
	fx := newUploadFixture(t, newStubStore(), landscapeProber(), &stubPlacer{})

	req := httptest.NewRequest(http.MethodPost, "/videos",
		strings.NewReader(`{"title":"my clip"}`))
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] == "" {
		t.Error("response missing video id")
	}
}

func TestCreateVideoRequiresTitle(t *testing.T) {
	fx := newUploadFixture(t, newStubStore(), landscapeProber(), &stubPlacer{})

	req := httptest.NewRequest(http.MethodPost, "/videos",
		strings.NewReader(`{"description":"no title"}`))
	rec := httptest.NewRecorder()

	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetVideo(t *testing.T) {
	store := newStubStore(types.Video{ID: "vid-1", UserID: "1", Title: "clip"})
	fx := newUploadFixture(t, store, landscapeProber(), &stubPlacer{})

	req := httptest.NewRequest(http.MethodGet, "/videos/vid-1", nil)
	rec := httptest.NewRecorder()
	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var video types.Video
	if err := json.NewDecoder(rec.Body).Decode(&video); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if video.ID != "vid-1" || video.Title != "clip" {
		t.Errorf("unexpected video %+v", video)
	}
}

func TestGetVideoNotFound(t *testing.T) {
	fx := newUploadFixture(t, newStubStore(), landscapeProber(), &stubPlacer{})

	req := httptest.NewRequest(http.MethodGet, "/videos/nope", nil)
	rec := httptest.NewRecorder()
	fx.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
