package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"music-go/internal/api/handler"
	"music-go/internal/api/middleware"
	"music-go/internal/auth"
	"music-go/internal/repository"
	"music-go/internal/service"
	"music-go/internal/storage"
	"music-go/internal/testutil"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokenVerifier 以 "user:" 开头的令牌视为有效，其余部分作为外部ID
type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	if !strings.HasPrefix(token, "user:") {
		return nil, auth.ErrTokenInvalid
	}
	ext := strings.TrimPrefix(token, "user:")
	return &auth.Identity{ExternalID: ext, DisplayName: ext, Roles: []string{}}, nil
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	tagRepo := repository.NewTagRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	playRepo := repository.NewPlayHistoryRepository(db)
	txm := repository.NewTxManager(db)

	userService := service.NewUserService(userRepo, followRepo)
	trackService := service.NewTrackService(trackRepo, tagRepo, likeRepo, commentRepo, playRepo, playlistRepo, txm)
	playService := service.NewPlayHistoryService(playRepo, trackRepo, tagRepo, likeRepo, commentRepo)
	local := storage.NewLocalStore(t.TempDir())

	h := &Handlers{
		User:        handler.NewUserHandler(userService),
		Track:       handler.NewTrackHandler(trackService, playService, local),
		Upload:      handler.NewUploadHandler(service.NewUploadService(nil, local, trackService, service.UploadOptions{MaxLocalSize: 1 << 20, MaxInitiateSize: 1 << 20})),
		Like:        handler.NewLikeHandler(service.NewLikeService(likeRepo, trackRepo, tagRepo, commentRepo, playRepo, txm)),
		Comment:     handler.NewCommentHandler(service.NewCommentService(commentRepo, trackRepo)),
		Follow:      handler.NewFollowHandler(service.NewFollowService(followRepo, userRepo, txm)),
		Playlist:    handler.NewPlaylistHandler(service.NewPlaylistService(playlistRepo, trackRepo, userRepo, tagRepo, likeRepo, commentRepo, playRepo, txm)),
		PlayHistory: handler.NewPlayHistoryHandler(playService),
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	Setup(r, h, middleware.NewAuthenticator(tokenVerifier{}, userService), nil)
	return r
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func errorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	e, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing error envelope: %v", body)
	}
	if _, ok := e["details"].(map[string]interface{}); !ok {
		t.Fatalf("details should be an object: %v", e)
	}
	code, _ := e["code"].(string)
	return code
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing data: %v", body)
	}
	return d
}

func TestErrorEnvelopeShapes(t *testing.T) {
	r := newTestServer(t)

	w, body := call(t, r, http.MethodGet, "/api/v1/tracks/999", "", nil)
	if w.Code != http.StatusNotFound || errorCode(t, body) != "NOT_FOUND" {
		t.Fatalf("missing track: %d %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodGet, "/api/v1/tracks/abc", "", nil)
	if w.Code != http.StatusUnprocessableEntity || errorCode(t, body) != "VALIDATION_FAILED" {
		t.Fatalf("bad id: %d %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodGet, "/api/v1/tracks?limit=101", "", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("limit over max: %d %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodPost, "/api/v1/likes", "", map[string]int{"track_id": 1})
	if w.Code != http.StatusUnauthorized || errorCode(t, body) != "UNAUTHORIZED" {
		t.Fatalf("anonymous like: %d %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodPost, "/api/v1/likes", "user:a", map[string]string{"track_id": "x"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad body: %d %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodGet, "/api/v1/tracks/search?q=", "", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty search: %d %v", w.Code, body)
	}
}

func TestMeCreatesProfileLazily(t *testing.T) {
	r := newTestServer(t)

	w, body := call(t, r, http.MethodGet, "/api/v1/users/me", "user:dj", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /users/me: %d %v", w.Code, body)
	}
	me := data(t, body)
	if me["user_id"] != "dj" || me["nickname"] != "dj" {
		t.Fatalf("unexpected profile %v", me)
	}

	w, body = call(t, r, http.MethodPatch, "/api/v1/users/me", "user:dj", map[string]string{"bio": "beats"})
	if w.Code != http.StatusOK || data(t, body)["bio"] != "beats" {
		t.Fatalf("PATCH /users/me: %d %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodPost, "/api/v1/users", "", map[string]string{"user_id": "dj", "nickname": "again"})
	if w.Code != http.StatusConflict || errorCode(t, body) != "DUPLICATE_RESOURCE" {
		t.Fatalf("duplicate profile: %d %v", w.Code, body)
	}
}

func TestPrivatePlaylistOverHTTP(t *testing.T) {
	r := newTestServer(t)

	w, body := call(t, r, http.MethodPost, "/api/v1/playlists", "user:u1", map[string]interface{}{"name": "P", "is_public": false})
	if w.Code != http.StatusCreated {
		t.Fatalf("create playlist: %d %v", w.Code, body)
	}
	id := int(data(t, body)["id"].(float64))
	path := "/api/v1/playlists/" + strconv.Itoa(id)

	w, body = call(t, r, http.MethodGet, path, "", nil)
	if w.Code != http.StatusForbidden || errorCode(t, body) != "FORBIDDEN" {
		t.Fatalf("anonymous GET: %d %v", w.Code, body)
	}

	w, _ = call(t, r, http.MethodGet, path, "user:u2", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("other user GET: %d", w.Code)
	}

	w, body = call(t, r, http.MethodGet, path, "user:u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner GET: %d %v", w.Code, body)
	}
	tracks, ok := data(t, body)["tracks"].([]interface{})
	if !ok || len(tracks) != 0 {
		t.Fatalf("owner should see an empty track list, got %v", data(t, body)["tracks"])
	}
}

func TestSelfFollowIsValidationError(t *testing.T) {
	r := newTestServer(t)

	w, body := call(t, r, http.MethodGet, "/api/v1/users/me", "user:solo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /users/me: %d", w.Code)
	}
	id := int(data(t, body)["id"].(float64))

	w, body = call(t, r, http.MethodPost, "/api/v1/follows/users/"+strconv.Itoa(id)+"/follow", "user:solo", nil)
	if w.Code != http.StatusUnprocessableEntity || errorCode(t, body) != "VALIDATION_FAILED" {
		t.Fatalf("self follow: %d %v", w.Code, body)
	}
}

func TestLocalUploadAndStream(t *testing.T) {
	r := newTestServer(t)

	w, body := call(t, r, http.MethodPost, "/api/v1/tracks/upload/initiate", "user:up", map[string]interface{}{
		"filename": "song.mp3", "content_type": "audio/mpeg", "file_size": 4,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("initiate: %d %v", w.Code, body)
	}
	init := data(t, body)
	uploadURL := init["upload_url"].(string)

	req := httptest.NewRequest(http.MethodPut, uploadURL, strings.NewReader("ID3x"))
	req.Header.Set("Authorization", "Bearer user:up")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT upload: %d %s", rec.Code, rec.Body.String())
	}

	w, body = call(t, r, http.MethodPost, "/api/v1/tracks/upload/finalize", "user:up", map[string]interface{}{
		"upload_id": init["upload_id"], "filename": "song.mp3", "title": "Demo",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("finalize: %d %v", w.Code, body)
	}
	trackID := int(data(t, body)["id"].(float64))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tracks/"+strconv.Itoa(trackID)+"/stream", nil)
	req.Header.Set("Authorization", "Bearer user:up")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ID3x" {
		t.Fatalf("stream: %d %q", rec.Code, rec.Body.String())
	}

	w, body = call(t, r, http.MethodGet, "/api/v1/tracks/"+strconv.Itoa(trackID)+"/play-count", "", nil)
	if w.Code != http.StatusOK || data(t, body)["play_count"].(float64) != 1 {
		t.Fatalf("play count after stream: %d %v", w.Code, body)
	}
}

func TestStreamMissingFileDoesNotRecordPlay(t *testing.T) {
	r := newTestServer(t)

	w, body := call(t, r, http.MethodPost, "/api/v1/tracks/upload/initiate", "user:up", map[string]interface{}{
		"filename": "ghost.mp3", "content_type": "audio/mpeg", "file_size": 4,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("initiate: %d %v", w.Code, body)
	}
	init := data(t, body)

	// 跳过 PUT，直接 finalize
	w, body = call(t, r, http.MethodPost, "/api/v1/tracks/upload/finalize", "user:up", map[string]interface{}{
		"upload_id": init["upload_id"], "filename": "ghost.mp3", "title": "Ghost",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("finalize: %d %v", w.Code, body)
	}
	trackID := strconv.Itoa(int(data(t, body)["id"].(float64)))

	w, body = call(t, r, http.MethodGet, "/api/v1/tracks/"+trackID+"/stream", "user:up", nil)
	if w.Code != http.StatusNotFound || errorCode(t, body) != "NOT_FOUND" {
		t.Fatalf("stream of missing file: %d %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodGet, "/api/v1/tracks/"+trackID+"/play-count", "", nil)
	if w.Code != http.StatusOK || data(t, body)["play_count"].(float64) != 0 {
		t.Fatalf("failed stream should not count as a play: %d %v", w.Code, body)
	}
}

func TestBlankTextIsValidationError(t *testing.T) {
	r := newTestServer(t)

	w, body := call(t, r, http.MethodPost, "/api/v1/playlists", "user:owner", map[string]interface{}{"name": "   "})
	if w.Code != http.StatusUnprocessableEntity || errorCode(t, body) != "VALIDATION_FAILED" {
		t.Fatalf("blank playlist name: %d %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodPatch, "/api/v1/users/me", "user:owner", map[string]interface{}{"nickname": " \t "})
	if w.Code != http.StatusUnprocessableEntity || errorCode(t, body) != "VALIDATION_FAILED" {
		t.Fatalf("blank nickname: %d %v", w.Code, body)
	}
}
