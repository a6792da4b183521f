package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/Thanhbi2612/Dreamlens/internal/config"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/service"
	"github.com/Thanhbi2612/Dreamlens/internal/testutil"
	"github.com/Thanhbi2612/Dreamlens/pkg/image_client"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubGenerator struct{ err error }

func (s stubGenerator) Generate(ctx context.Context, prompt, negativePrompt string) (*image_client.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &image_client.Image{Data: bytes.Repeat([]byte{0xff}, 1024), MIMEType: "image/png"}, nil
}

func (stubGenerator) Model() string { return "stub/model" }

type stubAnalyzer struct{ err error }

func (s stubAnalyzer) AnalyzeDream(ctx context.Context, prompt string) (string, error) {
	return "analysis of " + prompt, s.err
}

type stubGoogle struct{ info *service.GoogleUserInfo }

func (stubGoogle) Enabled() bool { return true }

func (stubGoogle) AuthCodeURL(state string) string {
	return "https://accounts.example/auth?state=" + state
}

func (s stubGoogle) Exchange(ctx context.Context, code string) (*service.GoogleUserInfo, error) {
	if code != "good-code" {
		return nil, errors.New("bad code")
	}
	return s.info, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:       config.JWTConfig{SecretKey: "router-test", Algorithm: "HS256", ExpireMinutes: 30},
		CORS:      config.CORSConfig{Origins: []string{"http://localhost:5173"}},
		Frontend:  config.FrontendConfig{URL: "http://localhost:5173"},
		Image:     config.ImageConfig{Token: "hf_token", Model: "stub/model", TimeoutSeconds: 5, MaxConcurrency: 2},
		Analysis:  config.AnalysisConfig{TimeoutSeconds: 5},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0},
	}
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newTestServer(t *testing.T, up Upstreams) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if up.Images == nil {
		up.Images = stubGenerator{}
	}
	if up.Analyzer == nil {
		up.Analyzer = stubAnalyzer{}
	}
	if up.Google == nil {
		up.Google = stubGoogle{}
	}
	db := testutil.NewTestDB(t)
	return &testServer{t: t, db: db, engine: SetupRouter(testConfig(), testutil.NewLogger(), db, nil, up)}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// signup registers and logs in a local user, returning the access token
func (s *testServer) signup(username string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    username + "@example.com",
		"username": username,
		"password": "secret1",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": username, "password": "secret1"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(s.t, rec, &login)
	require.Equal(s.t, "bearer", login.TokenType)
	return login.AccessToken
}

func (s *testServer) createDream(token, title string) uint {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/dreams", token, map[string]string{"title": title})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var dream struct {
		ID         uint  `json:"id"`
		ImageCount int64 `json:"image_count"`
	}
	decode(s.t, rec, &dream)
	require.Equal(s.t, int64(0), dream.ImageCount)
	return dream.ID
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, Upstreams{})

	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"connected"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dreamlens_http_requests_total")
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, Upstreams{})
	token := s.signup("alice")

	rec := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]interface{}
	decode(t, rec, &me)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, "local", me["auth_provider"])
	_, leaked := me["hashed_password"]
	assert.False(t, leaked)

	rec = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "alice@example.com", "username": "other", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "email", body["field"])

	rec = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "not-an-email", "username": "ab", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDreamCRUD(t *testing.T) {
	s := newTestServer(t, Upstreams{})
	token := s.signup("alice")
	first := s.createDream(token, "first")
	second := s.createDream(token, "second")

	rec := s.do(http.MethodPatch, "/api/dreams/"+itoa(first)+"/pin", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/dreams?limit=1&page=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data []struct {
			ID       uint `json:"id"`
			IsPinned bool `json:"is_pinned"`
		} `json:"data"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
			HasNext    bool  `json:"has_next"`
			HasPrev    bool  `json:"has_prev"`
		} `json:"pagination"`
	}
	decode(t, rec, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, first, page.Data[0].ID)
	assert.True(t, page.Data[0].IsPinned)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)

	rec = s.do(http.MethodGet, "/api/dreams?limit=51", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodGet, "/api/dreams?page=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/dreams/"+itoa(second), token, `{"is_archived": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated map[string]interface{}
	decode(t, rec, &updated)
	assert.Equal(t, "second", updated["title"])
	assert.Equal(t, true, updated["is_archived"])

	rec = s.do(http.MethodPut, "/api/dreams/"+itoa(second), token, `{"title": null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/dreams", token, nil)
	decode(t, rec, &page)
	assert.Equal(t, int64(1), page.Pagination.Total, "archived dreams are hidden by default")

	rec = s.do(http.MethodGet, "/api/dreams?include_archived=true", token, nil)
	decode(t, rec, &page)
	assert.Equal(t, int64(2), page.Pagination.Total)

	rec = s.do(http.MethodGet, "/api/dreams/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/dreams/"+itoa(second), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/api/dreams/"+itoa(second), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDreamsAreIsolated(t *testing.T) {
	s := newTestServer(t, Upstreams{})
	alice := s.signup("alice")
	bob := s.signup("bob")
	dream := s.createDream(alice, "private")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/dreams/" + itoa(dream)},
		{http.MethodPut, "/api/dreams/" + itoa(dream)},
		{http.MethodPatch, "/api/dreams/" + itoa(dream) + "/pin"},
		{http.MethodDelete, "/api/dreams/" + itoa(dream)},
	} {
		rec := s.do(tc.method, tc.path, bob, `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method+" "+tc.path)
	}

	rec := s.do(http.MethodPost, "/api/images/generate", bob, map[string]interface{}{"prompt": "p", "dream_id": dream})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int64(0), testutil.CountRows(t, s.db, &models.GeneratedImage{}, ""))
}

func TestGenerateAndDeleteAll(t *testing.T) {
	s := newTestServer(t, Upstreams{})
	token := s.signup("alice")
	dream := s.createDream(token, "ocean")

	rec := s.do(http.MethodPost, "/api/images/generate", token, map[string]interface{}{"prompt": "swimming", "dream_id": dream})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var gen struct {
		ID       uint    `json:"id"`
		ImageURL string  `json:"image_url"`
		Model    string  `json:"model"`
		Analysis *string `json:"analysis"`
	}
	decode(t, rec, &gen)
	assert.True(t, strings.HasPrefix(gen.ImageURL, "data:image/png;base64,"))
	assert.Greater(t, len(gen.ImageURL), models.MaxImageURLLength)
	assert.Equal(t, "stub/model", gen.Model)
	require.NotNil(t, gen.Analysis)
	assert.Equal(t, "analysis of swimming", *gen.Analysis)

	rec = s.do(http.MethodGet, "/api/dreams/"+itoa(dream), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		ImageCount int64 `json:"image_count"`
		Images     []struct {
			ImageURL string `json:"image_url"`
		} `json:"images"`
	}
	decode(t, rec, &detail)
	assert.Equal(t, int64(1), detail.ImageCount)
	require.Len(t, detail.Images, 1)
	assert.Len(t, detail.Images[0].ImageURL, models.MaxImageURLLength)

	rec = s.do(http.MethodGet, "/api/images/my-images", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]interface{}
	decode(t, rec, &mine)
	assert.Len(t, mine, 1)

	rec = s.do(http.MethodGet, "/api/images/test-connection", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hf_token")

	rec = s.do(http.MethodDelete, "/api/dreams/all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"All dreams deleted successfully","dreams_deleted":1,"images_deleted":1}`, rec.Body.String())
}

func TestGenerateUpstreamFailures(t *testing.T) {
	s := newTestServer(t, Upstreams{
		Images:   stubGenerator{err: errors.New("model is loading")},
		Analyzer: stubAnalyzer{err: errors.New("unused")},
	})
	token := s.signup("alice")
	dream := s.createDream(token, "d")

	rec := s.do(http.MethodPost, "/api/images/generate", token, map[string]interface{}{"prompt": "p", "dream_id": dream})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error generating image")
	assert.Equal(t, int64(0), testutil.CountRows(t, s.db, &models.GeneratedImage{}, ""))

	degraded := newTestServer(t, Upstreams{Analyzer: stubAnalyzer{err: errors.New("quota")}})
	token = degraded.signup("bob")
	dream = degraded.createDream(token, "d")

	rec = degraded.do(http.MethodPost, "/api/images/generate", token, map[string]interface{}{"prompt": "p", "dream_id": dream})
	require.Equal(t, http.StatusCreated, rec.Code)
	var gen map[string]interface{}
	decode(t, rec, &gen)
	assert.Nil(t, gen["analysis"])
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t, Upstreams{})
	token := s.signup("alice")
	s.createDream(token, "d")

	rec := s.do(http.MethodDelete, "/api/auth/account", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/auth/account", token, map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int64(1), testutil.CountRows(t, s.db, &models.User{}, ""))

	rec = s.do(http.MethodDelete, "/api/auth/account", token, map[string]string{"password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Account deleted successfully","dreams_deleted":1,"orphaned_images_deleted":0}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleLogin(t *testing.T) {
	s := newTestServer(t, Upstreams{Google: stubGoogle{info: &service.GoogleUserInfo{Sub: "g-1", Email: "gina@gmail.com", Name: "Gina"}}})

	rec := s.do(http.MethodGet, "/api/auth/google/login", "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "oauth_state" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	callback := func(state, code string, withCookie bool) *url.URL {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code="+code, nil)
		if withCookie {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		u, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		return u
	}

	assert.Equal(t, "google_login_failed", callback(state, "good-code", false).Query().Get("error"))
	assert.Equal(t, "google_login_failed", callback("forged", "good-code", true).Query().Get("error"))
	assert.Equal(t, "google_login_failed", callback(state, "bad-code", true).Query().Get("error"))

	ok := callback(state, "good-code", true)
	assert.Equal(t, "success", ok.Query().Get("login"))
	token := ok.Query().Get("token")
	require.NotEmpty(t, token)

	rec = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]interface{}
	decode(t, rec, &me)
	assert.Equal(t, "gina", me["username"])
	assert.Equal(t, "google", me["auth_provider"])

	rec = s.do(http.MethodDelete, "/api/auth/account", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "google accounts need no password")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
