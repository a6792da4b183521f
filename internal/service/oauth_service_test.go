package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Thanhbi2612/Dreamlens/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestOAuthExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"sub":"g-1","email":"e@gmail.com","name":"E","picture":"http://pic"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := &config.GoogleConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"}
	svc := newOAuthService(cfg, oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo")
	require.True(t, svc.Enabled())

	info, err := svc.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, &GoogleUserInfo{Sub: "g-1", Email: "e@gmail.com", Name: "E", Picture: "http://pic"}, info)

	u, err := url.Parse(svc.AuthCodeURL("st4te"))
	require.NoError(t, err)
	assert.Equal(t, "st4te", u.Query().Get("state"))
	assert.Equal(t, "id", u.Query().Get("client_id"))
}

func TestOAuthDisabled(t *testing.T) {
	assert.False(t, NewOAuthService(&config.GoogleConfig{}).Enabled())
}
