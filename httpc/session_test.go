package httpc_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/srvcerror"
)

func newTestSession(t *testing.T) *httpc.Session {
	t.Helper()
	sess, err := httpc.NewSession(httpc.WithMinRequestGap(time.Millisecond))
	require.NoError(t, err)
	return sess
}

func TestGetReturnsBodyAndFinalURL(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/problem", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/problem/canonical", http.StatusFound)
	})
	r.Get("/problem/canonical", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("<html>ok</html>"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess := newTestSession(t)
	resp, err := sess.Get(context.Background(), srv.URL+"/problem")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(resp.Body))
	assert.Equal(t, srv.URL+"/problem/canonical", resp.FinalURL)
}

func TestForbiddenMapsToAuthenticationError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/secret", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess := newTestSession(t)
	_, err := sess.Get(context.Background(), srv.URL+"/secret")
	require.Error(t, err)
	assert.True(t, srvcerror.HasCode(err, httpc.ErrCodeAuthentication))
}

func TestNotFoundIsNeitherNetworkNorAuthError(t *testing.T) {
	r := chi.NewRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess := newTestSession(t)
	_, err := sess.Get(context.Background(), srv.URL+"/deleted/problem")
	require.Error(t, err)
	assert.True(t, srvcerror.HasCode(err, httpc.ErrCodeHTTPStatus))
	assert.False(t, srvcerror.HasCode(err, httpc.ErrCodeNetwork))
	assert.False(t, srvcerror.HasCode(err, httpc.ErrCodeAuthentication))
}

func TestServerErrorMapsToNetworkError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess := newTestSession(t)
	_, err := sess.Get(context.Background(), srv.URL+"/boom")
	require.Error(t, err)
	assert.True(t, srvcerror.HasCode(err, httpc.ErrCodeNetwork))
}

func TestMinRequestGapIsEnforcedPerHost(t *testing.T) {
	var hits atomic.Int32
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess, err := httpc.NewSession(httpc.WithMinRequestGap(150 * time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := sess.Get(context.Background(), srv.URL+"/")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
	assert.Equal(t, int32(3), hits.Load())
}

func TestCookiesSurviveSaveLoad(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/login", func(w http.ResponseWriter, req *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "sekrit", Path: "/"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess := newTestSession(t)
	_, err := sess.Get(context.Background(), srv.URL+"/login")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, sess.SaveCookies(path, []string{srv.URL}))

	restored := newTestSession(t)
	require.NoError(t, restored.LoadCookies(path))

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cookies := restored.Cookies(u)
	require.Equal(t, 1, len(cookies))
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "sekrit", cookies[0].Value)
}

func TestLoadCookiesMissingFileIsClean(t *testing.T) {
	sess := newTestSession(t)
	assert.NoError(t, sess.LoadCookies(filepath.Join(t.TempDir(), "absent.json")))
}
