package codeforces_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/judge"
	"github.com/programme-lv/ojtool/judge/codeforces"
	"github.com/programme-lv/ojtool/srvcerror"
)

const problemPage = `<!DOCTYPE html>
<html><body>
<div class="problem-statement">
<div class="header">
<div class="title">A. Watermelon</div>
<div class="time-limit"><div class="property-title">time limit per test</div>1 second</div>
<div class="memory-limit"><div class="property-title">memory limit per test</div>64 megabytes</div>
</div>
<div class="sample-tests"><div class="sample-test">
<div class="input"><div class="title">Input</div><pre>8
</pre></div>
<div class="output"><div class="title">Output</div><pre>YES
</pre></div>
<div class="input"><div class="title">Input</div><pre>3
</pre></div>
<div class="output"><div class="title">Output</div><pre>NO
</pre></div>
</div></div>
</div>
</body></html>`

// newer pages wrap each sample line in a div for highlighting
const lineDivPage = `<!DOCTYPE html>
<html><body>
<div class="problem-statement">
<div class="title">B. Lines</div>
<div class="time-limit">2.5 seconds</div>
<div class="memory-limit">256 megabytes</div>
<div class="sample-test">
<div class="input"><pre><div class="test-example-line">3</div><div class="test-example-line">1 2 3</div></pre></div>
<div class="output"><pre>6
</pre></div>
</div>
</div>
</body></html>`

type testClient struct {
	srv   *httptest.Server
	inner *httpc.Session
}

func newTestClient(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	sess, err := httpc.NewSession(httpc.WithMinRequestGap(time.Millisecond))
	require.NoError(t, err)
	return &testClient{srv: srv, inner: sess}
}

func (c *testClient) rewrite(rawURL string) string {
	const prefix = "https://codeforces.com"
	if strings.HasPrefix(rawURL, prefix) {
		return c.srv.URL + strings.TrimPrefix(rawURL, prefix)
	}
	return rawURL
}

func (c *testClient) Get(ctx context.Context, rawURL string) (*httpc.Response, error) {
	return c.inner.Get(ctx, c.rewrite(rawURL))
}

func (c *testClient) PostForm(ctx context.Context, rawURL string, form url.Values) (*httpc.Response, error) {
	return c.inner.PostForm(ctx, c.rewrite(rawURL), form)
}

func (c *testClient) PostMultipart(ctx context.Context, rawURL string, fields map[string]string) (*httpc.Response, error) {
	return c.inner.PostMultipart(ctx, c.rewrite(rawURL), fields)
}

func TestFetchProblemParsesSamplesAndLimits(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/contest/4/problem/A", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(problemPage))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	svc := codeforces.New()
	problem, err := svc.FetchProblem(context.Background(),
		"https://codeforces.com/contest/4/problem/A", newTestClient(t, srv))
	require.NoError(t, err)

	assert.Equal(t, "A. Watermelon", problem.Title)
	assert.Equal(t, 1000, problem.TimeLimitMs)
	assert.Equal(t, 64, problem.MemoryLimitMiB)

	require.Equal(t, 2, len(problem.Cases))
	assert.Equal(t, "8\n", string(problem.Cases[0].Input))
	assert.Equal(t, "YES\n", string(problem.Cases[0].Answer))
	assert.Equal(t, "3\n", string(problem.Cases[1].Input))
	assert.Equal(t, "NO\n", string(problem.Cases[1].Answer))
}

func TestFetchProblemReassemblesLineDivs(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/problemset/problem/100/B", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(lineDivPage))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	svc := codeforces.New()
	problem, err := svc.FetchProblem(context.Background(),
		"https://codeforces.com/problemset/problem/100/B", newTestClient(t, srv))
	require.NoError(t, err)

	assert.Equal(t, 2500, problem.TimeLimitMs)
	require.Equal(t, 1, len(problem.Cases))
	assert.Equal(t, "3\n1 2 3\n", string(problem.Cases[0].Input))
	assert.Equal(t, "6\n", string(problem.Cases[0].Answer))
}

func TestFetchProblemRedesignIsScrapeFormatError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/contest/4/problem/A", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("<html><body><div class='new-layout'></div></body></html>"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	svc := codeforces.New()
	_, err := svc.FetchProblem(context.Background(),
		"https://codeforces.com/contest/4/problem/A", newTestClient(t, srv))
	require.Error(t, err)
	assert.True(t, srvcerror.HasCode(err, judge.ErrCodeScrapeFormat))
}

func TestLoginPostsCredentialsWithCSRFToken(t *testing.T) {
	var seenHandle, seenPass, seenToken, seenAction string
	r := chi.NewRouter()
	r.Get("/enter", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`<html><body><form action="/enter" method="post">
<input type="hidden" name="csrf_token" value="enter-tok" /></form></body></html>`))
	})
	r.Post("/enter", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseForm())
		seenHandle = req.PostFormValue("handleOrEmail")
		seenPass = req.PostFormValue("password")
		seenToken = req.PostFormValue("csrf_token")
		seenAction = req.PostFormValue("action")
		http.Redirect(w, req, "/", http.StatusFound)
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("<html><body>home</body></html>"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	svc := codeforces.New()
	err := svc.Login(context.Background(), "tourist", "hunter2", newTestClient(t, srv))
	require.NoError(t, err)

	assert.Equal(t, "tourist", seenHandle)
	assert.Equal(t, "hunter2", seenPass)
	assert.Equal(t, "enter-tok", seenToken)
	assert.Equal(t, "enter", seenAction)
}

func TestLoginRejectedCredentials(t *testing.T) {
	page := `<html><body><form action="/enter" method="post">
<input type="hidden" name="csrf_token" value="enter-tok" />
<span class="error">Invalid handle/email or password</span></form></body></html>`
	r := chi.NewRouter()
	r.Get("/enter", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(page))
	})
	r.Post("/enter", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(page))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	svc := codeforces.New()
	err := svc.Login(context.Background(), "tourist", "wrong", newTestClient(t, srv))
	require.Error(t, err)
	assert.True(t, srvcerror.HasCode(err, judge.ErrCodeLoginRejected))
}

func TestSubmitForwardsCSRFTokenAsMultipart(t *testing.T) {
	var seenToken, seenCode, seenLang string
	r := chi.NewRouter()
	r.Get("/problemset/submit", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`<html><body><form>
<input type="hidden" name="csrf_token" value="cf-tok"/></form></body></html>`))
	})
	r.Post("/problemset/submit", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(1<<20))
		seenToken = req.FormValue("csrf_token")
		seenCode = req.FormValue("submittedProblemCode")
		seenLang = req.FormValue("programTypeId")
		http.Redirect(w, req, "/problemset/status?my=on", http.StatusFound)
	})
	r.Get("/problemset/status", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	svc := codeforces.New()
	handle, err := svc.Submit(context.Background(),
		"https://codeforces.com/contest/4/problem/A",
		[]byte("print('YES')"), "31", newTestClient(t, srv))
	require.NoError(t, err)

	assert.Equal(t, "cf-tok", seenToken)
	assert.Equal(t, "4A", seenCode)
	assert.Equal(t, "31", seenLang)
	assert.Equal(t, "codeforces", handle.ServiceID)
}

func TestSubmitMissingCSRFTokenFailsLoudly(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/problemset/submit", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("<html><body><form>nothing</form></body></html>"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	svc := codeforces.New()
	_, err := svc.Submit(context.Background(),
		"https://codeforces.com/contest/4/problem/A",
		[]byte("x"), "31", newTestClient(t, srv))
	require.Error(t, err)
	assert.True(t, srvcerror.HasCode(err, judge.ErrCodeScrapeFormat))
}

func TestSubmissionStatusMapsVerdicts(t *testing.T) {
	cases := []struct {
		verdict string
		want    judge.SubmissionStatus
	}{
		{"OK", judge.StatusAccepted},
		{"WRONG_ANSWER", judge.StatusWrongAnswer},
		{"TIME_LIMIT_EXCEEDED", judge.StatusTimeLimitExceeded},
		{"COMPILATION_ERROR", judge.StatusCompileError},
		{"TESTING", judge.StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.verdict, func(t *testing.T) {
			page := `<html><body><table>
<tr><td><span class="submissionVerdictWrapper" submissionverdict="` + tc.verdict + `">x</span></td></tr>
</table></body></html>`

			r := chi.NewRouter()
			r.Get("/problemset/status", func(w http.ResponseWriter, req *http.Request) {
				w.Write([]byte(page))
			})
			srv := httptest.NewServer(r)
			defer srv.Close()

			svc := codeforces.New()
			status, err := svc.SubmissionStatus(context.Background(), judge.SubmissionHandle{
				StatusURL: "https://codeforces.com/problemset/status?my=on",
			}, newTestClient(t, srv))
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}
}
