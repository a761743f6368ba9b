package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masthead/internal/accounts"
	"masthead/internal/auth"
	"masthead/internal/config"
	"masthead/internal/header"
	apphttp "masthead/internal/http"
	"masthead/internal/metrics"
	"masthead/internal/session"
	"masthead/internal/uistate"
	"masthead/internal/web"
)

type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	accounts *accounts.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, uistate.NewMemory(time.Hour))
}

func newTestEnvWithStore(t *testing.T, states uistate.Store) *testEnv {
	t.Helper()
	auth.SetSecret("http-test-secret")

	cfg, err := config.FromReader(strings.NewReader(""))
	require.NoError(t, err)
	tpl, err := web.NewRenderer()
	require.NoError(t, err)
	sessions, err := session.NewManager([]byte("0123456789abcdef0123456789abcdef"), nil, time.Hour, false)
	require.NoError(t, err)

	accs := accounts.NewMemory()
	site := &apphttp.Site{
		Header:   cfg.Header,
		Nav:      cfg.Header.Nav(),
		TPL:      tpl,
		Accounts: accs,
		States:   states,
		Sessions: sessions,
		Metrics:  metrics.New("test"),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	mux, err := apphttp.NewMux(site)
	require.NoError(t, err)

	srv := httptest.NewServer(apphttp.WithStandardMiddleware(site, mux))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{
		server:   srv,
		client:   &http.Client{Jar: jar},
		accounts: accs,
	}
}

func (e *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func (e *testEnv) act(t *testing.T, action, returnTo string) string {
	t.Helper()
	status, body := e.post(t, header.ActionPath, url.Values{"action": {action}, "return": {returnTo}})
	require.Equal(t, http.StatusOK, status)
	return body
}

// noRedirect is a client sharing the jar that stops at the first response.
func (e *testEnv) noRedirect() *http.Client {
	return &http.Client{
		Jar: e.client.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

const (
	openCategories = `class="masthead-categories open"`
	openPanel      = `class="masthead-panel open"`
)

func TestIndexOmitsNavigation(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, "masthead-channels")
	assert.NotContains(t, body, "masthead-categories")
	assert.Contains(t, body, "masthead-panel")
	assert.Contains(t, body, header.LogoDarkAsset)
	assert.Contains(t, body, "height: 62px")
}

func TestSectionHasNavigation(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.get(t, "/categories/taiwan")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `class="masthead-channels"`)
	assert.Contains(t, body, "masthead-categories")
	assert.NotContains(t, body, openCategories)
	assert.Contains(t, body, "height: 109px")
}

func TestToggleCategoriesSurvivesSamePath(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/topics")

	body := env.act(t, "categories.toggle", "/topics")
	assert.Contains(t, body, openCategories)

	_, body = env.get(t, "/topics")
	assert.Contains(t, body, openCategories, "reloading the same path keeps the menu open")

	body = env.act(t, "categories.toggle", "/topics")
	assert.NotContains(t, body, openCategories)
}

func TestNavigationClosesCategories(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/topics")
	body := env.act(t, "categories.open", "/topics")
	require.Contains(t, body, openCategories)

	_, body = env.get(t, "/categories/culture")
	assert.NotContains(t, body, openCategories)

	_, body = env.get(t, "/topics")
	assert.NotContains(t, body, openCategories)
}

func TestMobilePanelToggle(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")

	body := env.act(t, "mobile.toggle", "/")
	assert.Contains(t, body, openPanel)

	_, body = env.get(t, "/topics")
	assert.Contains(t, body, openPanel, "navigation does not close the mobile panel")

	body = env.act(t, "mobile.toggle", "/topics")
	assert.NotContains(t, body, openPanel)
}

func TestLogoForceClosesCategories(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/topics")
	body := env.act(t, "categories.open", "/topics")
	start := strings.Index(body, `<form class="masthead-logo"`)
	require.GreaterOrEqual(t, start, 0)
	logoForm := body[start : start+strings.Index(body[start:], "</form>")]
	assert.Contains(t, logoForm, `method="post" action="/header/action"`)
	assert.Contains(t, logoForm, `name="action" value="categories.close"`)
	assert.Contains(t, logoForm, `name="return" value="/"`)

	resp, err := env.noRedirect().PostForm(env.server.URL+header.ActionPath, url.Values{
		"action": {header.SelectLogo(header.LogoDark).Action.String()},
		"return": {header.LogoReturn},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// The previous rendered path is still /topics, so only the force close
	// can account for the menu being shut here.
	_, body = env.get(t, "/topics")
	assert.NotContains(t, body, openCategories)
}

func TestGetRequestsDoNotForceClose(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/topics")
	env.act(t, "categories.open", "/topics")

	status, _ := env.get(t, "/header/logo")
	assert.Equal(t, http.StatusNotFound, status)

	_, body := env.get(t, "/topics")
	assert.Contains(t, body, openCategories)
}

func TestMissingPathKeepsCategoriesOpen(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/topics")
	body := env.act(t, "categories.toggle", "/topics")
	require.Contains(t, body, openCategories)

	status, _ := env.get(t, "/favicon.ico")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.get(t, "/categories/nope")
	assert.Equal(t, http.StatusNotFound, status)

	_, body = env.get(t, "/topics")
	assert.Contains(t, body, openCategories, "error pages are not navigation")
}

// slowStore widens the window between reading and writing a record.
type slowStore struct {
	*uistate.Memory
}

func (s slowStore) Load(ctx context.Context, id string) (uistate.Record, error) {
	time.Sleep(20 * time.Millisecond)
	return s.Memory.Load(ctx, id)
}

func (s slowStore) Update(ctx context.Context, id string, fn func(uistate.Record) uistate.Record) (uistate.Record, error) {
	return s.Memory.Update(ctx, id, func(rec uistate.Record) uistate.Record {
		time.Sleep(20 * time.Millisecond)
		return fn(rec)
	})
}

func TestConcurrentTogglesCancelOut(t *testing.T) {
	env := newTestEnvWithStore(t, slowStore{uistate.NewMemory(time.Hour)})
	env.get(t, "/topics")

	client := env.noRedirect()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.PostForm(env.server.URL+header.ActionPath, url.Values{
				"action": {"categories.toggle"},
				"return": {"/topics"},
			})
			if assert.NoError(t, err) {
				resp.Body.Close()
				assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	_, body := env.get(t, "/topics")
	assert.NotContains(t, body, openCategories)
}

func TestReturnKeepsQuery(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.get(t, "/search?q=water")
	assert.Contains(t, body, `name="return" value="/search?q=water"`)

	resp, err := env.noRedirect().PostForm(env.server.URL+header.ActionPath, url.Values{
		"action": {"mobile.toggle"},
		"return": {"/search?q=water"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/search?q=water", resp.Header.Get("Location"))
}

func TestHeaderActionValidation(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")

	status, _ := env.post(t, header.ActionPath, url.Values{"action": {"categories.explode"}})
	assert.Equal(t, http.StatusBadRequest, status)

	resp, err := env.noRedirect().PostForm(env.server.URL+header.ActionPath, url.Values{
		"action": {"categories.toggle"},
		"return": {"//evil.example/phish"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestThemedSection(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.get(t, "/photography")
	assert.Contains(t, body, header.LogoBrightAsset)
	assert.Contains(t, body, "background-color: #08192d")
	assert.Contains(t, body, "max-width: 100%;")
}

func TestUnknownCategoryIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.get(t, "/categories/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "masthead-channels")

	status, _ = env.get(t, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSignInAndOut(t *testing.T) {
	env := newTestEnv(t)
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	_, err = env.accounts.Create(context.Background(), "reader@example.com", "Reader", hash)
	require.NoError(t, err)

	_, body := env.get(t, "/topics")
	assert.Contains(t, body, `class="icon-signin"`)

	status, body := env.post(t, "/signin", url.Values{
		"email":    {"reader@example.com"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Wrong email or password.")

	status, body = env.post(t, "/signin", url.Values{
		"email":    {"Reader@Example.com"},
		"password": {"correct horse"},
		"return":   {"/topics"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `class="icon-signout"`)
	assert.Contains(t, body, `action="/signout"`)
	assert.NotContains(t, body, `class="icon-signin"`)

	status, _ = env.get(t, "/bookmarks")
	assert.Equal(t, http.StatusOK, status)

	status, body = env.post(t, "/signout", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `class="icon-signin"`)
}

func TestBookmarksRequireSignIn(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.noRedirect().Get(env.server.URL + "/bookmarks")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/signin?return=%2Fbookmarks", resp.Header.Get("Location"))
}

func TestStaticAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.get(t, header.LogoBrightAsset)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<svg")

	env.get(t, "/")
	env.act(t, "mobile.toggle", "/")
	_, body = env.get(t, "/metrics")
	assert.Contains(t, body, `test_header_actions_total{action="mobile.toggle"} 1`)
}

func TestReservedChannelPath(t *testing.T) {
	site := &apphttp.Site{Nav: header.Nav{Channels: []header.Channel{{Label: "Search", Path: "/search"}}}}
	_, err := apphttp.NewMux(site)
	assert.Error(t, err)
}
