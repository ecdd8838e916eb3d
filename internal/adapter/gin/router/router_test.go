package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"users-ui/internal/adapter/backend"
	"users-ui/internal/adapter/gin/handler"
	"users-ui/internal/adapter/gin/middleware"
	"users-ui/internal/adapter/session"
	domain "users-ui/internal/domain/user"
	"users-ui/internal/usecase/userinterface"
)

// fakeUsersAPI is an in-memory users backend speaking /api/{backend}/users.
type fakeUsersAPI struct {
	mu      sync.Mutex
	nextID  int64
	users   []domain.User
	failAll bool
}

func (f *fakeUsersAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/go/users")
	switch {
	case rest == "" && r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(f.users)
	case rest == "" && r.Method == http.MethodPost:
		var in domain.Payload
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.nextID++
		u := domain.User{ID: f.nextID, Name: in.Name, Email: in.Email}
		f.users = append(f.users, u)
		_ = json.NewEncoder(w).Encode(u)
	case strings.HasPrefix(rest, "/"):
		id, err := strconv.ParseInt(rest[1:], 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		for i, u := range f.users {
			if u.ID != id {
				continue
			}
			switch r.Method {
			case http.MethodPut:
				var in domain.Payload
				_ = json.NewDecoder(r.Body).Decode(&in)
				f.users[i].Name, f.users[i].Email = in.Name, in.Email
			case http.MethodDelete:
				f.users = append(f.users[:i], f.users[i+1:]...)
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

type browser struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "ui_session" {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) get(path string) string {
	w := b.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(b.t, http.StatusOK, w.Code)
	return w.Body.String()
}

func (b *browser) post(path string, form url.Values) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := b.do(req)
	require.Equal(b.t, http.StatusSeeOther, w.Code)
}

// shippedStaticDir is the repository's web/static directory.
const shippedStaticDir = "../../../../web/static"

func setupRouter(t *testing.T, api *fakeUsersAPI) *browser {
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	log := zaptest.NewLogger(t)
	client := backend.NewClient(srv.URL, 0, log)
	uc := userinterface.New(client, session.NewMemoryStateStore(time.Hour), log)
	h := handler.NewUserHandler(uc, "go", log, handler.WithStaticDir(shippedStaticDir))
	rl := middleware.NewRateLimiter(nil, middleware.RateLimiterConfig{}, log)

	r := SetupRouter(h, rl, Options{
		ServiceName: "users-ui",
		StaticDir:   shippedStaticDir,
		Session:     middleware.Session("ui_session", time.Hour),
	}, log)

	return &browser{t: t, router: r}
}

func cardOrder(t *testing.T, body string, emails ...string) {
	last := -1
	for _, e := range emails {
		idx := strings.Index(body, e)
		require.NotEqual(t, -1, idx, "missing %s", e)
		assert.Greater(t, idx, last, "%s out of order", e)
		last = idx
	}
}

func TestHealth(t *testing.T) {
	b := setupRouter(t, &fakeUsersAPI{})

	w := b.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"users-ui"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestDefaultLogoIsServed(t *testing.T) {
	b := setupRouter(t, &fakeUsersAPI{})

	body := b.get("/")
	require.Contains(t, body, `src="/static/gologo.png"`)

	w := b.do(httptest.NewRequest(http.MethodGet, "/static/gologo.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestUserInterface_EndToEnd(t *testing.T) {
	api := &fakeUsersAPI{
		nextID: 2,
		users: []domain.User{
			{ID: 1, Name: "Ann", Email: "ann@example.com"},
			{ID: 2, Name: "Bob", Email: "bob@example.com"},
		},
	}
	b := setupRouter(t, api)

	// Mount shows the listing reversed.
	body := b.get("/")
	cardOrder(t, body, "bob@example.com", "ann@example.com")

	// Create prepends and clears the form.
	b.post("/backends/go/users", url.Values{"name": {"Cy"}, "email": {"cy@example.com"}})
	body = b.get("/")
	cardOrder(t, body, "cy@example.com", "bob@example.com", "ann@example.com")
	assert.NotContains(t, body, `value="Cy"`)

	// Update rewrites the matching card only.
	b.post("/backends/go/users/update", url.Values{"id": {"2"}, "name": {"X"}, "email": {"x@example.com"}})
	body = b.get("/")
	assert.NotContains(t, body, "bob@example.com")
	cardOrder(t, body, "cy@example.com", "x@example.com", "ann@example.com")

	// Delete removes the card.
	b.post("/backends/go/users/1/delete", nil)
	body = b.get("/")
	assert.NotContains(t, body, "ann@example.com")
	assert.Equal(t, 2, strings.Count(body, "Delete User"))
}

func TestUserInterface_FailedCreateKeepsForm(t *testing.T) {
	api := &fakeUsersAPI{nextID: 1, users: []domain.User{{ID: 1, Name: "Ann", Email: "ann@example.com"}}}
	b := setupRouter(t, api)
	b.get("/")

	api.mu.Lock()
	api.failAll = true
	api.mu.Unlock()

	b.post("/backends/go/users", url.Values{"name": {"Cy"}, "email": {"cy@example.com"}})
	body := b.get("/")

	assert.Contains(t, body, `value="Cy"`)
	assert.Contains(t, body, `value="cy@example.com"`)
	assert.Equal(t, 1, strings.Count(body, "Delete User"))
}

func TestUserInterface_BackendsAreSeparate(t *testing.T) {
	b := setupRouter(t, &fakeUsersAPI{users: []domain.User{{ID: 1, Email: "ann@example.com"}}})

	body := b.get("/backends/rust")
	assert.Contains(t, body, "Rust Backend")
	assert.NotContains(t, body, "ann@example.com", "the fake only serves /api/go")
}
