package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopmill/admin-api/config"
	"github.com/shopmill/admin-api/internal/domain/auth"
	"github.com/shopmill/admin-api/internal/mocks"
	"github.com/shopmill/admin-api/internal/service"
	"github.com/shopmill/admin-api/internal/session"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv wires a full router around mock repositories and a fake clock.
type testEnv struct {
	router     http.Handler
	users      *mocks.MockUserRepository
	products   *mocks.MockProductRepository
	categories *mocks.MockCategoryRepository
	orders     *mocks.MockOrderRepository
	rev        *mocks.MockRevalidator
	clock      *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	env := &testEnv{
		users:      mocks.NewMockUserRepository(ctrl),
		products:   mocks.NewMockProductRepository(ctrl),
		categories: mocks.NewMockCategoryRepository(ctrl),
		orders:     mocks.NewMockOrderRepository(ctrl),
		rev:        mocks.NewMockRevalidator(ctrl),
		clock:      newFakeClock(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessionCfg := config.SessionConfig{
		SigningKey:       "router-test-signing-key",
		Lifetime:         24 * time.Hour,
		RefreshWindow:    time.Hour,
		NearExpiryWindow: 2 * time.Hour,
		WarningWindow:    15 * time.Minute,
		CookieName:       "session",
		CSRFCookieName:   "csrf-token",
	}
	codec, err := session.NewCodec(sessionCfg.SigningKey)
	require.NoError(t, err)
	mgr, err := session.NewManager(session.ManagerOptions{
		Codec:  codec,
		Config: sessionCfg,
		Logger: logger,
		Now:    env.clock.Now,
	})
	require.NoError(t, err)

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Users: env.users, Sessions: mgr, Logger: logger,
	})
	require.NoError(t, err)
	productSvc, err := service.NewProductService(service.ProductServiceOptions{
		Repo: env.products, Revalidator: env.rev, Logger: logger,
	})
	require.NoError(t, err)
	categorySvc, err := service.NewCategoryService(service.CategoryServiceOptions{
		Repo: env.categories, Revalidator: env.rev, Logger: logger,
	})
	require.NoError(t, err)
	orderSvc, err := service.NewOrderService(service.OrderServiceOptions{
		Repo: env.orders, Logger: logger,
	})
	require.NoError(t, err)

	env.router = NewRouter(RouterServices{
		Auth:           authSvc,
		Products:       productSvc,
		Categories:     categorySvc,
		Orders:         orderSvc,
		CSRFCookieName: sessionCfg.CSRFCookieName,
		Logger:         logger,
	})
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func testAdmin(t *testing.T, password string) auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.User{
		ID:           "admin-1",
		Email:        "admin@example.com",
		Name:         "Admin",
		Role:         auth.RoleAdmin,
		PasswordHash: string(hash),
	}
}

// loginSession holds the cookies issued at login for replay in later requests.
type loginSession struct {
	cookies []*http.Cookie
	csrf    string
}

// login performs the login round-trip and captures the issued cookies.
func (e *testEnv) login(t *testing.T) *loginSession {
	t.Helper()
	return e.loginAs(t, testAdmin(t, "pw"))
}

// loginAs logs in with an arbitrary principal, capturing the issued cookies.
func (e *testEnv) loginAs(t *testing.T, user auth.User) *loginSession {
	t.Helper()

	e.users.EXPECT().FindAdminByEmail(gomock.Any(), user.Email).Return(user, nil)

	rec := e.do(jsonRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": user.Email, "password": "pw"}))
	require.Equal(t, http.StatusOK, rec.Code)

	ls := &loginSession{}
	for _, c := range rec.Result().Cookies() {
		if c.Value == "" {
			continue
		}
		ls.cookies = append(ls.cookies, c)
		if c.Name == "csrf-token" {
			ls.csrf = c.Value
		}
	}
	require.NotEmpty(t, ls.cookies)
	require.NotEmpty(t, ls.csrf)
	return ls
}

// apply attaches the captured cookies (and CSRF header for mutations) to a request.
func (ls *loginSession) apply(req *http.Request, withCSRF bool) *http.Request {
	for _, c := range ls.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	if withCSRF {
		req.Header.Set(DefaultCSRFHeaderName, ls.csrf)
	}
	return req
}

// refresh replaces captured cookies with any reissued ones from a response.
func (ls *loginSession) refresh(rec *httptest.ResponseRecorder) {
	updated := map[string]*http.Cookie{}
	for _, c := range ls.cookies {
		updated[c.Name] = c
	}
	for _, c := range rec.Result().Cookies() {
		if c.Value != "" {
			updated[c.Name] = c
		}
	}
	ls.cookies = ls.cookies[:0]
	for _, c := range updated {
		ls.cookies = append(ls.cookies, c)
		if c.Name == "csrf-token" {
			ls.csrf = c.Value
		}
	}
}
