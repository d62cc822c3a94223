package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shopmill/admin-api/internal/domain/model"
)

func assertCSRFRejected(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "csrf_validation_failed", body["error"])
}

func TestCSRF_MutationWithoutTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)

	req := ls.apply(jsonRequest(t, http.MethodPost, "/api/products",
		map[string]any{"name": "Mug", "slug": "mug"}), false)
	assertCSRFRejected(t, env.do(req))
}

func TestCSRF_WrongTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)

	req := ls.apply(jsonRequest(t, http.MethodDelete, "/api/products/p-1", nil), false)
	req.Header.Set(DefaultCSRFHeaderName, ls.csrf+"x")
	assertCSRFRejected(t, env.do(req))
}

func TestCSRF_TruncatedTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)

	req := ls.apply(jsonRequest(t, http.MethodPost, "/api/categories",
		map[string]any{"name": "Mugs", "slug": "mugs"}), false)
	req.Header.Set(DefaultCSRFHeaderName, ls.csrf[:len(ls.csrf)-1])
	assertCSRFRejected(t, env.do(req))
}

func TestCSRF_SafeMethodExempt(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)
	env.users.EXPECT().Exists(gomock.Any(), "admin-1").Return(true, nil)
	env.products.EXPECT().List(gomock.Any(), gomock.Any()).
		Return([]model.Product{}, 0, nil)

	// No CSRF header on a GET: the request still reaches the handler.
	rec := env.do(ls.apply(jsonRequest(t, http.MethodGet, "/api/products", nil), false))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_FormFieldAccepted(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)
	env.users.EXPECT().Exists(gomock.Any(), "admin-1").Return(true, nil)
	env.categories.EXPECT().Delete(gomock.Any(), "c-1").Return(nil)

	form := url.Values{DefaultCSRFFormFieldName: {ls.csrf}}
	req := httptest.NewRequest(http.MethodDelete, "/api/categories/c-1",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ls.apply(req, false)

	rec := env.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
