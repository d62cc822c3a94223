package httpx

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shopmill/admin-api/internal/data"
	"github.com/shopmill/admin-api/internal/domain/auth"
)

// reportedExpiry parses the "expires" field of the session payload.
func reportedExpiry(t *testing.T, body map[string]any) time.Time {
	t.Helper()
	sess, ok := body["session"].(map[string]any)
	require.True(t, ok)
	raw, ok := sess["expires"].(string)
	require.True(t, ok)
	expires, err := time.Parse(time.RFC3339Nano, raw)
	require.NoError(t, err)
	return expires
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	admin := testAdmin(t, "pw")
	env.users.EXPECT().FindAdminByEmail(gomock.Any(), admin.Email).Return(admin, nil)

	rec := env.do(jsonRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": admin.Email, "password": "pw"}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin-1", user["id"])
	assert.Equal(t, "admin", user["role"])

	var names []string
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "session")
	assert.Contains(t, names, "csrf-token")
}

func TestLogin_IdenticalFailurePayloads(t *testing.T) {
	env := newTestEnv(t)
	admin := testAdmin(t, "pw")
	env.users.EXPECT().FindAdminByEmail(gomock.Any(), admin.Email).Return(admin, nil)
	env.users.EXPECT().FindAdminByEmail(gomock.Any(), "nobody@example.com").
		Return(auth.User{}, data.ErrUserNotFound)

	wrongPass := env.do(jsonRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": admin.Email, "password": "wrong"}))
	unknownEmail := env.do(jsonRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "nobody@example.com", "password": "wrong"}))

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Byte-identical bodies: the endpoint cannot be used to enumerate accounts.
	assert.Equal(t, wrongPass.Body.String(), unknownEmail.Body.String())
	assert.JSONEq(t, `{"success":false,"error":"Login failed"}`, wrongPass.Body.String())
}

func TestLogin_RejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@b.c", "password": "pw", "admin": "true"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession_NoCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(t, http.MethodGet, "/api/auth/session", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["authenticated"])
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SESSION_MISSING", errObj["code"])
	assert.Equal(t, true, errObj["requiresReauth"])
}

func TestGetSession_TamperedCookie(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)

	for _, c := range ls.cookies {
		if c.Name == "session" {
			// Mutate one character inside the signed claims so the
			// signature no longer matches.
			i := len(c.Value) / 4
			for c.Value[i] == '.' {
				i++
			}
			replacement := byte('A')
			if c.Value[i] == 'A' {
				replacement = 'B'
			}
			c.Value = c.Value[:i] + string(replacement) + c.Value[i+1:]
		}
	}

	rec := env.do(ls.apply(jsonRequest(t, http.MethodGet, "/api/auth/session", nil), false))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "SESSION_INVALID", errObj["code"])
}

func TestGetSession_LoginCheckAdvanceRefresh(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)
	env.users.EXPECT().Exists(gomock.Any(), "admin-1").Return(true, nil).AnyTimes()

	// Immediately after login: authenticated, no refresh.
	rec := env.do(ls.apply(jsonRequest(t, http.MethodGet, "/api/auth/session", nil), false))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Nil(t, body["sessionRefreshed"])

	// 23.5h later the session is inside its final hour: the check reissues it
	// and the payload reports the reissued expiry, not the 30 minutes the old
	// cookie had left.
	env.clock.Advance(23*time.Hour + 30*time.Minute)
	rec = env.do(ls.apply(jsonRequest(t, http.MethodGet, "/api/auth/session", nil), false))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, true, body["sessionRefreshed"])
	assert.True(t, reportedExpiry(t, body).Equal(env.clock.Now().Add(24*time.Hour)))
	ls.refresh(rec)

	// The reissued cookie carries a fresh 24h horizon.
	env.clock.Advance(23 * time.Hour)
	rec = env.do(ls.apply(jsonRequest(t, http.MethodGet, "/api/auth/session", nil), false))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
}

func TestGetSession_Expired(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)

	env.clock.Advance(24*time.Hour + time.Second)
	rec := env.do(ls.apply(jsonRequest(t, http.MethodGet, "/api/auth/session", nil), false))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "SESSION_EXPIRED", errObj["code"])

	// Dead cookies are cleared on the response.
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestGetSession_PrincipalDeleted(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)
	env.users.EXPECT().Exists(gomock.Any(), "admin-1").Return(false, nil)

	rec := env.do(ls.apply(jsonRequest(t, http.MethodGet, "/api/auth/session", nil), false))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "USER_NOT_FOUND", errObj["code"])
}

func TestPostSession_ForcedRefresh(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)
	env.users.EXPECT().Exists(gomock.Any(), "admin-1").Return(true, nil)

	// Minutes after login a passive check would not refresh; the explicit
	// action does.
	env.clock.Advance(5 * time.Minute)
	rec := env.do(ls.apply(jsonRequest(t, http.MethodPost, "/api/auth/session",
		map[string]string{"action": "refresh"}), false))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, true, body["sessionRefreshed"])
	assert.True(t, reportedExpiry(t, body).Equal(env.clock.Now().Add(24*time.Hour)))
}

func TestPostSession_UnknownAction(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)

	rec := env.do(ls.apply(jsonRequest(t, http.MethodPost, "/api/auth/session",
		map[string]string{"action": "explode"}), false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	env := newTestEnv(t)
	ls := env.login(t)

	rec := env.do(ls.apply(jsonRequest(t, http.MethodPost, "/api/auth/logout", nil), false))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	// Second logout without a session is just as fine.
	rec = env.do(jsonRequest(t, http.MethodPost, "/api/auth/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
