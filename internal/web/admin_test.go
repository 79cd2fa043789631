package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testAuth(t *testing.T) *adminAuth {
	t.Helper()
	a, err := newAdminAuth(AdminOptions{Username: "admin", Password: "hunter22", Secret: []byte(testSecret), TokenTTL: time.Hour})
	require.NoError(t, err)
	return a
}

func TestAdminAuth_Config(t *testing.T) {
	a, err := newAdminAuth(AdminOptions{})
	require.NoError(t, err)
	require.Nil(t, a, "no password disables the admin area")

	_, err = newAdminAuth(AdminOptions{Password: "x", Secret: []byte("short")})
	require.Error(t, err)
}

func TestAdminAuth_Credentials(t *testing.T) {
	a := testAuth(t)
	require.True(t, a.checkCredentials("admin", "hunter22"))
	require.False(t, a.checkCredentials("admin", "hunter2"))
	require.False(t, a.checkCredentials("root", "hunter22"))
}

func TestAdminAuth_Tokens(t *testing.T) {
	a := testAuth(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	token, err := a.issue()
	require.NoError(t, err)
	require.NoError(t, a.verify(token))

	now = now.Add(2 * time.Hour)
	require.Error(t, a.verify(token), "expired")

	other, err := newAdminAuth(AdminOptions{Username: "admin", Password: "p", Secret: []byte("ffffffffffffffffffffffffffffffff")})
	require.NoError(t, err)
	other.now = a.now
	foreign, err := other.issue()
	require.NoError(t, err)
	require.Error(t, a.verify(foreign), "signed with another secret")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	require.Error(t, a.verify(unsigned), "alg none")
}

func adminLogin(t *testing.T, h *harness) *http.Cookie {
	t.Helper()
	w := h.do(request{
		method: http.MethodPost,
		path:   "/admin/login",
		form:   url.Values{"username": {"admin"}, "password": {"hunter22"}},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	c := cookieNamed(w, adminCookie)
	require.NotNil(t, c)
	require.Equal(t, "/admin", c.Path)
	require.True(t, c.HttpOnly)
	return c
}

func TestAdmin_LoginFlow(t *testing.T) {
	h := newHarness(t, harnessConfig{})

	w := h.do(request{method: http.MethodPost, path: "/admin/login", form: url.Values{"username": {"admin"}, "password": {"nope"}}})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid credentials")
	require.Nil(t, cookieNamed(w, adminCookie))

	w = h.do(request{path: "/admin/dashboard"})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = h.do(request{path: "/admin/dashboard", cookies: []*http.Cookie{{Name: adminCookie, Value: "garbage"}}})
	require.Equal(t, http.StatusFound, w.Code)

	c := adminLogin(t, h)
	w = h.do(request{path: "/admin/dashboard", cookies: []*http.Cookie{c}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "page views")
	require.Contains(t, w.Body.String(), "Ada")

	w = h.do(request{path: "/admin/logout", cookies: []*http.Cookie{c}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, -1, cookieNamed(w, adminCookie).MaxAge)
}

func TestAdmin_PagesAndAPI(t *testing.T) {
	h := newHarness(t, harnessConfig{})
	c := adminLogin(t, h)

	for _, path := range []string{"/admin/visitors", "/admin/messages"} {
		w := h.do(request{path: path, cookies: []*http.Cookie{c}})
		require.Equal(t, http.StatusOK, w.Code, path)
	}

	w := h.do(request{path: "/admin/api/stats", cookies: []*http.Cookie{c}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total_visitors"`)

	w = h.do(request{path: "/admin/export/stats", cookies: []*http.Cookie{c}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "attachment; filename=admin-stats.json", w.Header().Get("Content-Disposition"))

	w = h.do(request{method: http.MethodPost, path: "/admin/privacy/cleanup", cookies: []*http.Cookie{c}})
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.EqualValues(t, 3, got.Removed)
	require.Equal(t, 24*time.Hour, h.visits.cleaned)
}

func TestAdmin_DisabledWithoutPassword(t *testing.T) {
	h := newHarness(t, harnessConfig{opts: func(o *Options) { o.Admin.Password = "" }})

	w := h.do(request{path: "/admin/login"})
	require.Equal(t, http.StatusNotFound, w.Code)
}
