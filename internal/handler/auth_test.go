package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := newTestServer(nil, nil, nil, nil, nil)

	rec := ts.get(t, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// Anonymous requests to protected pages bounce to the login form.
func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	ts := newTestServer(nil, nil, nil, nil, nil)

	rec := ts.get(t, "/trips/new")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	page := ts.body(t, "/login")
	assert.Contains(t, page, "Please log in to access this page.")
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(nil, nil, nil, nil, nil)

	rec := ts.postForm(t, "/login", url.Values{"password": {"guess"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	page := ts.body(t, "/login")
	assert.Contains(t, page, "Invalid password.")
}

func TestLogin_ThenLogout(t *testing.T) {
	ts := newTestServer(nil, nil, nil, nil, nil)

	ts.login(t)

	page := ts.body(t, "/")
	assert.Contains(t, page, "You have successfully logged in.")

	rec := ts.get(t, "/logout")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The session flag is gone: protected pages bounce again.
	rec = ts.get(t, "/")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
