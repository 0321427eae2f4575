package panel

import (
	"testing"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/login_page.html
var loginPageHtml string

//go:embed testdata/login_failed.html
var loginFailedHtml string

//go:embed testdata/dashboard.html
var dashboardHtml string

func TestCsrfToken(t *testing.T) {
	signals := DefaultSignals()

	token, ok := signals.CsrfToken(loginPageHtml)
	require.True(t, ok)
	require.Equal(t, "Zq3vNfW0pXh2uTgK7sLmB9cYdE1aR4oJ", token)

	_, ok = signals.CsrfToken(dashboardHtml)
	require.False(t, ok)

	_, ok = signals.CsrfToken(`<input type="hidden" name="csrfmiddlewaretoken" value="">`)
	require.False(t, ok)

	// not parseable as a form input, still matched by the raw pattern
	token, ok = signals.CsrfToken(`<script>var form = '<input name="csrfmiddlewaretoken" value="abc">';</script>`)
	require.True(t, ok)
	require.Equal(t, "abc", token)
}

func TestHasLogoutMarker(t *testing.T) {
	signals := DefaultSignals()

	require.True(t, signals.HasLogoutMarker(dashboardHtml))
	require.True(t, signals.HasLogoutMarker(`<a class="x" href="/wyloguj/">Wyloguj</a>`))
	require.True(t, signals.HasLogoutMarker(`<a href='/logout/'>Logout</a>`))
	require.False(t, signals.HasLogoutMarker(loginPageHtml))
	require.False(t, signals.HasLogoutMarker(""))
}

func TestHasInvalidCredentialsMarker(t *testing.T) {
	signals := DefaultSignals()

	require.True(t, signals.HasInvalidCredentialsMarker(loginFailedHtml))
	require.True(t, signals.HasInvalidCredentialsMarker(`<li>Nieprawid&#322;owy login
		lub has&#322;o.</li>`))
	require.False(t, signals.HasInvalidCredentialsMarker(loginPageHtml))
	require.False(t, signals.HasInvalidCredentialsMarker(dashboardHtml))
}

func TestCustomSignals(t *testing.T) {
	signals := NewMarkupSignals("authenticity_token", []string{"/sign_out"}, []string{"Invalid login"})

	token, ok := signals.CsrfToken(`<form><input name="authenticity_token" value="t0k"></form>`)
	require.True(t, ok)
	require.Equal(t, "t0k", token)
	require.True(t, signals.HasLogoutMarker(`<a href="/sign_out">out</a>`))
	require.True(t, signals.HasInvalidCredentialsMarker(`<p>Invalid login or password</p>`))
	require.False(t, signals.HasLogoutMarker(dashboardHtml))
}
