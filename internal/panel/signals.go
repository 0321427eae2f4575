package panel

import (
	"fmt"
	"regexp"
	"strings"

	"loginbot/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// PageSignals extracts what the session emulation needs to know from a page.
//
// note: fault injection point, markup drift on the panels is handled by
// swapping the implementation.
type PageSignals interface {
	// CsrfToken returns the hidden form token of a login page.
	CsrfToken(body string) (token string, ok bool)
	// HasLogoutMarker is true when the page is rendered for a logged in session.
	HasLogoutMarker(body string) bool
	// HasInvalidCredentialsMarker is true when the page rejects the submitted credentials.
	HasInvalidCredentialsMarker(body string) bool
}

// MarkupSignals matches the DevilWEB panel markup.
type MarkupSignals struct {
	TokenField         string
	LogoutHrefs        []string
	InvalidCredentials []string

	tokenRegex *regexp.Regexp
}

// DefaultSignals returns the markers used by panel.ct8.pl and panel<N>.serv00.com.
func DefaultSignals() *MarkupSignals {
	return NewMarkupSignals(
		"csrfmiddlewaretoken",
		[]string{"/logout/", "/wyloguj/"},
		[]string{"Nieprawidłowy login lub hasło"},
	)
}

func NewMarkupSignals(tokenField string, logoutHrefs, invalidCredentials []string) *MarkupSignals {
	return &MarkupSignals{
		TokenField:         tokenField,
		LogoutHrefs:        logoutHrefs,
		InvalidCredentials: invalidCredentials,
		tokenRegex: regexp.MustCompile(
			`name="` + regexp.QuoteMeta(tokenField) + `" value="([^"]*)"`,
		),
	}
}

func parseDocument(body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	return doc
}

func (s *MarkupSignals) CsrfToken(body string) (string, bool) {
	doc := parseDocument(body)
	if doc != nil {
		token := doc.Find(fmt.Sprintf(`input[name=%q]`, s.TokenField)).First().AttrOr("value", "")
		if token != "" {
			return token, true
		}
	}

	// the form may be embedded somewhere the html parser discards it
	groups := s.tokenRegex.FindStringSubmatch(body)
	if len(groups) < 2 || groups[1] == "" {
		return "", false
	}
	return groups[1], true
}

func (s *MarkupSignals) HasLogoutMarker(body string) bool {
	for _, href := range s.LogoutHrefs {
		if strings.Contains(body, fmt.Sprintf(`href="%s"`, href)) {
			return true
		}
	}

	doc := parseDocument(body)
	if doc == nil {
		return false
	}
	for _, href := range s.LogoutHrefs {
		if doc.Find(fmt.Sprintf(`a[href=%q]`, href)).Length() > 0 {
			return true
		}
	}
	return false
}

func (s *MarkupSignals) HasInvalidCredentialsMarker(body string) bool {
	for _, marker := range s.InvalidCredentials {
		if strings.Contains(body, marker) {
			return true
		}
	}

	doc := parseDocument(body)
	if doc == nil || len(doc.Nodes) == 0 {
		return false
	}
	// entity encoded or split over several elements
	text := htmlutil.NormalizeSpace(htmlutil.GetText(doc.Nodes[0]))
	for _, marker := range s.InvalidCredentials {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
