package panel

import (
	"fmt"
	"strings"
)

const ct8LoginUrl = "https://panel.ct8.pl/login/?next=/"

// URLResolver picks the login page of an account's panel.
type URLResolver interface {
	LoginURL(acct Account) (string, error)
}

// URLResolverFunc adapts a function into a URLResolver.
type URLResolverFunc func(acct Account) (string, error)

func (f URLResolverFunc) LoginURL(acct Account) (string, error) {
	return f(acct)
}

// PanelResolver resolves the public ct8 and serv00 panel urls.
type PanelResolver struct{}

func (PanelResolver) LoginURL(acct Account) (string, error) {
	err := acct.Validate()
	if err != nil {
		return "", err
	}
	if acct.IsCT8() {
		return ct8LoginUrl, nil
	}
	return fmt.Sprintf("https://panel%s.serv00.com/login/?next=/", acct.PanelNumber), nil
}

// RootURL turns a login url into the url of the panel's dashboard.
func RootURL(loginUrl string) string {
	return strings.Replace(loginUrl, "/login/", "/", 1)
}
