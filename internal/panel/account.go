package panel

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// TypeCT8 is the account type of panel.ct8.pl, every other type is served
// by a numbered serv00 panel.
const TypeCT8 = "ct8"

var ErrInvalidAccount = errors.New("invalid account")

// Account is a single set of panel credentials.
type Account struct {
	Username string
	Password string
	Type     string
	// PanelNumber selects panel<N>.serv00.com, required unless Type is TypeCT8.
	PanelNumber string
}

var panelNumberRegex = regexp.MustCompile(`^[0-9]+$`)

func (a Account) IsCT8() bool {
	return strings.EqualFold(a.Type, TypeCT8)
}

// Validate checks the fields needed to build a login url and form.
func (a Account) Validate() error {
	if a.Username == "" {
		return fmt.Errorf("%w: missing username", ErrInvalidAccount)
	}
	if a.Password == "" {
		return fmt.Errorf("%w: missing password for %s", ErrInvalidAccount, a.Username)
	}
	if a.Type == "" {
		return fmt.Errorf("%w: missing type for %s", ErrInvalidAccount, a.Username)
	}
	if a.IsCT8() {
		return nil
	}
	if !panelNumberRegex.MatchString(a.PanelNumber) {
		return fmt.Errorf(
			"%w: type %s requires a numeric panel number, got %q",
			ErrInvalidAccount, a.Type, a.PanelNumber,
		)
	}
	return nil
}
