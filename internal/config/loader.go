package config

import (
	"errors"
	"fmt"
	"os"

	"loginbot/internal/configutil"
	"loginbot/internal/notify"
	"loginbot/internal/panel"
)

const (
	EnvAccounts = "ACCOUNTS_JSON"
	EnvTelegram = "TELEGRAM_JSON"
)

// Payload is what a single invocation works with, it is loaded fresh every time.
type Payload struct {
	Accounts []panel.Account
	// Target is the zero value when notifications are disabled or malformed.
	Target notify.Target
}

// Source provides the accounts and notification target of an invocation.
//
// note: fault injection point
type Source interface {
	// Load may return a partially filled Payload alongside an ErrConfigParse,
	// the Target is kept if it was parsed successfully.
	Load() (Payload, error)
}

// Static always returns the same payload.
type Static Payload

func (s Static) Load() (Payload, error) {
	return Payload(s), nil
}

// Loader reads the config file and the environment on every Load.
type Loader struct {
	// Path to the json5 config file, it is optional when both env variables are set.
	Path   string
	Getenv func(string) string
}

func NewLoader(path string) Loader {
	return Loader{Path: path, Getenv: os.Getenv}
}

func (l Loader) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

func (l Loader) Load() (Payload, error) {
	var out Payload

	var file Config
	var fileErr error
	if l.Path != "" {
		file, fileErr = configutil.ReadConfig[Config](l.Path)
		if errors.Is(fileErr, os.ErrNotExist) {
			fileErr = nil
		}
		if fileErr != nil {
			fileErr = fmt.Errorf("%w: %w", ErrConfigParse, fileErr)
		}
	}

	var targetErr error
	if raw := l.getenv(EnvTelegram); raw != "" {
		out.Target, targetErr = ParseTarget(raw)
	} else if fileErr != nil {
		targetErr = fileErr
	} else if file.Telegram != nil {
		out.Target = file.Telegram.Target()
	}
	if targetErr != nil {
		return Payload{}, targetErr
	}

	var accountsErr error
	if raw := l.getenv(EnvAccounts); raw != "" {
		out.Accounts, accountsErr = ParseAccounts(raw)
	} else if fileErr != nil {
		accountsErr = fileErr
	} else if file.Accounts != nil {
		out.Accounts = toAccounts(file.Accounts)
	} else {
		accountsErr = fmt.Errorf("%w: no accounts configured", ErrConfigParse)
	}
	if accountsErr != nil {
		return Payload{Target: out.Target}, accountsErr
	}

	return out, nil
}
