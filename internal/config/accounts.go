package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"loginbot/internal/notify"
	"loginbot/internal/panel"
)

var ErrConfigParse = errors.New("malformed configuration")

// FlexString accepts both a string and a number, panel numbers and chat ids
// show up as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) >= 2 && data[0] == '"':
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
	case len(data) >= 2 && data[0] == '\'' && data[len(data)-1] == '\'':
		*f = FlexString(strings.TrimSpace(string(data[1 : len(data)-1])))
	default:
		var n json.Number
		err := json.Unmarshal(data, &n)
		if err != nil {
			return fmt.Errorf("expected a string or a number, got %s", data)
		}
		*f = FlexString(n.String())
	}
	return nil
}

type AccountEntry struct {
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	Type        string     `json:"type"`
	PanelNumber FlexString `json:"panelnum"`
}

func (e AccountEntry) Account() panel.Account {
	return panel.Account{
		Username:    e.Username,
		Password:    e.Password,
		Type:        e.Type,
		PanelNumber: string(e.PanelNumber),
	}
}

type TelegramEntry struct {
	BotToken string     `json:"telegramBotToken"`
	UserID   FlexString `json:"telegramBotUserId"`
}

func (e TelegramEntry) Target() notify.Target {
	return notify.Target{BotToken: e.BotToken, ChatID: string(e.UserID)}
}

func toAccounts(entries []AccountEntry) []panel.Account {
	accounts := make([]panel.Account, len(entries))
	for i, e := range entries {
		accounts[i] = e.Account()
	}
	return accounts
}

// ParseAccounts parses the JSON array of ACCOUNTS_JSON. Individual accounts
// are not validated here, a bad account only fails its own login.
func ParseAccounts(raw string) ([]panel.Account, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: no accounts configured", ErrConfigParse)
	}
	var entries []AccountEntry
	err := json.Unmarshal([]byte(raw), &entries)
	if err != nil {
		return nil, fmt.Errorf("%w: accounts: %w", ErrConfigParse, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: accounts is null", ErrConfigParse)
	}
	return toAccounts(entries), nil
}

// ParseTarget parses the JSON object of TELEGRAM_JSON. An empty payload is
// not an error, it disables notifications.
func ParseTarget(raw string) (notify.Target, error) {
	if strings.TrimSpace(raw) == "" {
		return notify.Target{}, nil
	}
	var entry *TelegramEntry
	err := json.Unmarshal([]byte(raw), &entry)
	if err != nil {
		return notify.Target{}, fmt.Errorf("%w: telegram: %w", ErrConfigParse, err)
	}
	if entry == nil {
		return notify.Target{}, nil
	}
	return entry.Target(), nil
}
