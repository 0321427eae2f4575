package config

import (
	"os"
	"path/filepath"
	"testing"

	"loginbot/internal/notify"
	"loginbot/internal/panel"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseAccounts(t *testing.T) {
	accounts, err := ParseAccounts(`[
		{"username": "alice123", "password": "p1", "type": "serv00", "panelnum": 7},
		{"username": "bob", "password": "p2", "type": "serv00", "panelnum": "12"},
		{"username": "carol", "password": "p3", "type": "ct8"}
	]`)
	require.NoError(t, err)

	expected := []panel.Account{
		{Username: "alice123", Password: "p1", Type: "serv00", PanelNumber: "7"},
		{Username: "bob", Password: "p2", Type: "serv00", PanelNumber: "12"},
		{Username: "carol", Password: "p3", Type: "ct8"},
	}
	if diff := cmp.Diff(expected, accounts); diff != "" {
		t.Fatal(diff)
	}

	accounts, err = ParseAccounts("[]")
	require.NoError(t, err)
	require.Empty(t, accounts)

	for _, raw := range []string{"", "null", "{", `{"username": "x"}`, `[{"panelnum": true}]`} {
		_, err = ParseAccounts(raw)
		require.ErrorIs(t, err, ErrConfigParse, raw)
	}
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget(`{"telegramBotToken": "123:abc", "telegramBotUserId": 42}`)
	require.NoError(t, err)
	require.Equal(t, notify.Target{BotToken: "123:abc", ChatID: "42"}, target)
	require.True(t, target.Valid())

	target, err = ParseTarget(`{"telegramBotToken": "123:abc", "telegramBotUserId": "-1001"}`)
	require.NoError(t, err)
	require.Equal(t, "-1001", target.ChatID)

	target, err = ParseTarget("")
	require.NoError(t, err)
	require.False(t, target.Valid())

	target, err = ParseTarget(`{"telegramBotToken": "123:abc"}`)
	require.NoError(t, err)
	require.False(t, target.Valid())

	_, err = ParseTarget("not json")
	require.ErrorIs(t, err, ErrConfigParse)
}

func envOf(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoaderFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		// accounts may also come from ACCOUNTS_JSON
		accounts: [
			{username: "alice123", password: "p1", type: "serv00", panelnum: 7},
			{username: "carol", password: "p3", type: "ct8", panelnum: '1'},
		],
		telegram: {telegramBotToken: "123:abc", telegramBotUserId: 42},
	}`), 0644)
	require.NoError(t, err)

	payload, err := Loader{Path: path, Getenv: envOf(nil)}.Load()
	require.NoError(t, err)
	require.Len(t, payload.Accounts, 2)
	require.Equal(t, "7", payload.Accounts[0].PanelNumber)
	require.Equal(t, "1", payload.Accounts[1].PanelNumber)
	require.Equal(t, notify.Target{BotToken: "123:abc", ChatID: "42"}, payload.Target)

	payload, err = Loader{Path: path, Getenv: envOf(map[string]string{
		EnvAccounts: `[{"username": "dave1", "password": "x", "type": "ct8"}]`,
	})}.Load()
	require.NoError(t, err)
	require.Equal(t, []panel.Account{{Username: "dave1", Password: "x", Type: "ct8"}}, payload.Accounts)
	require.True(t, payload.Target.Valid())
}

func TestLoaderErrors(t *testing.T) {
	payload, err := Loader{Getenv: envOf(map[string]string{
		EnvAccounts: "{broken",
		EnvTelegram: `{"telegramBotToken": "123:abc", "telegramBotUserId": 42}`,
	})}.Load()
	require.ErrorIs(t, err, ErrConfigParse)
	require.True(t, payload.Target.Valid())

	payload, err = Loader{Getenv: envOf(map[string]string{
		EnvAccounts: `[]`,
		EnvTelegram: "{broken",
	})}.Load()
	require.ErrorIs(t, err, ErrConfigParse)
	require.False(t, payload.Target.Valid())

	_, err = Loader{Path: filepath.Join(t.TempDir(), "missing.json5"), Getenv: envOf(nil)}.Load()
	require.ErrorIs(t, err, ErrConfigParse)

	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte("{accounts: ["), 0644))
	_, err = Loader{Path: path, Getenv: envOf(nil)}.Load()
	require.ErrorIs(t, err, ErrConfigParse)
}

func TestDefaults(t *testing.T) {
	cfg := Config{BatchSize: 5}.WithDefaults()
	require.Equal(t, 5, cfg.BatchSize)
	require.Equal(t, "*/10 * * * *", cfg.Cron)
	require.Equal(t, "state.db", cfg.Store.File)
	require.NoError(t, cfg.Validate())

	min, max := Default().DelayRange()
	require.Equal(t, int64(1000), min.Milliseconds())
	require.Equal(t, int64(9000), max.Milliseconds())

	require.Error(t, Config{BatchSize: 1, DelayMinMs: 10, DelayMaxMs: 5}.Validate())
	require.Error(t, Config{BatchSize: -1}.Validate())
}
