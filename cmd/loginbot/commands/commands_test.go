package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"loginbot/internal/components/telemetry"
	"loginbot/internal/notify"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	server := httptest.NewServer(newHealthMux())
	defer server.Close()

	res, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.json5")
	envFiles = []string{filepath.Join(dir, ".env")}
	t.Cleanup(func() {
		configPath = "config.json5"
		envFiles = []string{".env"}
	})

	cfg, err := readConfig()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.BatchSize)

	require.NoError(t, os.WriteFile(configPath, []byte(`{batch_size: 5, delay_min_ms: 10, delay_max_ms: 20}`), 0644))
	cfg, err = readConfig()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.BatchSize)

	require.NoError(t, os.WriteFile(configPath, []byte(`{batch_size: -2}`), 0644))
	_, err = readConfig()
	require.Error(t, err)
}

func TestNotifierFactory(t *testing.T) {
	cfg, err := readConfig()
	require.NoError(t, err)

	notifier := newNotifierFactory(cfg, &telemetry.Recorder{})(context.Background(), notify.Target{})
	require.Equal(t, notify.Nop{}, notifier)

	// email alone does not bypass a missing or malformed telegram target
	cfg.Email = notify.EmailConfig{
		Server:  "smtp.example.com",
		Port:    587,
		Address: "bot@example.com",
		To:      []string{"ops@example.com"},
	}
	notifier = newNotifierFactory(cfg, &telemetry.Recorder{})(context.Background(), notify.Target{})
	require.Equal(t, notify.Nop{}, notifier)
	notifier = newNotifierFactory(cfg, &telemetry.Recorder{})(context.Background(), notify.Target{ChatID: "42"})
	require.Equal(t, notify.Nop{}, notifier)
}
