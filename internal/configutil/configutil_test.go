package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name      string `json:"name"`
	BatchSize int    `json:"batch_size"`
	Verbose   bool   `json:"verbose"`
}

func writeFile(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments are allowed
		name: "base",
		batch_size: 3,
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ batch_size: 5, verbose: true }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "base", BatchSize: 5, Verbose: true}, cfg)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ name: "local" }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Name)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ name: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "LOGINBOT_TEST_DOTENV=from-file\nLOGINBOT_TEST_PRESET=from-file\n")

	t.Setenv("LOGINBOT_TEST_PRESET", "preset")
	os.Unsetenv("LOGINBOT_TEST_DOTENV")
	t.Cleanup(func() { os.Unsetenv("LOGINBOT_TEST_DOTENV") })

	err := LoadDotenv(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "from-file", os.Getenv("LOGINBOT_TEST_DOTENV"))
	require.Equal(t, "preset", os.Getenv("LOGINBOT_TEST_PRESET"))
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "config.local.json5", LocalPath("config.json5"))
	require.Equal(t, filepath.Join("etc", "bot.local.json5"), LocalPath(filepath.Join("etc", "bot.json5")))
}
