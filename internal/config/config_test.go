package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	base := filepath.Join(dir, "pharmdrill")
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, filepath.Join(base, "drugs.csv"), cfg.DataPath)
	assert.Equal(t, filepath.Join(base, "study_progress.json"), cfg.ProgressPath)
	assert.Equal(t, filepath.Join(base, "events.db"), cfg.EventsDB)
	assert.Equal(t, 8, cfg.Matching.MaxPairs)
	assert.Equal(t, 500*time.Millisecond, cfg.Matching.ResolveDelay)
	assert.Equal(t, time.Second, cfg.Matching.FlashDelay)
	assert.False(t, cfg.Production())
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)

	cfgFile := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
env: production
data_path: /from/file.csv
progress_path: /from/file.json
matching:
  max_pairs: 5
  flash_delay: 2s
`), 0o644))

	t.Setenv("PHARMDRILL_PROGRESS_PATH", "/from/env.json")
	t.Setenv("PHARMDRILL_MATCHING_MAX_PAIRS", "6")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data", "", "")
	require.NoError(t, flags.Parse([]string{"--data", "/from/flag.xlsx"}))

	cfg, err := Load(Options{ConfigFile: cfgFile, Flags: flags})
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "/from/flag.xlsx", cfg.DataPath)
	assert.Equal(t, "/from/env.json", cfg.ProgressPath)
	assert.Equal(t, 6, cfg.Matching.MaxPairs)
	assert.Equal(t, 2*time.Second, cfg.Matching.FlashDelay)
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("PHARMDRILL_DATA_PATH", "/from/env.csv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "/from/env.csv", cfg.DataPath)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PHARMDRILL_SHEET=Top 300\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PHARMDRILL_SHEET") })

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "Top 300", cfg.Sheet)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{ConfigFile: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := Config{DataPath: "d.csv", ProgressPath: "p.json", Matching: Matching{MaxPairs: 8}}
	assert.NoError(t, good.Validate())

	bad := good
	bad.Matching.MaxPairs = 0
	assert.Error(t, bad.Validate())

	bad = good
	bad.DataPath = ""
	assert.Error(t, bad.Validate())

	bad = good
	bad.Matching.FlashDelay = -time.Second
	assert.Error(t, bad.Validate())
}
