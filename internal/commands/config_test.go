package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/personachat/internal/config"
)

func TestConfigPath(t *testing.T) {
	dir := isolate(t)

	out, _, err := executeRoot(t, mockDeps(nil), "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, dir, strings.TrimSpace(out))
}

func TestConfigShow(t *testing.T) {
	isolate(t)
	t.Setenv("PERSONACHAT_BACKEND_URL", "http://localhost:5000")

	out, _, err := executeRoot(t, mockDeps(nil), "", "config")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "http://localhost:5000", cfg.BackendURL)
	assert.Equal(t, "movie_expert", cfg.DefaultPersona)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)

	out, _, err := executeRoot(t, mockDeps(nil), "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+filepath.Join(dir, "config.json"))
	assert.Contains(t, out, "Wrote "+filepath.Join(dir, "personas.yaml"))

	catalog, err := config.LoadPersonas()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCatalog().IDs(), catalog.IDs())

	// existing files are kept unless forced
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"greeting":"custom"}`), 0o600))

	out, _, err = executeRoot(t, mockDeps(nil), "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Kept existing")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Greeting)

	_, _, err = executeRoot(t, mockDeps(nil), "", "config", "init", "--force")
	require.NoError(t, err)
	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Greeting, cfg.Greeting)
}

func TestConfigEdit(t *testing.T) {
	isolate(t)
	t.Setenv("PERSONACHAT_TUI_THEME", "dracula")
	fake := &fakeTUI{}

	_, _, err := executeRoot(t, &Dependencies{TUI: fake}, "", "config", "edit")
	require.NoError(t, err)

	require.True(t, fake.configCalled)
	assert.False(t, fake.called)
	assert.Equal(t, "dracula", fake.config.TUITheme)
	assert.Equal(t, config.DefaultCatalog().IDs(), fake.catalog.IDs())
}

func TestConfigEdit_BadCatalog(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "personas.yaml"), []byte("personas: [[["), 0o600))
	fake := &fakeTUI{}

	_, _, err := executeRoot(t, &Dependencies{TUI: fake}, "", "config", "edit")
	assert.Error(t, err)
	assert.False(t, fake.configCalled)
}
