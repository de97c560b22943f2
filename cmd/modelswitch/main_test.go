package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/modelswitch/internal/catalog"
	"github.com/nhle/modelswitch/internal/credential"
	"github.com/nhle/modelswitch/internal/model"
	"github.com/nhle/modelswitch/tests/testutil"
)

// cli runs commands against one temporary config and database.
type cli struct {
	t      *testing.T
	config string
	db     string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{
		t:      t,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "sessions.db"),
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", c.config, "--db", c.db, "--log", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSessionCommands(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("session", "new", "--model", "o3", "--effort", "high")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = c.run("session", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "o3")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "open")

	out, err = c.run("session", "respond", id)
	require.NoError(t, err)
	assert.Contains(t, out, "locked")

	out, err = c.run("session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "RESPONSES")
}

func TestSessionNew_DefaultModelAndInvalidEffort(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("session", "new")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	out, err = c.run("session", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "o4-mini")

	_, err = c.run("session", "new", "--effort", "extreme")
	assert.Error(t, err)
}

func TestSessionShow_NotFound(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("session", "show", "missing")
	assert.Error(t, err)
}

func TestSessionList_Empty(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found")
}

func TestModelsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4"},{"id":"o3"},{"id":"o1"}]}`))
	}))
	defer srv.Close()
	t.Setenv(credential.APIKeyEnv, "sk-test")

	c := newCLI(t)
	cfg := model.DefaultAppConfig()
	cfg.Catalog.BaseURL = srv.URL
	cfg.Catalog.Recommended = []string{"o3"}
	require.NoError(t, model.SaveConfig(c.config, cfg))

	out, err := c.run("models")
	require.NoError(t, err)
	assert.Equal(t, "⭐ o3\ngpt-4\no1\n", out)
}

func TestConfigInit(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("config", "init")
	require.NoError(t, err)
	_, err = os.Stat(c.config)
	require.NoError(t, err)

	_, err = c.run("config", "init")
	assert.Error(t, err)

	_, err = c.run("config", "init", "--force")
	assert.NoError(t, err)
}

func TestBuildCatalog(t *testing.T) {
	cfg := model.DefaultAppConfig().Catalog

	t.Run("no key falls back to recommended", func(t *testing.T) {
		cat := buildCatalog(cfg, "", nil)
		require.IsType(t, &catalog.Static{}, cat)

		ids, err := cat.AvailableModels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"o4-mini", "o3"}, ids)
	})

	t.Run("static models", func(t *testing.T) {
		c := cfg
		c.BaseURL = ""
		c.Models = []string{"gpt-4"}
		ids, err := buildCatalog(c, "sk", nil).AvailableModels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"gpt-4"}, ids)
	})

	t.Run("remote", func(t *testing.T) {
		assert.IsType(t, &catalog.HTTP{}, buildCatalog(cfg, "sk", nil))
	})

	t.Run("remote with cache", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		cat := buildCatalog(cfg, "sk", s)
		assert.IsType(t, &catalog.Cached{}, cat)
		assert.Equal(t, []string{"o4-mini", "o3"}, cat.Recommended())
	})
}
