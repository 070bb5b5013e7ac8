package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docetui/internal/docet/docettest"
	"docetui/internal/dom"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts = rootOptions{}
	snapOpts = snapshotOptions{}

	dir := t.TempDir()
	args = append(args,
		"--config", filepath.Join(dir, "config.toml"),
		"--log", filepath.Join(dir, "docetui.log"),
	)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParsePageRef(t *testing.T) {
	pkg, page, err := parsePageRef("manual:install")
	require.NoError(t, err)
	assert.Equal(t, "manual", pkg)
	assert.Equal(t, "install", page)

	for _, bad := range []string{"manual", ":install", "manual:", ""} {
		_, _, err := parsePageRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestSnapshotHome(t *testing.T) {
	srv := docettest.New(docettest.Sample())
	defer srv.Close()

	out, err := execute(t, "snapshot", "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, dom.ClassPackageCard+`"`))
	assert.Contains(t, out, "User Manual")
	assert.Contains(t, out, dom.ClassTocHidden)
}

func TestSnapshotPage(t *testing.T) {
	srv := docettest.New(docettest.Sample())
	defer srv.Close()

	out, err := execute(t, "snapshot", "--server", srv.URL, "--page", "manual:install")
	require.NoError(t, err)
	assert.Contains(t, out, "Pick your platform.")
	assert.Contains(t, out, dom.ClassTocVisible)
	assert.Equal(t, 1, strings.Count(out, " "+dom.ClassSelected+`"`))
}

func TestSnapshotSearchShowMore(t *testing.T) {
	srv := docettest.New(docettest.Sample())
	defer srv.Close()

	out, err := execute(t, "snapshot", "--server", srv.URL, "--search", "many", "--show-more", "manual")
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(out, dom.ClassResultVisible))
	assert.Equal(t, 2, strings.Count(out, dom.ClassResultHidden))
}

func TestSnapshotRejectsBadPage(t *testing.T) {
	srv := docettest.New(docettest.Sample())
	defer srv.Close()

	_, err := execute(t, "snapshot", "--server", srv.URL, "--page", "install")
	assert.Error(t, err)
}

func TestFirstRunWritesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	opts = rootOptions{configPath: path}

	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "it", cfg.Language)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[localization]")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
}
