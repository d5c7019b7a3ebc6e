package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	c := &Config{}
	c.LoadDefaults()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return c, c.Resolve(fs)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:3000", c.ServerURL)
	assert.Equal(t, 60*time.Second, c.Timeout)
	assert.Equal(t, "state.db", filepath.Base(c.StateFile))
	assert.NoError(t, c.Validate())
}

func TestFlags(t *testing.T) {
	c, err := parse(t, "-a", "https://notes.example", "--state", "/tmp/s.db", "--timeout", "5s")
	require.NoError(t, err)

	want := &Config{ServerURL: "https://notes.example", StateFile: "/tmp/s.db", Timeout: 5 * time.Second}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestFileThenFlags(t *testing.T) {
	path := writeTemp(t, "cli.yaml", `
server_url: https://file.example
state_file: /var/tmp/pdfnotes.db
timeout: 2m
`)

	c, err := parse(t, "-c", path, "--server", "http://flag.example:3000")
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example:3000", c.ServerURL, "flag overrides file")
	assert.Equal(t, "/var/tmp/pdfnotes.db", c.StateFile)
	assert.Equal(t, 2*time.Minute, c.Timeout)
}

func TestJSONFile(t *testing.T) {
	path := writeTemp(t, "cli.json", `{"server_url": "http://json.example", "timeout": 1000000000}`)

	c, err := parse(t, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "http://json.example", c.ServerURL)
	assert.Equal(t, time.Second, c.Timeout)
}

func TestResolveErrors(t *testing.T) {
	_, err := parse(t, "-c", filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "read config file")

	_, err = parse(t, "-c", writeTemp(t, "bad.json", "{"))
	require.ErrorContains(t, err, "decode config file")

	_, err = parse(t, "-a", "localhost:3000")
	require.ErrorContains(t, err, "server url")

	_, err = parse(t, "--timeout", "0s")
	require.ErrorContains(t, err, "timeout")
}
