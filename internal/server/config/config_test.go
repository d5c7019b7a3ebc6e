package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":3000", c.HTTPAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, StorageLocal, c.StorageBackend)
	assert.Equal(t, "public/uploads", c.UploadDir)
	assert.Equal(t, int64(50<<20), c.MaxUploadBytes)
	assert.Empty(t, c.AnalysisURL)
	assert.False(t, c.TrustProxyHeaders)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, c.AllowedOrigins)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgs(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	if diff := cmp.Diff(defaults(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Flags(t *testing.T) {
	args := []string{
		"-a", ":8080",
		"-d", "memory",
		"-s", "topsecret",
		"-t", "2h",
		"-b", "s3",
		"-s3-bucket", "docs",
		"-m", "1024",
		"-analysis-url", "http://localhost:5001",
		"-analysis-timeout", "5s",
		"-origins", "http://a.example, http://b.example",
		"-trust-proxy",
		"-unknown", "ignored",
	}

	cfg, err := LoadConfig(args)
	require.NoError(t, err)

	want := defaults()
	want.HTTPAddr = ":8080"
	want.DatabaseDSN = MemoryDSN
	want.SecretKey = "topsecret"
	want.TokenValidityDuration = 2 * time.Hour
	want.StorageBackend = StorageS3
	want.S3Bucket = "docs"
	want.MaxUploadBytes = 1024
	want.AnalysisURL = "http://localhost:5001"
	want.AnalysisTimeout = 5 * time.Second
	want.AllowedOrigins = []string{"http://a.example", "http://b.example"}
	want.TrustProxyHeaders = true

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_JSONFileThenFlags(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{
		"http_addr": ":9000",
		"secret_key": "fromfile",
		"token_validity_duration": "1h",
		"upload_dir": "/tmp/up",
		"allowed_origins": ["http://x.example"]
	}`)

	cfg, err := LoadConfig([]string{"-config", path, "-a", ":9100"})
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTPAddr, "flag overrides file")
	assert.Equal(t, "fromfile", cfg.SecretKey)
	assert.Equal(t, time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, "/tmp/up", cfg.UploadDir)
	assert.Equal(t, []string{"http://x.example"}, cfg.AllowedOrigins)
	assert.Equal(t, defaults().DatabaseDSN, cfg.DatabaseDSN, "missing keys keep defaults")
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := writeTemp(t, "cfg.yaml", `
http_addr: ":7000"
storage_backend: s3
s3_bucket: notes
analysis_timeout: 30s
auth_rate_per_minute: 60
trust_proxy_headers: true
`)

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
	assert.Equal(t, "notes", cfg.S3Bucket)
	assert.Equal(t, 30*time.Second, cfg.AnalysisTimeout)
	assert.Equal(t, 60, cfg.AuthRatePerMinute)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		path := writeTemp(t, "bad.json", `{"http_addr": `)
		_, err := LoadConfig([]string{"-c", path})
		require.Error(t, err)
	})

	t.Run("bad flag value", func(t *testing.T) {
		_, err := LoadConfig([]string{"-t", "forever"})
		require.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := LoadConfig([]string{"-b", "ftp"})
		require.ErrorContains(t, err, "unknown storage backend")
	})
}

func TestValidate(t *testing.T) {
	c := defaults()
	c.SecretKey = ""
	c.TokenValidityDuration = 0
	c.MaxUploadBytes = -1

	err := c.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "secret key is empty")
	assert.ErrorContains(t, err, "token validity must be positive")
	assert.ErrorContains(t, err, "max upload bytes must be positive")
}
