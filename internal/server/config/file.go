package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/pdfnotes/internal/flagx"
	"github.com/dmitrijs2005/pdfnotes/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for decoding config files. Durations go through
// timex.Duration so both "24h" and integer nanoseconds are accepted. Zero
// values leave the current setting untouched.
type fileConfig struct {
	HTTPAddr              string         `json:"http_addr" yaml:"http_addr"`
	DatabaseDSN           string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey             string         `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	StorageBackend        string         `json:"storage_backend" yaml:"storage_backend"`
	UploadDir             string         `json:"upload_dir" yaml:"upload_dir"`
	MaxUploadBytes        int64          `json:"max_upload_bytes" yaml:"max_upload_bytes"`
	S3AccessKey           string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey           string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket              string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region              string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	AnalysisURL           string         `json:"analysis_url" yaml:"analysis_url"`
	AnalysisTimeout       timex.Duration `json:"analysis_timeout" yaml:"analysis_timeout"`
	AllowedOrigins        []string       `json:"allowed_origins" yaml:"allowed_origins"`
	AuthRatePerMinute     int            `json:"auth_rate_per_minute" yaml:"auth_rate_per_minute"`
	AuthBurst             int            `json:"auth_burst" yaml:"auth_burst"`
	TrustProxyHeaders     bool           `json:"trust_proxy_headers" yaml:"trust_proxy_headers"`
	LogLevel              string         `json:"log_level" yaml:"log_level"`
	ShutdownTimeout       timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile overlays the config file named by -c/-config onto cfg. Files
// ending in .yaml/.yml are decoded as YAML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &fileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.StorageBackend, fc.StorageBackend)
	setString(&cfg.UploadDir, fc.UploadDir)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.AnalysisURL, fc.AnalysisURL)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.TokenValidityDuration.Duration != 0 {
		cfg.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	if fc.AnalysisTimeout.Duration != 0 {
		cfg.AnalysisTimeout = fc.AnalysisTimeout.Duration
	}
	if fc.ShutdownTimeout.Duration != 0 {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	if fc.MaxUploadBytes != 0 {
		cfg.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.AuthRatePerMinute != 0 {
		cfg.AuthRatePerMinute = fc.AuthRatePerMinute
	}
	if fc.AuthBurst != 0 {
		cfg.AuthBurst = fc.AuthBurst
	}
	if fc.TrustProxyHeaders {
		cfg.TrustProxyHeaders = true
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
