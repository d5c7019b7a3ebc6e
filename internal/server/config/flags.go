package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/pdfnotes/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-s", "-t", "-b", "-u", "-m", "-l",
	"-s3-access-key", "-s3-secret-key", "-s3-bucket", "-s3-region", "-s3-endpoint",
	"-analysis-url", "-analysis-timeout", "-origins", "-trust-proxy",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g. ":3000")
//	-d string              PostgreSQL DSN, or "memory"
//	-s string              JWT HMAC secret key
//	-t duration            token validity (e.g. "24h")
//	-b string              storage backend: local | s3
//	-u string              upload directory for the local backend
//	-m int                 max upload size in bytes
//	-l string              log level
//	-s3-access-key string  S3 access key
//	-s3-secret-key string  S3 secret key
//	-s3-bucket string      S3 bucket
//	-s3-region string      S3 region
//	-s3-endpoint string    S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-analysis-url string   analysis service base URL; empty disables it
//	-analysis-timeout dur  timeout for analysis calls
//	-origins string        comma-separated CORS origins
//	-trust-proxy           read client addresses from proxy headers
//
// Arguments not in this list (including -c) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("pdfnotes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.DurationVar(&cfg.TokenValidityDuration, "t", cfg.TokenValidityDuration, "token validity duration")
	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "storage backend (local|s3)")
	fs.StringVar(&cfg.UploadDir, "u", cfg.UploadDir, "upload directory")
	fs.Int64Var(&cfg.MaxUploadBytes, "m", cfg.MaxUploadBytes, "max upload bytes")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.S3AccessKey, "s3-access-key", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "s3-secret-key", cfg.S3SecretKey, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.AnalysisURL, "analysis-url", cfg.AnalysisURL, "analysis service URL")
	fs.DurationVar(&cfg.AnalysisTimeout, "analysis-timeout", cfg.AnalysisTimeout, "analysis call timeout")
	fs.BoolVar(&cfg.TrustProxyHeaders, "trust-proxy", cfg.TrustProxyHeaders, "trust X-Forwarded-For / X-Real-IP")
	origins := fs.String("origins", strings.Join(cfg.AllowedOrigins, ","), "comma-separated CORS origins")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	cfg.AllowedOrigins = splitList(*origins)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
