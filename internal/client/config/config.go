package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the pdfnotes CLI.
type Config struct {
	// ServerURL is the base URL of the REST API.
	ServerURL string
	// StateFile is the SQLite file holding the session and the listing cache.
	StateFile string
	// Timeout bounds each HTTP request. Uploads of large files may need more.
	Timeout time.Duration
}

// LoadDefaults populates c with defaults suitable for a local server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3000"
	c.StateFile = defaultStateFile()
	c.Timeout = 60 * time.Second
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pdfnotes", "state.db")
	}
	return filepath.Join(home, ".pdfnotes", "state.db")
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, errors.New("server url must be an absolute http(s) url"))
	}
	if c.StateFile == "" {
		errs = append(errs, errors.New("state file is empty"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}

	return errors.Join(errs...)
}
