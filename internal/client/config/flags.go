package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/pdfnotes/internal/timex"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	flagServer  = "server"
	flagState   = "state"
	flagTimeout = "timeout"
	flagConfig  = "config"
)

// BindFlags registers the persistent CLI flags on fs, using the current
// values of c as defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.ServerURL, flagServer, "a", c.ServerURL, "base URL of the pdfnotes server")
	fs.StringVar(&c.StateFile, flagState, c.StateFile, "local state file (session and cache)")
	fs.DurationVar(&c.Timeout, flagTimeout, c.Timeout, "HTTP request timeout")
	fs.StringP(flagConfig, "c", "", "path to a JSON or YAML config file")
}

type fileConfig struct {
	ServerURL string         `json:"server_url" yaml:"server_url"`
	StateFile string         `json:"state_file" yaml:"state_file"`
	Timeout   timex.Duration `json:"timeout" yaml:"timeout"`
}

// Resolve runs after flag parsing. It overlays the config file, if one was
// given, for every setting not set explicitly on the command line, then
// validates the result.
func (c *Config) Resolve(fs *pflag.FlagSet) error {
	path, err := fs.GetString(flagConfig)
	if err != nil {
		return err
	}
	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return err
		}
		fc.apply(c, fs)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	fc := &fileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fc, nil
}

func (fc *fileConfig) apply(c *Config, fs *pflag.FlagSet) {
	if fc.ServerURL != "" && !fs.Changed(flagServer) {
		c.ServerURL = fc.ServerURL
	}
	if fc.StateFile != "" && !fs.Changed(flagState) {
		c.StateFile = fc.StateFile
	}
	if fc.Timeout.Duration != 0 && !fs.Changed(flagTimeout) {
		c.Timeout = fc.Timeout.Duration
	}
}
