// Package config loads settings for the pdfnotes CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A JSON or YAML file named by --config/-c.
//  3. Flags given explicitly on the command line.
//
// File keys are server_url, state_file and timeout. Timeouts go through
// timex.Duration, so "30s" and integer nanoseconds both work:
//
//	server_url: https://notes.example.com
//	timeout: 2m
package config
