// Package cli implements the pdfnotes command-line client on cobra.
//
// Every invocation resolves the configuration, opens the local state file
// and restores the saved session before running the command. Commands that
// talk to the API require a session; signup and login create one.
package cli
