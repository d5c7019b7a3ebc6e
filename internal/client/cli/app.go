package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dmitrijs2005/pdfnotes/internal/client/client"
	"github.com/dmitrijs2005/pdfnotes/internal/client/config"
	"github.com/dmitrijs2005/pdfnotes/internal/client/repositories"
	"github.com/dmitrijs2005/pdfnotes/internal/client/services"
	"github.com/spf13/cobra"
)

type App struct {
	cfg     *config.Config
	api     client.Client
	local   *repositories.Local
	auth    services.AuthService
	library services.LibraryService
	email   string

	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

type Option func(*App)

// WithClient replaces the HTTP client built from the configuration.
func WithClient(c client.Client) Option {
	return func(a *App) { a.api = c }
}

func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = bufio.NewReader(in)
		a.out = out
		a.err = errOut
	}
}

func newApp(opts ...Option) *App {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := &App{
		cfg: cfg,
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		err: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute runs the CLI with args (without the program name).
func Execute(ctx context.Context, args []string, opts ...Option) error {
	a := newApp(opts...)
	defer a.close()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)

	return explain(root.ExecuteContext(ctx))
}

func (a *App) rootCommand() *cobra.Command {
	// Run the root setup hook before the session hooks of subcommands.
	cobra.EnableTraverseRunHooks = true

	root := &cobra.Command{
		Use:           "pdfnotes",
		Short:         "Command-line client for the PDF notes service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	a.cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		a.signupCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.statusCommand(),
		a.foldersCommand(),
		a.pdfsCommand(),
		a.notesCommand(),
		a.askCommand(),
	)
	return root
}

// setup finishes configuration and opens local state. It runs once per
// invocation, before the selected command.
func (a *App) setup(cmd *cobra.Command) error {
	if err := a.cfg.Resolve(cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	local, err := repositories.Open(cmd.Context(), a.cfg.StateFile)
	if err != nil {
		return fmt.Errorf("local state: %w", err)
	}
	a.local = local

	if a.api == nil {
		a.api = client.NewHTTPClient(a.cfg.ServerURL, a.cfg.Timeout)
	}
	a.auth = services.NewAuthService(a.api, a.local, a.cfg.ServerURL)
	a.library = services.NewLibraryService(a.api, a.local)
	return nil
}

func (a *App) close() {
	if a.local != nil {
		_ = a.local.Close()
	}
}

// requireSession is the PreRunE of every command that needs a token.
func (a *App) requireSession(cmd *cobra.Command, _ []string) error {
	email, err := a.auth.Restore(cmd.Context())
	if err != nil {
		return err
	}
	a.email = email
	return nil
}

// explain adds a hint to errors a user can act on.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w (run \"pdfnotes login\" again)", err)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("%w, check --server", err)
	default:
		return err
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
