package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/homeaudio/amplictl/internal/amplipi"
	"github.com/homeaudio/amplictl/internal/config"
	"github.com/homeaudio/amplictl/internal/logging"
)

const version = "0.1.0"

// App holds the state shared by every command: the resolved configuration,
// the logger, and one API client reused across dispatches (the interactive
// shell dispatches many commands through a single App).
type App struct {
	overrides config.Overrides

	cfg    config.Config
	log    *slog.Logger
	client amplipi.API

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// newClient is the construction seam tests use to inject a fake API.
	newClient func(cfg config.Config, log *slog.Logger) (amplipi.API, error)

	ready   bool
	inShell bool
}

// NewApp builds an App bound to the process's standard streams.
func NewApp() *App {
	return &App{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		newClient: func(cfg config.Config, log *slog.Logger) (amplipi.API, error) {
			return amplipi.NewClient(cfg.APIURL, amplipi.Options{
				Timeout: cfg.Timeout,
				Logger:  log,
			})
		},
	}
}

// init resolves configuration, logging and the client exactly once per App.
// Repeated dispatches through the shell reuse the first resolution.
func (a *App) init() error {
	if a.ready {
		return nil
	}

	cfg, err := config.Load(a.overrides)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.log == nil {
		logger, err := logging.Setup(cfg.Logconf)
		if err != nil {
			return err
		}
		a.log = logger
	}

	if a.client == nil {
		client, err := a.newClient(cfg, a.log)
		if err != nil {
			return fmt.Errorf("init client: %w", err)
		}
		a.client = client
	}

	a.ready = true
	return nil
}

// Execute runs the CLI against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(NewApp()).ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree. The shell builds a fresh tree
// per input line, so command construction must stay cheap and stateless apart
// from the shared App.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "amplictl",
		Short: "Control an AmpliPi home audio controller over its REST API",
		Long: `amplictl translates AmpliPi REST API calls into a scriptable command line.

Commands follow a topic/verb shape (zone list, stream play 2, ...). The get
verbs dump JSON to stdout; the set and new verbs read JSON from stdin, from
--infile, or from repeated --input key=value pairs, so invocations compose
with pipes:

  amplictl zone get 3 | jq '.vol = -30' | amplictl zone set 3`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&app.overrides.APIURL, "api", "a", "", "base URL of the AmpliPi API (default http://amplipi.local/api)")
	flags.IntVarP(&app.overrides.TimeoutSeconds, "timeout", "t", 0, "request timeout in seconds (default 10)")
	flags.StringVarP(&app.overrides.Logconf, "logconf", "l", "", "YAML logging config file")
	flags.StringVar(&app.overrides.EnvFile, "env-file", "", "explicit .env file (default ./.env when present)")
	flags.StringVar(&app.overrides.ConfigPath, "config", "", "TOML config file (default ~/.config/amplictl/config.toml)")

	root.SetIn(app.stdin)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.AddCommand(
		newStatusCmd(app),
		newSystemCmd(app),
		newSourceCmd(app),
		newZoneCmd(app),
		newGroupCmd(app),
		newStreamCmd(app),
		newPresetCmd(app),
		newAnnounceCmd(app),
		newPlayCmd(app),
		newShellCmd(app),
	)
	return root
}
