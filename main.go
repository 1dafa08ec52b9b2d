package main

import (
	"fmt"
	"os"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/cli"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/config"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/logging"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/service"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0"

// app holds what the persistent pre-run builds for the subcommands.
type app struct {
	verbose    bool
	configFile string

	cfg    *config.Config
	logger *zap.Logger
	cli    *cli.CLI
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wrap-notes",
		Short: "wrap-notes - fill-in-the-blank progress notes in the terminal",
		Long: `wrap-notes keeps a library of note templates whose text mixes prose with
blank markers such as (---l---) or (---p1b@3@---). A note starts from a template
and is filled blank by blank, from closed vocabularies, the people directory,
values worked out from the note itself, or confirmed free text.

Run "wrap-notes init" once to create the library and the default templates.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("library", "", "library directory (default ~/.wrap-notes, env WRAP_NOTES_DIR)")
	flags.Int("width", 140, "wrap width for rendered notes")
	flags.String("log-level", "warn", "log level: debug, info, warn, error or off")
	flags.String("theme", "auto", "colour theme: auto, light or dark")
	flags.String("user", "", "id of the staff member filling notes")
	flags.StringVar(&a.configFile, "config", "", "config file (default <library>/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging and error causes")

	root.AddCommand(
		a.initCmd(),
		a.kindsCmd(),
		a.templateCmd(),
		a.noteCmd(),
		a.personCmd(),
		a.sessionCmd(),
	)
	return root
}

// setup resolves configuration and builds the logger, service and CLI
func (a *app) setup(cmd *cobra.Command, args []string) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v, a.configFile)
	if err != nil {
		return cli.HandleError(err, a.verbose, nil)
	}
	a.cfg = cfg

	a.logger, err = logging.New(logging.Config{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: a.verbose,
	})
	if err != nil {
		return err
	}
	ui.ApplyTheme(cfg.Theme)

	svc, err := service.NewService(service.Options{
		LibraryDir: cfg.LibraryDir,
		WrapWidth:  cfg.WrapWidth,
		UserID:     cfg.User,
		Logger:     a.logger,
	})
	if err != nil {
		return cli.HandleError(err, a.verbose, a.logger)
	}

	a.cli = cli.NewCLI(svc, cli.Options{
		Out:    cmd.OutOrStdout(),
		In:     cmd.InOrStdin(),
		Theme:  cfg.Theme,
		Logger: a.logger.Named("cli"),
	})
	a.logger.Debug("configured",
		zap.String("command", cmd.CommandPath()),
		zap.String("library", cfg.LibraryDir),
		zap.Int("width", cfg.WrapWidth))
	return nil
}

// run adapts a CLI handler to a cobra RunE, formatting its error for the terminal
func (a *app) run(fn func(c *cli.CLI, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(a.cli, args); err != nil {
			return cli.HandleError(err, a.verbose, a.logger)
		}
		return nil
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
