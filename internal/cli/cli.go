// Package cli implements the mhdb command line interface.
//
//spellchecker:words cli
package cli

//spellchecker:words errors github mhdb internal config status store profile cobra
import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FAU-CDI/mhdb"
	"github.com/FAU-CDI/mhdb/internal/config"
	"github.com/FAU-CDI/mhdb/internal/mhindex"
	"github.com/FAU-CDI/mhdb/internal/status"
	"github.com/FAU-CDI/mhdb/pkg/store"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// Streams are the standard streams a command runs with.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// flags holds the global flags.
type flags struct {
	config   string
	engine   string
	base     string
	pretty   bool
	verbose  bool
	progress bool
	profile  string
	legal    bool
}

// app holds everything set up for a single invocation.
type app struct {
	Streams
	flags flags

	config  config.Config
	status  *status.Status
	engine  store.Engine
	profile interface{ Stop() }
}

// Options returns the index options for this invocation.
func (a *app) Options() mhindex.Options {
	return a.config.Options(a.status)
}

// NewCommand creates the root mhdb command running with the given streams.
func NewCommand(streams Streams) *cobra.Command {
	a := &app{Streams: streams}

	root := &cobra.Command{
		Use:   "mhdb",
		Short: "Persistent uid index for MH mail folders",
		Long: `mhdb maintains a per-folder index mapping MH message numbers to permanent uids.

Every folder gets its own index next to its messages.
Uids are never reused, and survive renumbering of the folder through 'mhdb ref'.`,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetIn(streams.Stdin)
	root.SetOut(streams.Stdout)
	root.SetErr(streams.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "read configuration from `file` (default $"+config.EnvVar+" or ~/"+config.DefaultName+")")
	pf.StringVar(&a.flags.engine, "engine", "", "use the given persistence `engine` (leveldb or sqlite)")
	pf.StringVar(&a.flags.base, "base", "", "use the given base `name` for indexes")
	pf.BoolVar(&a.flags.pretty, "pretty", false, "write human-readable log lines")
	pf.BoolVar(&a.flags.verbose, "verbose", false, "write debug log lines")
	pf.BoolVar(&a.flags.progress, "progress", false, "write a progress line")
	pf.StringVar(&a.flags.profile, "profile", "", "write out a debugging profile to the given `path`")
	pf.BoolVar(&a.flags.legal, "legal", false, "display legal notices and exit")

	root.AddCommand(
		newAddCommand(a),
		newDelCommand(a),
		newRefCommand(a),
		newDumpCommand(a),
		newBuildCommand(a),
	)
	return root
}

// setup loads the configuration and creates the status and engine.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.flags.legal {
		fmt.Fprint(a.Stdout, mhdb.LegalText())
		os.Exit(0)
	}

	path := a.flags.config
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	if fs.Changed("engine") {
		cfg.Index.Engine = a.flags.engine
	}
	if fs.Changed("base") {
		cfg.Index.Base = a.flags.base
	}
	if fs.Changed("pretty") {
		cfg.Log.Pretty = a.flags.pretty
	}
	if fs.Changed("verbose") {
		cfg.Log.Verbose = a.flags.verbose
	}
	if fs.Changed("progress") {
		cfg.Log.Progress = a.flags.progress
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine, err := cfg.Engine()
	if err != nil {
		return err
	}

	a.config = cfg
	a.status = status.NewStatus(a.Stderr, cfg.StatusOptions())
	a.engine = engine

	if a.flags.profile != "" {
		a.profile = profile.Start(profile.ProfilePath(a.flags.profile), profile.Quiet)
	}

	a.status.LogDebug("configured", "config", path, "engine", cfg.Index.Engine, "base", cfg.Index.Base)
	return nil
}

// stageError is an error that has already been logged by the stage it occurred in.
type stageError struct {
	err error
}

func (se *stageError) Error() string {
	return se.err.Error()
}

func (se *stageError) Unwrap() error {
	return se.err
}

// stage runs f as a stage of the status, which logs any error f returns.
func (a *app) stage(stage status.Stage, f func() error) error {
	if err := a.status.DoStage(stage, f); err != nil {
		return &stageError{err: err}
	}
	return nil
}

// teardown stops the profile, if any.
func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.profile != nil {
		a.profile.Stop()
		a.profile = nil
	}
	return nil
}

// Execute runs mhdb with the process arguments and standard streams.
// Any error is logged and terminates the process with exit code 1.
func Execute() {
	streams := Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}

	cmd := NewCommand(streams)
	sub, err := cmd.ExecuteC()
	if err == nil {
		return
	}

	var se *stageError
	if errors.As(err, &se) {
		os.Exit(1)
	}

	name := "mhdb"
	if sub != nil {
		name = sub.Name()
	}
	status.NewStatus(streams.Stderr, status.Options{}).LogFatal(name, err)
}
