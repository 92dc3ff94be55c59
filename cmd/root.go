package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"devc/pkg/app"
	"devc/pkg/config"
	"devc/pkg/extension"
	"devc/pkg/interact"
	"devc/pkg/plugins"
	"devc/pkg/ui"
)

// Exit codes returned by Execute.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInterrupted = int(syscall.SIGINT)
)

var configFile string

// NewRootCommand returns the root command with the static subcommands
// attached. Extension commands are added by the tree built in Run.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "devc",
		Short: "devc creates development container configurations",
		Long: `A pluggable CLI that generates devcontainer.json files and Dockerfiles.

Commands, flavours and add-ons are extensions registered at extension
points. Run without arguments on a terminal to compose a command
interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config-file", config.DefaultConfigFile, "Path to the devc.yaml configuration file")
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompletionCmd(root))
	return root
}

// Options adjust a Run for tests and embedding. Zero values select the
// terminal defaults.
type Options struct {
	Out io.Writer
	Err io.Writer
	// Terminal reports whether stdin and stdout are a terminal.
	Terminal func() bool
	Provider interact.Provider
	// Runtime builds the services for a loaded configuration.
	Runtime func(*config.Config) (*app.Runtime, error)
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Terminal == nil {
		o.Terminal = func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		}
	}
	if o.Provider == nil {
		o.Provider = interact.NewPterm()
	}
	if o.Runtime == nil {
		o.Runtime = app.InitializeRuntime
	}
	return o
}

// Execute runs devc with the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return Run(ctx, os.Args[1:], Options{})
}

// Run executes argv and maps the outcome to an exit code. Errors are
// reported on opts.Err.
func Run(ctx context.Context, argv []string, opts Options) int {
	opts = opts.withDefaults()
	err := run(ctx, argv, opts)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, interact.ErrInterrupted), errors.Is(err, context.Canceled):
		ui.Warn.WithWriter(opts.Err).Println("Interrupted")
		return ExitInterrupted
	}
	_, _ = io.WriteString(opts.Err, ui.ErrorPanel("Error", err.Error())+"\n")
	return ExitError
}

func run(ctx context.Context, argv []string, opts Options) error {
	cfg, err := config.Load(config.ScanConfigFile(argv))
	if err != nil {
		return err
	}
	if err := ui.SetLogLevel(cfg.GetLogLevel()); err != nil {
		return err
	}
	rt, err := opts.Runtime(cfg)
	if err != nil {
		return err
	}

	root := NewRootCommand()
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	tree, err := extension.NewTree(rt.Registry, root, plugins.PointCommand, rt.Defaults)
	if err != nil {
		return err
	}
	tree.OnLoadFailure(func(point string, f extension.LoadFailure) {
		_, _ = fmt.Fprintln(opts.Err, ui.WarnPanel("Skipping extension "+f.Name, "extension point: "+point, f.Err.Error()))
	})

	if len(argv) == 0 && cfg.GetInteractive() && opts.Terminal() {
		ui.PrintBanner()
		argv, err = tree.Compose(ctx, opts.Provider)
		if err != nil {
			return err
		}
		if argv == nil {
			ui.Info.WithWriter(opts.Out).Println("Nothing selected")
			return nil
		}
		ui.Logger.Debug("composed command line", ui.Logger.Args("argv", argv))
	}

	if err := tree.Prepare(argv); err != nil {
		return err
	}
	root.SetArgs(argv)
	return root.ExecuteContext(ctx)
}
