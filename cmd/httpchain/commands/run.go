package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/httpchain/internal/cliutil"
	"github.com/erraggy/httpchain/internal/options"
	"github.com/erraggy/httpchain/runner"
)

// RunFlags contains flags for the run command.
type RunFlags struct {
	Dir    string
	Suffix string
	Root   string
	Vars   varFlags
}

// SetupRunFlags creates and configures a FlagSet for the run command.
func SetupRunFlags() (*flag.FlagSet, *RunFlags) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	flags := &RunFlags{Vars: varFlags{}}

	fs.StringVar(&flags.Dir, "dir", "", "run every discovered scenario under this directory, instead of a single file")
	fs.StringVar(&flags.Suffix, "suffix", runner.DefaultSuffix, "discovery suffix used with --dir")
	fs.StringVar(&flags.Root, "root", "", "root directory $ref file paths are bounded to (default: the scenario file's directory)")
	fs.Var(flags.Vars, "var", "fixture value as key=value, may be repeated")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: httpchain run [flags] <file.json>\n")
		cliutil.Writef(fs.Output(), "       httpchain run [flags] --dir <dir>\n\n")
		cliutil.Writef(fs.Output(), "Load, resolve, and execute a scenario (or every scenario under a directory) against live HTTP.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  httpchain run test_create_order.http.json --var base_url=https://api.example.com\n")
		cliutil.Writef(fs.Output(), "  httpchain run --dir ./tests --suffix http\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Every stage of every scenario passed\n")
		cliutil.Writef(fs.Output(), "  1    At least one stage failed, or the run could not start\n")
	}

	return fs, flags
}

// HandleRun executes the run command.
func HandleRun(args []string) error {
	fs, flags := SetupRunFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	hasFileArg := fs.NArg() == 1
	hasDirFlag := flags.Dir != ""
	if err := options.ValidateSingleInputSource(
		"run command requires either a scenario file path or --dir",
		"run command accepts either a scenario file path or --dir, not both",
		hasFileArg, hasDirFlag,
	); err != nil {
		fs.Usage()
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return errors.New("run command accepts at most one scenario file path")
	}

	var paths []string
	if hasDirFlag {
		discovered, err := runner.Discover(flags.Dir, flags.Suffix)
		if err != nil {
			return err
		}
		if len(discovered) == 0 {
			return fmt.Errorf("no scenario files matching test_*.%s.json found under %s", flags.Suffix, flags.Dir)
		}
		paths = discovered
	} else {
		paths = []string{fs.Arg(0)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cancel := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(cancel)
	}()

	host := newCLIHost(flags.Vars, cancel)

	for _, path := range paths {
		rootDir := flags.Root
		if rootDir == "" {
			rootDir = defaultRoot(path)
		}

		scn, err := loadScenario(path, rootDir)
		if err != nil {
			return err
		}

		r := runner.New(host, runner.WithRootPath(rootDir), runner.WithSuffix(flags.Suffix))
		cliutil.Writef(os.Stdout, "=== %s ===\n", path)
		if err := r.Run(ctx, scn); err != nil {
			return fmt.Errorf("running %s: %w", path, err)
		}
	}

	if !host.Summary() {
		os.Exit(1)
	}
	return nil
}
