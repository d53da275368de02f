package commands

import (
	"errors"
	"flag"
	"os"

	"github.com/erraggy/httpchain/internal/cliutil"
	"github.com/erraggy/httpchain/runner"
)

// SetupDiscoverFlags creates and configures a FlagSet for the discover
// command.
func SetupDiscoverFlags() (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	suffix := fs.String("suffix", runner.DefaultSuffix, "discovery suffix: matches test_<name>.<suffix>.json")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: httpchain discover [flags] <dir>\n\n")
		cliutil.Writef(fs.Output(), "Walk a directory and list scenario files matching the discovery pattern.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  httpchain discover ./tests\n")
		cliutil.Writef(fs.Output(), "  httpchain discover --suffix staging ./tests\n")
	}

	return fs, suffix
}

// HandleDiscover executes the discover command.
func HandleDiscover(args []string) error {
	fs, suffix := SetupDiscoverFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("discover command requires exactly one directory path")
	}

	matches, err := runner.Discover(fs.Arg(0), *suffix)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		cliutil.Writef(os.Stdout, "no scenario files matching test_*.%s.json found\n", *suffix)
		return nil
	}

	for _, path := range matches {
		cliutil.Writef(os.Stdout, "%s\n", path)
	}
	return nil
}
