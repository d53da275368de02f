package commands

import (
	"errors"
	"flag"
	"os"

	"github.com/erraggy/httpchain/internal/cliutil"
)

// SetupValidateFlags creates and configures a FlagSet for the validate
// command.
func SetupValidateFlags() (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	root := fs.String("root", "", "root directory $ref file paths are bounded to (default: the scenario file's directory)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: httpchain validate [flags] <file.json>\n\n")
		cliutil.Writef(fs.Output(), "Resolve references, build, and validate a scenario file without executing it.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Scenario is valid\n")
		cliutil.Writef(fs.Output(), "  1    Scenario failed to resolve, build, or validate\n")
	}

	return fs, root
}

// HandleValidate executes the validate command.
func HandleValidate(args []string) error {
	fs, root := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("validate command requires exactly one scenario file path")
	}

	path := fs.Arg(0)
	rootDir := *root
	if rootDir == "" {
		rootDir = defaultRoot(path)
	}

	scn, err := loadScenario(path, rootDir)
	if err != nil {
		return err
	}

	cliutil.Writef(os.Stdout, "valid: %s (%d stage(s))\n", scn.ID, len(scn.Stages))
	return nil
}
