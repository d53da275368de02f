package commands

import (
	"os"

	"github.com/erraggy/httpchain"
	"github.com/erraggy/httpchain/internal/cliutil"
)

// HandleVersion prints the build version, mirroring oastools' version
// command's one-field-per-line layout.
func HandleVersion() {
	cliutil.Writef(os.Stdout, "httpchain %s\n", httpchain.Version())
	cliutil.Writef(os.Stdout, "commit: %s\n", httpchain.Commit())
	cliutil.Writef(os.Stdout, "built: %s\n", httpchain.BuildTime())
	cliutil.Writef(os.Stdout, "go: %s\n", httpchain.GoVersion())
}
