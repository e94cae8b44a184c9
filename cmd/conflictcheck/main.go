// Command conflictcheck finds error tuples of a combinatorial test model
// that the model's other constraints already make unreachable.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	commit = ""
	date   = ""
)

// errAbort signals that findings exist and the configuration asks to abort.
var errAbort = errors.New("missing invalid tuples found")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "conflictcheck",
		Short: "Detect and diagnose conflicts in combinatorial test models",
		Long: "conflictcheck probes every tuple of every error constraint of a test model\n" +
			"and reports the ones that exclusions or other error constraints already forbid,\n" +
			"together with the constraints responsible.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.AddCommand(newDetectCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	err := newRootCmd().Execute()
	switch {
	case errors.Is(err, errAbort):
		os.Exit(2)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
