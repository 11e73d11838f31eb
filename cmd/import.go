package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import trial records from a JSON Lines file",
	Long: "Import reads one JSON trial record per line from file, or from stdin " +
		"when file is omitted or \"-\". Records without a userId belong to the " +
		"configured learner.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		var src io.Reader = cmd.InOrStdin()
		name := "stdin"
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			src, name = f, args[0]
		}

		n, err := e.store.Trials().Import(cmd.Context(), src, e.cfg.UserID)
		if err != nil {
			return fmt.Errorf("import %s after %d trials: %w", name, n, err)
		}
		e.logger.Debug("import finished", "source", name, "trials", n)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d trials.\n", n)
		return nil
	},
}
