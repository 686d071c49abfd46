package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"sealbox/internal/seal"
	"sealbox/internal/ui"
)

// verifyCmd re-computes the fingerprints of the sealed blocks and reports
// every block whose stored fingerprint no longer matches its content.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the fingerprints of the sealed blocks in a file",
	Run: func(cmd *cobra.Command, args []string) {
		count, errs, err := seal.VerifyFile(inputPath)
		if err != nil {
			ui.Error("%v", err)
			os.Exit(1)
		}
		if len(errs) > 0 {
			for _, e := range errs {
				ui.Error("%v", e)
			}
			os.Exit(1)
		}
		ui.Success("All %d sealed block(s) verified in %s.", count, inputPath)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
