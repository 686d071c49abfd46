package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"sealbox/internal/seal"
	"sealbox/internal/ui"
)

var (
	inputPath string
	write     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sealbox",
	Short: "Seal marked blocks of plain-text files against modification",
	Long: `sealbox scans a plain-text file for "# sealed: on" / "# sealed: off"
marker comments, fingerprints the content between each pair and stamps the
fingerprint onto the marker lines. A host editor can then refuse edits that
would break a sealed block.

Without --write the sealed content is printed to standard output; with it
the input file is replaced atomically.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := seal.SealFile(inputPath, write, os.Stdout); err != nil {
			ui.Error("%v", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&inputPath, "input", "i", "", "path to the input file")
	rootCmd.MarkPersistentFlagRequired("input")

	rootCmd.Flags().BoolVarP(
		&write, "write", "w", false, "overwrite the input file in place")
}
