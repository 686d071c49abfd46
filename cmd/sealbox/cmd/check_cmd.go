package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sealbox/internal/region"
	"sealbox/internal/textbuf"
	"sealbox/internal/ui"
)

// checkCmd loads a file into an in-memory buffer, installs the sealed tags
// and prints the resulting ranges, as a host editor integration would see
// them.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show the protected ranges a sealed file projects onto a buffer",
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := os.ReadFile(inputPath)
		if err != nil {
			ui.Error("failed to read %s: %v", inputPath, err)
			os.Exit(1)
		}

		buf := textbuf.New(string(raw))
		if errs := region.SetTags(buf); len(errs) > 0 {
			for _, e := range errs {
				ui.Error("%v", e)
			}
			os.Exit(1)
		}

		ranges := buf.TagRanges(region.TagName)
		for _, r := range ranges {
			firstLine := buf.GetRange(buf.LineStart(r.Start), buf.LineEnd(r.Start))
			fmt.Printf("%d.%d-%d.%d  %s\n",
				r.Start.Line, r.Start.Col, r.End.Line, r.End.Col, firstLine)
		}
		ui.Success("%d sealed range(s) in %s.", len(ranges), inputPath)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
