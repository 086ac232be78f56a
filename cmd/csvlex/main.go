// Command csvlex drives the csvlex pipeline end to end: it is the ambient
// CLI front end spec.md §1 keeps out of the library's own scope (no
// format dispatch or decompression lives in csvlex itself), built the way
// the rest of the retrieval pack ships a cmd/cli entry point around its
// core engine (see opal-lang-opal/cli/main.go).
package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	delimiter      string
	quotation      string
	maxBufferSize  int64
	maxFieldCount  int64
	skipEmptyLines bool
	header         []string
	source         string
}

func main() {
	root := &cobra.Command{
		Use:           "csvlex",
		Short:         "Stream CSV through csvlex's incremental lexer and record assembler",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&rootFlags.delimiter, "delimiter", ",", "field delimiter, exactly one character")
	root.PersistentFlags().StringVar(&rootFlags.quotation, "quote", `"`, "quotation character, exactly one character")
	root.PersistentFlags().Int64Var(&rootFlags.maxBufferSize, "max-buffer-size", 0, "max unprocessed character buffer (0 = library default)")
	root.PersistentFlags().Int64Var(&rootFlags.maxFieldCount, "max-field-count", 0, "max fields per row (0 = library default)")
	root.PersistentFlags().BoolVar(&rootFlags.skipEmptyLines, "skip-empty-lines", false, "suppress the all-empty record a bare blank line produces")
	root.PersistentFlags().StringSliceVar(&rootFlags.header, "header", nil, "explicit header names, bypassing header-row capture")
	root.PersistentFlags().StringVar(&rootFlags.source, "source-label", "", "label included in error messages")

	root.AddCommand(newParseCommand())
	root.AddCommand(newWatchCommand())

	if err := root.Execute(); err != nil {
		log.Fatalf("csvlex: %v", err)
	}
}
