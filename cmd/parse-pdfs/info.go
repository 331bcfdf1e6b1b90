package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artnoricojr/parse-pdfs/internal/extract"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.pdf>",
	Short: "Print a PDF's page count and document metadata",
	Long: `Read a PDF's page count and document information dictionary without
extracting any text. Metadata fields absent from the document are
omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := (&extract.PDF{}).Metadata(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", args[0])
		fmt.Printf("  Pages:     %d\n", info.PageCount)
		printField("Title", info.Title)
		printField("Author", info.Author)
		printField("Subject", info.Subject)
		printField("Creator", info.Creator)
		printField("Producer", info.Producer)
		printField("Created", info.CreationDate)
		printField("Modified", info.ModDate)
		return nil
	},
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-9s %s\n", label+":", value)
}
