package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artnoricojr/parse-pdfs/internal/terms"
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Inspect and validate term lists",
}

var termsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that every pattern in a term list compiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := terms.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("loaded %d terms from %s\n", set.Len(), args[0])

		errs := terms.Validate(set)
		for _, msg := range errs {
			fmt.Println(msg)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d of %d patterns failed to compile", len(errs), set.Len())
		}

		fmt.Println("all patterns compile")
		return nil
	},
}

func init() {
	termsCmd.AddCommand(termsValidateCmd)
}
