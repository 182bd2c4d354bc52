package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"refu/internal/diag"
	"refu/internal/lexer"
	"refu/internal/source"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Dump the token stream of a single refu source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("refu tokens: %w", err)
	}

	fs := source.NewFileSet()
	f := fs.Get(fs.Add(path, string(content)))

	bag := &diag.Bag{}
	toks := lexer.New(f, diag.BagReporter{Bag: bag}).Scan()
	for _, tok := range toks {
		pos := fs.Position(tok.Span)
		if tok.Text != "" {
			fmt.Printf("%-12s %s %q\n", tok.Kind, pos, tok.Text)
		} else {
			fmt.Printf("%-12s %s\n", tok.Kind, pos)
		}
	}

	for _, d := range bag.Items() {
		diag.Format(os.Stdout, fs, d)
	}
	if bag.HasErrors() {
		os.Exit(1)
	}
	return nil
}
