package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"constlit/internal/ast"
	"constlit/internal/astio"
	"constlit/internal/diag"
	"constlit/internal/diagfmt"
	"constlit/internal/source"
	"constlit/internal/symbols"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes FILE",
	Short: "Print the scope tree and declarations of an AST document",
	Args:  cobra.ExactArgs(1),
	RunE:  runScopes,
}

func init() {
	scopesCmd.Flags().String("format", "text", "output format (text|json)")
	scopesCmd.Flags().Bool("prelude", false, "include the prelude scope")
}

func runScopes(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	withPrelude, err := cmd.Flags().GetBool("prelude")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(configPath, ".")
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	builder := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}
	_, fileID, err := astio.Load(fs, args[0], builder, astio.Options{Reporter: reporter})
	if err != nil {
		return err
	}
	res := symbols.ResolveFile(builder, fileID, symbols.ResolveOptions{
		Prelude:  cfg.Prelude.Names,
		Reporter: reporter,
	})

	if bag.Len() > 0 {
		color, err := colorEnabled(cmd, os.Stderr)
		if err != nil {
			return err
		}
		bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: color, ShowNotes: true})
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	if format == "json" {
		return diagfmt.Semantics(cmd.OutOrStdout(), &diagfmt.SemanticsInput{Builder: builder, Result: &res})
	}
	root := res.FileScope
	if withPrelude {
		root = res.Table.PreludeScope()
	}
	return res.Table.Dump(cmd.OutOrStdout(), root)
}
