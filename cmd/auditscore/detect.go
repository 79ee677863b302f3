package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/parser"
	"github.com/dshills/auditscore/internal/scoring"
	"github.com/dshills/auditscore/internal/sheet"
)

func newDetectCmd() *cobra.Command {
	var sheetName string
	cmd := &cobra.Command{
		Use:   "detect <sheet>",
		Short: "Print the audit type detected from a sheet's headers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(args[0], sheetName, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to read from a workbook (default: first)")
	return cmd
}

func runDetect(path, sheetName string, w io.Writer) error {
	s, err := sheet.Load(path, sheetName)
	if err != nil {
		return exitError(3, "failed to load sheet: %v", err)
	}
	fmt.Fprintln(w, parser.DetectAuditType(s.Headers))
	return nil
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "categories [type]",
		Short:     "List the scoring categories of an audit type",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(audit.TypeStore), string(audit.TypeILMS), string(audit.TypeXFE)},
		RunE: func(cmd *cobra.Command, args []string) error {
			types := audit.Types
			if len(args) == 1 {
				t := audit.ParseType(args[0])
				if !t.Valid() {
					return exitError(3, "unknown audit type: %s", args[0])
				}
				types = []audit.Type{t}
			}
			return runCategories(types, os.Stdout)
		},
	}
}

func runCategories(types []audit.Type, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCATEGORY\tWEIGHT\tINVERSION\tPATTERNS")
	for _, t := range types {
		for _, c := range scoring.Categories(t) {
			inv := string(c.Inversion)
			if inv == "" {
				inv = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n", t, c.Name, c.Weight, inv, strings.Join(c.Patterns, ", "))
		}
	}
	return tw.Flush()
}
