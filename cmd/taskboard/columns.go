package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/spf13/cobra"
)

var (
	bold = color.New(color.Bold).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

func columnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Print the default board columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printColumns(cmd.OutOrStdout(), model.DefaultColumns())
			return nil
		},
	}
}

func printColumns(w io.Writer, cols []model.Column) {
	cols = model.SortColumns(cols)
	fmt.Fprintf(w, "%s (%d)\n", bold("Columns"), len(cols))
	for _, col := range cols {
		fmt.Fprintf(w, "  %s %-12s %s\n", dim(fmt.Sprintf("%d.", col.Order+1)), cyan(col.ID), col.Title)
	}
}
