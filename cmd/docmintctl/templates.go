package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/docmint-backend/internal/seed"
)

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Показать встроенные шаблоны",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := seed.Templates()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tFIELDS\tVERSION")
			for _, tpl := range templates {
				fmt.Fprintf(w, "%s\t%s\t%d\tv%d\n", tpl.Key(), tpl.Name, len(tpl.Fields), tpl.Version)
			}
			return w.Flush()
		},
	}
}
