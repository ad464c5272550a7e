package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func templatesCmd(opts *rootOptions) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the drill templates a plan can start from",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			templates, err := s.gateway.Templates(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}
			out := cmd.OutOrStdout()
			if detail {
				for i, t := range templates {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "%s  %s\n", titleColor.Sprint(t.ID), t.Name)
					printContent(out, t.PlanContent)
				}
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFOCUS")
			for _, t := range templates {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, strings.Join(t.Tags(), ", "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&detail, "detail", false, "Print every drill of each template")
	return cmd
}
