package cli

import (
	"context"
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/planner"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func plansCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List, show, export, publish and edit practice plans",
	}
	cmd.AddCommand(plansListCmd(opts))
	cmd.AddCommand(plansShowCmd(opts))
	cmd.AddCommand(plansExportCmd(opts))
	cmd.AddCommand(plansPublishCmd(opts))
	cmd.AddCommand(plansEditCmd(opts))
	return cmd
}

func plansListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the plans visible to your access key",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			plans, err := s.gateway.FetchAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(plans) == 0 {
				fmt.Fprintln(out, "No plans found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTEAM\tGRADE\tSTATUS\tWARMUP\tCOACH")
			fmt.Fprintln(w, "----\t----\t-----\t------\t------\t-----")
			for _, p := range plans {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Date, p.TeamID, p.GradeGroup, p.Status, p.Warmup.Title, p.CreatedByCoachName)
			}
			return w.Flush()
		},
	}
}

func plansShowCmd(opts *rootOptions) *cobra.Command {
	var yesterday bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the plan for the selected team, date and grade",
		Long: `Show the plan for the selected team, date and grade.

With --yesterday, show the plan published for the previous calendar day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := s.store(cmd.Context())
			if err != nil {
				return err
			}
			var plan *domain.PlanRecord
			if yesterday {
				plan, err = st.YesterdayPlan()
			} else {
				plan, err = st.CurrentPlan()
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if plan == nil {
				if yesterday {
					fmt.Fprintf(out, "Nothing was published the day before %s\n", s.key.Date)
				} else {
					fmt.Fprintf(out, "No plan for %s yet\n", s.key)
				}
				return nil
			}
			printPlan(out, plan)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yesterday, "yesterday", false, "Show the previous day's published plan")
	return cmd
}

func plansExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected plan as YAML",
		Long: `Write the selected plan as YAML, to stdout or a file.

The file can be edited and published back with "plans publish -f".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := s.store(cmd.Context())
			if err != nil {
				return err
			}
			plan, err := st.CurrentPlan()
			if err != nil {
				return err
			}
			if plan == nil {
				// Export a blank form for the key so there is something to fill in.
				plan = planner.EmptySnapshot().Record(s.key, domain.StatusDraft)
			}
			plan.ID = ""

			data, err := yaml.Marshal(plan)
			if err != nil {
				return fmt.Errorf("failed to encode plan: %w", err)
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", s.key, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: stdout)")
	return cmd
}

func plansPublishCmd(opts *rootOptions) *cobra.Command {
	var (
		file        string
		skipConfirm bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a plan from a YAML file",
		Long: `Publish a plan from a YAML file written by "plans export".

All four drills need a title. If the plan is already published, players see
the new version immediately, so you are asked to confirm (unless --yes).`,
		Example: `  planctl plans export -o today.yaml --grade 3-4
  planctl plans publish -f today.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			var in domain.PlanRecord
			if err := yaml.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}

			s, err := opts.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()
			s.key = in.PlanKey

			st, err := s.store(cmd.Context())
			if err != nil {
				return err
			}
			editor, err := planner.NewEditor(st, in.PlanKey, planner.EditorConfig{Logger: s.logger})
			if err != nil {
				return err
			}
			defer editor.Close()

			if err := editor.Update("file", func(snap *planner.Snapshot) error {
				*snap = planner.SnapshotOf(&in)
				return nil
			}); err != nil {
				return err
			}

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			var confirm planner.Confirmer = func(ctx context.Context, published *domain.PlanRecord) (bool, error) {
				if skipConfirm {
					return true, nil
				}
				return p.confirm(fmt.Sprintf("%s is already published. Players will see the changes immediately. Publish anyway?", published.PlanKey)), nil
			}
			return publish(cmd, editor, confirm)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file to publish")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the re-publish confirmation")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// publish runs Editor.Publish and reports the outcome.
func publish(cmd *cobra.Command, editor *planner.Editor, confirm planner.Confirmer) error {
	out := cmd.OutOrStdout()
	saved, err := editor.Publish(cmd.Context(), confirm)
	var vErr *planner.ValidationError
	switch {
	case errors.As(err, &vErr):
		printValidation(out, vErr.Fields)
		return errors.New("plan not published")
	case errors.Is(err, planner.ErrPublishCancelled):
		fmt.Fprintln(out, "Aborted.")
		return nil
	case err != nil:
		return fmt.Errorf("failed to publish: %w", err)
	}
	fmt.Fprintf(out, "%s Published %s\n", okColor.Sprint("✓"), saved.PlanKey)
	return nil
}
