package cli

import (
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/planner"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func reflectCmd(opts *rootOptions) *cobra.Command {
	var (
		name     string
		mood     int
		rating   int
		good     string
		improve  string
		ratings  map[string]int
		comments map[string]string
	)

	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Submit a reflection on a published practice",
		Long: `Submit a reflection on a published practice (player keys).

Moods: 0 had fun, 1 worked hard, 2 found it hard, 3 frustrated.`,
		Example: `  planctl reflect --grade 3-4 --rating 4 --good "I beat my defender twice" \
      --drill-rating tr1=5 --drill-comment tr1="fun"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			r := &domain.Reflection{
				PlanKey:      s.key,
				PlayerName:   name,
				SelfRating:   rating,
				GoodPoints:   good,
				Improvements: improve,
			}
			if cmd.Flags().Changed("mood") {
				r.Mood = &mood
			}
			feedback := make(map[domain.Slot]domain.DrillFeedback)
			for slot, v := range ratings {
				f := feedback[domain.Slot(slot)]
				f.Rating = v
				feedback[domain.Slot(slot)] = f
			}
			for slot, v := range comments {
				f := feedback[domain.Slot(slot)]
				f.Comment = v
				feedback[domain.Slot(slot)] = f
			}
			if len(feedback) > 0 {
				r.DrillFeedback = feedback
			}

			saved, err := s.gateway.SubmitReflection(cmd.Context(), r)
			var vErr *planner.ValidationError
			switch {
			case errors.As(err, &vErr):
				printFieldErrors(cmd, vErr.Fields)
				return errors.New("reflection not submitted")
			case planner.IsConstraintError(err):
				return fmt.Errorf("%s is not published yet", s.key)
			case err != nil:
				return fmt.Errorf("failed to submit reflection: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Thanks %s, your reflection on %s was sent\n", okColor.Sprint("✓"), saved.PlayerName, saved.PlanKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Your name (default: the label of your access key)")
	cmd.Flags().IntVar(&mood, "mood", 0, "How practice felt, 0-3")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Rate your own effort, 1-5")
	cmd.Flags().StringVar(&good, "good", "", "What went well")
	cmd.Flags().StringVar(&improve, "improve", "", "What to work on next time")
	cmd.Flags().StringToIntVar(&ratings, "drill-rating", nil, "Rate drills, e.g. warmup=3,tr1=5")
	cmd.Flags().StringToStringVar(&comments, "drill-comment", nil, "Comment on drills, e.g. tr2=\"too long\"")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func reflectionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reflections",
		Short: "Read the reflections players sent for a plan (coach keys)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.gateway.Reflections(cmd.Context(), s.key)
			if err != nil {
				return fmt.Errorf("failed to list reflections: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintf(out, "No reflections for %s yet\n", s.key)
				return nil
			}
			for i, r := range list {
				if i > 0 {
					fmt.Fprintln(out)
				}
				name := r.PlayerName
				if name == "" {
					name = "(anonymous)"
				}
				fmt.Fprintf(out, "%s  %s\n", titleColor.Sprint(name), strings.Repeat("★", r.SelfRating))
				if r.Mood != nil && *r.Mood >= 0 && *r.Mood < len(domain.Moods) {
					fmt.Fprintf(out, "  Mood:    %s\n", domain.Moods[*r.Mood])
				}
				if r.GoodPoints != "" {
					fmt.Fprintf(out, "  Good:    %s\n", r.GoodPoints)
				}
				if r.Improvements != "" {
					fmt.Fprintf(out, "  Improve: %s\n", r.Improvements)
				}
				if r.HasDrillFeedback() {
					for _, slot := range domain.Slots {
						f, ok := r.DrillFeedback[slot]
						if !ok {
							continue
						}
						fmt.Fprintf(out, "  %-7s  %d/5 %s\n", strings.ToUpper(string(slot)), f.Rating, f.Comment)
					}
				}
			}
			return nil
		},
	}
}

func printFieldErrors(cmd *cobra.Command, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := cmd.OutOrStdout()
	for _, k := range keys {
		fmt.Fprintf(out, "  - %s: %s\n", k, fields[k])
	}
}
