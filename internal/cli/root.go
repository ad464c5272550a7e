// Package cli implements planctl, the command-line client of the practice
// planner store.
package cli

import (
	"context"
	"fmt"
	"hiroonarita/practice-planner/internal/config"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/logging"
	"hiroonarita/practice-planner/internal/planner"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configDir string
	team      string
	date      string
	grade     string
}

// NewRootCmd builds the planctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "planctl",
		Short: "Plan, publish and reflect on youth soccer practices",
		Long: `planctl talks to a practice planner store.

Coaches edit and publish daily practice plans for a team, date and grade
group. Players read published plans and submit reflections.

The store is set with STORE_URL and STORE_ACCESS_KEY (or store.url and
store.access_key in config.yaml).`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config", ".", "Directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.team, "team", "", "Team ID (default: first configured team)")
	rootCmd.PersistentFlags().StringVar(&opts.date, "date", "", "Practice date YYYY-MM-DD (default: today)")
	rootCmd.PersistentFlags().StringVarP(&opts.grade, "grade", "g", "", "Grade group: 1-2, 3-4 or 5-6")

	rootCmd.AddCommand(plansCmd(opts))
	rootCmd.AddCommand(templatesCmd(opts))
	rootCmd.AddCommand(reflectCmd(opts))
	rootCmd.AddCommand(reflectionsCmd(opts))
	rootCmd.AddCommand(keyCmd(opts))

	return rootCmd
}

// session is what a store command needs: configuration, a gateway and the
// selected plan key.
type session struct {
	cfg     config.Config
	gateway *planner.HTTPGateway
	key     domain.PlanKey
	logger  *log.Logger
	closer  io.Closer
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openSession loads config, checks the store settings and resolves the
// selection key from flags.
func (o *rootOptions) openSession(cmd *cobra.Command, needKey bool) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateClient(); err != nil {
		return nil, err
	}

	w, closer := logging.Setup(cfg.Log, cmd.ErrOrStderr())
	s := &session{
		cfg:     cfg,
		gateway: planner.NewHTTPGateway(cfg.Store.URL, cfg.Store.AccessKey, cfg.Store.Timeout),
		logger:  logging.New(w, "planctl"),
		closer:  closer,
	}
	if needKey {
		key, err := o.selection(cfg)
		if err != nil {
			closer.Close()
			return nil, err
		}
		s.key = key
	}
	return s, nil
}

func (s *session) Close() {
	if s.closer != nil {
		s.closer.Close()
	}
}

// store fetches the collection once and selects the session key.
func (s *session) store(ctx context.Context) (*planner.Store, error) {
	st := planner.NewStore(s.gateway, s.logger)
	if err := st.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("could not load plans from the store: %w", err)
	}
	st.Select(s.key)
	return st, nil
}

func (o *rootOptions) selection(cfg config.Config) (domain.PlanKey, error) {
	team := o.team
	if team == "" {
		if len(cfg.Teams) == 0 {
			return domain.PlanKey{}, fmt.Errorf("no team selected\nHint: use --team or configure teams")
		}
		team = cfg.Teams[0].ID
	} else if _, ok := cfg.FindTeam(team); !ok && len(cfg.Teams) > 0 {
		return domain.PlanKey{}, fmt.Errorf("unknown team %q", team)
	}

	date := o.date
	if date == "" {
		date = time.Now().Format(domain.DateLayout)
	}

	key := domain.PlanKey{TeamID: team, Date: date, GradeGroup: domain.GradeGroup(o.grade)}
	if err := key.Validate(); err != nil {
		if o.grade == "" {
			return key, fmt.Errorf("%w\nHint: use --grade", err)
		}
		return key, err
	}
	return key, nil
}
