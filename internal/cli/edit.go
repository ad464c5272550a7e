package cli

import (
	"context"
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/planner"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const editHelp = `Commands:
  set <slot>.<field> <value>   slot: warmup tr1 tr2 tr3; field: title purpose durationMin intensity notes
  set keyFactor.situation <v>  also keyFactor.voiceCue and coachName
  tags <slot> <tag>[,<tag>]    toggle focus tags
  template <id>                replace the drills with a template
  duplicate-yesterday          copy the previous day's published plan
  voice <field> <text>         append dictated text to a field
  status                       show the draft and the save state
  save                         save the draft now
  publish                      validate and publish
  quit                         leave (a pending autosave is dropped)
`

func plansEditCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the selected plan interactively, with autosave",
		Long: `Edit the selected plan interactively.

Edits are saved as a draft shortly after you stop typing. Drafts are only
visible to coaches; use "publish" to show the plan to players.

` + editHelp,
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

			out := &syncWriter{w: cmd.OutOrStdout()}
			autosave := planner.AutosaveConfig{
				Delay:        s.cfg.Autosave.Delay,
				SavedDisplay: s.cfg.Autosave.SavedDisplay,
				Logger:       s.logger,
				OnStateChange: func(state planner.SaveState, err error) {
					switch {
					case err != nil:
						fmt.Fprintf(out, "%s %s\n", errColor.Sprint("!"), "Save failed; your edits are kept. Run save to retry.")
					case state == planner.StateSaved:
						fmt.Fprintf(out, "%s\n", saveStateLabel(state))
					}
				},
			}
			editor, err := planner.NewEditor(st, s.key, planner.EditorConfig{Autosave: autosave, Logger: s.logger})
			if err != nil {
				return err
			}
			defer editor.Close()

			r := &repl{
				ctx:       cmd.Context(),
				editor:    editor,
				gateway:   s.gateway,
				out:       out,
				prompter:  newPrompter(cmd.InOrStdin(), out),
				publishFn: func(c planner.Confirmer) error { return publish(cmd, editor, c) },
			}
			fmt.Fprintf(out, "Editing %s", s.key)
			if editor.IsPublished() {
				fmt.Fprintf(out, " [%s]", statusLabel(domain.StatusPublished))
			}
			fmt.Fprintln(out, "\nType help for commands.")
			return r.run()
		},
	}
}

// repl reads editor commands line by line.
type repl struct {
	ctx       context.Context
	editor    *planner.Editor
	gateway   *planner.HTTPGateway
	out       io.Writer
	prompter  *prompter
	publishFn func(planner.Confirmer) error
}

func (r *repl) run() error {
	for {
		line, ok := r.prompter.line("> ")
		if !ok {
			return r.quit()
		}
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		var err error
		switch cmd {
		case "help", "?":
			fmt.Fprint(r.out, editHelp)
		case "set":
			path, value, _ := strings.Cut(rest, " ")
			err = r.editor.Set(path, strings.TrimSpace(value))
		case "tags":
			err = r.toggleTags(rest)
		case "template":
			err = r.applyTemplate(rest)
		case "duplicate-yesterday":
			err = r.editor.DuplicateYesterday()
			if errors.Is(err, planner.ErrNoYesterdayPlan) {
				fmt.Fprintln(r.out, "Nothing was published the day before.")
				err = nil
			}
		case "voice":
			path, text, _ := strings.Cut(rest, " ")
			err = r.editor.AppendVoiceText(path, text)
		case "status":
			r.status()
		case "save":
			err = r.editor.SaveDraft(r.ctx)
		case "publish":
			err = r.publishFn(func(ctx context.Context, published *domain.PlanRecord) (bool, error) {
				return r.prompter.confirm("This plan is already published. Players will see the changes immediately. Publish anyway?"), nil
			})
		case "quit", "exit":
			return r.quit()
		default:
			err = fmt.Errorf("unknown command %q (type help)", cmd)
		}
		if err != nil {
			fmt.Fprintf(r.out, "%s %v\n", errColor.Sprint("!"), err)
		}
	}
}

func (r *repl) toggleTags(rest string) error {
	slot, tags, ok := strings.Cut(rest, " ")
	if !ok {
		return errors.New("usage: tags <slot> <tag>[,<tag>]")
	}
	for _, tag := range strings.Split(tags, ",") {
		if err := r.editor.ToggleTag(domain.Slot(slot), strings.TrimSpace(tag)); err != nil {
			return err
		}
	}
	return nil
}

func (r *repl) applyTemplate(id string) error {
	templates, err := r.gateway.Templates(r.ctx)
	if err != nil {
		return err
	}
	for _, t := range templates {
		if t.ID == id {
			return r.editor.ApplyTemplate(t)
		}
	}
	ids := make([]string, 0, len(templates))
	for _, t := range templates {
		ids = append(ids, t.ID)
	}
	return fmt.Errorf("unknown template %q (have %s)", id, strings.Join(ids, ", "))
}

func (r *repl) status() {
	snap := r.editor.Draft()
	rec := snap.Record(r.editor.Key(), domain.StatusDraft)
	if r.editor.IsPublished() {
		rec.Status = domain.StatusPublished
	}
	printPlan(r.out, rec)
	fmt.Fprintf(r.out, "\nAutosave: %s\n", saveStateLabel(r.editor.SaveState()))
	if r.editor.HasUnpublishedChanges() {
		fmt.Fprintln(r.out, warnColor.Sprint("Unpublished changes: run publish to show them to players."))
	}
	if errs := r.editor.Validate(); errs != nil {
		printValidation(r.out, errs)
	}
}

func (r *repl) quit() error {
	if r.editor.SaveState() == planner.StatePending {
		fmt.Fprintln(r.out, warnColor.Sprint("Pending autosave dropped; run save before quit to keep it."))
	}
	r.editor.Close()
	// Let a save that already started reach the store.
	return r.editor.Wait(r.ctx)
}
