package cli

import (
	"bufio"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/planner"
	"hiroonarita/practice-planner/internal/validation"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed)
	titleColor = color.New(color.Bold)
	dimColor   = color.New(color.FgHiBlack)
)

func statusLabel(s domain.PlanStatus) string {
	if s == domain.StatusPublished {
		return okColor.Sprint("published")
	}
	return warnColor.Sprint("draft")
}

func saveStateLabel(s planner.SaveState) string {
	switch s {
	case planner.StatePending:
		return warnColor.Sprint("editing…")
	case planner.StateSaving:
		return warnColor.Sprint("saving…")
	case planner.StateSaved:
		return okColor.Sprint("saved")
	}
	return dimColor.Sprint("idle")
}

// printPlan renders a plan for reading. The key factor is printed only when
// present, which it never is for players.
func printPlan(w io.Writer, p *domain.PlanRecord) {
	fmt.Fprintf(w, "%s  %s  grade %s  [%s]\n", titleColor.Sprint(p.TeamID), p.Date, p.GradeGroup, statusLabel(p.Status))
	if p.CreatedByCoachName != "" {
		fmt.Fprintf(w, "Coach: %s\n", p.CreatedByCoachName)
	}
	printContent(w, p.PlanContent)
	if !p.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "%s\n", dimColor.Sprintf("Updated %s", p.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
}

func printContent(w io.Writer, c domain.PlanContent) {
	for _, slot := range domain.Slots {
		d, _ := c.Drill(slot)
		title := d.Title
		if title == "" {
			title = dimColor.Sprint("(no title)")
		}
		fmt.Fprintf(w, "\n%-7s %s  %d min, %s\n", strings.ToUpper(string(slot)), title, d.DurationMin, d.Intensity)
		if d.Purpose != "" {
			fmt.Fprintf(w, "        Purpose: %s\n", d.Purpose)
		}
		if len(d.FocusTags) > 0 {
			fmt.Fprintf(w, "        Focus:   %s\n", strings.Join(d.FocusTags, ", "))
		}
		if d.Notes != "" {
			fmt.Fprintf(w, "        Notes:   %s\n", d.Notes)
		}
	}
	if c.KeyFactor != (domain.KeyFactor{}) {
		fmt.Fprintf(w, "\nKey factor\n")
		fmt.Fprintf(w, "        Situation: %s\n", c.KeyFactor.Situation)
		fmt.Fprintf(w, "        Voice cue: %s\n", c.KeyFactor.VoiceCue)
	}
}

func printValidation(w io.Writer, errs validation.Errors) {
	slots := make([]string, 0, len(errs))
	for slot := range errs {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	fmt.Fprintln(w, errColor.Sprint("Cannot publish yet:"))
	for _, slot := range slots {
		fmt.Fprintf(w, "  - %s: %s\n", slot, errs[slot])
	}
}

// prompter reads answers from the command's input.
type prompter struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// line reads the next input line; ok is false at end of input.
func (p *prompter) line(prompt string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func (p *prompter) confirm(msg string) bool {
	answer, ok := p.line(msg + " [y/N]: ")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// syncWriter serializes writes from the autosave goroutine and the REPL.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
