package planner

import (
	"context"
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/validation"
	"log"
	"strconv"
	"strings"
	"sync"
)

// ErrPublishedBaseline is returned by SaveDraft when the plan is already
// published: a draft save would demote it.
var ErrPublishedBaseline = errors.New("plan is published; publish again to change it")

// EditEvent is published to subscribers after every committed edit.
type EditEvent struct {
	Key      domain.PlanKey
	Field    string
	Snapshot Snapshot
}

// Confirmer asks the user to confirm replacing a published plan.
type Confirmer func(ctx context.Context, published *domain.PlanRecord) (bool, error)

type EditorConfig struct {
	Autosave AutosaveConfig
	Logger   *log.Logger
}

// Editor holds the local draft of one plan. Every committed edit is
// published as an EditEvent; the autosaver is one subscriber.
type Editor struct {
	store     *Store
	key       domain.PlanKey
	logger    *log.Logger
	autosaver *Autosaver

	mu          sync.Mutex
	draft       Snapshot
	baseline    Snapshot
	baseStatus  domain.PlanStatus // empty when no record exists yet
	subscribers map[int]func(EditEvent)
	nextSub     int
	closed      bool
}

// NewEditor opens the plan for key from the store's collection, or a
// pristine form when there is none.
func NewEditor(store *Store, key domain.PlanKey, cfg EditorConfig) (*Editor, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	plan, err := store.PlanFor(key)
	if err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Autosave.Logger == nil {
		cfg.Autosave.Logger = cfg.Logger
	}

	e := &Editor{
		store:       store,
		key:         key,
		logger:      cfg.Logger,
		baseline:    SnapshotOf(plan),
		subscribers: map[int]func(EditEvent){},
	}
	e.draft = e.baseline.Clone()
	if plan != nil {
		e.baseStatus = plan.Status
	}
	e.autosaver = NewAutosaver(e.saveDraft, e.shouldAutosave, cfg.Autosave)
	e.Subscribe(func(ev EditEvent) { e.autosaver.Edit(ev.Snapshot) })
	return e, nil
}

// Subscribe registers fn for edit events and returns a function removing it.
func (e *Editor) Subscribe(fn func(EditEvent)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subscribers[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subscribers, id)
	}
}

func (e *Editor) Key() domain.PlanKey { return e.key }

// Draft returns a copy of the local draft.
func (e *Editor) Draft() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// SaveState is the autosave indicator.
func (e *Editor) SaveState() SaveState { return e.autosaver.State() }

// LastSaveError is the error of the last failed save, nil after a success.
func (e *Editor) LastSaveError() error { return e.autosaver.LastError() }

// IsPublished reports whether the last loaded or saved record is published.
func (e *Editor) IsPublished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseStatus == domain.StatusPublished
}

// HasUnsavedChanges reports whether the draft differs from the baseline.
func (e *Editor) HasUnsavedChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !Equal(e.draft, e.baseline)
}

// HasUnpublishedChanges reports edits to a published plan that only a
// confirmed publish can persist.
func (e *Editor) HasUnpublishedChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseStatus == domain.StatusPublished && !Equal(e.draft, e.baseline)
}

// Update applies fn to a copy of the draft and commits it when fn succeeds.
func (e *Editor) Update(field string, fn func(*Snapshot) error) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEditorClosed
	}
	next := e.draft.Clone()
	if err := fn(&next); err != nil {
		e.mu.Unlock()
		return err
	}
	e.draft = next
	ev := EditEvent{Key: e.key, Field: field, Snapshot: next.Clone()}
	subs := make([]func(EditEvent), 0, len(e.subscribers))
	for _, sub := range e.subscribers {
		subs = append(subs, sub)
	}
	e.mu.Unlock()

	for _, sub := range subs {
		sub(ev)
	}
	return nil
}

// Set assigns value to a field path: "<slot>.<field>", "keyFactor.situation",
// "keyFactor.voiceCue" or "coachName".
func (e *Editor) Set(path, value string) error {
	return e.Update(path, func(s *Snapshot) error {
		return setField(s, path, value)
	})
}

// ToggleTag adds or removes a focus tag on a drill.
func (e *Editor) ToggleTag(slot domain.Slot, tag string) error {
	if !domain.IsFocusTag(tag) {
		return fmt.Errorf("%w: focus tag %q", ErrUnknownField, tag)
	}
	return e.Update(string(slot)+".focusTags", func(s *Snapshot) error {
		d, err := s.Content.Drill(slot)
		if err != nil {
			return err
		}
		d.ToggleTag(tag)
		return nil
	})
}

// AppendVoiceText appends transcribed text to a free-text field. Empty text
// is ignored.
func (e *Editor) AppendVoiceText(path, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return e.Update(path, func(s *Snapshot) error {
		ptr, err := textField(s, path)
		if err != nil {
			return err
		}
		if *ptr != "" {
			*ptr += " "
		}
		*ptr += text
		return nil
	})
}

// ApplyTemplate replaces the four drills and the key factor with tpl's.
func (e *Editor) ApplyTemplate(tpl domain.Template) error {
	return e.Update("template", func(s *Snapshot) error {
		s.Content = tpl.PlanContent.Clone()
		return nil
	})
}

// DuplicateYesterday copies the content of the previous day's published plan.
func (e *Editor) DuplicateYesterday() error {
	prev, err := e.store.YesterdayPlanFor(e.key)
	if err != nil {
		return err
	}
	if prev == nil {
		return ErrNoYesterdayPlan
	}
	return e.Update("duplicate", func(s *Snapshot) error {
		s.Content = prev.PlanContent.Clone()
		if s.CoachName == "" {
			s.CoachName = prev.CreatedByCoachName
		}
		return nil
	})
}

// Validate returns the per-slot publish errors, nil when publishable.
func (e *Editor) Validate() validation.Errors {
	return validation.ValidateForPublish(e.Draft().Content)
}

// SaveDraft saves the draft now, bypassing the debounce.
func (e *Editor) SaveDraft(ctx context.Context) error {
	if e.IsPublished() {
		return ErrPublishedBaseline
	}
	return e.autosaver.SaveNow(ctx, e.Draft())
}

// Publish validates the draft and writes it with status published. When the
// plan is already published, confirm must approve first; nothing is written
// otherwise.
func (e *Editor) Publish(ctx context.Context, confirm Confirmer) (*domain.PlanRecord, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEditorClosed
	}
	snap := e.draft.Clone()
	e.mu.Unlock()

	if errs := validation.ValidateForPublish(snap.Content); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	existing, err := e.store.PlanFor(e.key)
	if err != nil {
		return nil, err
	}
	if e.IsPublished() && (existing == nil || !existing.IsPublished()) {
		// The store has not caught up with a publish seen by a refused save.
		existing = e.publishedBaseline()
	}
	if existing != nil && existing.IsPublished() {
		if confirm == nil {
			return nil, ErrConfirmationRequired
		}
		ok, err := confirm(ctx, existing)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPublishCancelled
		}
	}

	// A draft write landing after the publish would be refused anyway.
	e.autosaver.Cancel()
	if err := e.autosaver.Wait(ctx); err != nil {
		return nil, err
	}

	saved, err := e.store.Upsert(ctx, snap.Record(e.key, domain.StatusPublished))
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.baseline = snap
	e.baseStatus = domain.StatusPublished
	e.mu.Unlock()
	e.logger.Printf("INFO: published %s", e.key)
	return saved, nil
}

// publishedBaseline is the baseline as a published record.
func (e *Editor) publishedBaseline() *domain.PlanRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseline.Record(e.key, domain.StatusPublished)
}

// Close drops a pending autosave. A save already in flight completes.
func (e *Editor) Close() {
	e.mu.Lock()
	e.closed = true
	e.subscribers = map[int]func(EditEvent){}
	e.mu.Unlock()
	e.autosaver.Close()
}

// Wait blocks until no save is in flight.
func (e *Editor) Wait(ctx context.Context) error {
	return e.autosaver.Wait(ctx)
}

func (e *Editor) shouldAutosave(snap Snapshot) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseStatus != domain.StatusPublished && ShouldSave(snap, e.baseline)
}

// saveDraft is the autosaver's SaveFunc.
func (e *Editor) saveDraft(ctx context.Context, snap Snapshot) error {
	saved, err := e.store.Upsert(ctx, snap.Record(e.key, domain.StatusDraft))
	if err != nil {
		if IsConstraintError(err) {
			// Published elsewhere: load it, then stop autosaving over it.
			if rerr := e.store.Refresh(ctx); rerr != nil {
				e.logger.Printf("WARN: refresh after refused draft for %s: %v", e.key, rerr)
			}
			e.mu.Lock()
			e.baseStatus = domain.StatusPublished
			e.mu.Unlock()
		}
		return err
	}
	e.mu.Lock()
	e.baseline = snap.Clone()
	e.baseStatus = saved.Status
	e.mu.Unlock()
	return nil
}

// FieldPaths lists every path accepted by Set.
var FieldPaths = func() []string {
	var paths []string
	for _, slot := range domain.Slots {
		for _, f := range []string{"title", "purpose", "durationMin", "intensity", "notes"} {
			paths = append(paths, string(slot)+"."+f)
		}
	}
	return append(paths, "keyFactor.situation", "keyFactor.voiceCue", "coachName")
}()

func setField(s *Snapshot, path, value string) error {
	head, tail, _ := strings.Cut(path, ".")
	if head != "keyFactor" && head != "coachName" {
		d, err := s.Content.Drill(domain.Slot(head))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
		switch tail {
		case "durationMin":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return fmt.Errorf("durationMin must be a non-negative number of minutes, got %q", value)
			}
			d.DurationMin = n
			return nil
		case "intensity":
			in := domain.Intensity(value)
			if !in.Valid() {
				return fmt.Errorf("intensity must be low, mid or high, got %q", value)
			}
			d.Intensity = in
			return nil
		}
	}
	ptr, err := textField(s, path)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

func textField(s *Snapshot, path string) (*string, error) {
	switch path {
	case "coachName":
		return &s.CoachName, nil
	case "keyFactor.situation":
		return &s.Content.KeyFactor.Situation, nil
	case "keyFactor.voiceCue":
		return &s.Content.KeyFactor.VoiceCue, nil
	}
	head, tail, ok := strings.Cut(path, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	d, err := s.Content.Drill(domain.Slot(head))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	switch tail {
	case "title":
		return &d.Title, nil
	case "purpose":
		return &d.Purpose, nil
	case "notes":
		return &d.Notes, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
}
