package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/validation"
)

func newTestEditor(t *testing.T, gw *fakeGateway, key domain.PlanKey) *Editor {
	t.Helper()
	s := NewStore(gw, nil)
	require.NoError(t, s.Refresh(context.Background()))
	e, err := NewEditor(s, key, EditorConfig{Autosave: testAutosaveConfig()})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func fillTitles(t *testing.T, e *Editor) {
	t.Helper()
	for _, slot := range domain.Slots {
		require.NoError(t, e.Set(string(slot)+".title", "Drill "+string(slot)))
	}
}

func TestEditorPristineFormNeverSaves(t *testing.T) {
	gw := newFakeGateway()
	e := newTestEditor(t, gw, todayKey)

	require.NoError(t, e.Set("warmup.notes", "cones"))
	require.NoError(t, e.Set("warmup.notes", ""))
	time.Sleep(4 * testDelay)
	assert.Empty(t, gw.Upserts())
	assert.Equal(t, StateIdle, e.SaveState())
}

func TestEditorAutosavesOneDraft(t *testing.T) {
	gw := newFakeGateway()
	e := newTestEditor(t, gw, todayKey)

	require.NoError(t, e.Set("coachName", "Coach Sato"))
	require.NoError(t, e.Set("tr1.title", "Rondo"))
	require.NoError(t, e.Set("tr1.intensity", "high"))
	require.NoError(t, e.ToggleTag(domain.SlotTR1, "passing"))

	require.Eventually(t, func() bool { return len(gw.Upserts()) == 1 }, waitFor, tick)
	saved := gw.Upserts()[0]
	assert.Equal(t, domain.StatusDraft, saved.Status)
	assert.Equal(t, "Rondo", saved.TR1.Title)
	assert.Equal(t, domain.IntensityHigh, saved.TR1.Intensity)
	assert.Equal(t, []string{"passing"}, saved.TR1.FocusTags)
	assert.Equal(t, "Coach Sato", saved.CreatedByCoachName)

	require.Eventually(t, func() bool { return !e.HasUnsavedChanges() }, waitFor, tick)

	// Setting the same value again is not a change.
	require.NoError(t, e.Set("tr1.title", "Rondo"))
	time.Sleep(4 * testDelay)
	assert.Len(t, gw.Upserts(), 1)
}

func TestEditorRoundTrip(t *testing.T) {
	gw := newFakeGateway()
	e := newTestEditor(t, gw, todayKey)

	tpl, ok := domain.FindTemplate("template-4")
	require.True(t, ok)
	require.NoError(t, e.ApplyTemplate(tpl))
	require.NoError(t, e.Set("coachName", "Coach Sato"))
	require.NoError(t, e.SaveDraft(context.Background()))

	fetched, err := gw.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.True(t, Equal(e.Draft(), SnapshotOf(&fetched[0])), Diff(e.Draft(), SnapshotOf(&fetched[0])))
	assert.Equal(t, todayKey, fetched[0].PlanKey)
}

func TestEditorValidationBlocksPublish(t *testing.T) {
	gw := newFakeGateway()
	e := newTestEditor(t, gw, todayKey)
	fillTitles(t, e)
	require.NoError(t, e.Set("tr2.title", ""))

	_, err := e.Publish(context.Background(), nil)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, validation.Errors{"tr2": validation.MsgTitleRequired}, vErr.Fields)
	for _, u := range gw.Upserts() {
		assert.NotEqual(t, domain.StatusPublished, u.Status)
	}

	require.NoError(t, e.Set("tr2.title", "1v1 gates"))
	assert.Nil(t, e.Validate())
	saved, err := e.Publish(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, saved.Status)
	assert.True(t, e.IsPublished())
}

func TestEditorRepublishNeedsConfirmation(t *testing.T) {
	gw := newFakeGateway(publishedPlan(todayKey, "live"))
	e := newTestEditor(t, gw, todayKey)
	require.NoError(t, e.Set("tr3.title", "Small-sided game"))

	_, err := e.Publish(context.Background(), nil)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Empty(t, gw.Upserts())

	var asked *domain.PlanRecord
	decline := func(ctx context.Context, p *domain.PlanRecord) (bool, error) {
		asked = p
		return false, nil
	}
	_, err = e.Publish(context.Background(), decline)
	assert.ErrorIs(t, err, ErrPublishCancelled)
	require.NotNil(t, asked)
	assert.Equal(t, domain.StatusPublished, asked.Status)
	assert.Empty(t, gw.Upserts())

	accept := func(ctx context.Context, p *domain.PlanRecord) (bool, error) { return true, nil }
	saved, err := e.Publish(context.Background(), accept)
	require.NoError(t, err)
	assert.Equal(t, "Small-sided game", saved.TR3.Title)
	require.Len(t, gw.Upserts(), 1)
	assert.Equal(t, domain.StatusPublished, gw.Upserts()[0].Status)
}

func TestEditorFirstPublishSkipsConfirmation(t *testing.T) {
	gw := newFakeGateway()
	e := newTestEditor(t, gw, todayKey)
	fillTitles(t, e)

	confirm := func(ctx context.Context, p *domain.PlanRecord) (bool, error) {
		t.Fatal("first publish must not ask for confirmation")
		return false, nil
	}
	_, err := e.Publish(context.Background(), confirm)
	require.NoError(t, err)
}

func TestEditorPublishedElsewhereNeedsConfirmation(t *testing.T) {
	gw := newFakeGateway()
	e := newTestEditor(t, gw, todayKey)
	gw.put(publishedPlan(todayKey, "other coach"))

	fillTitles(t, e)
	require.Eventually(t, e.IsPublished, waitFor, tick)
	refused := len(gw.Upserts())

	var asked *domain.PlanRecord
	decline := func(ctx context.Context, p *domain.PlanRecord) (bool, error) {
		asked = p
		return false, nil
	}
	_, err := e.Publish(context.Background(), decline)
	assert.ErrorIs(t, err, ErrPublishCancelled)
	require.NotNil(t, asked)
	assert.Equal(t, "other coach warmup", asked.Warmup.Title)
	assert.Len(t, gw.Upserts(), refused)
}

func TestEditorPublishedElsewhereWithoutRefresh(t *testing.T) {
	gw := newFakeGateway()
	e := newTestEditor(t, gw, todayKey)
	gw.put(publishedPlan(todayKey, "other coach"))
	gw.setFetchErr(errors.New("offline"))

	fillTitles(t, e)
	require.Eventually(t, e.IsPublished, waitFor, tick)
	refused := len(gw.Upserts())

	_, err := e.Publish(context.Background(), nil)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	var asked *domain.PlanRecord
	decline := func(ctx context.Context, p *domain.PlanRecord) (bool, error) {
		asked = p
		return false, nil
	}
	_, err = e.Publish(context.Background(), decline)
	assert.ErrorIs(t, err, ErrPublishCancelled)
	require.NotNil(t, asked)
	assert.Equal(t, domain.StatusPublished, asked.Status)
	assert.Len(t, gw.Upserts(), refused)
}

func TestEditorPublishedPlanIsNotAutosaved(t *testing.T) {
	gw := newFakeGateway(publishedPlan(todayKey, "live"))
	e := newTestEditor(t, gw, todayKey)

	require.NoError(t, e.Set("warmup.purpose", "get loose"))
	time.Sleep(4 * testDelay)
	assert.Empty(t, gw.Upserts())
	assert.True(t, e.HasUnpublishedChanges())
	assert.ErrorIs(t, e.SaveDraft(context.Background()), ErrPublishedBaseline)
}

func TestEditorAutosaveFailureKeepsDraft(t *testing.T) {
	gw := newFakeGateway()
	gw.setUpsertErr(errors.New("store down"))
	e := newTestEditor(t, gw, todayKey)

	require.NoError(t, e.Set("warmup.title", "Jog"))
	require.Eventually(t, func() bool { return e.LastSaveError() != nil }, waitFor, tick)
	assert.True(t, IsNetworkError(e.LastSaveError()))
	assert.Equal(t, "Jog", e.Draft().Content.Warmup.Title)
	assert.True(t, e.HasUnsavedChanges())

	// Manual retry.
	gw.setUpsertErr(nil)
	require.NoError(t, e.SaveDraft(context.Background()))
	assert.False(t, e.HasUnsavedChanges())
}

func TestEditorDuplicateYesterday(t *testing.T) {
	yesterday := todayKey
	yesterday.Date = "2024-02-29"
	gw := newFakeGateway(publishedPlan(yesterday, "yday"))
	e := newTestEditor(t, gw, todayKey)

	require.NoError(t, e.DuplicateYesterday())
	draft := e.Draft()
	assert.Equal(t, "yday tr2", draft.Content.TR2.Title)
	assert.Equal(t, "Coach Sato", draft.CoachName)

	empty := newTestEditor(t, newFakeGateway(), todayKey)
	assert.ErrorIs(t, empty.DuplicateYesterday(), ErrNoYesterdayPlan)
}

func TestEditorAppendVoiceText(t *testing.T) {
	e := newTestEditor(t, newFakeGateway(), todayKey)

	require.NoError(t, e.AppendVoiceText("keyFactor.voiceCue", "look up"))
	require.NoError(t, e.AppendVoiceText("keyFactor.voiceCue", "  before you receive "))
	require.NoError(t, e.AppendVoiceText("keyFactor.voiceCue", "   "))
	assert.Equal(t, "look up before you receive", e.Draft().Content.KeyFactor.VoiceCue)

	require.NoError(t, e.AppendVoiceText("tr1.notes", "two touch max"))
	assert.Equal(t, "two touch max", e.Draft().Content.TR1.Notes)

	assert.ErrorIs(t, e.AppendVoiceText("tr1.intensity", "high"), ErrUnknownField)
}

func TestEditorSetErrors(t *testing.T) {
	e := newTestEditor(t, newFakeGateway(), todayKey)

	assert.ErrorIs(t, e.Set("tr9.title", "x"), ErrUnknownField)
	assert.ErrorIs(t, e.Set("warmup.colour", "x"), ErrUnknownField)
	assert.Error(t, e.Set("warmup.durationMin", "ten"))
	assert.Error(t, e.Set("warmup.intensity", "extreme"))
	assert.ErrorIs(t, e.ToggleTag(domain.SlotWarmup, "juggling"), ErrUnknownField)

	require.NoError(t, e.Set("warmup.durationMin", "15"))
	assert.Equal(t, 15, e.Draft().Content.Warmup.DurationMin)
	for _, path := range FieldPaths {
		assert.NotErrorIs(t, e.Set(path, "low"), ErrUnknownField, path)
	}
}

func TestEditorEventsReachSubscribers(t *testing.T) {
	e := newTestEditor(t, newFakeGateway(), todayKey)

	var fields []string
	unsubscribe := e.Subscribe(func(ev EditEvent) { fields = append(fields, ev.Field) })
	require.NoError(t, e.Set("tr2.purpose", "width"))
	require.NoError(t, e.ToggleTag(domain.SlotTR2, "support"))
	unsubscribe()
	require.NoError(t, e.Set("tr2.notes", "ignored"))

	assert.Equal(t, []string{"tr2.purpose", "tr2.focusTags"}, fields)
}

func TestEditorClosedRejectsEdits(t *testing.T) {
	gw := newFakeGateway()
	e := newTestEditor(t, gw, todayKey)
	require.NoError(t, e.Set("warmup.title", "Jog"))
	e.Close()

	assert.ErrorIs(t, e.Set("warmup.title", "Run"), ErrEditorClosed)
	time.Sleep(4 * testDelay)
	assert.Empty(t, gw.Upserts(), "closing cancels the pending autosave")
}

func TestNewEditorRejectsBadKey(t *testing.T) {
	s := NewStore(newFakeGateway(), nil)
	_, err := NewEditor(s, domain.PlanKey{TeamID: "team-1", Date: "March 1", GradeGroup: domain.Grade12}, EditorConfig{})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}
