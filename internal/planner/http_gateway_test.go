package planner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiroonarita/practice-planner/internal/api"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository/memory"
	"hiroonarita/practice-planner/internal/service"
)

// newAPIServer runs the real routes over memory repositories.
func newAPIServer(t *testing.T) (*httptest.Server, service.AccessService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := memory.Open()
	planRepo := memory.NewPlanRepository(db)
	access := service.NewAccessService("test-secret", time.Hour)

	router := gin.New()
	api.SetupRoutes(router, api.Services{
		Access:     access,
		Catalog:    service.NewCatalogService([]domain.Team{{ID: "team-1", Name: "Sample FC"}}),
		Plans:      service.NewPlanService(planRepo),
		Reflection: service.NewReflectionService(memory.NewReflectionRepository(db), planRepo),
		Voice:      service.NewVoiceService(memory.NewVoiceClipRepository(db), nil),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, access
}

func newHTTPGateway(t *testing.T, srv *httptest.Server, access service.AccessService, role domain.Role) *HTTPGateway {
	t.Helper()
	key, err := access.MintKey(role, "test")
	require.NoError(t, err)
	return NewHTTPGateway(srv.URL+"/", key, 5*time.Second)
}

func TestHTTPGatewayRoundTrip(t *testing.T) {
	srv, access := newAPIServer(t)
	gw := newHTTPGateway(t, srv, access, domain.RoleCoach)
	ctx := context.Background()

	snap := EmptySnapshot()
	snap.CoachName = "Coach Sato"
	snap.Content.Warmup.Title = "Jog"
	snap.Content.Warmup.FocusTags = []string{"speed", "ball control"}
	snap.Content.KeyFactor = domain.KeyFactor{Situation: "pressure", VoiceCue: "check shoulder"}
	in := snap.Record(todayKey, domain.StatusDraft)

	first, err := gw.Upsert(ctx, in)
	require.NoError(t, err)
	second, err := gw.Upsert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert is idempotent per key")

	all, err := gw.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	out := all[0]
	assert.False(t, out.UpdatedAt.IsZero())
	out.UpdatedAt = time.Time{}
	out.ID = ""
	assert.Equal(t, *in, out)
}

func TestHTTPGatewayErrorMapping(t *testing.T) {
	srv, access := newAPIServer(t)
	coach := newHTTPGateway(t, srv, access, domain.RoleCoach)
	ctx := context.Background()

	// Missing titles.
	_, err := coach.Upsert(ctx, EmptySnapshot().Record(todayKey, domain.StatusPublished))
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 4)

	// Draft over published.
	full := publishedPlan(todayKey, "live")
	_, err = coach.Upsert(ctx, &full)
	require.NoError(t, err)
	full.Status = domain.StatusDraft
	_, err = coach.Upsert(ctx, &full)
	assert.True(t, IsConstraintError(err))

	// Player keys cannot write.
	player := newHTTPGateway(t, srv, access, domain.RolePlayer)
	_, err = player.Upsert(ctx, &full)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusForbidden, netErr.Status)

	// Bad key.
	bad := NewHTTPGateway(srv.URL, "nope", time.Second)
	_, err = bad.FetchAll(ctx)
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusUnauthorized, netErr.Status)
}

func TestHTTPGatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPGateway(url, "k", time.Second).FetchAll(context.Background())
	assert.True(t, IsNetworkError(err))
}

func TestHTTPGatewayPlayerSeesPublishedOnly(t *testing.T) {
	srv, access := newAPIServer(t)
	coach := newHTTPGateway(t, srv, access, domain.RoleCoach)
	player := newHTTPGateway(t, srv, access, domain.RolePlayer)
	ctx := context.Background()

	draft := publishedPlan(todayKey, "draft")
	draft.Status = domain.StatusDraft
	_, err := coach.Upsert(ctx, &draft)
	require.NoError(t, err)

	live := publishedPlan(domain.PlanKey{TeamID: "team-1", Date: "2024-02-29", GradeGroup: domain.Grade34}, "live")
	live.KeyFactor.Situation = "coach only"
	_, err = coach.Upsert(ctx, &live)
	require.NoError(t, err)

	plans, err := player.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "2024-02-29", plans[0].Date)
	assert.Empty(t, plans[0].KeyFactor.Situation)

	templates, err := player.Templates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, len(domain.Templates))
}

func TestEditorOverHTTP(t *testing.T) {
	srv, access := newAPIServer(t)
	gw := newHTTPGateway(t, srv, access, domain.RoleCoach)
	s := NewStore(gw, nil)
	require.NoError(t, s.Refresh(context.Background()))

	e, err := NewEditor(s, todayKey, EditorConfig{Autosave: testAutosaveConfig()})
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("warmup.title", "Jog"))
	require.Eventually(t, func() bool {
		p, _ := s.PlanFor(todayKey)
		return p != nil && p.Warmup.Title == "Jog"
	}, waitFor, tick)

	fillTitles(t, e)
	_, err = e.Publish(context.Background(), nil)
	require.NoError(t, err)

	player := newHTTPGateway(t, srv, access, domain.RolePlayer)
	plans, err := player.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, domain.StatusPublished, plans[0].Status)
}
