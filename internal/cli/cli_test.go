package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"hiroonarita/practice-planner/internal/api"
	"hiroonarita/practice-planner/internal/config"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/planner"
	"hiroonarita/practice-planner/internal/repository/memory"
	"hiroonarita/practice-planner/internal/service"
)

const testSecret = "cli-test-secret"

type testEnv struct {
	url    string
	access service.AccessService
	coach  string
	player string
}

// newTestEnv serves the real routes over memory repositories and points
// planctl at them with a coach key.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := memory.Open()
	planRepo := memory.NewPlanRepository(db)
	access := service.NewAccessService(testSecret, time.Hour)

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

	coach, err := access.MintKey(domain.RoleCoach, "Coach Sato")
	require.NoError(t, err)
	player, err := access.MintKey(domain.RolePlayer, "Yuto")
	require.NoError(t, err)

	t.Setenv("STORE_URL", srv.URL)
	t.Setenv("STORE_ACCESS_KEY", coach)
	t.Setenv("AUTOSAVE_DELAY", "1h")
	return testEnv{url: srv.URL, access: access, coach: coach, player: player}
}

func (e testEnv) gateway(key string) *planner.HTTPGateway {
	return planner.NewHTTPGateway(e.url, key, 5*time.Second)
}

// run executes planctl with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writePlanFile(t *testing.T, date string) string {
	t.Helper()
	tpl, ok := domain.FindTemplate("template-2")
	require.True(t, ok)
	rec := domain.PlanRecord{
		PlanKey:            domain.PlanKey{TeamID: "team-1", Date: date, GradeGroup: domain.Grade34},
		PlanContent:        tpl.PlanContent.Clone(),
		CreatedByCoachName: "Coach Sato",
	}
	data, err := yaml.Marshal(&rec)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestMissingStoreURL(t *testing.T) {
	t.Setenv("STORE_URL", "")
	t.Setenv("STORE_ACCESS_KEY", "key")

	_, err := run(t, "", "plans", "list")
	require.Error(t, err)
	assert.True(t, config.IsConfigurationError(err))
}

func TestKeyMint(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	out, err := run(t, "", "key", "mint", "--role", "player", "--label", "hawks-tablet")
	require.NoError(t, err)

	claims, err := service.NewAccessService(testSecret, 0).ParseKey(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, domain.RolePlayer, claims.Role)
	assert.Equal(t, "hawks-tablet", claims.Label)

	_, err = run(t, "", "key", "mint", "--role", "referee")
	assert.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestKeyMintNeedsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := run(t, "", "key", "mint", "--role", "coach")
	assert.True(t, config.IsConfigurationError(err))
}

func TestTemplatesList(t *testing.T) {
	newTestEnv(t)

	out, err := run(t, "", "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "template-1")
	assert.Contains(t, out, "Ball Mastery")
}

func TestPublishFromFileThenShowYesterday(t *testing.T) {
	env := newTestEnv(t)
	path := writePlanFile(t, "2024-05-09")

	out, err := run(t, "", "plans", "publish", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Published team-1/2024-05-09/3-4")

	plans, err := env.gateway(env.player).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, domain.StatusPublished, plans[0].Status)

	out, err = run(t, "", "plans", "show", "--date", "2024-05-10", "--grade", "3-4", "--yesterday")
	require.NoError(t, err)
	assert.Contains(t, out, "1v1 beat the defender")

	out, err = run(t, "", "plans", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-05-09")
}

func TestRepublishAsksForConfirmation(t *testing.T) {
	env := newTestEnv(t)
	path := writePlanFile(t, "2024-05-10")

	_, err := run(t, "", "plans", "publish", "-f", path)
	require.NoError(t, err)

	out, err := run(t, "n\n", "plans", "publish", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Publish anyway?")
	assert.Contains(t, out, "Aborted.")

	out, err = run(t, "", "plans", "publish", "-f", path, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Published")

	plans, err := env.gateway(env.coach).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestPublishRejectsMissingTitles(t *testing.T) {
	newTestEnv(t)
	rec := planner.EmptySnapshot().Record(domain.PlanKey{TeamID: "team-1", Date: "2024-05-10", GradeGroup: domain.Grade12}, domain.StatusDraft)
	rec.Warmup.Title = "Jog"
	data, err := yaml.Marshal(rec)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := run(t, "", "plans", "publish", "-f", path)
	require.Error(t, err)
	assert.Contains(t, out, "Cannot publish yet")
	assert.Contains(t, out, "tr1")
	assert.NotContains(t, out, "warmup:")
}

func TestEditSavesDraft(t *testing.T) {
	env := newTestEnv(t)
	script := strings.Join([]string{
		"set warmup.title Jog and pass",
		"tags tr1 passing,support",
		"set coachName Coach Sato",
		"bogus",
		"save",
		"quit",
	}, "\n") + "\n"

	out, err := run(t, script, "plans", "edit", "--date", "2024-05-10", "--grade", "5-6")
	require.NoError(t, err)
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "saved")

	plans, err := env.gateway(env.coach).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, domain.StatusDraft, plans[0].Status)
	assert.Equal(t, "Jog and pass", plans[0].Warmup.Title)
	assert.ElementsMatch(t, []string{"passing", "support"}, plans[0].TR1.FocusTags)
	assert.Equal(t, "Coach Sato", plans[0].CreatedByCoachName)

	players, err := env.gateway(env.player).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestEditTemplateThenPublish(t *testing.T) {
	env := newTestEnv(t)
	script := "template template-4\npublish\nquit\n"

	out, err := run(t, script, "plans", "edit", "--date", "2024-05-10", "--grade", "1-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Published team-1/2024-05-10/1-2")

	plans, err := env.gateway(env.player).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "One-touch finishing", plans[0].TR1.Title)
}

func TestReflectAndList(t *testing.T) {
	env := newTestEnv(t)
	path := writePlanFile(t, "2024-05-10")
	_, err := run(t, "", "plans", "publish", "-f", path)
	require.NoError(t, err)

	t.Setenv("STORE_ACCESS_KEY", env.player)
	out, err := run(t, "", "reflect", "--date", "2024-05-10", "--grade", "3-4",
		"--rating", "4", "--mood", "0", "--good", "beat my defender", "--drill-rating", "tr1=5")
	require.NoError(t, err)
	assert.Contains(t, out, "Thanks Yuto")

	_, err = run(t, "", "reflect", "--date", "2024-05-10", "--grade", "3-4", "--rating", "9")
	require.Error(t, err)

	t.Setenv("STORE_ACCESS_KEY", env.coach)
	out, err = run(t, "", "reflections", "--date", "2024-05-10", "--grade", "3-4")
	require.NoError(t, err)
	assert.Contains(t, out, "Yuto")
	assert.Contains(t, out, "beat my defender")
	assert.Contains(t, out, "had fun")
}

func TestReflectOnDraftIsRejected(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("STORE_ACCESS_KEY", env.player)

	_, err := run(t, "", "reflect", "--date", "2024-05-10", "--grade", "3-4", "--rating", "3")
	require.Error(t, err)
}
