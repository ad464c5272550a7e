package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiroonarita/practice-planner/internal/domain"
)

func fullContent() domain.PlanContent {
	tpl, _ := domain.FindTemplate("template-2")
	return tpl.PlanContent.Clone()
}

func TestValidateForPublishAllTitles(t *testing.T) {
	assert.Nil(t, ValidateForPublish(fullContent()))
}

func TestValidateForPublishMissingTR2(t *testing.T) {
	content := fullContent()
	content.TR2.Title = ""

	errs := ValidateForPublish(content)
	require.Len(t, errs, 1)
	assert.Equal(t, MsgTitleRequired, errs["tr2"])
}

func TestValidateForPublishEmptyForm(t *testing.T) {
	errs := ValidateForPublish(domain.EmptyContent())
	require.Len(t, errs, 4)
	for _, slot := range domain.Slots {
		assert.Contains(t, errs, string(slot))
	}
	assert.Contains(t, errs.Error(), "warmup: ")
}

func TestValidateForPublishIgnoresKeyFactor(t *testing.T) {
	content := fullContent()
	content.KeyFactor = domain.KeyFactor{}
	assert.Nil(t, ValidateForPublish(content))
}

func validReflection() *domain.Reflection {
	return &domain.Reflection{
		PlanKey:    domain.PlanKey{TeamID: "team-1", Date: "2024-03-01", GradeGroup: domain.Grade34},
		PlayerName: "Ken",
		SelfRating: 4,
		DrillFeedback: map[domain.Slot]domain.DrillFeedback{
			domain.SlotTR1: {Rating: 5, Comment: "fun"},
		},
	}
}

func TestValidateReflection(t *testing.T) {
	assert.Nil(t, ValidateReflection(validReflection()))

	r := validReflection()
	r.SelfRating = 0
	errs := ValidateReflection(r)
	assert.Equal(t, "this field is required", errs["selfRating"])

	r = validReflection()
	r.SelfRating = 6
	errs = ValidateReflection(r)
	assert.Equal(t, "must be at most 5", errs["selfRating"])

	r = validReflection()
	r.Date = "yesterday"
	errs = ValidateReflection(r)
	assert.Contains(t, errs, "plan")
}

func TestValidateReflectionDrillFeedback(t *testing.T) {
	r := validReflection()
	r.DrillFeedback[domain.SlotTR2] = domain.DrillFeedback{Rating: 9}
	errs := ValidateReflection(r)
	require.NotNil(t, errs)
	assert.Len(t, errs, 1)

	r = validReflection()
	r.DrillFeedback["cooldown"] = domain.DrillFeedback{Rating: 1}
	assert.NotNil(t, ValidateReflection(r))
}
