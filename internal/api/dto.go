package api

import (
	"hiroonarita/practice-planner/internal/domain"
	"time"
)

// PlanKeyQuery binds the natural key from query parameters.
type PlanKeyQuery struct {
	TeamID     string `form:"teamId" binding:"required"`
	Date       string `form:"date" binding:"required"`
	GradeGroup string `form:"gradeGroup" binding:"required"`
}

func (q PlanKeyQuery) Key() domain.PlanKey {
	return domain.PlanKey{TeamID: q.TeamID, Date: q.Date, GradeGroup: domain.GradeGroup(q.GradeGroup)}
}

// PlanRequest is the body of PUT /plans and POST /plans/publish.
type PlanRequest struct {
	domain.PlanKey
	domain.PlanContent
	CreatedByCoachName string `json:"createdByCoachName"`
}

func (r PlanRequest) ToRecord() *domain.PlanRecord {
	return &domain.PlanRecord{
		PlanKey:            r.PlanKey,
		PlanContent:        r.PlanContent.Clone(),
		CreatedByCoachName: r.CreatedByCoachName,
	}
}

// PlanResponse is a plan as sent over the wire. KeyFactor is omitted for players.
type PlanResponse struct {
	ID string `json:"id"`
	domain.PlanKey
	Warmup             domain.Drill      `json:"warmup"`
	TR1                domain.Drill      `json:"tr1"`
	TR2                domain.Drill      `json:"tr2"`
	TR3                domain.Drill      `json:"tr3"`
	KeyFactor          *domain.KeyFactor `json:"keyFactor,omitempty"`
	Status             domain.PlanStatus `json:"status"`
	CreatedByCoachName string            `json:"createdByCoachName"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// MapPlanToResponse converts a stored plan for the given audience.
func MapPlanToResponse(p *domain.PlanRecord, forCoach bool) PlanResponse {
	resp := PlanResponse{
		ID:                 p.ID,
		PlanKey:            p.PlanKey,
		Warmup:             p.Warmup,
		TR1:                p.TR1,
		TR2:                p.TR2,
		TR3:                p.TR3,
		Status:             p.Status,
		CreatedByCoachName: p.CreatedByCoachName,
		UpdatedAt:          p.UpdatedAt,
	}
	if forCoach {
		kf := p.KeyFactor
		resp.KeyFactor = &kf
	}
	return resp
}

type TemplateResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	FocusTags []string `json:"focusTags"`
	domain.PlanContent
}

func MapTemplateToResponse(t domain.Template) TemplateResponse {
	return TemplateResponse{ID: t.ID, Name: t.Name, FocusTags: t.Tags(), PlanContent: t.PlanContent}
}

// ReflectionRequest is the body of POST /reflections.
type ReflectionRequest struct {
	domain.PlanKey
	PlayerName    string                               `json:"playerName"`
	Mood          *int                                 `json:"mood"`
	SelfRating    int                                  `json:"selfRating"`
	GoodPoints    string                               `json:"goodPoints"`
	Improvements  string                               `json:"improvements"`
	DrillFeedback map[domain.Slot]domain.DrillFeedback `json:"drillFeedback"`
}

func (r ReflectionRequest) ToReflection() *domain.Reflection {
	return &domain.Reflection{
		PlanKey:       r.PlanKey,
		PlayerName:    r.PlayerName,
		Mood:          r.Mood,
		SelfRating:    r.SelfRating,
		GoodPoints:    r.GoodPoints,
		Improvements:  r.Improvements,
		DrillFeedback: r.DrillFeedback,
	}
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"gte=0"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}
