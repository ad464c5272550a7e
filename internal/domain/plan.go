// internal/domain/plan.go
package domain

import (
	"errors"
	"fmt"
	"time"
)

// GradeGroup identifies the age bracket a plan is written for.
type GradeGroup string

const (
	Grade12 GradeGroup = "1-2"
	Grade34 GradeGroup = "3-4"
	Grade56 GradeGroup = "5-6"
)

// GradeGroups lists the valid grade groups in display order.
var GradeGroups = []GradeGroup{Grade12, Grade34, Grade56}

func (g GradeGroup) Valid() bool {
	for _, v := range GradeGroups {
		if g == v {
			return true
		}
	}
	return false
}

// PlanStatus type for plan lifecycle
type PlanStatus string

const (
	StatusDraft     PlanStatus = "draft"     // Visible to coaches only
	StatusPublished PlanStatus = "published" // Visible to players
)

// DateLayout is the calendar-date format used in natural keys.
const DateLayout = "2006-01-02"

var (
	ErrInvalidTeam       = errors.New("team id is required")
	ErrInvalidDate       = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidGradeGroup = errors.New("grade group must be one of 1-2, 3-4, 5-6")
)

// PlanKey is the natural key of a plan: one team, one day, one grade group.
type PlanKey struct {
	TeamID     string     `bson:"teamId" json:"teamId" yaml:"teamId"`
	Date       string     `bson:"date" json:"date" yaml:"date"`
	GradeGroup GradeGroup `bson:"gradeGroup" json:"gradeGroup" yaml:"gradeGroup"`
}

func (k PlanKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.TeamID, k.Date, k.GradeGroup)
}

// Validate checks that every part of the key is present and well formed.
func (k PlanKey) Validate() error {
	if k.TeamID == "" {
		return ErrInvalidTeam
	}
	if _, err := time.Parse(DateLayout, k.Date); err != nil {
		return ErrInvalidDate
	}
	if !k.GradeGroup.Valid() {
		return ErrInvalidGradeGroup
	}
	return nil
}

// PreviousDay returns the same key for the calendar day before k.Date.
func (k PlanKey) PreviousDay() (PlanKey, error) {
	day, err := PreviousDate(k.Date)
	if err != nil {
		return PlanKey{}, err
	}
	k.Date = day
	return k, nil
}

// PreviousDate subtracts one calendar day, rolling over months and years.
func PreviousDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.AddDate(0, 0, -1).Format(DateLayout), nil
}

// KeyFactor is the coaching point of the day. Coaches only; never shown to players.
type KeyFactor struct {
	Situation string `bson:"situation" json:"situation" yaml:"situation"`
	VoiceCue  string `bson:"voiceCue" json:"voiceCue" yaml:"voiceCue"`
}

// PlanContent is the editable body of a plan: four drill slots and a key factor.
type PlanContent struct {
	Warmup    Drill     `bson:"warmup" json:"warmup" yaml:"warmup"`
	TR1       Drill     `bson:"tr1" json:"tr1" yaml:"tr1"`
	TR2       Drill     `bson:"tr2" json:"tr2" yaml:"tr2"`
	TR3       Drill     `bson:"tr3" json:"tr3" yaml:"tr3"`
	KeyFactor KeyFactor `bson:"keyFactor" json:"keyFactor" yaml:"keyFactor"`
}

// EmptyContent returns a content block with every slot set to EmptyDrill.
func EmptyContent() PlanContent {
	return PlanContent{
		Warmup: EmptyDrill(),
		TR1:    EmptyDrill(),
		TR2:    EmptyDrill(),
		TR3:    EmptyDrill(),
	}
}

// Drill returns the drill stored in slot s.
func (c *PlanContent) Drill(s Slot) (*Drill, error) {
	switch s {
	case SlotWarmup:
		return &c.Warmup, nil
	case SlotTR1:
		return &c.TR1, nil
	case SlotTR2:
		return &c.TR2, nil
	case SlotTR3:
		return &c.TR3, nil
	}
	return nil, fmt.Errorf("unknown drill slot %q", s)
}

// Clone returns a copy that shares no tag slices with c.
func (c PlanContent) Clone() PlanContent {
	c.Warmup.FocusTags = cloneTags(c.Warmup.FocusTags)
	c.TR1.FocusTags = cloneTags(c.TR1.FocusTags)
	c.TR2.FocusTags = cloneTags(c.TR2.FocusTags)
	c.TR3.FocusTags = cloneTags(c.TR3.FocusTags)
	return c
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append(make([]string, 0, len(tags)), tags...)
}

// Normalize collapses duplicate focus tags in every slot.
func (c PlanContent) Normalize() PlanContent {
	c.Warmup.FocusTags = NormalizeTags(c.Warmup.FocusTags)
	c.TR1.FocusTags = NormalizeTags(c.TR1.FocusTags)
	c.TR2.FocusTags = NormalizeTags(c.TR2.FocusTags)
	c.TR3.FocusTags = NormalizeTags(c.TR3.FocusTags)
	return c
}

// PlanRecord is one team's practice plan for one date and grade group.
// The store may assign a surrogate ID but PlanKey is what identifies a plan.
type PlanRecord struct {
	ID                 string `json:"id,omitempty" yaml:"id,omitempty"`
	PlanKey            `yaml:",inline"`
	PlanContent        `yaml:",inline"`
	Status             PlanStatus `json:"status" yaml:"status"`
	CreatedByCoachName string     `json:"createdByCoachName" yaml:"createdByCoachName"`
	UpdatedAt          time.Time  `json:"updatedAt" yaml:"updatedAt,omitempty"` // Assigned by the store on every write
}

func (p *PlanRecord) IsPublished() bool {
	return p.Status == StatusPublished
}
