// internal/domain/drill.go
package domain

import "sort"

// Intensity of a drill.
type Intensity string

const (
	IntensityLow  Intensity = "low"
	IntensityMid  Intensity = "mid"
	IntensityHigh Intensity = "high"
)

func (i Intensity) Valid() bool {
	return i == IntensityLow || i == IntensityMid || i == IntensityHigh
}

// Slot names one of the four drill positions of a plan.
type Slot string

const (
	SlotWarmup Slot = "warmup"
	SlotTR1    Slot = "tr1"
	SlotTR2    Slot = "tr2"
	SlotTR3    Slot = "tr3"
)

// Slots lists the drill slots in the order they are run.
var Slots = []Slot{SlotWarmup, SlotTR1, SlotTR2, SlotTR3}

// DefaultDrillMinutes is the duration a blank drill starts with.
const DefaultDrillMinutes = 10

// Drill is a value type embedded in a plan; it has no identity of its own.
type Drill struct {
	Title       string    `bson:"title" json:"title" yaml:"title" publish:"required"`
	Purpose     string    `bson:"purpose" json:"purpose" yaml:"purpose"`
	DurationMin int       `bson:"durationMin" json:"durationMin" yaml:"durationMin"`
	Intensity   Intensity `bson:"intensity" json:"intensity" yaml:"intensity"`
	FocusTags   []string  `bson:"focusTags" json:"focusTags" yaml:"focusTags"`
	Notes       string    `bson:"notes" json:"notes" yaml:"notes"`
}

// EmptyDrill returns the blank drill a new form starts with.
func EmptyDrill() Drill {
	return Drill{
		DurationMin: DefaultDrillMinutes,
		Intensity:   IntensityMid,
		FocusTags:   []string{},
	}
}

// HasTag reports whether tag is among the drill's focus tags.
func (d Drill) HasTag(tag string) bool {
	for _, t := range d.FocusTags {
		if t == tag {
			return true
		}
	}
	return false
}

// ToggleTag adds tag when absent and removes it when present.
func (d *Drill) ToggleTag(tag string) {
	if d.HasTag(tag) {
		kept := d.FocusTags[:0]
		for _, t := range d.FocusTags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		d.FocusTags = kept
		return
	}
	d.FocusTags = append(d.FocusTags, tag)
}

// NormalizeTags drops empty and duplicate tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// FocusTags is the vocabulary coaches pick drill tags from.
var FocusTags = []string{
	"dribbling",
	"passing",
	"first touch",
	"shooting",
	"1v1",
	"defending",
	"turns",
	"scanning",
	"decision making",
	"body shape",
	"support",
	"transition",
	"communication",
	"ball control",
	"speed",
}

// UnionTags merges the tags of several drills into a sorted set.
func UnionTags(drills ...Drill) []string {
	set := map[string]struct{}{}
	for _, d := range drills {
		for _, t := range d.FocusTags {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IsFocusTag reports whether tag is in the FocusTags vocabulary.
func IsFocusTag(tag string) bool {
	for _, t := range FocusTags {
		if t == tag {
			return true
		}
	}
	return false
}
