// internal/domain/reflection.go
package domain

import "time"

// Moods offered on the first step of a reflection, by index.
var Moods = []string{"had fun", "worked hard", "found it hard", "frustrated"}

// DrillFeedback is a player's rating and comment for one drill of the day.
type DrillFeedback struct {
	Rating  int    `bson:"rating" json:"rating" validate:"min=0,max=5"`
	Comment string `bson:"comment" json:"comment" validate:"max=500"`
}

// Reflection is what a player submits after practice.
type Reflection struct {
	ID            string                 `bson:"_id,omitempty" json:"id"`
	PlanKey       `bson:",inline"`
	PlayerName    string                 `bson:"playerName" json:"playerName" validate:"max=60"`
	Mood          *int                   `bson:"mood,omitempty" json:"mood,omitempty" validate:"omitempty,min=0,max=3"`
	SelfRating    int                    `bson:"selfRating" json:"selfRating" validate:"required,min=1,max=5"`
	GoodPoints    string                 `bson:"goodPoints,omitempty" json:"goodPoints,omitempty" validate:"max=1000"`
	Improvements  string                 `bson:"improvements,omitempty" json:"improvements,omitempty" validate:"max=1000"`
	DrillFeedback map[Slot]DrillFeedback `bson:"drillFeedback,omitempty" json:"drillFeedback,omitempty" validate:"dive,keys,oneof=warmup tr1 tr2 tr3,endkeys"`
	SubmittedAt   time.Time              `bson:"submittedAt" json:"submittedAt"`
}

// HasDrillFeedback reports whether any drill got a rating or a comment.
func (r *Reflection) HasDrillFeedback() bool {
	for _, f := range r.DrillFeedback {
		if f.Rating > 0 || f.Comment != "" {
			return true
		}
	}
	return false
}

// VoiceClip stores metadata about an audio clip recorded for voice input.
// The audio lives in object storage; transcription happens elsewhere.
type VoiceClip struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	OwnerName   string    `bson:"ownerName" json:"ownerName"`
	ObjectKey   string    `bson:"objectKey" json:"-"` // Key in the bucket, internal use
	ContentType string    `bson:"contentType" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
