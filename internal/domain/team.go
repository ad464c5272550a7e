package domain

// Team is static reference data loaded from configuration.
type Team struct {
	ID   string `json:"id" mapstructure:"id" yaml:"id"`
	Name string `json:"name" mapstructure:"name" yaml:"name"`
}

// Template is a named, read-only bundle of drills used to prefill a plan form.
type Template struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	PlanContent `yaml:",inline"`
}

// Tags returns the union of focus tags across the template's drills.
func (t Template) Tags() []string {
	return UnionTags(t.Warmup, t.TR1, t.TR2, t.TR3)
}

// Templates are the built-in starting points offered to coaches.
var Templates = []Template{
	{
		ID:   "template-1",
		Name: "Ball Mastery",
		PlanContent: PlanContent{
			Warmup:    Drill{Title: "Ball touches", Purpose: "Build feel for the ball", DurationMin: 10, Intensity: IntensityLow, FocusTags: []string{"ball control", "dribbling"}},
			TR1:       Drill{Title: "Inside/outside touches", Purpose: "Control with both feet", DurationMin: 15, Intensity: IntensityMid, FocusTags: []string{"dribbling", "ball control", "turns"}},
			TR2:       Drill{Title: "Cone dribbling", Purpose: "Handling the ball in tight spaces", DurationMin: 15, Intensity: IntensityMid, FocusTags: []string{"dribbling", "speed", "decision making"}},
			TR3:       Drill{Title: "Free dribble game", Purpose: "Keeping the ball under pressure", DurationMin: 15, Intensity: IntensityHigh, FocusTags: []string{"dribbling", "1v1", "scanning"}},
			KeyFactor: KeyFactor{Situation: "When a defender closes in", VoiceCue: "Keep the ball close to your body"},
		},
	},
	{
		ID:   "template-2",
		Name: "1v1 Attack/Defend",
		PlanContent: PlanContent{
			Warmup:    Drill{Title: "Dynamic stretching", Purpose: "Warm up the body", DurationMin: 10, Intensity: IntensityLow, FocusTags: []string{"ball control"}},
			TR1:       Drill{Title: "1v1 beat the defender", Purpose: "Learn to get past an opponent", DurationMin: 15, Intensity: IntensityMid, FocusTags: []string{"1v1", "dribbling", "turns"}},
			TR2:       Drill{Title: "1v1 defending", Purpose: "Win the ball back", DurationMin: 15, Intensity: IntensityMid, FocusTags: []string{"1v1", "defending", "body shape"}},
			TR3:       Drill{Title: "1v1 mini game", Purpose: "Decide quickly in real duels", DurationMin: 15, Intensity: IntensityHigh, FocusTags: []string{"1v1", "decision making", "transition"}},
			KeyFactor: KeyFactor{Situation: "Facing an opponent 1v1", VoiceCue: "Watch their balance"},
		},
	},
	{
		ID:   "template-3",
		Name: "Passing & Support",
		PlanContent: PlanContent{
			Warmup:    Drill{Title: "Passing pairs", Purpose: "Get a feel for accurate passes", DurationMin: 10, Intensity: IntensityLow, FocusTags: []string{"passing", "first touch"}},
			TR1:       Drill{Title: "Triangle passing", Purpose: "Pass with triangles in mind", DurationMin: 15, Intensity: IntensityMid, FocusTags: []string{"passing", "support", "body shape"}},
			TR2:       Drill{Title: "3v1 rondo", Purpose: "Keep possession with numbers up", DurationMin: 15, Intensity: IntensityMid, FocusTags: []string{"passing", "decision making", "scanning"}},
			TR3:       Drill{Title: "4v4 plus 2 floaters", Purpose: "Passing game under match conditions", DurationMin: 15, Intensity: IntensityHigh, FocusTags: []string{"passing", "support", "communication"}},
			KeyFactor: KeyFactor{Situation: "Before receiving the ball", VoiceCue: "Look first, make an angle"},
		},
	},
	{
		ID:   "template-4",
		Name: "Finishing",
		PlanContent: PlanContent{
			Warmup:    Drill{Title: "Shooting technique", Purpose: "Check shooting form", DurationMin: 10, Intensity: IntensityLow, FocusTags: []string{"shooting", "ball control"}},
			TR1:       Drill{Title: "One-touch finishing", Purpose: "Shoot without hesitation", DurationMin: 15, Intensity: IntensityMid, FocusTags: []string{"shooting", "decision making", "speed"}},
			TR2:       Drill{Title: "Dribble then shoot", Purpose: "Link the dribble to the finish", DurationMin: 15, Intensity: IntensityMid, FocusTags: []string{"shooting", "dribbling", "decision making"}},
			TR3:       Drill{Title: "2v1 plus keeper", Purpose: "Finishing in a game", DurationMin: 15, Intensity: IntensityHigh, FocusTags: []string{"shooting", "passing", "decision making"}},
			KeyFactor: KeyFactor{Situation: "When a chance opens up", VoiceCue: "See the goal, then strike"},
		},
	},
}

// FindTemplate looks a built-in template up by id.
func FindTemplate(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
