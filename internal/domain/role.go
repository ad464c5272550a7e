package domain

// Role says what an access key may do.
type Role string

const (
	RoleCoach  Role = "coach"  // Reads drafts, writes and publishes plans
	RolePlayer Role = "player" // Reads published plans, submits reflections
)

func (r Role) Valid() bool {
	return r == RoleCoach || r == RolePlayer
}
