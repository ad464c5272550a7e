// Package memory keeps plans, reflections and voice clips in process memory.
// It backs the server's "memory" driver and the tests.
package memory

import (
	"sync"
	"time"

	"hiroonarita/practice-planner/internal/domain"
)

// DB holds every table behind one lock.
type DB struct {
	mu          sync.RWMutex
	plans       map[domain.PlanKey]*domain.PlanRecord
	reflections map[string]*domain.Reflection
	clips       map[string]*domain.VoiceClip

	// Now is the write clock; tests may replace it.
	Now func() time.Time
}

// Open returns an empty database.
func Open() *DB {
	return &DB{
		plans:       make(map[domain.PlanKey]*domain.PlanRecord),
		reflections: make(map[string]*domain.Reflection),
		clips:       make(map[string]*domain.VoiceClip),
		Now:         func() time.Time { return time.Now().UTC() },
	}
}
