package service

import (
	"hiroonarita/practice-planner/internal/domain"
)

// CatalogService serves the static reference data: teams, templates and the
// focus tag vocabulary.
type CatalogService interface {
	Teams() []domain.Team
	Templates() []domain.Template
	FocusTags() []string
}

type catalogService struct {
	teams []domain.Team
}

// NewCatalogService creates a catalog over the configured teams.
func NewCatalogService(teams []domain.Team) CatalogService {
	return &catalogService{teams: teams}
}

func (s *catalogService) Teams() []domain.Team {
	return append([]domain.Team(nil), s.teams...)
}

// Templates returns copies so callers cannot edit the built-ins.
func (s *catalogService) Templates() []domain.Template {
	out := make([]domain.Template, len(domain.Templates))
	for i, t := range domain.Templates {
		t.PlanContent = t.PlanContent.Clone()
		out[i] = t
	}
	return out
}

func (s *catalogService) FocusTags() []string {
	return append([]string(nil), domain.FocusTags...)
}
