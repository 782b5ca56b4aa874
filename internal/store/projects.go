package store

import (
	"fmt"
	"slices"

	"github.com/tgienger/daybook/internal/models"
)

// Projects are plain records. TotalTasks and CompletedTasks are whatever the
// caller last wrote; nothing here recounts them from the task collection,
// and renaming a project does not touch ProjectName on its tasks.

func (s *Store) AddProject(project models.Project) {
	p := project.Clone()
	p.Normalize()
	s.update(func(next *Snapshot) touched {
		next.Projects = append(slices.Clone(next.Projects), p)
		return touchedProjects
	})
}

func (s *Store) UpdateProject(id string, patch models.ProjectPatch) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		i := slices.IndexFunc(next.Projects, func(p models.Project) bool { return p.ID == id })
		if i < 0 {
			return 0
		}
		projects := slices.Clone(next.Projects)
		p := projects[i].Clone()
		patch.Apply(&p)
		p.UpdatedAt = now
		projects[i] = p
		next.Projects = projects
		return touchedProjects
	})
}

func (s *Store) DeleteProject(id string) {
	s.update(func(next *Snapshot) touched {
		if !slices.ContainsFunc(next.Projects, func(p models.Project) bool { return p.ID == id }) {
			return 0
		}
		next.Projects = slices.DeleteFunc(slices.Clone(next.Projects), func(p models.Project) bool { return p.ID == id })
		if next.SelectedProjectID == id {
			next.SelectedProjectID = ""
		}
		return touchedProjects
	})
}

// Project returns the project with id from the current snapshot
func (s *Store) Project(id string) (models.Project, error) {
	snap := s.Snapshot()
	for _, p := range snap.Projects {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
}
