package store

import (
	"strings"

	"github.com/tgienger/daybook/internal/models"
)

// Login records name as the session user. The first login on an install
// without a stored user wipes whatever collections were left behind, so a
// new person starts empty. Logging in again keeps the id and renames.
func (s *Store) Login(name string) models.User {
	name = strings.TrimSpace(name)
	fresh := !s.persist.exists(KeyUser)
	newID := s.newID("user")

	var user models.User
	s.update(func(next *Snapshot) touched {
		user = next.CurrentUser
		if fresh || user.ID == "" || user.ID == GuestUser.ID {
			user = models.User{ID: newID}
		}
		user.Name = name
		next.CurrentUser = user
		if !fresh {
			return touchedUser
		}

		s.persist.remove(DataKeys...)
		next.Tasks = []models.Task{}
		next.Projects = []models.Project{}
		next.GroceryLists = []models.GroceryList{}
		next.Tags = []models.Tag{}
		next.Templates = []models.TaskTemplate{}
		next.SelectedProjectID = ""
		return touchedUser
	})
	return user
}

// Logout forgets the session user. Stored collections are kept.
func (s *Store) Logout() {
	s.update(func(next *Snapshot) touched {
		s.persist.remove(KeyUser)
		next.CurrentUser = GuestUser
		return touchedVolatile
	})
}

// ToggleDarkMode flips and persists the dark mode flag
func (s *Store) ToggleDarkMode() {
	s.update(func(next *Snapshot) touched {
		next.DarkMode = !next.DarkMode
		return touchedDarkMode
	})
}

// SelectProject remembers the project the consumer is looking at. The
// selection lives only in memory.
func (s *Store) SelectProject(projectID string) {
	s.update(func(next *Snapshot) touched {
		if next.SelectedProjectID == projectID {
			return 0
		}
		next.SelectedProjectID = projectID
		return touchedVolatile
	})
}
