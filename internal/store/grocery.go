package store

import (
	"slices"

	"github.com/tgienger/daybook/internal/models"
)

func (s *Store) AddGroceryList(list models.GroceryList) {
	l := list.Clone()
	l.Normalize()
	s.update(func(next *Snapshot) touched {
		next.GroceryLists = append(slices.Clone(next.GroceryLists), l)
		return touchedGroceryLists
	})
}

func (s *Store) UpdateGroceryList(id string, patch models.GroceryListPatch) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		lists, ok := updateGroceryList(next.GroceryLists, id, func(l *models.GroceryList) bool {
			patch.Apply(l)
			l.UpdatedAt = now
			return true
		})
		if !ok {
			return 0
		}
		next.GroceryLists = lists
		return touchedGroceryLists
	})
}

func (s *Store) DeleteGroceryList(id string) {
	s.update(func(next *Snapshot) touched {
		if !slices.ContainsFunc(next.GroceryLists, func(l models.GroceryList) bool { return l.ID == id }) {
			return 0
		}
		next.GroceryLists = slices.DeleteFunc(slices.Clone(next.GroceryLists), func(l models.GroceryList) bool { return l.ID == id })
		return touchedGroceryLists
	})
}

// AddGroceryItem appends item to the list. Unknown categories become Other.
func (s *Store) AddGroceryItem(listID string, item models.GroceryItem) {
	now := s.now()
	item.Category = models.CanonicalCategory(string(item.Category))
	s.update(func(next *Snapshot) touched {
		lists, ok := updateGroceryList(next.GroceryLists, listID, func(l *models.GroceryList) bool {
			l.Items = append(l.Items, item)
			l.UpdatedAt = now
			return true
		})
		if !ok {
			return 0
		}
		next.GroceryLists = lists
		return touchedGroceryLists
	})
}

func (s *Store) UpdateGroceryItem(listID, itemID string, patch models.GroceryItemPatch) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		lists, ok := updateGroceryList(next.GroceryLists, listID, func(l *models.GroceryList) bool {
			i := slices.IndexFunc(l.Items, func(it models.GroceryItem) bool { return it.ID == itemID })
			if i < 0 {
				return false
			}
			patch.Apply(&l.Items[i])
			l.Items[i].UpdatedAt = now
			l.UpdatedAt = now
			return true
		})
		if !ok {
			return 0
		}
		next.GroceryLists = lists
		return touchedGroceryLists
	})
}

func (s *Store) DeleteGroceryItem(listID, itemID string) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		lists, ok := updateGroceryList(next.GroceryLists, listID, func(l *models.GroceryList) bool {
			n := len(l.Items)
			l.Items = slices.DeleteFunc(l.Items, func(it models.GroceryItem) bool { return it.ID == itemID })
			if len(l.Items) == n {
				return false
			}
			l.UpdatedAt = now
			return true
		})
		if !ok {
			return 0
		}
		next.GroceryLists = lists
		return touchedGroceryLists
	})
}

func updateGroceryList(lists []models.GroceryList, id string, fn func(l *models.GroceryList) bool) ([]models.GroceryList, bool) {
	i := slices.IndexFunc(lists, func(l models.GroceryList) bool { return l.ID == id })
	if i < 0 {
		return lists, false
	}
	l := lists[i].Clone()
	if !fn(&l) {
		return lists, false
	}
	out := slices.Clone(lists)
	out[i] = l
	return out, true
}
