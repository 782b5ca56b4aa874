// Package store holds the single in-memory snapshot of everything daybook
// knows about and the actions that change it. Every action builds a new
// snapshot without touching the previous one, persists the collections it
// changed and then publishes the result to subscribers.
package store

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/daybook/internal/models"
)

// ErrNotFound is returned by the few operations whose caller needs to know
// that an id did not resolve. Mutating actions treat unknown ids as no-ops.
var ErrNotFound = errors.New("not found")

// GuestUser is the placeholder session user until someone logs in
var GuestUser = models.User{ID: "temp", Name: "Guest"}

// Snapshot is the complete state at one instant. Values handed out by the
// store must be treated as read-only; actions never modify a published
// snapshot.
type Snapshot struct {
	Version           uint64
	Initialized       bool
	CurrentUser       models.User
	Tasks             []models.Task
	Projects          []models.Project
	GroceryLists      []models.GroceryList
	Tags              []models.Tag
	Templates         []models.TaskTemplate
	DarkMode          bool
	SelectedProjectID string
}

// Store is the state container. Create one with New, call Initialize once,
// and Close it when the consumer goes away.
type Store struct {
	mu     sync.Mutex
	snap   Snapshot
	closed bool

	persist *persister
	log     *slog.Logger
	now     func() time.Time
	newID   func(prefix string) string

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for persistence problems and migrations
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how the store mints ids for the entities it
// creates itself (duplicates, template tasks, time entries, users)
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New creates a store persisting through backend. The store is empty until
// Initialize is called.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
		newID: defaultID,
		subs:  make(map[int]func(Snapshot)),
		snap: Snapshot{
			CurrentUser:  GuestUser,
			Tasks:        []models.Task{},
			Projects:     []models.Project{},
			GroceryLists: []models.GroceryList{},
			Tags:         []models.Tag{},
			Templates:    []models.TaskTemplate{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.persist = &persister{backend: backend, log: s.log}
	return s
}

func defaultID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Initialize loads every collection from the backend, migrates tasks written
// by older versions and publishes the first snapshot. Calling it again is a
// no-op.
func (s *Store) Initialize() {
	s.mu.Lock()
	if s.snap.Initialized || s.closed {
		s.mu.Unlock()
		return
	}

	user, ok := loadDocument(s.persist, KeyUser, GuestUser)
	if !ok || user.ID == "" {
		user = GuestUser
	}

	tasks, _ := loadDocument(s.persist, KeyTasks, []models.Task{})
	projects, _ := loadDocument(s.persist, KeyProjects, []models.Project{})
	lists, _ := loadDocument(s.persist, KeyGroceryLists, []models.GroceryList{})
	tags, _ := loadDocument(s.persist, KeyTags, []models.Tag{})
	templates, _ := loadDocument(s.persist, KeyTemplates, []models.TaskTemplate{})
	darkMode, _ := loadDocument(s.persist, KeyDarkMode, false)

	migrated := 0
	for i := range tasks {
		if tasks[i].Normalize() {
			migrated++
		}
	}
	if migrated > 0 {
		s.log.Info("migrated tasks to current format", "count", migrated)
		s.persist.save(KeyTasks, tasks)
	}
	for i := range projects {
		projects[i].Normalize()
	}
	for i := range lists {
		lists[i].Normalize()
	}
	for i := range templates {
		templates[i].Normalize()
	}

	s.snap = Snapshot{
		Version:      s.snap.Version + 1,
		Initialized:  true,
		CurrentUser:  user,
		Tasks:        nonNil(tasks),
		Projects:     nonNil(projects),
		GroceryLists: nonNil(lists),
		Tags:         nonNil(tags),
		Templates:    nonNil(templates),
		DarkMode:     darkMode,
	}
	snap := s.snap
	s.mu.Unlock()

	s.publish(snap)
}

// Close tears the store down. Subscribers are dropped and later actions do
// nothing.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.subMu.Lock()
	s.subs = make(map[int]func(Snapshot))
	s.subMu.Unlock()
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to receive every snapshot published after this
// call. Snapshots may arrive out of order when actions run concurrently;
// compare Version to drop stale ones. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// touched records which top-level collections an action replaced
type touched uint8

const (
	touchedTasks touched = 1 << iota
	touchedProjects
	touchedGroceryLists
	touchedTags
	touchedTemplates
	touchedDarkMode
	touchedUser
	touchedVolatile // changed in memory only
)

// update runs fn against a copy of the current snapshot. fn must replace
// any slice it changes rather than writing into it, and returns the set of
// collections it replaced. Returning zero leaves the store untouched.
func (s *Store) update(fn func(next *Snapshot) touched) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	next := s.snap
	t := fn(&next)
	if t == 0 {
		s.mu.Unlock()
		return
	}
	next.Version++
	s.snap = next

	// Collections are written one key at a time, in this order. A crash
	// between two writes leaves them out of step.
	if t&touchedTags != 0 {
		s.persist.save(KeyTags, next.Tags)
	}
	if t&touchedTasks != 0 {
		s.persist.save(KeyTasks, next.Tasks)
	}
	if t&touchedProjects != 0 {
		s.persist.save(KeyProjects, next.Projects)
	}
	if t&touchedGroceryLists != 0 {
		s.persist.save(KeyGroceryLists, next.GroceryLists)
	}
	if t&touchedTemplates != 0 {
		s.persist.save(KeyTemplates, next.Templates)
	}
	if t&touchedDarkMode != 0 {
		s.persist.save(KeyDarkMode, next.DarkMode)
	}
	if t&touchedUser != 0 {
		s.persist.save(KeyUser, next.CurrentUser)
	}
	s.mu.Unlock()

	s.publish(next)
}

// updateTask copies tasks, hands fn a deep copy of the task with id and
// keeps the result when fn returns true
func updateTask(tasks []models.Task, id string, fn func(t *models.Task) bool) ([]models.Task, bool) {
	i := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return tasks, false
	}
	t := tasks[i].Clone()
	if !fn(&t) {
		return tasks, false
	}
	out := slices.Clone(tasks)
	out[i] = t
	return out, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
