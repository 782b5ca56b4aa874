package store

import (
	"encoding/json"
	"log/slog"
)

// Document keys, one JSON document per top-level collection
const (
	KeyUser         = "user"
	KeyTasks        = "tasks"
	KeyProjects     = "projects"
	KeyGroceryLists = "groceryLists"
	KeyTags         = "tags"
	KeyTemplates    = "templates"
	KeyDarkMode     = "darkMode"
)

// DataKeys are the keys cleared when a new user logs in on a fresh install
var DataKeys = []string{KeyTasks, KeyProjects, KeyGroceryLists, KeyTags, KeyTemplates}

// Backend is a durable key/value store of raw documents. *db.DB satisfies it.
type Backend interface {
	GetDocument(key string) ([]byte, bool, error)
	PutDocument(key string, data []byte) error
	DeleteDocuments(keys ...string) error
}

// persister is a best-effort cache in front of Backend: nothing it does
// returns an error to the engine.
type persister struct {
	backend Backend
	log     *slog.Logger
}

// loadDocument decodes the document under key into a T. It returns def and
// false when the key is missing, unreadable or corrupt; the latter two are
// logged.
func loadDocument[T any](p *persister, key string, def T) (T, bool) {
	if p.backend == nil {
		return def, false
	}
	data, ok, err := p.backend.GetDocument(key)
	if err != nil {
		p.log.Error("failed to read document", "key", key, "error", err)
		return def, false
	}
	if !ok {
		return def, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		p.log.Error("discarding corrupt document", "key", key, "error", err)
		return def, false
	}
	return v, true
}

func (p *persister) exists(key string) bool {
	if p.backend == nil {
		return false
	}
	_, ok, err := p.backend.GetDocument(key)
	if err != nil {
		p.log.Error("failed to read document", "key", key, "error", err)
	}
	return ok
}

func (p *persister) save(key string, v any) {
	if p.backend == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		p.log.Error("failed to encode document", "key", key, "error", err)
		return
	}
	if err := p.backend.PutDocument(key, data); err != nil {
		p.log.Error("failed to save document", "key", key, "error", err)
	}
}

func (p *persister) remove(keys ...string) {
	if p.backend == nil {
		return
	}
	if err := p.backend.DeleteDocuments(keys...); err != nil {
		p.log.Error("failed to delete documents", "keys", keys, "error", err)
	}
}
