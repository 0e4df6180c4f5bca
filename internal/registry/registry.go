// Package registry persists the template collaborators the ledger engine
// reads: bill and income templates, categories, payment sources, family
// members and insurance plans. Each collection is stored as one JSON
// document; the ledger engine consumes the registry read-only.
package registry

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"

	"github.com/homeledger/backend/internal/storage"
)

// Storage keys, one collection document each.
const (
	keyBills         = "registry/bills"
	keyIncomes       = "registry/incomes"
	keyCategories    = "registry/categories"
	keySources       = "registry/payment_sources"
	keyFamilyMembers = "registry/family_members"
	keyPlans         = "registry/insurance_plans"
)

// Registry provides CRUD over the collaborator collections.
type Registry struct {
	store storage.Store
}

// New returns a Registry backed by the given store.
func New(store storage.Store) *Registry {
	return &Registry{store: store}
}

// resource is anything embedding models.DefaultModel.
type resource interface {
	ResourceID() uuid.UUID
}

func load[T any](s storage.Store, key string) ([]T, error) {
	var items []T
	err := s.Read(key, &items)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return items, nil
}

func get[T resource](s storage.Store, key string, id uuid.UUID, notFound error) (T, error) {
	var zero T

	items, err := load[T](s, key)
	if err != nil {
		return zero, err
	}

	for _, item := range items {
		if item.ResourceID() == id {
			return item, nil
		}
	}

	return zero, notFound
}

func put[T resource](s storage.Store, key string, item T) error {
	items, err := load[T](s, key)
	if err != nil {
		return err
	}

	for idx := range items {
		if items[idx].ResourceID() == item.ResourceID() {
			items[idx] = item
			return s.Write(key, items)
		}
	}

	items = append(items, item)
	return s.Write(key, items)
}

func remove[T resource](s storage.Store, key string, id uuid.UUID, notFound error) error {
	items, err := load[T](s, key)
	if err != nil {
		return err
	}

	for idx := range items {
		if items[idx].ResourceID() == id {
			items = append(items[:idx], items[idx+1:]...)
			return s.Write(key, items)
		}
	}

	return notFound
}

// MatchesSearch reports whether a name matches a search pattern. Patterns
// without glob characters match as substrings, case-insensitive.
func MatchesSearch(pattern, name string) bool {
	if pattern == "" {
		return true
	}

	pattern = strings.ToLower(pattern)
	if !strings.Contains(pattern, "*") {
		pattern = "*" + pattern + "*"
	}

	return glob.Glob(pattern, strings.ToLower(name))
}
