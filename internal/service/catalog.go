package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/metrics"
	"github.com/dtroode/recipe-server/internal/model"
)

const (
	msgNameTaken  = "An item with this name already exists."
	maxNameLength = 255
)

// Catalog manages one kind of per-owner vocabulary: tags or ingredients.
type Catalog struct {
	kind   model.CatalogKind
	store  model.CatalogStore
	logger *logger.Logger
}

func NewCatalog(kind model.CatalogKind, store model.CatalogStore, logger *logger.Logger) *Catalog {
	return &Catalog{
		kind:   kind,
		store:  store,
		logger: logger,
	}
}

// List returns the owner's items ordered by name.
func (s *Catalog) List(ctx context.Context, ownerID int64, filter model.CatalogFilter) ([]model.CatalogItem, error) {
	items, err := s.store.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", s.kind, err)
	}
	return items, nil
}

func (s *Catalog) Get(ctx context.Context, ownerID, id int64) (model.CatalogItem, error) {
	item, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("failed to get %s: %w", s.kind, err)
	}
	return item, nil
}

// Create returns the existing item when the owner already has one with that name.
func (s *Catalog) Create(ctx context.Context, ownerID int64, name string) (model.CatalogItem, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return model.CatalogItem{}, err
	}

	item, created, err := s.store.GetOrCreate(ctx, ownerID, name)
	if err != nil {
		s.logger.Error("Catalog service: failed to get or create item",
			"kind", s.kind,
			"owner_id", ownerID,
			"error", err.Error())
		return model.CatalogItem{}, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}
	if created {
		metrics.CatalogItemsCreated.WithLabelValues(string(s.kind)).Inc()
	}
	return item, nil
}

func (s *Catalog) Rename(ctx context.Context, ownerID, id int64, name string) (model.CatalogItem, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return model.CatalogItem{}, err
	}

	item, err := s.store.Rename(ctx, ownerID, id, name)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.CatalogItem{}, model.NewValidationError("name", msgNameTaken)
		}
		return model.CatalogItem{}, fmt.Errorf("failed to rename %s: %w", s.kind, err)
	}
	return item, nil
}

// Delete removes the item and its recipe links. Recipes are kept.
func (s *Catalog) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.kind, err)
	}

	s.logger.Debug("Catalog service: item deleted",
		"kind", s.kind,
		"owner_id", ownerID,
		"id", id)
	return nil
}

func cleanName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.NewValidationError(field, msgFieldBlank)
	}
	if len([]rune(name)) > maxNameLength {
		return "", model.NewValidationError(field, msgTooLong)
	}
	return name, nil
}
