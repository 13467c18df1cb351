package items

import (
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/google/uuid"
)

// ListOptions narrows item listings. The zero value lists everything.
type ListOptions struct {
	Stage    domain.Stage
	AuthorID uuid.UUID

	// Visibility constrains results to the station feed shape: published
	// items outside the blocked categories that match at least one language
	// AND at least one religion classification.
	Visibility *VisibilityOptions

	// OrderByPublishedDesc orders by publish time, newest first.
	OrderByPublishedDesc bool

	Limit  int
	Offset int
}

// VisibilityOptions carries a station's resolved allow-lists.
type VisibilityOptions struct {
	LanguageIDs        []uuid.UUID
	ReligionIDs        []uuid.UUID
	BlockedCategoryIDs []uuid.UUID
}
