package stations

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Station is a distribution endpoint. Station CRUD belongs to the host
// application; the workflow consumes the allow-lists read-only to decide
// which published items a station may receive.
type Station struct {
	bun.BaseModel `bun:"table:stations,alias:st"`

	ID   uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug string    `bun:"slug,notnull"  json:"slug"`
	Name string    `bun:"name,notnull"  json:"name"`

	// Allow-lists hold classification names, not IDs. Names are resolved to
	// identifiers on read (exact, case-sensitive) so a renamed or typo'd
	// entry degrades to an empty match instead of an error.
	AllowedLanguageNames []string `bun:"allowed_language_names,type:jsonb" json:"allowed_language_names"`
	AllowedReligionNames []string `bun:"allowed_religion_names,type:jsonb" json:"allowed_religion_names"`

	BlockedCategoryIDs []uuid.UUID `bun:"blocked_category_ids,type:jsonb" json:"blocked_category_ids,omitempty"`

	IsActive bool `bun:"is_active,notnull,default:true" json:"is_active"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
