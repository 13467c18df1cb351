package classification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Kind partitions classifications into the three fixed vocabularies used for
// editorial metadata and distribution filtering.
type Kind string

const (
	// KindLanguage tags the language a content item addresses.
	KindLanguage Kind = "language"
	// KindReligion tags the religious audience of a content item.
	KindReligion Kind = "religion"
	// KindLocality tags geography; never required and never filtered on.
	KindLocality Kind = "locality"
)

// Known reports whether the kind belongs to the fixed vocabulary.
func (k Kind) Known() bool {
	switch k {
	case KindLanguage, KindReligion, KindLocality:
		return true
	default:
		return false
	}
}

// NormalizeKind coerces arbitrary kind strings into the fixed vocabulary.
func NormalizeKind(input string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(input)))
}

// Classification is a referentially stable tag. Rows are never deleted while
// in use; the owning CRUD layer enforces usage counts before removal.
type Classification struct {
	bun.BaseModel `bun:"table:classifications,alias:cl"`

	ID        uuid.UUID `bun:",pk,type:uuid"                   json:"id"`
	Kind      Kind      `bun:"kind,notnull"                    json:"kind"`
	Name      string    `bun:"name,notnull"                    json:"name"`
	IsActive  bool      `bun:"is_active,notnull,default:true"  json:"is_active"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
