package items

import (
	"time"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Item is the unit the editorial workflow operates on. The stage field is
// mutated exclusively through the transition engine; the status column is a
// derived legacy projection written alongside it.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:it"`

	ID       uuid.UUID     `bun:",pk,type:uuid"          json:"id"`
	Slug     string        `bun:"slug,notnull"           json:"slug"`
	Title    string        `bun:"title,notnull"          json:"title"`
	Body     string        `bun:"body"                   json:"body"`
	Stage    domain.Stage  `bun:"stage,notnull,default:'draft'"  json:"stage"`
	Status   domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	Language string        `bun:"language,notnull"       json:"language"`

	AuthorID           uuid.UUID  `bun:"author_id,notnull,type:uuid"     json:"author_id"`
	AssignedReviewerID *uuid.UUID `bun:"assigned_reviewer_id,type:uuid"  json:"assigned_reviewer_id,omitempty"`
	AssignedApproverID *uuid.UUID `bun:"assigned_approver_id,type:uuid"  json:"assigned_approver_id,omitempty"`
	CategoryID         *uuid.UUID `bun:"category_id,type:uuid"           json:"category_id,omitempty"`

	// IsTranslation and OriginalItemID model the parent relation as a
	// one-way foreign key. The reverse direction (parent to translations)
	// is always a derived query, never a stored collection.
	IsTranslation  bool       `bun:"is_translation,notnull,default:false" json:"is_translation"`
	OriginalItemID *uuid.UUID `bun:"original_item_id,type:uuid"           json:"original_item_id,omitempty"`

	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	PublishedBy *uuid.UUID `bun:"published_by,type:uuid" json:"published_by,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Category        *Category             `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Classifications []*ItemClassification `bun:"rel:has-many,join:id=item_id"       json:"classifications,omitempty"`
}

// SetStage applies a stage change together with its derived status.
func (i *Item) SetStage(stage domain.Stage) {
	i.Stage = stage
	i.Status = domain.StatusFromStage(stage)
}

// Category groups items for station-level blocking. Category CRUD lives with
// the host application; the workflow only reads the assignment.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull"  json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// ItemClassification links an item to a classification. Link maintenance is
// a metadata-edit operation outside the engine; the approval gate reads the
// links as a precondition.
type ItemClassification struct {
	bun.BaseModel `bun:"table:item_classifications,alias:icl"`

	ID               uuid.UUID `bun:",pk,type:uuid"                       json:"id"`
	ItemID           uuid.UUID `bun:"item_id,notnull,type:uuid"           json:"item_id"`
	ClassificationID uuid.UUID `bun:"classification_id,notnull,type:uuid" json:"classification_id"`
	CreatedAt        time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Classification *classification.Classification `bun:"rel:belongs-to,join:classification_id=id" json:"classification,omitempty"`
}
