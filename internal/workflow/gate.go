package workflow

import (
	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/items"
)

// MissingRequirement names one unmet approval precondition. The engine
// surfaces every failing requirement at once rather than failing fast, so
// authors can fix a draft in a single pass.
type MissingRequirement struct {
	Check   string `json:"check"`
	Message string `json:"message"`
}

const (
	checkCategory = "category"
	checkLanguage = "language"
	checkReligion = "religion"
)

// GateValidator decides whether an item satisfies the preconditions to reach
// an approval stage: a category assignment plus at least one language and one
// religion classification. Locality is never required.
type GateValidator struct{}

// NewGateValidator constructs the gate validator.
func NewGateValidator() *GateValidator {
	return &GateValidator{}
}

// CheckGate returns the missing requirements blocking the item from the
// target stage; an empty slice means the gate passes. Check order is fixed
// (category, language, religion) so message ordering is deterministic.
func (g *GateValidator) CheckGate(item *items.Item, links []*classification.Classification, target domain.Stage) []MissingRequirement {
	if target != domain.StageApproved && target != domain.StageTranslated {
		return nil
	}

	missing := make([]MissingRequirement, 0, 3)
	if item.CategoryID == nil {
		missing = append(missing, MissingRequirement{
			Check:   checkCategory,
			Message: "a category assignment is required before approval",
		})
	}
	if !hasKind(links, classification.KindLanguage) {
		missing = append(missing, MissingRequirement{
			Check:   checkLanguage,
			Message: "at least one language classification is required before approval",
		})
	}
	if !hasKind(links, classification.KindReligion) {
		missing = append(missing, MissingRequirement{
			Check:   checkReligion,
			Message: "at least one religion classification is required before approval",
		})
	}
	return missing
}

func hasKind(links []*classification.Classification, kind classification.Kind) bool {
	for _, link := range links {
		if link != nil && link.Kind == kind {
			return true
		}
	}
	return false
}
