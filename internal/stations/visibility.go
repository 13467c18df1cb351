package stations

import (
	"context"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/items"
)

// VisibilityBuilder turns a station's configured allow-list names into the
// identifier sets the item listing filters on. Resolution is exact and
// case-sensitive; a typo'd name resolves to nothing, which shrinks the feed
// instead of failing it.
type VisibilityBuilder struct {
	resolver classification.Resolver
}

// NewVisibilityBuilder constructs a builder over the supplied resolver.
func NewVisibilityBuilder(resolver classification.Resolver) *VisibilityBuilder {
	return &VisibilityBuilder{resolver: resolver}
}

// Build resolves the station's language and religion names. The resulting
// options require a published stage, at least one language match AND at
// least one religion match, and a category outside the blocked set.
// Locality never participates.
func (b *VisibilityBuilder) Build(ctx context.Context, station *Station) (*items.VisibilityOptions, error) {
	languageIDs, err := b.resolver.ResolveNames(ctx, station.AllowedLanguageNames, classification.KindLanguage)
	if err != nil {
		return nil, err
	}
	religionIDs, err := b.resolver.ResolveNames(ctx, station.AllowedReligionNames, classification.KindReligion)
	if err != nil {
		return nil, err
	}
	return &items.VisibilityOptions{
		LanguageIDs:        languageIDs,
		ReligionIDs:        religionIDs,
		BlockedCategoryIDs: station.BlockedCategoryIDs,
	}, nil
}
