package stations

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// FeedEntry is one published item prepared for station delivery. HTML is the
// goldmark-rendered body.
type FeedEntry struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Language    string     `json:"language"`
	HTML        string     `json:"html"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Feed is the station-scoped listing of visible published items, ordered by
// publish time descending.
type Feed struct {
	StationID   uuid.UUID   `json:"station_id"`
	StationSlug string      `json:"station_slug"`
	Entries     []FeedEntry `json:"entries"`
}

// FeedOptions pages the feed.
type FeedOptions struct {
	Limit  int
	Offset int
}

// FeedService assembles station feeds: it resolves the station's allow-lists,
// applies the visibility filter to the item listing, and renders entry bodies.
type FeedService struct {
	stations   Repository
	store      items.Repository
	visibility *VisibilityBuilder
	markdown   goldmark.Markdown
	logger     interfaces.Logger
}

// FeedOption configures the feed service.
type FeedOption func(*FeedService)

// WithLogger wires the module logger.
func WithLogger(logger interfaces.Logger) FeedOption {
	return func(s *FeedService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFeedService constructs a feed service. The goldmark engine is stateless
// and shared across requests.
func NewFeedService(stationStore Repository, itemStore items.Repository, resolver classification.Resolver, opts ...FeedOption) *FeedService {
	s := &FeedService{
		stations:   stationStore,
		store:      itemStore,
		visibility: NewVisibilityBuilder(resolver),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Feed returns the station's visible published items.
func (s *FeedService) Feed(ctx context.Context, stationID uuid.UUID, opts FeedOptions) (*Feed, error) {
	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	return s.buildFeed(ctx, station, opts)
}

// FeedBySlug returns the feed for the station with the supplied slug.
func (s *FeedService) FeedBySlug(ctx context.Context, slug string, opts FeedOptions) (*Feed, error) {
	station, err := s.stations.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.buildFeed(ctx, station, opts)
}

func (s *FeedService) buildFeed(ctx context.Context, station *Station, opts FeedOptions) (*Feed, error) {
	visibility, err := s.visibility.Build(ctx, station)
	if err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx, items.ListOptions{
		Visibility:           visibility,
		OrderByPublishedDesc: true,
		Limit:                opts.Limit,
		Offset:               opts.Offset,
	})
	if err != nil {
		return nil, err
	}

	feed := &Feed{
		StationID:   station.ID,
		StationSlug: station.Slug,
		Entries:     make([]FeedEntry, 0, len(records)),
	}
	for _, record := range records {
		html, err := s.render(record.Body)
		if err != nil {
			return nil, fmt.Errorf("stations: render item %s: %w", record.ID, err)
		}
		feed.Entries = append(feed.Entries, FeedEntry{
			ID:          record.ID,
			Slug:        record.Slug,
			Title:       record.Title,
			Language:    record.Language,
			HTML:        html,
			CategoryID:  record.CategoryID,
			PublishedAt: record.PublishedAt,
		})
	}

	s.logger.Debug("stations.feed",
		"station", station.Slug,
		"entries", len(feed.Entries),
	)
	return feed, nil
}

func (s *FeedService) render(body string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
