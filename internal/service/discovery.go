package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/parleyhq/parley/internal/discovery"
	"github.com/parleyhq/parley/internal/domain"
	"github.com/parleyhq/parley/internal/pagination"
	"github.com/parleyhq/parley/internal/telemetry"
)

// AdvisorRepositoryInterface defines the repository interface for the advisor catalog
type AdvisorRepositoryInterface interface {
	Create(ctx context.Context, p *domain.AdvisorProfile) error
	GetByID(ctx context.Context, id string) (*domain.AdvisorProfile, error)
	ListAll(ctx context.Context) ([]*domain.AdvisorProfile, error)
	ListVisibleWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*AdvisorPageResult, error)
}

type AdvisorPageResult struct {
	Items      []*domain.AdvisorProfile
	NextCursor string
	HasMore    bool
}

// SelectionRepositoryInterface defines the repository interface for selection events
type SelectionRepositoryInterface interface {
	Create(ctx context.Context, e *domain.SelectionEvent) error
	ListByUser(ctx context.Context, userID string) ([]*domain.SelectionEvent, error)
	ListAll(ctx context.Context) ([]*domain.SelectionEvent, error)
}

// PopularCacheInterface caches ranked popularity listings
type PopularCacheInterface interface {
	Get(ctx context.Context, frame discovery.TimeFrame, limit int) ([]*discovery.RankedResult, error)
	Set(ctx context.Context, frame discovery.TimeFrame, limit int, results []*discovery.RankedResult) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// DiscoveryService assembles catalog snapshots and runs the ranking engine
// over them.
type DiscoveryService struct {
	advisorRepo   AdvisorRepositoryInterface
	selectionRepo SelectionRepositoryInterface
	popularCache  PopularCacheInterface
	uuidGen       UUIDGenerator
	now           func() time.Time
}

// NewDiscoveryService creates a new DiscoveryService instance
func NewDiscoveryService(
	advisorRepo AdvisorRepositoryInterface,
	selectionRepo SelectionRepositoryInterface,
	popularCache PopularCacheInterface,
) *DiscoveryService {
	return &DiscoveryService{
		advisorRepo:   advisorRepo,
		selectionRepo: selectionRepo,
		popularCache:  popularCache,
		uuidGen:       &DefaultUUIDGenerator{},
		now:           time.Now,
	}
}

// NewDiscoveryServiceWithClock creates a DiscoveryService with a custom clock
// and UUID generator (for testing)
func NewDiscoveryServiceWithClock(
	advisorRepo AdvisorRepositoryInterface,
	selectionRepo SelectionRepositoryInterface,
	popularCache PopularCacheInterface,
	uuidGen UUIDGenerator,
	now func() time.Time,
) *DiscoveryService {
	return &DiscoveryService{
		advisorRepo:   advisorRepo,
		selectionRepo: selectionRepo,
		popularCache:  popularCache,
		uuidGen:       uuidGen,
		now:           now,
	}
}

// ListAdvisorsInput carries catalog listing filters. All fields are optional.
type ListAdvisorsInput struct {
	Category string
	Featured *bool
	Tags     []string
	TeamID   string
	Bracket  domain.ExperienceBracket
	Limit    int
	Cursor   string
}

type ListAdvisorsOutput struct {
	Items   []*discovery.RankedResult
	Cursor  string
	HasMore bool
}

// SearchInput carries a full search request.
type SearchInput struct {
	Text     string
	Category string
	Featured *bool
	Tags     []string
	TeamID   string
	Bracket  domain.ExperienceBracket
	Sort     discovery.SortStrategy
	Limit    int
}

// SuggestInput carries a personalized suggestion request. An empty UserID is
// an anonymous caller.
type SuggestInput struct {
	UserID          string
	Limit           int
	ExcludeSelected bool
}

// PopularInput carries a popularity listing request.
type PopularInput struct {
	Frame discovery.TimeFrame
	Limit int
}

// SelectInput records that a user picked an advisor.
type SelectInput struct {
	UserID    string
	AdvisorID string
	Source    string
}

func (s *DiscoveryService) hasFilters(input ListAdvisorsInput) bool {
	return input.Category != "" || input.Featured != nil || len(input.Tags) > 0 ||
		input.TeamID != "" || input.Bracket != ""
}

// ListAdvisors lists catalog entries in catalog order. Unfiltered requests
// page directly in SQL; filtered requests run the filter pipeline over the
// full snapshot and page in memory.
func (s *DiscoveryService) ListAdvisors(ctx context.Context, input ListAdvisorsInput) (*ListAdvisorsOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "DiscoveryService.ListAdvisors", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	if err := validateListInput(input); err != nil {
		span.SetError(err)
		return nil, err
	}

	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	if !s.hasFilters(input) {
		page, err := s.advisorRepo.ListVisibleWithCursor(ctx, cursor, limit)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		return &ListAdvisorsOutput{
			Items:   discovery.ListAdvisors(page.Items, discovery.Query{}),
			Cursor:  page.NextCursor,
			HasMore: page.HasMore,
		}, nil
	}

	snapshot, err := s.advisorRepo.ListAll(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	filtered := discovery.ListAdvisors(snapshot, discovery.Query{
		Category: input.Category,
		Featured: input.Featured,
		Tags:     input.Tags,
		TeamID:   input.TeamID,
		Bracket:  input.Bracket,
	})

	return pageResults(filtered, cursor, limit), nil
}

// pageResults applies cursor pagination to an in-memory, catalog-ordered
// result list.
func pageResults(results []*discovery.RankedResult, cursor *pagination.Cursor, limit int) *ListAdvisorsOutput {
	start := 0
	if cursor != nil {
		start = len(results)
		for i, r := range results {
			created := r.Profile.CreatedAt
			if created.Before(cursor.Timestamp) ||
				(created.Equal(cursor.Timestamp) && r.Profile.ID < cursor.LastID) {
				start = i
				break
			}
		}
	}

	end := start + limit
	hasMore := end < len(results)
	if !hasMore {
		end = len(results)
	}
	items := results[start:end]

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1].Profile
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &ListAdvisorsOutput{
		Items:   items,
		Cursor:  nextCursor,
		HasMore: hasMore,
	}
}

// Search runs the filter pipeline and relevance scorer over the catalog.
func (s *DiscoveryService) Search(ctx context.Context, input SearchInput) ([]*discovery.RankedResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "DiscoveryService.Search", telemetry.SpanAttributes{
		Strategy:  string(input.Sort),
		Operation: "search",
	})
	defer span.End()

	if input.Limit < 0 {
		return nil, domain.ErrInvalidLimit
	}
	if input.Bracket != "" && !domain.IsValidExperienceBracket(input.Bracket) {
		return nil, domain.ErrInvalidExperienceBracket
	}

	snapshot, err := s.advisorRepo.ListAll(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return discovery.Search(snapshot, discovery.Query{
		Text:     input.Text,
		Category: input.Category,
		Featured: input.Featured,
		Tags:     input.Tags,
		TeamID:   input.TeamID,
		Bracket:  input.Bracket,
		Sort:     input.Sort,
		Limit:    input.Limit,
	}), nil
}

// Suggest returns personalized suggestions. Anonymous callers get the
// neutral ordering driven by featured status and recency alone.
func (s *DiscoveryService) Suggest(ctx context.Context, input SuggestInput) ([]*discovery.RankedResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "DiscoveryService.Suggest", telemetry.SpanAttributes{
		UserID:    input.UserID,
		Operation: "suggest",
	})
	defer span.End()

	if input.Limit < 0 {
		return nil, domain.ErrInvalidLimit
	}

	snapshot, err := s.advisorRepo.ListAll(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	var history []*domain.SelectionEvent
	if input.UserID != "" {
		history, err = s.selectionRepo.ListByUser(ctx, input.UserID)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
	}

	return discovery.Suggest(snapshot, history, discovery.SuggestOptions{
		UserID:          input.UserID,
		Limit:           input.Limit,
		ExcludeSelected: input.ExcludeSelected,
		Now:             s.now(),
	}), nil
}

// Popular returns the popularity listing for a time frame, consulting the
// cache first.
func (s *DiscoveryService) Popular(ctx context.Context, input PopularInput) ([]*discovery.RankedResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "DiscoveryService.Popular", telemetry.SpanAttributes{
		Operation: "popular",
	})
	defer span.End()

	if input.Limit < 0 {
		return nil, domain.ErrInvalidLimit
	}

	frame := input.Frame
	if frame == "" {
		frame = discovery.TimeFrameAll
	}
	limit := input.Limit
	if limit <= 0 {
		limit = discovery.DefaultPopularLimit
	}

	if s.popularCache != nil {
		if cached, err := s.popularCache.Get(ctx, frame, limit); err == nil && cached != nil {
			return cached, nil
		}
	}

	results, err := s.computePopular(ctx, frame, limit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if s.popularCache != nil {
		if err := s.popularCache.Set(ctx, frame, limit, results); err != nil {
			telemetry.AddBreadcrumb(ctx, "cache", "popular cache write failed: "+err.Error())
		}
	}
	return results, nil
}

func (s *DiscoveryService) computePopular(ctx context.Context, frame discovery.TimeFrame, limit int) ([]*discovery.RankedResult, error) {
	snapshot, err := s.advisorRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.selectionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return discovery.Popular(snapshot, events, frame, limit, s.now()), nil
}

// WarmPopular recomputes and stores the listing for a frame, bypassing any
// cached value. Used by the background warmer.
func (s *DiscoveryService) WarmPopular(ctx context.Context, frame discovery.TimeFrame, limit int) error {
	if s.popularCache == nil {
		return nil
	}
	results, err := s.computePopular(ctx, frame, limit)
	if err != nil {
		return err
	}
	return s.popularCache.Set(ctx, frame, limit, results)
}

// GetByID retrieves a single advisor profile.
func (s *DiscoveryService) GetByID(ctx context.Context, id string) (*domain.AdvisorProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "DiscoveryService.GetByID", telemetry.SpanAttributes{
		AdvisorID: id,
		Operation: "get",
	})
	defer span.End()

	return s.advisorRepo.GetByID(ctx, id)
}

// Select records a selection event after verifying the advisor exists.
func (s *DiscoveryService) Select(ctx context.Context, input SelectInput) (*domain.SelectionEvent, error) {
	ctx, span := telemetry.StartSpan(ctx, "DiscoveryService.Select", telemetry.SpanAttributes{
		UserID:    input.UserID,
		AdvisorID: input.AdvisorID,
		Operation: "select",
	})
	defer span.End()

	if _, err := s.advisorRepo.GetByID(ctx, input.AdvisorID); err != nil {
		span.SetError(err)
		return nil, err
	}

	event := domain.NewSelectionEvent(s.uuidGen.NewString(), input.UserID, input.AdvisorID, input.Source, s.now().UTC())
	if err := domain.ValidateSelectionEvent(event); err != nil {
		return nil, err
	}

	if err := s.selectionRepo.Create(ctx, event); err != nil {
		span.SetError(err)
		return nil, err
	}
	return event, nil
}

// CreateAdvisor validates and stores a new catalog entry.
func (s *DiscoveryService) CreateAdvisor(ctx context.Context, p *domain.AdvisorProfile) error {
	ctx, span := telemetry.StartSpan(ctx, "DiscoveryService.CreateAdvisor", telemetry.SpanAttributes{
		AdvisorID: p.ID,
		Operation: "create",
	})
	defer span.End()

	if p.ID == "" {
		p.ID = s.uuidGen.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	if err := domain.ValidateAdvisorProfile(p); err != nil {
		return err
	}
	return s.advisorRepo.Create(ctx, p)
}

func validateListInput(input ListAdvisorsInput) error {
	if input.Limit < 0 {
		return domain.ErrInvalidLimit
	}
	if input.Bracket != "" && !domain.IsValidExperienceBracket(input.Bracket) {
		return domain.ErrInvalidExperienceBracket
	}
	return nil
}
