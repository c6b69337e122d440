package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/parleyhq/parley/internal/api"
	"github.com/parleyhq/parley/internal/api/middleware"
	"github.com/parleyhq/parley/internal/discovery"
	"github.com/parleyhq/parley/internal/domain"
	"github.com/parleyhq/parley/internal/service"
)

type DiscoveryService interface {
	ListAdvisors(ctx context.Context, input service.ListAdvisorsInput) (*service.ListAdvisorsOutput, error)
	Search(ctx context.Context, input service.SearchInput) ([]*discovery.RankedResult, error)
	Suggest(ctx context.Context, input service.SuggestInput) ([]*discovery.RankedResult, error)
	Popular(ctx context.Context, input service.PopularInput) ([]*discovery.RankedResult, error)
	GetByID(ctx context.Context, id string) (*domain.AdvisorProfile, error)
	Select(ctx context.Context, input service.SelectInput) (*domain.SelectionEvent, error)
}

type AdvisorHandler struct {
	svc DiscoveryService
}

func NewAdvisorHandler(svc DiscoveryService) *AdvisorHandler {
	return &AdvisorHandler{svc: svc}
}

type SearchAdvisorsRequest struct {
	Query      string   `json:"query"`
	Category   string   `json:"category"`
	Featured   *bool    `json:"featured"`
	Tags       []string `json:"tags"`
	TeamID     string   `json:"team_id"`
	Experience string   `json:"experience"`
	Sort       string   `json:"sort"`
	Limit      int      `json:"limit"`
}

type SelectAdvisorRequest struct {
	Source string `json:"source"`
}

type AdvisorResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags,omitempty"`
	Featured        bool     `json:"featured"`
	Title           string   `json:"title,omitempty"`
	OneLiner        string   `json:"one_liner,omitempty"`
	Description     string   `json:"description,omitempty"`
	Specialties     []string `json:"specialties,omitempty"`
	Expertise       []string `json:"expertise,omitempty"`
	ExperienceYears int      `json:"experience_years"`
	CreatedAt       string   `json:"created_at"`
}

type SearchResultResponse struct {
	AdvisorResponse
	RelevanceScore float64 `json:"relevance_score"`
}

type SuggestionResponse struct {
	AdvisorResponse
	SuggestionScore float64 `json:"suggestion_score"`
}

type PopularResponse struct {
	AdvisorResponse
	TotalSelections  int `json:"total_selections"`
	RecentSelections int `json:"recent_selections"`
}

type ListAdvisorsResponse struct {
	Items   []*AdvisorResponse `json:"items"`
	Cursor  string             `json:"cursor,omitempty"`
	HasMore bool               `json:"has_more"`
}

type SelectionResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	AdvisorID string `json:"advisor_id"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at"`
}

func advisorToResponse(p *domain.AdvisorProfile) AdvisorResponse {
	return AdvisorResponse{
		ID:              p.ID,
		Name:            p.DisplayName(),
		Category:        p.CategoryKey(),
		Tags:            p.Tags,
		Featured:        p.Featured,
		Title:           p.Persona.Title,
		OneLiner:        p.Persona.OneLiner,
		Description:     p.Persona.Description,
		Specialties:     p.Persona.Specialties,
		Expertise:       p.Persona.Expertise,
		ExperienceYears: p.ExperienceYears(),
		CreatedAt:       p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// List handles GET /advisors with optional filter query parameters.
func (h *AdvisorHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	input := service.ListAdvisorsInput{
		Category: q.Get("category"),
		Featured: parseBoolPtr(q.Get("featured")),
		Tags:     parseTags(q.Get("tags")),
		TeamID:   q.Get("team_id"),
		Bracket:  domain.ExperienceBracket(q.Get("experience")),
		Limit:    limit,
		Cursor:   q.Get("cursor"),
	}

	out, err := h.svc.ListAdvisors(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*AdvisorResponse, 0, len(out.Items))
	for _, res := range out.Items {
		resp := advisorToResponse(res.Profile)
		items = append(items, &resp)
	}

	api.Success(w, http.StatusOK, ListAdvisorsResponse{
		Items:   items,
		Cursor:  out.Cursor,
		HasMore: out.HasMore,
	})
}

// Get handles GET /advisors/{id}.
func (h *AdvisorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	advisor, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if !advisor.Visible() {
		api.HandleError(w, domain.ErrAdvisorNotFound)
		return
	}

	api.Success(w, http.StatusOK, advisorToResponse(advisor))
}

// Search handles POST /advisors/search.
func (h *AdvisorHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchAdvisorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.svc.Search(r.Context(), service.SearchInput{
		Text:     req.Query,
		Category: req.Category,
		Featured: req.Featured,
		Tags:     req.Tags,
		TeamID:   req.TeamID,
		Bracket:  domain.ExperienceBracket(req.Experience),
		Sort:     discovery.SortStrategy(req.Sort),
		Limit:    req.Limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*SearchResultResponse, 0, len(results))
	for _, res := range results {
		out = append(out, &SearchResultResponse{
			AdvisorResponse: advisorToResponse(res.Profile),
			RelevanceScore:  res.Score,
		})
	}
	api.Success(w, http.StatusOK, out)
}

// Suggested handles GET /advisors/suggested.
func (h *AdvisorHandler) Suggested(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	excludeSelected := true
	if v := q.Get("exclude_selected"); v != "" {
		excludeSelected = v != "false"
	}

	results, err := h.svc.Suggest(r.Context(), service.SuggestInput{
		UserID:          middleware.GetUserID(r.Context()),
		Limit:           limit,
		ExcludeSelected: excludeSelected,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*SuggestionResponse, 0, len(results))
	for _, res := range results {
		out = append(out, &SuggestionResponse{
			AdvisorResponse: advisorToResponse(res.Profile),
			SuggestionScore: res.Score,
		})
	}
	api.Success(w, http.StatusOK, out)
}

// Popular handles GET /advisors/popular.
func (h *AdvisorHandler) Popular(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	results, err := h.svc.Popular(r.Context(), service.PopularInput{
		Frame: discovery.TimeFrame(q.Get("timeframe")),
		Limit: limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*PopularResponse, 0, len(results))
	for _, res := range results {
		out = append(out, &PopularResponse{
			AdvisorResponse:  advisorToResponse(res.Profile),
			TotalSelections:  res.TotalSelections,
			RecentSelections: res.RecentSelections,
		})
	}
	api.Success(w, http.StatusOK, out)
}

// Select handles POST /advisors/{id}/selections.
func (h *AdvisorHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusBadRequest, "user identity is required")
		return
	}

	var req SelectAdvisorRequest
	if r.Body != nil {
		// The body is optional; source defaults to empty.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	event, err := h.svc.Select(r.Context(), service.SelectInput{
		UserID:    userID,
		AdvisorID: id,
		Source:    req.Source,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, SelectionResponse{
		ID:        event.ID,
		UserID:    event.UserID,
		AdvisorID: event.AdvisorID,
		Source:    event.Source,
		CreatedAt: event.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, domain.ErrInvalidLimit
	}
	return limit, nil
}

func parseBoolPtr(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
