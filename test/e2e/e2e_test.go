//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/parleyhq/parley/internal/api/handlers"
	"github.com/parleyhq/parley/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_Discovery(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	t.Run("EmptyCatalog", func(t *testing.T) {
		resp, err := env.Get("/advisors", "")
		require.NoError(t, err)

		var page handlers.ListAdvisorsResponse
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		assert.Empty(t, page.Items)
		assert.False(t, page.HasMore)
	})

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		i := i
		env.SeedAdvisor(func(a *domain.AdvisorProfile) {
			a.FirstName = fmt.Sprintf("Advisor%d", i)
			a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		})
	}

	oracle := env.SeedAdvisor(func(a *domain.AdvisorProfile) {
		a.PersonaName = "The Growth Oracle"
		a.Category = "growth"
		a.Featured = true
		a.Persona.Specialties = []string{"growth", "fundraising"}
		a.Persona.Experience = "10 years"
		a.CreatedAt = base.Add(24 * time.Hour)
	})

	hidden := env.SeedAdvisor(func(a *domain.AdvisorProfile) {
		a.Public = false
	})

	t.Run("ListPagination", func(t *testing.T) {
		resp, err := env.Get("/advisors?limit=4", "")
		require.NoError(t, err)

		var page1 handlers.ListAdvisorsResponse
		require.NoError(t, json.Unmarshal(resp.Data, &page1))
		require.Len(t, page1.Items, 4)
		assert.True(t, page1.HasMore)
		require.NotEmpty(t, page1.Cursor)
		assert.Equal(t, oracle.ID, page1.Items[0].ID)

		resp, err = env.Get("/advisors?limit=4&cursor="+url.QueryEscape(page1.Cursor), "")
		require.NoError(t, err)

		var page2 handlers.ListAdvisorsResponse
		require.NoError(t, json.Unmarshal(resp.Data, &page2))
		require.Len(t, page2.Items, 2)
		assert.False(t, page2.HasMore)

		for _, item := range append(page1.Items, page2.Items...) {
			assert.NotEqual(t, hidden.ID, item.ID)
		}
	})

	t.Run("GetByID", func(t *testing.T) {
		resp, err := env.Get("/advisors/"+oracle.ID, "")
		require.NoError(t, err)

		var advisor handlers.AdvisorResponse
		require.NoError(t, json.Unmarshal(resp.Data, &advisor))
		assert.Equal(t, "The Growth Oracle", advisor.Name)
		assert.Equal(t, 10, advisor.ExperienceYears)
	})

	t.Run("HiddenAdvisorNotFound", func(t *testing.T) {
		_, err := env.Get("/advisors/"+hidden.ID, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("SearchRelevance", func(t *testing.T) {
		resp, err := env.Post("/advisors/search", handlers.SearchAdvisorsRequest{Query: "growth oracle"}, "")
		require.NoError(t, err)

		var results []handlers.SearchResultResponse
		require.NoError(t, json.Unmarshal(resp.Data, &results))
		require.NotEmpty(t, results)
		assert.Equal(t, oracle.ID, results[0].ID)
		assert.Greater(t, results[0].RelevanceScore, 0.0)
	})

	t.Run("SelectRequiresUser", func(t *testing.T) {
		_, err := env.Post("/advisors/"+oracle.ID+"/selections", nil, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("SelectThenSuggestedExcludes", func(t *testing.T) {
		resp, err := env.Post("/advisors/"+oracle.ID+"/selections",
			handlers.SelectAdvisorRequest{Source: "search"}, "u-1")
		require.NoError(t, err)

		var selection handlers.SelectionResponse
		require.NoError(t, json.Unmarshal(resp.Data, &selection))
		assert.Equal(t, oracle.ID, selection.AdvisorID)
		assert.Equal(t, "u-1", selection.UserID)

		resp, err = env.Get("/advisors/suggested", "u-1")
		require.NoError(t, err)

		var suggestions []handlers.SuggestionResponse
		require.NoError(t, json.Unmarshal(resp.Data, &suggestions))
		for _, s := range suggestions {
			assert.NotEqual(t, oracle.ID, s.ID)
		}
	})

	t.Run("PopularReflectsSelections", func(t *testing.T) {
		resp, err := env.Get("/advisors/popular?timeframe=week", "")
		require.NoError(t, err)

		var popular []handlers.PopularResponse
		require.NoError(t, json.Unmarshal(resp.Data, &popular))
		require.NotEmpty(t, popular)
		assert.Equal(t, oracle.ID, popular[0].ID)
		assert.Equal(t, 1, popular[0].TotalSelections)
		assert.Equal(t, 1, popular[0].RecentSelections)
	})

	t.Run("ChatNotConfigured", func(t *testing.T) {
		_, err := env.Post("/advisors/"+oracle.ID+"/chat",
			handlers.ChatRequest{Message: "hello"}, "u-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "501")
	})
}
