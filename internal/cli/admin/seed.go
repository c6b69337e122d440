package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/database"
	"github.com/parleyhq/parley/internal/domain"
	"github.com/parleyhq/parley/internal/repository"
	"github.com/parleyhq/parley/internal/service"
	"github.com/spf13/cobra"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample advisors",
		Long:  "Insert a small set of sample advisor profiles for local development",
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	advisorRepo := repository.NewAdvisorRepository(pool)
	selectionRepo := repository.NewSelectionRepository(pool)
	svc := service.NewDiscoveryService(advisorRepo, selectionRepo, nil)

	for _, advisor := range sampleAdvisors() {
		if err := svc.CreateAdvisor(ctx, advisor); err != nil {
			return fmt.Errorf("failed to seed advisor %s: %w", advisor.DisplayName(), err)
		}
		log.Printf("seeded advisor %s (%s)", advisor.DisplayName(), advisor.ID)
	}

	return nil
}

func sampleAdvisors() []*domain.AdvisorProfile {
	return []*domain.AdvisorProfile{
		{
			FirstName:   "Maya",
			LastName:    "Torres",
			PersonaName: "The Growth Oracle",
			Category:    "growth",
			Tags:        []string{"marketing", "startups"},
			Featured:    true,
			Public:      true,
			Status:      domain.AdvisorStatusActive,
			Persona: domain.Persona{
				Title:       "Growth Advisor",
				Description: "Helps early-stage teams find repeatable acquisition channels.",
				OneLiner:    "Growth without the guesswork.",
				Specialties: []string{"growth", "fundraising"},
				Expertise:   []string{"b2b saas", "plg"},
				Experience:  "10 years",
			},
		},
		{
			FirstName: "Jordan",
			LastName:  "Lee",
			Category:  "engineering",
			Tags:      []string{"architecture", "golang"},
			Public:    true,
			Status:    domain.AdvisorStatusActive,
			Persona: domain.Persona{
				Title:       "Staff Engineer",
				Description: "Pragmatic systems design for teams shipping under pressure.",
				OneLiner:    "Ship the boring version first.",
				Specialties: []string{"distributed systems", "apis"},
				Expertise:   []string{"go", "postgres"},
				Experience:  "8 years",
			},
		},
		{
			FirstName: "Priya",
			LastName:  "Nair",
			Category:  "finance",
			Tags:      []string{"fundraising"},
			Public:    true,
			Status:    domain.AdvisorStatusActive,
			Persona: domain.Persona{
				Title:       "Fractional CFO",
				Description: "Financial models founders can actually maintain.",
				OneLiner:    "Know your runway.",
				Specialties: []string{"fundraising", "budgeting"},
				Expertise:   []string{"seed", "series a"},
				Experience:  "entry level",
			},
		},
	}
}
