package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
)

// dashboardSources maps each variant to the backend resources it shows.
var dashboardSources = map[domain.Variant]map[string]string{
	domain.VariantAdmin: {
		"stats":   "/roles/admin/dashboard/stats",
		"users":   "/users",
		"courses": "/courses",
		"tests":   "/tests",
	},
	domain.VariantSupervisor: {
		"users":   "/users",
		"courses": "/courses",
		"tests":   "/tests",
	},
	domain.VariantNormal: {
		"stats":   "/users/dashboard/stats",
		"courses": "/courses/user",
		"results": "/tests/results",
	},
}

type dashboardService struct {
	api ports.APIClient
}

// NewDashboardService returns a DashboardService that fetches every resource
// of a variant concurrently. Payloads are passed through untouched.
func NewDashboardService(api ports.APIClient) ports.DashboardService {
	return &dashboardService{api: api}
}

// Load fails with the first error; a session expiry on any resource therefore
// surfaces as domain.ErrSessionExpired.
func (s *dashboardService) Load(ctx context.Context, variant domain.Variant) (*domain.Dashboard, error) {
	sources, ok := dashboardSources[variant]
	if !ok {
		sources = dashboardSources[domain.VariantNormal]
		variant = domain.VariantNormal
	}

	var mu sync.Mutex
	resources := make(map[string]json.RawMessage, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for name, path := range sources {
		g.Go(func() error {
			var payload json.RawMessage
			if err := s.api.Do(gctx, http.MethodGet, path, nil, &payload); err != nil {
				return fmt.Errorf("dashboard %s: %w", name, err)
			}
			mu.Lock()
			resources[name] = payload
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Dashboard{Variant: variant, Resources: resources}, nil
}
