package ports

import (
	"context"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// PackageRepository defines read access to the service-plan catalog.
// Packages are seeded once at startup and never updated through this core.
type PackageRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Package, error)
	List(ctx context.Context) ([]domain.Package, error)
	// Seed inserts the catalog entries that do not exist yet. Idempotent.
	Seed(ctx context.Context, packages []domain.Package) error
}
