package repositories

import (
	"context"

	"github.com/picshare/backend/internal/models"
)

// AccountRepository defines read access to accounts owned by the identity
// subsystem. The relationship engine never writes accounts.
type AccountRepository interface {
	Find(ctx context.Context, id string) (models.Account, error)
}
