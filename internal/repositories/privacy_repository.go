package repositories

import (
	"context"

	"github.com/picshare/backend/internal/models"
)

// PrivacyRepository resolves per-account privacy settings. Get creates the
// default record on first access, guarded by the primary-key constraint so
// concurrent first reads converge on one row.
type PrivacyRepository interface {
	Get(ctx context.Context, accountID string) (models.PrivacySettings, error)
}
