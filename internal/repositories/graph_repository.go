package repositories

import (
	"context"

	"github.com/picshare/backend/internal/models"
)

// GraphRepository defines data access for the relationship graph: follow
// edges, follow requests, restrictions, and close-friend entries. Duplicate
// inserts against a uniqueness constraint surface ErrConflict; multi-step
// operations run inside a single transaction.
type GraphRepository interface {
	PairState(ctx context.Context, viewerID, subjectID string) (models.PairState, error)

	CreateEdge(ctx context.Context, followerID, targetID string) (mutual bool, err error)
	DeleteEdge(ctx context.Context, followerID, targetID string) error

	CreateRequest(ctx context.Context, request models.FollowRequest) error
	AcceptRequest(ctx context.Context, requesterID, ownerID string) error
	CloseRequest(ctx context.Context, requesterID, targetID, status string) error

	ApplyBlock(ctx context.Context, blockerID, blockedID string) error
	AddRestriction(ctx context.Context, restricterID, restrictedID, kind string) error
	RemoveRestriction(ctx context.Context, restricterID, restrictedID, kind string) error

	AddCloseFriend(ctx context.Context, ownerID, friendID string) error
	RemoveCloseFriend(ctx context.Context, ownerID, friendID string) error
	CloseFriends(ctx context.Context, ownerID string) ([]models.Account, error)

	Followers(ctx context.Context, accountID string) ([]models.Account, error)
	Following(ctx context.Context, accountID string) ([]models.Account, error)
	MutualFollowers(ctx context.Context, firstID, secondID string) ([]models.Account, error)

	PendingRequestsFor(ctx context.Context, accountID string) ([]models.FollowRequestDetail, error)
	SentRequestsBy(ctx context.Context, accountID string) ([]models.FollowRequestDetail, error)
}
