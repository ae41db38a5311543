package relationships

import (
	"context"

	"github.com/picshare/backend/internal/models"
)

// GraphStore is the persistence contract for the relationship graph. Pair
// uniqueness is enforced by the store itself (duplicate inserts surface
// repositories.ErrConflict), and the multi-step operations (AcceptRequest,
// ApplyBlock, CreateEdge with its reverse-edge read) are atomic.
type GraphStore interface {
	PairState(ctx context.Context, viewerID, subjectID string) (models.PairState, error)

	// CreateEdge inserts the follower->target edge and reports whether the
	// reverse edge exists, read within the same transaction.
	CreateEdge(ctx context.Context, followerID, targetID string) (mutual bool, err error)
	DeleteEdge(ctx context.Context, followerID, targetID string) error

	CreateRequest(ctx context.Context, request models.FollowRequest) error
	// AcceptRequest marks the pending requester->owner request accepted and
	// creates the follow edge in one transaction.
	AcceptRequest(ctx context.Context, requesterID, ownerID string) error
	// CloseRequest marks the pending requester->target request with the
	// given terminal status. Returns repositories.ErrNotFound when no
	// pending request exists.
	CloseRequest(ctx context.Context, requesterID, targetID, status string) error

	// ApplyBlock removes edges, pending requests, and close-friend entries
	// in both directions and inserts the blocked restriction, all in one
	// transaction.
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

// AccountStore reads account records owned by the identity subsystem.
type AccountStore interface {
	Find(ctx context.Context, id string) (models.Account, error)
}

// PrivacyStore resolves per-account privacy settings, creating the default
// record on first access.
type PrivacyStore interface {
	Get(ctx context.Context, accountID string) (models.PrivacySettings, error)
}
