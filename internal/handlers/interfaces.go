package handlers

import (
	"context"

	"github.com/picshare/backend/internal/models"
	"github.com/picshare/backend/internal/relationships"
)

// FollowService captures the follow workflow operations required by the
// follow handlers.
type FollowService interface {
	FollowUser(ctx context.Context, followerID, targetID string) (relationships.FollowResult, error)
	UnfollowUser(ctx context.Context, followerID, targetID string) error
}

// FollowRequestService captures the pending-request operations used by the
// request handlers.
type FollowRequestService interface {
	AcceptFollowRequest(ctx context.Context, ownerID, requesterID string) error
	RejectFollowRequest(ctx context.Context, ownerID, requesterID string) error
	CancelFollowRequest(ctx context.Context, requesterID, targetID string) error
	GetPendingFollowRequests(ctx context.Context, accountID string) ([]models.FollowRequestDetail, error)
	GetSentFollowRequests(ctx context.Context, accountID string) ([]models.FollowRequestDetail, error)
}

// StatusService resolves the relationship status for an ordered pair.
type StatusService interface {
	GetRelationshipStatus(ctx context.Context, viewerID, subjectID string) (models.RelationshipStatus, error)
}

// ListService captures the privacy-gated list reads.
type ListService interface {
	GetFollowers(ctx context.Context, subjectID, viewerID string) ([]models.Account, error)
	GetFollowing(ctx context.Context, subjectID, viewerID string) ([]models.Account, error)
	GetMutualFollowers(ctx context.Context, firstID, secondID string) ([]models.Account, error)
}

// ModerationService captures block, restrict, and mute enforcement.
type ModerationService interface {
	BlockUser(ctx context.Context, blockerID, blockedID string) error
	UnblockUser(ctx context.Context, blockerID, blockedID string) error
	RestrictUser(ctx context.Context, restricterID, restrictedID string) error
	UnrestrictUser(ctx context.Context, restricterID, restrictedID string) error
	MuteUser(ctx context.Context, muterID, mutedID string) error
	UnmuteUser(ctx context.Context, muterID, mutedID string) error
}

// CloseFriendService captures close-friends membership management.
type CloseFriendService interface {
	AddToCloseFriends(ctx context.Context, ownerID, friendID string) error
	RemoveFromCloseFriends(ctx context.Context, ownerID, friendID string) error
	GetCloseFriends(ctx context.Context, ownerID string) ([]models.Account, error)
}
