package relationships

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/picshare/backend/internal/logging"
	"github.com/picshare/backend/internal/models"
	"github.com/picshare/backend/internal/repositories"
)

// FollowResult reports the outcome of a follow attempt.
type FollowResult struct {
	Success          bool
	Status           models.RelationshipStatus
	RequiresApproval bool
	Message          string
}

// Service is the relationship graph engine. It owns the follow workflow,
// restriction enforcement, close-friends membership, and the privacy-gated
// list reads; all durable state lives behind the store interfaces.
type Service struct {
	Graph    GraphStore
	Accounts AccountStore
	Privacy  PrivacyStore
	NowFunc  func() time.Time
}

// NewService wires the engine over its stores.
func NewService(graph GraphStore, accounts AccountStore, privacy PrivacyStore) *Service {
	return &Service{Graph: graph, Accounts: accounts, Privacy: privacy}
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}

// FollowUser follows a public target immediately or files a pending request
// against a private one. Duplicate attempts surface as typed failures, and
// the store's uniqueness constraints guarantee the same answer under
// concurrent calls for the same pair.
func (s *Service) FollowUser(ctx context.Context, followerID, targetID string) (FollowResult, error) {
	ctx, span := logging.StartSpan(ctx, "relationships.follow")
	defer span.End()

	if followerID == targetID {
		return FollowResult{}, ErrSelfReference
	}

	target, err := s.Accounts.Find(ctx, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return FollowResult{}, ErrNotFound
		}
		return FollowResult{}, fmt.Errorf("find target account: %w", err)
	}

	state, err := s.Graph.PairState(ctx, followerID, targetID)
	if err != nil {
		return FollowResult{}, fmt.Errorf("load pair state: %w", err)
	}

	switch {
	case state.BlockedByViewer || state.BlockedBySubject:
		return FollowResult{}, ErrBlocked
	case state.ViewerFollowsSubject:
		return FollowResult{}, ErrAlreadyFollowing
	case state.PendingFromViewer:
		return FollowResult{}, ErrDuplicateRequest
	}

	if target.IsPrivate {
		request := models.FollowRequest{
			ID:          uuid.NewString(),
			RequesterID: followerID,
			TargetID:    targetID,
			Status:      models.RequestStatusPending,
			CreatedAt:   s.now(),
		}
		if err := s.Graph.CreateRequest(ctx, request); err != nil {
			switch {
			case errors.Is(err, repositories.ErrConflict):
				return FollowResult{}, ErrDuplicateRequest
			case errors.Is(err, repositories.ErrNotFound):
				return FollowResult{}, ErrNotFound
			}
			return FollowResult{}, fmt.Errorf("create follow request: %w", err)
		}
		return FollowResult{
			Success:          true,
			Status:           models.StatusFollowRequestSent,
			RequiresApproval: true,
			Message:          "follow request sent",
		}, nil
	}

	mutual, err := s.Graph.CreateEdge(ctx, followerID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			return FollowResult{}, ErrAlreadyFollowing
		case errors.Is(err, repositories.ErrNotFound):
			return FollowResult{}, ErrNotFound
		}
		return FollowResult{}, fmt.Errorf("create follow edge: %w", err)
	}

	result := FollowResult{Success: true, Status: models.StatusFollowing, Message: "now following"}
	if mutual {
		result.Status = models.StatusMutualFollowers
		result.Message = "now following each other"
	}
	return result, nil
}

// UnfollowUser removes the follower->target edge and cancels any pending
// request in that direction. Calling it with nothing to remove is not an
// error.
func (s *Service) UnfollowUser(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrSelfReference
	}

	if err := s.Graph.DeleteEdge(ctx, followerID, targetID); err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}

	err := s.Graph.CloseRequest(ctx, followerID, targetID, models.RequestStatusCancelled)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("cancel pending request: %w", err)
	}
	return nil
}

// AcceptFollowRequest converts the pending requester->owner request into a
// follow edge. The flip and the edge insert happen in one transaction.
func (s *Service) AcceptFollowRequest(ctx context.Context, ownerID, requesterID string) error {
	ctx, span := logging.StartSpan(ctx, "relationships.accept_request")
	defer span.End()

	if ownerID == requesterID {
		return ErrSelfReference
	}

	if err := s.Graph.AcceptRequest(ctx, requesterID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("accept follow request: %w", err)
	}
	return nil
}

// RejectFollowRequest marks the pending requester->owner request rejected.
// Only the recipient may reject: if the only pending request runs the other
// way, the caller is the requester and gets ErrPermissionDenied.
func (s *Service) RejectFollowRequest(ctx context.Context, ownerID, requesterID string) error {
	if ownerID == requesterID {
		return ErrSelfReference
	}

	state, err := s.Graph.PairState(ctx, ownerID, requesterID)
	if err != nil {
		return fmt.Errorf("load pair state: %w", err)
	}
	if !state.PendingFromSubject {
		if state.PendingFromViewer {
			return ErrPermissionDenied
		}
		return ErrNotFound
	}

	if err := s.Graph.CloseRequest(ctx, requesterID, ownerID, models.RequestStatusRejected); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("reject follow request: %w", err)
	}
	return nil
}

// CancelFollowRequest withdraws the pending requester->target request. Only
// the requester may cancel; the recipient gets ErrPermissionDenied.
func (s *Service) CancelFollowRequest(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return ErrSelfReference
	}

	state, err := s.Graph.PairState(ctx, requesterID, targetID)
	if err != nil {
		return fmt.Errorf("load pair state: %w", err)
	}
	if !state.PendingFromViewer {
		if state.PendingFromSubject {
			return ErrPermissionDenied
		}
		return ErrNotFound
	}

	if err := s.Graph.CloseRequest(ctx, requesterID, targetID, models.RequestStatusCancelled); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("cancel follow request: %w", err)
	}
	return nil
}

// GetRelationshipStatus resolves the authoritative status for an ordered
// pair. A pair with itself is NO_RELATION without touching storage.
func (s *Service) GetRelationshipStatus(ctx context.Context, viewerID, subjectID string) (models.RelationshipStatus, error) {
	if viewerID == subjectID {
		return models.StatusNoRelation, nil
	}

	state, err := s.Graph.PairState(ctx, viewerID, subjectID)
	if err != nil {
		return models.StatusNoRelation, fmt.Errorf("load pair state: %w", err)
	}
	return resolveStatus(state), nil
}

// BlockUser severs the relationship in both directions and records the
// block, as one atomic unit. Blocking an already-blocked account succeeds.
func (s *Service) BlockUser(ctx context.Context, blockerID, blockedID string) error {
	ctx, span := logging.StartSpan(ctx, "relationships.block")
	defer span.End()

	if blockerID == blockedID {
		return ErrSelfReference
	}

	if err := s.Graph.ApplyBlock(ctx, blockerID, blockedID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("apply block: %w", err)
	}
	return nil
}

// UnblockUser removes only the blocked restriction. Prior follow state is
// gone for good; unblocking does not restore it.
func (s *Service) UnblockUser(ctx context.Context, blockerID, blockedID string) error {
	return s.removeRestriction(ctx, blockerID, blockedID, models.RestrictionBlocked)
}

// RestrictUser dampens the subject's visibility without touching follow
// edges.
func (s *Service) RestrictUser(ctx context.Context, restricterID, restrictedID string) error {
	return s.addRestriction(ctx, restricterID, restrictedID, models.RestrictionRestricted)
}

// UnrestrictUser lifts a restriction. Idempotent.
func (s *Service) UnrestrictUser(ctx context.Context, restricterID, restrictedID string) error {
	return s.removeRestriction(ctx, restricterID, restrictedID, models.RestrictionRestricted)
}

// MuteUser silences the subject for the muter without touching follow edges.
func (s *Service) MuteUser(ctx context.Context, muterID, mutedID string) error {
	return s.addRestriction(ctx, muterID, mutedID, models.RestrictionMuted)
}

// UnmuteUser lifts a mute. Idempotent.
func (s *Service) UnmuteUser(ctx context.Context, muterID, mutedID string) error {
	return s.removeRestriction(ctx, muterID, mutedID, models.RestrictionMuted)
}

func (s *Service) addRestriction(ctx context.Context, restricterID, restrictedID, kind string) error {
	if restricterID == restrictedID {
		return ErrSelfReference
	}

	if err := s.Graph.AddRestriction(ctx, restricterID, restrictedID, kind); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("add %s restriction: %w", kind, err)
	}
	return nil
}

func (s *Service) removeRestriction(ctx context.Context, restricterID, restrictedID, kind string) error {
	if restricterID == restrictedID {
		return ErrSelfReference
	}

	if err := s.Graph.RemoveRestriction(ctx, restricterID, restrictedID, kind); err != nil {
		return fmt.Errorf("remove %s restriction: %w", kind, err)
	}
	return nil
}

// AddToCloseFriends adds the friend to the owner's close-friends list. The
// current resolved status must be FOLLOWING or MUTUAL_FOLLOWERS; an existing
// membership makes the call an idempotent success.
func (s *Service) AddToCloseFriends(ctx context.Context, ownerID, friendID string) error {
	if ownerID == friendID {
		return ErrSelfReference
	}

	state, err := s.Graph.PairState(ctx, ownerID, friendID)
	if err != nil {
		return fmt.Errorf("load pair state: %w", err)
	}

	switch resolveStatus(state) {
	case models.StatusCloseFriend:
		return nil
	case models.StatusFollowing, models.StatusMutualFollowers:
	default:
		return ErrPreconditionFailed
	}

	if err := s.Graph.AddCloseFriend(ctx, ownerID, friendID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("add close friend: %w", err)
	}
	return nil
}

// RemoveFromCloseFriends drops the membership. Idempotent.
func (s *Service) RemoveFromCloseFriends(ctx context.Context, ownerID, friendID string) error {
	if ownerID == friendID {
		return ErrSelfReference
	}

	if err := s.Graph.RemoveCloseFriend(ctx, ownerID, friendID); err != nil {
		return fmt.Errorf("remove close friend: %w", err)
	}
	return nil
}

// GetCloseFriends returns the owner's close-friends list, newest first.
// Only the owner can reach this; there is no privacy gate.
func (s *Service) GetCloseFriends(ctx context.Context, ownerID string) ([]models.Account, error) {
	friends, err := s.Graph.CloseFriends(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list close friends: %w", err)
	}
	return friends, nil
}

// GetFollowers lists accounts following the subject, newest relation first,
// gated by the subject's privacy settings. A denied viewer gets an empty
// list, not an error; the difference is deliberately not observable.
func (s *Service) GetFollowers(ctx context.Context, subjectID, viewerID string) ([]models.Account, error) {
	allowed, err := s.allowListRead(ctx, subjectID, viewerID, func(settings models.PrivacySettings) string {
		return settings.WhoCanSeeFollowers
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []models.Account{}, nil
	}

	followers, err := s.Graph.Followers(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return followers, nil
}

// GetFollowing lists accounts the subject follows, with the same gating as
// GetFollowers.
func (s *Service) GetFollowing(ctx context.Context, subjectID, viewerID string) ([]models.Account, error) {
	allowed, err := s.allowListRead(ctx, subjectID, viewerID, func(settings models.PrivacySettings) string {
		return settings.WhoCanSeeFollowing
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []models.Account{}, nil
	}

	following, err := s.Graph.Following(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return following, nil
}

func (s *Service) allowListRead(ctx context.Context, subjectID, viewerID string, visibility func(models.PrivacySettings) string) (bool, error) {
	if viewerID == subjectID {
		return true, nil
	}

	settings, err := s.Privacy.Get(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("load privacy settings: %w", err)
	}

	switch visibility(settings) {
	case models.VisibilityEveryone:
		return true, nil
	case models.VisibilityFollowers:
		status, err := s.GetRelationshipStatus(ctx, viewerID, subjectID)
		if err != nil {
			return false, err
		}
		return status == models.StatusFollowing || status == models.StatusMutualFollowers, nil
	default:
		return false, nil
	}
}

// GetMutualFollowers intersects the follower sets of both accounts. Callers
// are expected to have resolved list visibility for each account already.
func (s *Service) GetMutualFollowers(ctx context.Context, firstID, secondID string) ([]models.Account, error) {
	mutuals, err := s.Graph.MutualFollowers(ctx, firstID, secondID)
	if err != nil {
		return nil, fmt.Errorf("list mutual followers: %w", err)
	}
	return mutuals, nil
}

// GetPendingFollowRequests lists requests awaiting the account's response,
// newest first, each with the requester's account summary.
func (s *Service) GetPendingFollowRequests(ctx context.Context, accountID string) ([]models.FollowRequestDetail, error) {
	requests, err := s.Graph.PendingRequestsFor(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list pending follow requests: %w", err)
	}
	return requests, nil
}

// GetSentFollowRequests lists the account's own outstanding requests, newest
// first, each with the target's account summary.
func (s *Service) GetSentFollowRequests(ctx context.Context, accountID string) ([]models.FollowRequestDetail, error) {
	requests, err := s.Graph.SentRequestsBy(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list sent follow requests: %w", err)
	}
	return requests, nil
}
