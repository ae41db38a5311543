package relationships

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/picshare/backend/internal/models"
	"github.com/picshare/backend/internal/repositories"
)

// memoryStore implements GraphStore, AccountStore, and PrivacyStore with the
// same uniqueness and transactional semantics the PostgreSQL repositories
// provide.
type memoryStore struct {
	accounts     map[string]models.Account
	edges        map[string]time.Time
	requests     []*models.FollowRequest
	restrictions map[string]time.Time
	closeFriends map[string]time.Time
	privacy      map[string]models.PrivacySettings
	clock        time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts:     make(map[string]models.Account),
		edges:        make(map[string]time.Time),
		restrictions: make(map[string]time.Time),
		closeFriends: make(map[string]time.Time),
		privacy:      make(map[string]models.PrivacySettings),
		clock:        time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) addAccount(id string, private bool) {
	m.accounts[id] = models.Account{ID: id, Username: id, IsPrivate: private, CreatedAt: m.tick()}
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func pairKey(a, b string) string { return a + "|" + b }

func (m *memoryStore) pending(requesterID, targetID string) *models.FollowRequest {
	for _, req := range m.requests {
		if req.RequesterID == requesterID && req.TargetID == targetID && req.Status == models.RequestStatusPending {
			return req
		}
	}
	return nil
}

func (m *memoryStore) PairState(_ context.Context, viewerID, subjectID string) (models.PairState, error) {
	hasRestriction := func(a, b, kind string) bool {
		_, ok := m.restrictions[pairKey(a, b)+"|"+kind]
		return ok
	}
	_, edgeVS := m.edges[pairKey(viewerID, subjectID)]
	_, edgeSV := m.edges[pairKey(subjectID, viewerID)]
	_, closeFriend := m.closeFriends[pairKey(viewerID, subjectID)]

	return models.PairState{
		BlockedByViewer:      hasRestriction(viewerID, subjectID, models.RestrictionBlocked),
		BlockedBySubject:     hasRestriction(subjectID, viewerID, models.RestrictionBlocked),
		RestrictedByViewer:   hasRestriction(viewerID, subjectID, models.RestrictionRestricted),
		MutedByViewer:        hasRestriction(viewerID, subjectID, models.RestrictionMuted),
		CloseFriendOfViewer:  closeFriend,
		PendingFromViewer:    m.pending(viewerID, subjectID) != nil,
		PendingFromSubject:   m.pending(subjectID, viewerID) != nil,
		ViewerFollowsSubject: edgeVS,
		SubjectFollowsViewer: edgeSV,
	}, nil
}

func (m *memoryStore) CreateEdge(_ context.Context, followerID, targetID string) (bool, error) {
	key := pairKey(followerID, targetID)
	if _, ok := m.edges[key]; ok {
		return false, repositories.ErrConflict
	}
	m.edges[key] = m.tick()
	_, mutual := m.edges[pairKey(targetID, followerID)]
	return mutual, nil
}

func (m *memoryStore) DeleteEdge(_ context.Context, followerID, targetID string) error {
	delete(m.edges, pairKey(followerID, targetID))
	return nil
}

func (m *memoryStore) CreateRequest(_ context.Context, request models.FollowRequest) error {
	if m.pending(request.RequesterID, request.TargetID) != nil {
		return repositories.ErrConflict
	}
	stored := request
	m.requests = append(m.requests, &stored)
	return nil
}

func (m *memoryStore) AcceptRequest(_ context.Context, requesterID, ownerID string) error {
	req := m.pending(requesterID, ownerID)
	if req == nil {
		return repositories.ErrNotFound
	}
	now := m.tick()
	req.Status = models.RequestStatusAccepted
	req.RespondedAt = &now
	m.edges[pairKey(requesterID, ownerID)] = m.tick()
	return nil
}

func (m *memoryStore) CloseRequest(_ context.Context, requesterID, targetID, status string) error {
	req := m.pending(requesterID, targetID)
	if req == nil {
		return repositories.ErrNotFound
	}
	now := m.tick()
	req.Status = status
	req.RespondedAt = &now
	return nil
}

func (m *memoryStore) ApplyBlock(_ context.Context, blockerID, blockedID string) error {
	delete(m.edges, pairKey(blockerID, blockedID))
	delete(m.edges, pairKey(blockedID, blockerID))
	for _, pair := range [][2]string{{blockerID, blockedID}, {blockedID, blockerID}} {
		if req := m.pending(pair[0], pair[1]); req != nil {
			now := m.tick()
			req.Status = models.RequestStatusCancelled
			req.RespondedAt = &now
		}
	}
	delete(m.closeFriends, pairKey(blockerID, blockedID))
	delete(m.closeFriends, pairKey(blockedID, blockerID))
	key := pairKey(blockerID, blockedID) + "|" + models.RestrictionBlocked
	if _, ok := m.restrictions[key]; !ok {
		m.restrictions[key] = m.tick()
	}
	return nil
}

func (m *memoryStore) AddRestriction(_ context.Context, restricterID, restrictedID, kind string) error {
	key := pairKey(restricterID, restrictedID) + "|" + kind
	if _, ok := m.restrictions[key]; !ok {
		m.restrictions[key] = m.tick()
	}
	return nil
}

func (m *memoryStore) RemoveRestriction(_ context.Context, restricterID, restrictedID, kind string) error {
	delete(m.restrictions, pairKey(restricterID, restrictedID)+"|"+kind)
	return nil
}

func (m *memoryStore) AddCloseFriend(_ context.Context, ownerID, friendID string) error {
	key := pairKey(ownerID, friendID)
	if _, ok := m.closeFriends[key]; !ok {
		m.closeFriends[key] = m.tick()
	}
	return nil
}

func (m *memoryStore) RemoveCloseFriend(_ context.Context, ownerID, friendID string) error {
	delete(m.closeFriends, pairKey(ownerID, friendID))
	return nil
}

type timedAccount struct {
	account models.Account
	at      time.Time
}

func sortNewestFirst(entries []timedAccount) []models.Account {
	sort.Slice(entries, func(i, j int) bool { return entries[i].at.After(entries[j].at) })
	accounts := make([]models.Account, 0, len(entries))
	for _, entry := range entries {
		accounts = append(accounts, entry.account)
	}
	return accounts
}

func (m *memoryStore) CloseFriends(_ context.Context, ownerID string) ([]models.Account, error) {
	var entries []timedAccount
	for key, at := range m.closeFriends {
		if owner, friend, ok := splitPairKey(key); ok && owner == ownerID {
			entries = append(entries, timedAccount{m.accounts[friend], at})
		}
	}
	return sortNewestFirst(entries), nil
}

func (m *memoryStore) Followers(_ context.Context, accountID string) ([]models.Account, error) {
	var entries []timedAccount
	for key, at := range m.edges {
		if follower, target, ok := splitPairKey(key); ok && target == accountID {
			entries = append(entries, timedAccount{m.accounts[follower], at})
		}
	}
	return sortNewestFirst(entries), nil
}

func (m *memoryStore) Following(_ context.Context, accountID string) ([]models.Account, error) {
	var entries []timedAccount
	for key, at := range m.edges {
		if follower, target, ok := splitPairKey(key); ok && follower == accountID {
			entries = append(entries, timedAccount{m.accounts[target], at})
		}
	}
	return sortNewestFirst(entries), nil
}

func (m *memoryStore) MutualFollowers(ctx context.Context, firstID, secondID string) ([]models.Account, error) {
	followersOfSecond := make(map[string]struct{})
	for key := range m.edges {
		if follower, target, ok := splitPairKey(key); ok && target == secondID {
			followersOfSecond[follower] = struct{}{}
		}
	}

	var entries []timedAccount
	for key, at := range m.edges {
		follower, target, ok := splitPairKey(key)
		if !ok || target != firstID {
			continue
		}
		if _, both := followersOfSecond[follower]; both {
			entries = append(entries, timedAccount{m.accounts[follower], at})
		}
	}
	return sortNewestFirst(entries), nil
}

func (m *memoryStore) PendingRequestsFor(_ context.Context, accountID string) ([]models.FollowRequestDetail, error) {
	return m.requestDetails(accountID, false), nil
}

func (m *memoryStore) SentRequestsBy(_ context.Context, accountID string) ([]models.FollowRequestDetail, error) {
	return m.requestDetails(accountID, true), nil
}

func (m *memoryStore) requestDetails(accountID string, sent bool) []models.FollowRequestDetail {
	var details []models.FollowRequestDetail
	for _, req := range m.requests {
		if req.Status != models.RequestStatusPending {
			continue
		}
		switch {
		case sent && req.RequesterID == accountID:
			details = append(details, models.FollowRequestDetail{Request: *req, Account: m.accounts[req.TargetID]})
		case !sent && req.TargetID == accountID:
			details = append(details, models.FollowRequestDetail{Request: *req, Account: m.accounts[req.RequesterID]})
		}
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Request.CreatedAt.After(details[j].Request.CreatedAt)
	})
	return details
}

func splitPairKey(key string) (string, string, bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}

func (m *memoryStore) Find(_ context.Context, id string) (models.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return models.Account{}, repositories.ErrNotFound
	}
	return account, nil
}

func (m *memoryStore) Get(_ context.Context, accountID string) (models.PrivacySettings, error) {
	if _, ok := m.accounts[accountID]; !ok {
		return models.PrivacySettings{}, repositories.ErrNotFound
	}
	if settings, ok := m.privacy[accountID]; ok {
		return settings, nil
	}
	settings := models.PrivacySettings{
		AccountID:          accountID,
		WhoCanSeeFollowers: models.VisibilityEveryone,
		WhoCanSeeFollowing: models.VisibilityEveryone,
		UpdatedAt:          m.tick(),
	}
	m.privacy[accountID] = settings
	return settings, nil
}

func newTestService(store *memoryStore) *Service {
	svc := NewService(store, store, store)
	svc.NowFunc = store.tick
	return svc
}

func mustStatus(t *testing.T, svc *Service, viewerID, subjectID string, want models.RelationshipStatus) {
	t.Helper()
	got, err := svc.GetRelationshipStatus(context.Background(), viewerID, subjectID)
	if err != nil {
		t.Fatalf("resolve status (%s, %s): %v", viewerID, subjectID, err)
	}
	if got != want {
		t.Fatalf("expected status %s for (%s, %s), got %s", want, viewerID, subjectID, got)
	}
}

func TestFollowPublicAccount(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", false)
	svc := newTestService(store)

	result, err := svc.FollowUser(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if !result.Success || result.Status != models.StatusFollowing || result.RequiresApproval {
		t.Fatalf("unexpected result: %+v", result)
	}

	mustStatus(t, svc, "u1", "u2", models.StatusFollowing)
	mustStatus(t, svc, "u2", "u1", models.StatusFollower)

	result, err = svc.FollowUser(ctx, "u2", "u1")
	if err != nil {
		t.Fatalf("follow back: %v", err)
	}
	if result.Status != models.StatusMutualFollowers {
		t.Fatalf("expected mutual, got %s", result.Status)
	}

	mustStatus(t, svc, "u1", "u2", models.StatusMutualFollowers)
	mustStatus(t, svc, "u2", "u1", models.StatusMutualFollowers)
}

func TestFollowPrivateAccountCreatesRequest(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", true)
	svc := newTestService(store)

	result, err := svc.FollowUser(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("follow private: %v", err)
	}
	if result.Status != models.StatusFollowRequestSent || !result.RequiresApproval {
		t.Fatalf("unexpected result: %+v", result)
	}

	if len(store.edges) != 0 {
		t.Fatalf("expected no edge, got %d", len(store.edges))
	}
	if len(store.requests) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(store.requests))
	}

	mustStatus(t, svc, "u1", "u2", models.StatusFollowRequestSent)
	mustStatus(t, svc, "u2", "u1", models.StatusFollowRequestReceived)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
	if len(store.requests) != 1 {
		t.Fatalf("duplicate attempt must not add rows, got %d", len(store.requests))
	}
}

func TestFollowValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", false)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u1"); !errors.Is(err, ErrSelfReference) {
		t.Fatalf("expected ErrSelfReference, got %v", err)
	}
	if _, err := svc.FollowUser(ctx, "u1", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := svc.FollowUser(ctx, "u1", "u2"); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}

	if err := svc.BlockUser(ctx, "u2", "u1"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, err := svc.FollowUser(ctx, "u1", "u2"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked for blocked-by-target, got %v", err)
	}
	if _, err := svc.FollowUser(ctx, "u2", "u1"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked for blocker, got %v", err)
	}
}

func TestAcceptFollowRequest(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", true)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := svc.AcceptFollowRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	mustStatus(t, svc, "u1", "u2", models.StatusFollowing)

	if store.requests[0].Status != models.RequestStatusAccepted {
		t.Fatalf("expected request marked accepted, got %s", store.requests[0].Status)
	}
	if store.requests[0].RespondedAt == nil {
		t.Fatalf("expected respondedAt to be set")
	}

	if err := svc.AcceptFollowRequest(ctx, "u2", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second accept, got %v", err)
	}
}

func TestRejectAndCancelAuthorization(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", true)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	// The requester cannot reject their own request.
	if err := svc.RejectFollowRequest(ctx, "u1", "u2"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	// The recipient cannot cancel the requester's request.
	if err := svc.CancelFollowRequest(ctx, "u2", "u1"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	if err := svc.RejectFollowRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	mustStatus(t, svc, "u1", "u2", models.StatusNoRelation)
	if store.requests[0].Status != models.RequestStatusRejected {
		t.Fatalf("expected rejected, got %s", store.requests[0].Status)
	}

	if err := svc.RejectFollowRequest(ctx, "u2", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after reject, got %v", err)
	}

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow again: %v", err)
	}
	if err := svc.CancelFollowRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	mustStatus(t, svc, "u1", "u2", models.StatusNoRelation)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", false)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.UnfollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	mustStatus(t, svc, "u1", "u2", models.StatusNoRelation)

	if err := svc.UnfollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("second unfollow must not error: %v", err)
	}
}

func TestUnfollowCancelsPendingRequest(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", true)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.UnfollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}

	mustStatus(t, svc, "u1", "u2", models.StatusNoRelation)
	if store.requests[0].Status != models.RequestStatusCancelled {
		t.Fatalf("expected cancelled, got %s", store.requests[0].Status)
	}
}

func TestBlockScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", true)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow private: %v", err)
	}
	if err := svc.AcceptFollowRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	mustStatus(t, svc, "u1", "u2", models.StatusFollowing)

	result, err := svc.FollowUser(ctx, "u2", "u1")
	if err != nil {
		t.Fatalf("follow back: %v", err)
	}
	if result.Status != models.StatusMutualFollowers {
		t.Fatalf("expected mutual, got %s", result.Status)
	}

	if err := svc.AddToCloseFriends(ctx, "u1", "u2"); err != nil {
		t.Fatalf("add close friend: %v", err)
	}

	if err := svc.BlockUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("block: %v", err)
	}

	mustStatus(t, svc, "u1", "u2", models.StatusBlocked)
	mustStatus(t, svc, "u2", "u1", models.StatusBlocked)
	if len(store.edges) != 0 {
		t.Fatalf("expected all edges removed, got %d", len(store.edges))
	}
	if len(store.closeFriends) != 0 {
		t.Fatalf("expected close friends removed, got %d", len(store.closeFriends))
	}

	// Blocking again succeeds without changes.
	if err := svc.BlockUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("repeat block: %v", err)
	}

	if err := svc.UnblockUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	mustStatus(t, svc, "u1", "u2", models.StatusNoRelation)
	mustStatus(t, svc, "u2", "u1", models.StatusNoRelation)
}

func TestBlockCancelsPendingRequestsBothDirections(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", true)
	store.addAccount("u2", true)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow u1->u2: %v", err)
	}
	if _, err := svc.FollowUser(ctx, "u2", "u1"); err != nil {
		t.Fatalf("follow u2->u1: %v", err)
	}

	if err := svc.BlockUser(ctx, "u2", "u1"); err != nil {
		t.Fatalf("block: %v", err)
	}

	for _, req := range store.requests {
		if req.Status != models.RequestStatusCancelled {
			t.Fatalf("expected request %s->%s cancelled, got %s", req.RequesterID, req.TargetID, req.Status)
		}
	}
}

func TestRestrictAndMuteKeepFollowEdges(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", false)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := svc.RestrictUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("restrict: %v", err)
	}
	mustStatus(t, svc, "u1", "u2", models.StatusRestricted)
	if _, ok := store.edges[pairKey("u1", "u2")]; !ok {
		t.Fatalf("restrict must not remove the follow edge")
	}

	if err := svc.UnrestrictUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("unrestrict: %v", err)
	}
	if err := svc.MuteUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("mute: %v", err)
	}
	mustStatus(t, svc, "u1", "u2", models.StatusMuted)

	if err := svc.UnmuteUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("unmute: %v", err)
	}
	mustStatus(t, svc, "u1", "u2", models.StatusFollowing)

	if err := svc.MuteUser(ctx, "u1", "u1"); !errors.Is(err, ErrSelfReference) {
		t.Fatalf("expected ErrSelfReference, got %v", err)
	}
}

func TestCloseFriends(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", false)
	store.addAccount("u3", false)
	svc := newTestService(store)

	if err := svc.AddToCloseFriends(ctx, "u1", "u2"); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed without a follow, got %v", err)
	}

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.AddToCloseFriends(ctx, "u1", "u2"); err != nil {
		t.Fatalf("add close friend: %v", err)
	}
	// Re-adding an existing member succeeds silently.
	if err := svc.AddToCloseFriends(ctx, "u1", "u2"); err != nil {
		t.Fatalf("repeat add: %v", err)
	}

	// A muted account no longer resolves as following, so it cannot be
	// added to close friends until unmuted.
	if _, err := svc.FollowUser(ctx, "u1", "u3"); err != nil {
		t.Fatalf("follow u3: %v", err)
	}
	if err := svc.MuteUser(ctx, "u1", "u3"); err != nil {
		t.Fatalf("mute u3: %v", err)
	}
	if err := svc.AddToCloseFriends(ctx, "u1", "u3"); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed for muted account, got %v", err)
	}

	friends, err := svc.GetCloseFriends(ctx, "u1")
	if err != nil {
		t.Fatalf("list close friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != "u2" {
		t.Fatalf("unexpected close friends: %+v", friends)
	}

	if err := svc.RemoveFromCloseFriends(ctx, "u1", "u2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveFromCloseFriends(ctx, "u1", "u2"); err != nil {
		t.Fatalf("second remove must not error: %v", err)
	}
}

func TestCloseFriendSurvivesFriendUnfollowingOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", false)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := svc.FollowUser(ctx, "u2", "u1"); err != nil {
		t.Fatalf("follow back: %v", err)
	}
	if err := svc.AddToCloseFriends(ctx, "u1", "u2"); err != nil {
		t.Fatalf("add close friend: %v", err)
	}

	if err := svc.UnfollowUser(ctx, "u2", "u1"); err != nil {
		t.Fatalf("friend unfollows owner: %v", err)
	}

	friends, err := svc.GetCloseFriends(ctx, "u1")
	if err != nil {
		t.Fatalf("list close friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != "u2" {
		t.Fatalf("close friend entry should survive, got %+v", friends)
	}
}

func TestListPrivacyGating(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("subject", false)
	store.addAccount("follower", false)
	store.addAccount("stranger", false)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "follower", "subject"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	// Default everyone: the stranger may list followers.
	followers, err := svc.GetFollowers(ctx, "subject", "stranger")
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 1 || followers[0].ID != "follower" {
		t.Fatalf("unexpected followers: %+v", followers)
	}

	store.privacy["subject"] = models.PrivacySettings{
		AccountID:          "subject",
		WhoCanSeeFollowers: models.VisibilityFollowers,
		WhoCanSeeFollowing: models.VisibilityNoOne,
	}

	followers, err = svc.GetFollowers(ctx, "subject", "stranger")
	if err != nil {
		t.Fatalf("denied list must not error: %v", err)
	}
	if len(followers) != 0 {
		t.Fatalf("expected silent empty list, got %+v", followers)
	}

	followers, err = svc.GetFollowers(ctx, "subject", "follower")
	if err != nil {
		t.Fatalf("follower list: %v", err)
	}
	if len(followers) != 1 {
		t.Fatalf("expected follower to pass the gate, got %+v", followers)
	}

	// no_one denies even followers, but never the owner.
	following, err := svc.GetFollowing(ctx, "subject", "follower")
	if err != nil {
		t.Fatalf("following list: %v", err)
	}
	if len(following) != 0 {
		t.Fatalf("expected empty following list, got %+v", following)
	}

	if _, err := svc.GetFollowing(ctx, "subject", "subject"); err != nil {
		t.Fatalf("owner must always pass the gate: %v", err)
	}
}

func TestGetMutualFollowers(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("u1", false)
	store.addAccount("u2", false)
	store.addAccount("fan", false)
	store.addAccount("other", false)
	svc := newTestService(store)

	for _, pair := range [][2]string{{"fan", "u1"}, {"fan", "u2"}, {"other", "u1"}} {
		if _, err := svc.FollowUser(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("follow %s->%s: %v", pair[0], pair[1], err)
		}
	}

	mutuals, err := svc.GetMutualFollowers(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("mutual followers: %v", err)
	}
	if len(mutuals) != 1 || mutuals[0].ID != "fan" {
		t.Fatalf("unexpected mutual followers: %+v", mutuals)
	}
}

func TestPendingAndSentRequestLists(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addAccount("owner", true)
	store.addAccount("first", false)
	store.addAccount("second", false)
	svc := newTestService(store)

	if _, err := svc.FollowUser(ctx, "first", "owner"); err != nil {
		t.Fatalf("follow first: %v", err)
	}
	if _, err := svc.FollowUser(ctx, "second", "owner"); err != nil {
		t.Fatalf("follow second: %v", err)
	}

	pending, err := svc.GetPendingFollowRequests(ctx, "owner")
	if err != nil {
		t.Fatalf("pending requests: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending requests, got %d", len(pending))
	}
	if pending[0].Account.ID != "second" || pending[1].Account.ID != "first" {
		t.Fatalf("expected newest first, got %+v", pending)
	}

	sent, err := svc.GetSentFollowRequests(ctx, "first")
	if err != nil {
		t.Fatalf("sent requests: %v", err)
	}
	if len(sent) != 1 || sent[0].Account.ID != "owner" {
		t.Fatalf("unexpected sent requests: %+v", sent)
	}
}

func TestGetRelationshipStatusSelf(t *testing.T) {
	store := newMemoryStore()
	store.addAccount("u1", false)
	svc := newTestService(store)

	mustStatus(t, svc, "u1", "u1", models.StatusNoRelation)
}
