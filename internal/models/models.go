package models

import "time"

// Account mirrors the account record owned by the identity subsystem. The
// relationship engine only ever reads it, primarily for the privacy flag and
// for attaching summaries to list responses.
type Account struct {
	ID          string
	Username    string
	DisplayName string
	AvatarURL   string
	IsPrivate   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FollowEdge is the directed relation "follower follows target". Edges in
// both directions are two independent rows; mutuality is never collapsed
// into a single record.
type FollowEdge struct {
	FollowerID string
	TargetID   string
	CreatedAt  time.Time
}

const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusCancelled = "cancelled"
)

// FollowRequest represents a follow attempt against a private account. At
// most one pending request exists per ordered pair; terminal rows are kept
// for audit and ignored by status resolution.
type FollowRequest struct {
	ID          string
	RequesterID string
	TargetID    string
	Status      string
	CreatedAt   time.Time
	RespondedAt *time.Time
}

// FollowRequestDetail pairs a request with the counterpart account summary
// for list responses.
type FollowRequestDetail struct {
	Request FollowRequest
	Account Account
}

const (
	RestrictionBlocked    = "blocked"
	RestrictionRestricted = "restricted"
	RestrictionMuted      = "muted"
)

// Restriction is a directed damper one account places on another. The
// blocked kind is destructive (placing it removes follow state in both
// directions); restricted and muted coexist with an active follow edge.
type Restriction struct {
	RestricterID string
	RestrictedID string
	Kind         string
	CreatedAt    time.Time
}

// CloseFriend marks a member of the owner's close-friends list.
type CloseFriend struct {
	OwnerID   string
	FriendID  string
	CreatedAt time.Time
}

const (
	VisibilityEveryone  = "everyone"
	VisibilityFollowers = "followers"
	VisibilityNoOne     = "no_one"
)

// PairState is a snapshot of every stored relation between an ordered pair
// of accounts, read in a single round trip so status resolution sees one
// consistent view.
type PairState struct {
	BlockedByViewer      bool
	BlockedBySubject     bool
	RestrictedByViewer   bool
	MutedByViewer        bool
	CloseFriendOfViewer  bool
	PendingFromViewer    bool
	PendingFromSubject   bool
	ViewerFollowsSubject bool
	SubjectFollowsViewer bool
}

// PrivacySettings controls who may list an account's followers and
// following. Rows are created lazily with everyone defaults on first access.
type PrivacySettings struct {
	AccountID          string
	WhoCanSeeFollowers string
	WhoCanSeeFollowing string
	UpdatedAt          time.Time
}
