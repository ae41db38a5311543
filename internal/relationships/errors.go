package relationships

import "errors"

var (
	// ErrSelfReference indicates an account targeted itself with a
	// relation-mutating call.
	ErrSelfReference = errors.New("account cannot target itself")
	// ErrNotFound indicates the referenced account or pending request does
	// not exist.
	ErrNotFound = errors.New("relationship record not found")
	// ErrBlocked indicates an interaction was attempted across an active
	// block in either direction.
	ErrBlocked = errors.New("interaction blocked")
	// ErrDuplicateRequest indicates a follow request is already pending for
	// the pair.
	ErrDuplicateRequest = errors.New("follow request already pending")
	// ErrAlreadyFollowing indicates a follow edge already exists for the
	// pair.
	ErrAlreadyFollowing = errors.New("already following")
	// ErrPreconditionFailed indicates a close-friend add without a
	// qualifying follow relation.
	ErrPreconditionFailed = errors.New("relationship precondition not met")
	// ErrPermissionDenied indicates a request response attempted by the
	// wrong party.
	ErrPermissionDenied = errors.New("operation not permitted for this account")
)
