package relationships

import "github.com/picshare/backend/internal/models"

// resolveStatus collapses a pair snapshot into the single authoritative
// status. Checks run in strict precedence order and short-circuit on the
// first match: a block in either direction dominates everything, the
// viewer's own dampers (restricted, muted) come before positive signals,
// and pending requests outrank established edges. Reordering these cases
// changes externally observable behavior.
func resolveStatus(state models.PairState) models.RelationshipStatus {
	switch {
	case state.BlockedByViewer || state.BlockedBySubject:
		return models.StatusBlocked
	case state.RestrictedByViewer:
		return models.StatusRestricted
	case state.MutedByViewer:
		return models.StatusMuted
	case state.CloseFriendOfViewer:
		return models.StatusCloseFriend
	case state.PendingFromViewer:
		return models.StatusFollowRequestSent
	case state.PendingFromSubject:
		return models.StatusFollowRequestReceived
	case state.ViewerFollowsSubject && state.SubjectFollowsViewer:
		return models.StatusMutualFollowers
	case state.ViewerFollowsSubject:
		return models.StatusFollowing
	case state.SubjectFollowsViewer:
		return models.StatusFollower
	default:
		return models.StatusNoRelation
	}
}
