package relationships

import (
	"testing"

	"github.com/picshare/backend/internal/models"
)

func TestResolveStatusPrecedence(t *testing.T) {
	everything := models.PairState{
		BlockedByViewer:      true,
		BlockedBySubject:     true,
		RestrictedByViewer:   true,
		MutedByViewer:        true,
		CloseFriendOfViewer:  true,
		PendingFromViewer:    true,
		PendingFromSubject:   true,
		ViewerFollowsSubject: true,
		SubjectFollowsViewer: true,
	}

	cases := []struct {
		name  string
		state models.PairState
		want  models.RelationshipStatus
	}{
		{"blockDominatesEverything", everything, models.StatusBlocked},
		{"blockBySubjectAlone", models.PairState{BlockedBySubject: true}, models.StatusBlocked},
		{
			"restrictedBeforeMuted",
			models.PairState{RestrictedByViewer: true, MutedByViewer: true, ViewerFollowsSubject: true},
			models.StatusRestricted,
		},
		{
			"mutedBeforeCloseFriend",
			models.PairState{MutedByViewer: true, CloseFriendOfViewer: true, ViewerFollowsSubject: true},
			models.StatusMuted,
		},
		{
			"closeFriendBeforePending",
			models.PairState{CloseFriendOfViewer: true, PendingFromSubject: true, ViewerFollowsSubject: true},
			models.StatusCloseFriend,
		},
		{
			"requestSentBeforeReceived",
			models.PairState{PendingFromViewer: true, PendingFromSubject: true},
			models.StatusFollowRequestSent,
		},
		{
			"requestReceivedBeforeEdges",
			models.PairState{PendingFromSubject: true, SubjectFollowsViewer: true},
			models.StatusFollowRequestReceived,
		},
		{
			"mutualNeedsBothEdges",
			models.PairState{ViewerFollowsSubject: true, SubjectFollowsViewer: true},
			models.StatusMutualFollowers,
		},
		{"followingOnly", models.PairState{ViewerFollowsSubject: true}, models.StatusFollowing},
		{"followerOnly", models.PairState{SubjectFollowsViewer: true}, models.StatusFollower},
		{"emptyState", models.PairState{}, models.StatusNoRelation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveStatus(tc.state); got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestRelationshipStatusString(t *testing.T) {
	if got := models.StatusMutualFollowers.String(); got != "mutual_followers" {
		t.Fatalf("unexpected status name %q", got)
	}
	if got := models.RelationshipStatus(99).String(); got != "no_relation" {
		t.Fatalf("expected unknown status to render as no_relation, got %q", got)
	}
}
