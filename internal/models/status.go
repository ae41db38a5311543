package models

// RelationshipStatus is the single authoritative answer to "how does viewer
// relate to subject". It is a closed enum so consumers can switch over it
// exhaustively; the wire form is the lowercase string name.
type RelationshipStatus int

const (
	StatusNoRelation RelationshipStatus = iota
	StatusBlocked
	StatusRestricted
	StatusMuted
	StatusCloseFriend
	StatusFollowRequestSent
	StatusFollowRequestReceived
	StatusMutualFollowers
	StatusFollowing
	StatusFollower
)

var statusNames = map[RelationshipStatus]string{
	StatusNoRelation:            "no_relation",
	StatusBlocked:               "blocked",
	StatusRestricted:            "restricted",
	StatusMuted:                 "muted",
	StatusCloseFriend:           "close_friend",
	StatusFollowRequestSent:     "follow_request_sent",
	StatusFollowRequestReceived: "follow_request_received",
	StatusMutualFollowers:       "mutual_followers",
	StatusFollowing:             "following",
	StatusFollower:              "follower",
}

func (s RelationshipStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "no_relation"
}

// MarshalJSON encodes the status as its string name.
func (s RelationshipStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
