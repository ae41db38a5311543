package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	follow := FollowHandler{Relationships: deps.Follow, Limiter: deps.Limiter}
	requests := FollowRequestHandler{Requests: deps.Requests}
	lists := ListHandler{Status: deps.Status, Lists: deps.Lists}
	moderation := ModerationHandler{Moderation: deps.Moderation, Limiter: deps.Limiter}
	closeFriends := CloseFriendHandler{CloseFriends: deps.CloseFriends}

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("/api/v1/relationships/follow", follow.Follow)
	mux.HandleFunc("/api/v1/relationships/unfollow", follow.Unfollow)
	mux.HandleFunc("/api/v1/relationships/status", lists.RelationshipStatus)
	mux.HandleFunc("/api/v1/relationships/followers", lists.Followers)
	mux.HandleFunc("/api/v1/relationships/following", lists.Following)
	mux.HandleFunc("/api/v1/relationships/mutual", lists.MutualFollowers)

	mux.HandleFunc("/api/v1/relationships/requests", requests.Pending)
	mux.HandleFunc("/api/v1/relationships/requests/sent", requests.Sent)
	mux.HandleFunc("/api/v1/relationships/requests/accept", requests.Accept)
	mux.HandleFunc("/api/v1/relationships/requests/reject", requests.Reject)
	mux.HandleFunc("/api/v1/relationships/requests/cancel", requests.Cancel)

	mux.HandleFunc("/api/v1/relationships/block", moderation.Block)
	mux.HandleFunc("/api/v1/relationships/unblock", moderation.Unblock)
	mux.HandleFunc("/api/v1/relationships/restrict", moderation.Restrict)
	mux.HandleFunc("/api/v1/relationships/unrestrict", moderation.Unrestrict)
	mux.HandleFunc("/api/v1/relationships/mute", moderation.Mute)
	mux.HandleFunc("/api/v1/relationships/unmute", moderation.Unmute)

	mux.HandleFunc("/api/v1/relationships/close-friends", closeFriends.List)
	mux.HandleFunc("/api/v1/relationships/close-friends/add", closeFriends.Add)
	mux.HandleFunc("/api/v1/relationships/close-friends/remove", closeFriends.Remove)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Follow       FollowService
	Requests     FollowRequestService
	Status       StatusService
	Lists        ListService
	Moderation   ModerationService
	CloseFriends CloseFriendService
	Limiter      RateLimiter
}
