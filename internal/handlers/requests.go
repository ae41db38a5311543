package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/picshare/backend/internal/logging"
)

// FollowRequestHandler implements the pending follow-request endpoints.
type FollowRequestHandler struct {
	Requests FollowRequestService
}

type respondToRequest struct {
	OwnerID     string `json:"ownerId"`
	RequesterID string `json:"requesterId"`
}

type cancelRequest struct {
	RequesterID string `json:"requesterId"`
	TargetID    string `json:"targetId"`
}

type listRequestsResponse struct {
	Requests []followRequestPayload `json:"requests"`
}

// Pending handles GET /api/v1/relationships/requests?user=<id>.
func (h FollowRequestHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// Sent handles GET /api/v1/relationships/requests/sent?user=<id>.
func (h FollowRequestHandler) Sent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h FollowRequestHandler) list(w http.ResponseWriter, r *http.Request, sent bool) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Requests == nil {
		logger.Error("follow request service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user query parameter is required"})
		return
	}

	lister := h.Requests.GetPendingFollowRequests
	if sent {
		lister = h.Requests.GetSentFollowRequests
	}

	details, err := lister(ctx, userID)
	if err != nil {
		logger.Error("list follow requests failed", "user", userID, "sent", sent, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, listRequestsResponse{Requests: toFollowRequestPayloads(details)})
}

// Accept handles POST /api/v1/relationships/requests/accept.
func (h FollowRequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "accept", func(ctx context.Context, ownerID, requesterID string) error {
		return h.Requests.AcceptFollowRequest(ctx, ownerID, requesterID)
	})
}

// Reject handles POST /api/v1/relationships/requests/reject.
func (h FollowRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "reject", func(ctx context.Context, ownerID, requesterID string) error {
		return h.Requests.RejectFollowRequest(ctx, ownerID, requesterID)
	})
}

func (h FollowRequestHandler) respond(w http.ResponseWriter, r *http.Request, action string, apply func(context.Context, string, string) error) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Requests == nil {
		logger.Error("follow request service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	var req respondToRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid request payload", "action", action, "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OwnerID == "" || req.RequesterID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "ownerId and requesterId are required"})
		return
	}

	if err := apply(ctx, req.OwnerID, req.RequesterID); err != nil {
		logger.Warn("follow request response failed", "action", action, "owner", req.OwnerID, "requester", req.RequesterID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"success": true})
}

// Cancel handles POST /api/v1/relationships/requests/cancel.
func (h FollowRequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Requests == nil {
		logger.Error("follow request service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid cancel payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.RequesterID == "" || req.TargetID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "requesterId and targetId are required"})
		return
	}

	if err := h.Requests.CancelFollowRequest(ctx, req.RequesterID, req.TargetID); err != nil {
		logger.Warn("cancel follow request failed", "requester", req.RequesterID, "target", req.TargetID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"success": true})
}
