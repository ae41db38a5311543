package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/picshare/backend/internal/logging"
)

// FollowHandler implements the follow and unfollow endpoints.
type FollowHandler struct {
	Relationships FollowService
	Limiter       RateLimiter
}

type followRequest struct {
	FollowerID string `json:"followerId"`
	TargetID   string `json:"targetId"`
}

type followResponse struct {
	Success          bool   `json:"success"`
	Status           string `json:"status"`
	RequiresApproval bool   `json:"requiresApproval"`
	Message          string `json:"message,omitempty"`
}

// Follow handles POST /api/v1/relationships/follow.
func (h FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Relationships == nil {
		logger.Error("follow service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "follow") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid follow payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.FollowerID == "" || req.TargetID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "followerId and targetId are required"})
		return
	}

	result, err := h.Relationships.FollowUser(ctx, req.FollowerID, req.TargetID)
	if err != nil {
		logger.Warn("follow attempt failed", "follower", req.FollowerID, "target", req.TargetID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, followResponse{
		Success:          result.Success,
		Status:           result.Status.String(),
		RequiresApproval: result.RequiresApproval,
		Message:          result.Message,
	})
}

// Unfollow handles POST /api/v1/relationships/unfollow.
func (h FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Relationships == nil {
		logger.Error("follow service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid unfollow payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.FollowerID == "" || req.TargetID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "followerId and targetId are required"})
		return
	}

	if err := h.Relationships.UnfollowUser(ctx, req.FollowerID, req.TargetID); err != nil {
		logger.Warn("unfollow attempt failed", "follower", req.FollowerID, "target", req.TargetID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"success": true})
}
