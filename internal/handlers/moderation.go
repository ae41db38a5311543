package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/picshare/backend/internal/logging"
)

// ModerationHandler implements block, restrict, and mute endpoints. Every
// action is a POST with the acting account and the target account.
type ModerationHandler struct {
	Moderation ModerationService
	Limiter    RateLimiter
}

type moderationRequest struct {
	UserID   string `json:"userId"`
	TargetID string `json:"targetId"`
}

// Block handles POST /api/v1/relationships/block.
func (h ModerationHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "block", func(ctx context.Context, userID, targetID string) error {
		return h.Moderation.BlockUser(ctx, userID, targetID)
	})
}

// Unblock handles POST /api/v1/relationships/unblock.
func (h ModerationHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "unblock", func(ctx context.Context, userID, targetID string) error {
		return h.Moderation.UnblockUser(ctx, userID, targetID)
	})
}

// Restrict handles POST /api/v1/relationships/restrict.
func (h ModerationHandler) Restrict(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "restrict", func(ctx context.Context, userID, targetID string) error {
		return h.Moderation.RestrictUser(ctx, userID, targetID)
	})
}

// Unrestrict handles POST /api/v1/relationships/unrestrict.
func (h ModerationHandler) Unrestrict(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "unrestrict", func(ctx context.Context, userID, targetID string) error {
		return h.Moderation.UnrestrictUser(ctx, userID, targetID)
	})
}

// Mute handles POST /api/v1/relationships/mute.
func (h ModerationHandler) Mute(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "mute", func(ctx context.Context, userID, targetID string) error {
		return h.Moderation.MuteUser(ctx, userID, targetID)
	})
}

// Unmute handles POST /api/v1/relationships/unmute.
func (h ModerationHandler) Unmute(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "unmute", func(ctx context.Context, userID, targetID string) error {
		return h.Moderation.UnmuteUser(ctx, userID, targetID)
	})
}

func (h ModerationHandler) apply(w http.ResponseWriter, r *http.Request, action string, mutate func(context.Context, string, string) error) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Moderation == nil {
		logger.Error("moderation service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, action) {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	var req moderationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid moderation payload", "action", action, "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.UserID == "" || req.TargetID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "userId and targetId are required"})
		return
	}

	if err := mutate(ctx, req.UserID, req.TargetID); err != nil {
		logger.Warn("moderation action failed", "action", action, "user", req.UserID, "target", req.TargetID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"success": true})
}
