package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/picshare/backend/internal/logging"
)

// CloseFriendHandler implements close-friends membership endpoints.
type CloseFriendHandler struct {
	CloseFriends CloseFriendService
}

type closeFriendRequest struct {
	OwnerID  string `json:"ownerId"`
	FriendID string `json:"friendId"`
}

// Add handles POST /api/v1/relationships/close-friends/add.
func (h CloseFriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "add", true)
}

// Remove handles POST /api/v1/relationships/close-friends/remove.
func (h CloseFriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "remove", false)
}

func (h CloseFriendHandler) mutate(w http.ResponseWriter, r *http.Request, action string, add bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.CloseFriends == nil {
		logger.Error("close friend service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	var req closeFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid close friend payload", "action", action, "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OwnerID == "" || req.FriendID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "ownerId and friendId are required"})
		return
	}

	mutate := h.CloseFriends.RemoveFromCloseFriends
	if add {
		mutate = h.CloseFriends.AddToCloseFriends
	}

	if err := mutate(ctx, req.OwnerID, req.FriendID); err != nil {
		logger.Warn("close friend mutation failed", "action", action, "owner", req.OwnerID, "friend", req.FriendID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"success": true})
}

// List handles GET /api/v1/relationships/close-friends?user=<id>.
func (h CloseFriendHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.CloseFriends == nil {
		logger.Error("close friend service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	ownerID := r.URL.Query().Get("user")
	if ownerID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user query parameter is required"})
		return
	}

	friends, err := h.CloseFriends.GetCloseFriends(ctx, ownerID)
	if err != nil {
		logger.Error("list close friends failed", "owner", ownerID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, listAccountsResponse{Accounts: toAccountPayloads(friends)})
}
