package handlers

import (
	"net/http"

	"github.com/picshare/backend/internal/logging"
)

// ListHandler implements the relationship list endpoints: status, followers,
// following, and mutual followers.
type ListHandler struct {
	Status StatusService
	Lists  ListService
}

type statusResponse struct {
	Status string `json:"status"`
}

type listAccountsResponse struct {
	Accounts []accountPayload `json:"accounts"`
}

// RelationshipStatus handles GET /api/v1/relationships/status?viewer=<id>&subject=<id>.
func (h ListHandler) RelationshipStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Status == nil {
		logger.Error("status service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	viewerID := r.URL.Query().Get("viewer")
	subjectID := r.URL.Query().Get("subject")
	if viewerID == "" || subjectID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "viewer and subject query parameters are required"})
		return
	}

	status, err := h.Status.GetRelationshipStatus(ctx, viewerID, subjectID)
	if err != nil {
		logger.Error("resolve relationship status failed", "viewer", viewerID, "subject", subjectID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, statusResponse{Status: status.String()})
}

// Followers handles GET /api/v1/relationships/followers?user=<id>&viewer=<id>.
func (h ListHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.accountList(w, r, "followers")
}

// Following handles GET /api/v1/relationships/following?user=<id>&viewer=<id>.
func (h ListHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.accountList(w, r, "following")
}

func (h ListHandler) accountList(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Lists == nil {
		logger.Error("list service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	subjectID := r.URL.Query().Get("user")
	viewerID := r.URL.Query().Get("viewer")
	if subjectID == "" || viewerID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user and viewer query parameters are required"})
		return
	}

	lister := h.Lists.GetFollowers
	if name == "following" {
		lister = h.Lists.GetFollowing
	}

	accounts, err := lister(ctx, subjectID, viewerID)
	if err != nil {
		logger.Error("list relation failed", "list", name, "user", subjectID, "viewer", viewerID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, listAccountsResponse{Accounts: toAccountPayloads(accounts)})
}

// MutualFollowers handles GET /api/v1/relationships/mutual?user=<id>&other=<id>.
func (h ListHandler) MutualFollowers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Lists == nil {
		logger.Error("list service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	firstID := r.URL.Query().Get("user")
	secondID := r.URL.Query().Get("other")
	if firstID == "" || secondID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user and other query parameters are required"})
		return
	}

	accounts, err := h.Lists.GetMutualFollowers(ctx, firstID, secondID)
	if err != nil {
		logger.Error("list mutual followers failed", "user", firstID, "other", secondID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, listAccountsResponse{Accounts: toAccountPayloads(accounts)})
}
