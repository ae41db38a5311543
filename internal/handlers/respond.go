package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/picshare/backend/internal/logging"
	"github.com/picshare/backend/internal/models"
	"github.com/picshare/backend/internal/relationships"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := relationshipErrorStatus(err)
	respondJSON(ctx, w, status, map[string]string{"error": message})
}

func relationshipErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, relationships.ErrSelfReference):
		return http.StatusBadRequest, "cannot target your own account"
	case errors.Is(err, relationships.ErrNotFound):
		return http.StatusNotFound, "account or request not found"
	case errors.Is(err, relationships.ErrBlocked):
		return http.StatusForbidden, "interaction not allowed"
	case errors.Is(err, relationships.ErrAlreadyFollowing):
		return http.StatusConflict, "already following this account"
	case errors.Is(err, relationships.ErrDuplicateRequest):
		return http.StatusConflict, "follow request already pending"
	case errors.Is(err, relationships.ErrPreconditionFailed):
		return http.StatusPreconditionFailed, "close friends requires an active follow"
	case errors.Is(err, relationships.ErrPermissionDenied):
		return http.StatusForbidden, "operation not permitted for this account"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

type accountPayload struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	IsPrivate   bool   `json:"isPrivate"`
}

func toAccountPayload(account models.Account) accountPayload {
	return accountPayload{
		ID:          account.ID,
		Username:    account.Username,
		DisplayName: account.DisplayName,
		AvatarURL:   account.AvatarURL,
		IsPrivate:   account.IsPrivate,
	}
}

func toAccountPayloads(accounts []models.Account) []accountPayload {
	payloads := make([]accountPayload, 0, len(accounts))
	for _, account := range accounts {
		payloads = append(payloads, toAccountPayload(account))
	}
	return payloads
}

type followRequestPayload struct {
	ID          string         `json:"id"`
	RequesterID string         `json:"requesterId"`
	TargetID    string         `json:"targetId"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	Account     accountPayload `json:"account"`
}

func toFollowRequestPayloads(details []models.FollowRequestDetail) []followRequestPayload {
	payloads := make([]followRequestPayload, 0, len(details))
	for _, detail := range details {
		payloads = append(payloads, followRequestPayload{
			ID:          detail.Request.ID,
			RequesterID: detail.Request.RequesterID,
			TargetID:    detail.Request.TargetID,
			Status:      detail.Request.Status,
			CreatedAt:   detail.Request.CreatedAt,
			Account:     toAccountPayload(detail.Account),
		})
	}
	return payloads
}
