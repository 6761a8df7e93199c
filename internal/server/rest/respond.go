package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
)

const maxBodyBytes = 1 << 20

type detailResponse struct {
	Detail string `json:"detail"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrInvalidInput)
	}
	return nil
}

// statusFor maps a service error to its HTTP status and a caller-safe
// message. InvalidToken is a 400 on the verification link and a 401 elsewhere.
func statusFor(err error, verifyRoute bool) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrInvalidToken):
		if verifyRoute {
			return http.StatusBadRequest, "invalid or expired token"
		}
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, common.ErrAlreadyVerified):
		return http.StatusConflict, "already verified"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrNotVerified):
		return http.StatusForbidden, "account not verified"
	case errors.Is(err, common.ErrPermissionDenied):
		return http.StatusForbidden, "permission denied"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	status, msg := statusFor(err, false)
	h.logFailure(ctx, status, err)
	// validation details are safe to return
	if errors.Is(err, common.ErrInvalidInput) {
		msg = err.Error()
	}
	writeError(w, status, msg)
}

func (h *Handler) logFailure(ctx context.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error(ctx, "request failed", "status", status, "error", err)
		return
	}
	h.logger.Debug(ctx, "request rejected", "status", status, "error", err)
}
