// internal/app/features/login/login.go
package login

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies a password credential and establishes a session.
// Unknown email and wrong password produce the same response, so the
// endpoint cannot be used to probe which addresses have accounts.
// It is mounted on POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	if allowed, reason := h.Limiter.Check(r, req.Email); !allowed {
		jsonutil.Write(w, http.StatusTooManyRequests, map[string]any{
			"error": map[string]string{"code": "rate_limited", "message": reason},
		})
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonutil.Error(w, r, h.Log, apperr.Invalid("email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			jsonutil.Error(w, r, h.Log, apperr.Unauthorized("invalid email or password"))
			return
		}
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	if p.Status == "disabled" {
		jsonutil.Error(w, r, h.Log, apperr.Forbidden("account is disabled"))
		return
	}
	if p.PasswordHash == "" {
		// Google-only account; no password to check.
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		h.Log.Info("login failed: wrong password", zap.String("email", req.Email))
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("invalid email or password"))
		return
	}

	if err := h.SessionMgr.Establish(w, r, p.ID.Hex()); err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}
	h.Limiter.ResetEmail(req.Email)

	jsonutil.OK(w, map[string]any{
		"userId":   p.ID.Hex(),
		"fullName": p.FullName,
		"email":    p.Email,
	})
}
