// internal/app/features/login/register.go
package login

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
	"github.com/acadconnect/acadconnect/internal/domain/models"
)

const minPasswordLen = 8

type registerRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Institution string `json:"institution"`
}

// HandleRegister creates a password-backed profile and signs the caller in.
// A duplicate email comes back as a conflict. It is mounted on POST /register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
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

	if len(req.Password) < minPasswordLen {
		jsonutil.Error(w, r, h.Log, apperr.Invalid("password must be at least 8 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.Create(ctx, models.Profile{
		FullName:     req.FullName,
		Email:        req.Email,
		Institution:  req.Institution,
		AuthMethod:   "password",
		PasswordHash: string(hash),
	})
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	if err := h.SessionMgr.Establish(w, r, p.ID.Hex()); err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.Write(w, http.StatusCreated, map[string]any{
		"userId":   p.ID.Hex(),
		"fullName": p.FullName,
		"email":    p.Email,
	})
}
