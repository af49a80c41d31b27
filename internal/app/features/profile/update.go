// internal/app/features/profile/update.go
package profile

import (
	"context"
	"net/http"
	"strings"

	profilestore "github.com/acadconnect/acadconnect/internal/app/store/profiles"
	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/htmlsanitize"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/limits"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

const (
	maxHeadlineLen    = 200
	maxBioLen         = 10000
	maxInterests      = 25
	maxInterestLen    = 100
	maxInstitutionLen = 200
)

// HandleUpdate applies a partial edit to the caller's academic details.
// Fields absent from the body keep their stored values; the bio keeps a
// limited HTML subset, everything else is reduced to plain text.
// It is mounted on POST /profile.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := sessionObjectID(r)
	if !ok {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("sign-in required"))
		return
	}

	var req updateRequest
	if err := jsonutil.DecodeMax(w, r, &req, limits.MaxProfileBodySize); err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Profiles.GetByID(ctx, viewer)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	upd := profilestore.DetailsUpdate{
		Headline:          current.Headline,
		Bio:               current.Bio,
		Institution:       current.Institution,
		ResearchInterests: current.ResearchInterests,
	}

	if req.Headline != nil {
		headline := strings.TrimSpace(htmlsanitize.StripTags(*req.Headline))
		if len(headline) > maxHeadlineLen {
			jsonutil.Error(w, r, h.Log, apperr.Invalid("headline too long"))
			return
		}
		upd.Headline = headline
	}
	if req.Bio != nil {
		bio := htmlsanitize.Sanitize(*req.Bio)
		if len(bio) > maxBioLen {
			jsonutil.Error(w, r, h.Log, apperr.Invalid("bio too long"))
			return
		}
		upd.Bio = bio
	}
	if req.Institution != nil {
		institution := strings.TrimSpace(htmlsanitize.StripTags(*req.Institution))
		if len(institution) > maxInstitutionLen {
			jsonutil.Error(w, r, h.Log, apperr.Invalid("institution too long"))
			return
		}
		upd.Institution = institution
	}
	if req.ResearchInterests != nil {
		interests, err := cleanInterests(*req.ResearchInterests)
		if err != nil {
			jsonutil.Error(w, r, h.Log, err)
			return
		}
		upd.ResearchInterests = interests
	}

	updated, err := h.Profiles.UpdateDetails(ctx, viewer, upd)
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	jsonutil.OK(w, toOwnView(updated))
}

// cleanInterests strips markup, trims, and drops empties and duplicates.
func cleanInterests(raw []string) ([]string, error) {
	if len(raw) > maxInterests {
		return nil, apperr.Invalid("too many research interests")
	}
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		interest := strings.TrimSpace(htmlsanitize.StripTags(item))
		if interest == "" {
			continue
		}
		if len(interest) > maxInterestLen {
			return nil, apperr.Invalid("research interest too long")
		}
		key := strings.ToLower(interest)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, interest)
	}
	return out, nil
}
