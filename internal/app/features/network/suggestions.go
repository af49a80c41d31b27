// internal/app/features/network/suggestions.go
package network

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/acadconnect/acadconnect/internal/app/store/queries/suggestions"
	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/app/system/auth"
	"github.com/acadconnect/acadconnect/internal/app/system/jsonutil"
	"github.com/acadconnect/acadconnect/internal/app/system/timeouts"
)

// suggestionRow is the wire shape for one ranked candidate.
type suggestionRow struct {
	UserID            string  `json:"userId"`
	FullName          string  `json:"fullName"`
	Headline          string  `json:"headline,omitempty"`
	Institution       string  `json:"institution,omitempty"`
	MutualConnections int     `json:"mutualConnections"`
	Score             float64 `json:"score"`
}

// ServeSuggestions returns ranked second-degree connection suggestions for
// the caller. It is mounted on GET /network/suggestions.
func (h *Handler) ServeSuggestions(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("sign-in required"))
		return
	}
	viewerID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		jsonutil.Error(w, r, h.Log, apperr.Unauthorized("invalid session"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ranked, err := suggestions.ListSuggestions(ctx, h.DB, viewerID, suggestions.Options{
		MaxProfileReads: h.MaxProfileReads,
	})
	if err != nil {
		jsonutil.Error(w, r, h.Log, err)
		return
	}

	rows := make([]suggestionRow, 0, len(ranked))
	for _, s := range ranked {
		rows = append(rows, suggestionRow{
			UserID:            s.UserID.Hex(),
			FullName:          s.FullName,
			Headline:          s.Headline,
			Institution:       s.Institution,
			MutualConnections: s.MutualConnections,
			Score:             s.Score,
		})
	}

	jsonutil.OK(w, map[string]any{"suggestions": rows})
}
