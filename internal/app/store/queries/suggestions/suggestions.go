// internal/app/store/queries/suggestions/suggestions.go
package suggestions

import (
	"context"
	"sort"
	"strings"

	"github.com/acadconnect/acadconnect/internal/app/system/apperr"
	"github.com/acadconnect/acadconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Suggestion is one ranked second-degree candidate joined with display
// fields.
type Suggestion struct {
	UserID            primitive.ObjectID `json:"user_id"`
	FullName          string             `json:"full_name"`
	Headline          string             `json:"headline,omitempty"`
	Institution       string             `json:"institution,omitempty"`
	MutualConnections int                `json:"mutual_connections"`
	Score             float64            `json:"score"`
}

// Options bounds the fan-out. Zero values take the defaults.
type Options struct {
	// MaxProfileReads caps total profile documents read (the viewer's
	// direct connections plus the candidate join), so the walk stays
	// bounded as the graph grows.
	MaxProfileReads int
	// Limit is the number of suggestions returned.
	Limit int
}

const (
	DefaultMaxProfileReads = 500
	DefaultLimit           = 10

	institutionBonus = 0.5
	interestWeight   = 0.3
)

// ListSuggestions ranks second-degree connections for a user: candidates
// reachable through a direct connection, excluding the user and anyone
// already connected. Relevance is the mutual-connection count, plus a bonus
// for a shared institution, plus a weight per shared research interest.
//
// A direct connection whose profile fails to load is skipped; a user with
// no connections gets an empty list.
func ListSuggestions(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, opts Options) ([]Suggestion, error) {
	if opts.MaxProfileReads <= 0 {
		opts.MaxProfileReads = DefaultMaxProfileReads
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	profiles := db.Collection("profiles")

	var viewer models.Profile
	if err := profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&viewer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, err
	}
	if len(viewer.Connections.Connected) == 0 {
		return []Suggestion{}, nil
	}

	connected := make(map[primitive.ObjectID]bool, len(viewer.Connections.Connected))
	for _, id := range viewer.Connections.Connected {
		connected[id] = true
	}

	// Walk each direct connection's connected set, counting how many paths
	// reach each candidate.
	reads := 0
	mutual := map[primitive.ObjectID]int{}
	proj := options.FindOne().SetProjection(bson.M{"connections.connected": 1})
	for _, directID := range viewer.Connections.Connected {
		if reads >= opts.MaxProfileReads {
			break
		}
		reads++

		var direct models.Profile
		if err := profiles.FindOne(ctx, bson.M{"_id": directID}, proj).Decode(&direct); err != nil {
			continue // missing or unreadable profile is not fatal
		}
		for _, candID := range direct.Connections.Connected {
			if candID == userID || connected[candID] {
				continue
			}
			mutual[candID]++
		}
	}
	if len(mutual) == 0 {
		return []Suggestion{}, nil
	}

	// Join candidate display fields, still under the read cap. Candidate
	// order is fixed before truncation so the cap cuts deterministically.
	candIDs := make([]primitive.ObjectID, 0, len(mutual))
	for id := range mutual {
		candIDs = append(candIDs, id)
	}
	sort.Slice(candIDs, func(i, j int) bool { return candIDs[i].Hex() < candIDs[j].Hex() })
	if budget := opts.MaxProfileReads - reads; len(candIDs) > budget {
		candIDs = candIDs[:budget]
	}
	if len(candIDs) == 0 {
		return []Suggestion{}, nil
	}

	cur, err := profiles.Find(ctx, bson.M{"_id": bson.M{"$in": candIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Suggestion{}
	for cur.Next(ctx) {
		var cand models.Profile
		if err := cur.Decode(&cand); err != nil {
			continue
		}
		out = append(out, Suggestion{
			UserID:            cand.ID,
			FullName:          cand.FullName,
			Headline:          cand.Headline,
			Institution:       cand.Institution,
			MutualConnections: mutual[cand.ID],
			Score:             Score(&viewer, &cand, mutual[cand.ID]),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	SortRanked(out)
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Score computes relevance: the mutual-connection count, +0.5 for a shared
// institution, +0.3 per shared research interest.
func Score(viewer, candidate *models.Profile, mutualCount int) float64 {
	score := float64(mutualCount)
	if viewer.Institution != "" && sameFold(viewer.Institution, candidate.Institution) {
		score += institutionBonus
	}
	score += interestWeight * float64(sharedInterests(viewer.ResearchInterests, candidate.ResearchInterests))
	return score
}

// SortRanked orders suggestions by score descending with a stable id-ascending
// tie-break, so equal scores always list in the same order.
func SortRanked(s []Suggestion) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].UserID.Hex() < s[j].UserID.Hex()
	})
}

func sharedInterests(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[fold(v)] = true
	}
	n := 0
	seen := make(map[string]bool, len(b))
	for _, v := range b {
		f := fold(v)
		if set[f] && !seen[f] {
			seen[f] = true
			n++
		}
	}
	return n
}

func sameFold(a, b string) bool { return fold(a) == fold(b) }

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
