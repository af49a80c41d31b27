// internal/app/features/profile/types.go
package profile

import "github.com/acadconnect/acadconnect/internal/domain/models"

// updateRequest is the body for POST /profile. All fields are optional;
// a nil field leaves the stored value untouched.
type updateRequest struct {
	Headline          *string   `json:"headline"`
	Bio               *string   `json:"bio"`
	Institution       *string   `json:"institution"`
	ResearchInterests *[]string `json:"researchInterests"`
}

// publicView is the wire shape of a profile as seen by other users. Email,
// auth fields, and the raw connection sets stay private.
type publicView struct {
	UserID            string   `json:"userId"`
	FullName          string   `json:"fullName"`
	Headline          string   `json:"headline,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	Institution       string   `json:"institution,omitempty"`
	ResearchInterests []string `json:"researchInterests,omitempty"`
	TotalConnections  int      `json:"totalConnections"`
}

// ownView adds the caller-only fields to the public shape.
type ownView struct {
	publicView
	Email           string `json:"email"`
	PendingRequests int    `json:"pendingRequests"`
}

func toPublicView(p *models.Profile) publicView {
	return publicView{
		UserID:            p.ID.Hex(),
		FullName:          p.FullName,
		Headline:          p.Headline,
		Bio:               p.Bio,
		Institution:       p.Institution,
		ResearchInterests: p.ResearchInterests,
		TotalConnections:  p.ConnectionStats.TotalConnections,
	}
}

func toOwnView(p *models.Profile) ownView {
	return ownView{
		publicView:      toPublicView(p),
		Email:           p.Email,
		PendingRequests: p.ConnectionStats.PendingRequests,
	}
}
