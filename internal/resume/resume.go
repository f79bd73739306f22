// Package resume implements resume storage and the starred/created
// listings shown on the resume browsing pages.
package resume

import (
	"context"
	"time"
)

// Resume is a resume record decorated with its star/comment counts for the
// requesting user.
type Resume struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	UserName        string    `json:"user"`
	Title           string    `json:"title"`
	Role            string    `json:"role"`
	Experience      string    `json:"experience"`
	Location        string    `json:"location"`
	URL             string    `json:"url"`
	AdditionalInfo  string    `json:"additionalInfo,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	NumStars        int       `json:"numStars"`
	NumComments     int       `json:"numComments"`
	IsStarredByUser bool      `json:"isStarredByUser"`
}

// UpsertInput carries the user-editable resume fields. An empty ID creates
// a new resume.
type UpsertInput struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	Role           string `json:"role"`
	Experience     string `json:"experience"`
	Location       string `json:"location"`
	URL            string `json:"url"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

// Store defines persistence operations for resumes.
type Store interface {
	Upsert(ctx context.Context, userID string, in UpsertInput) (*Resume, error)
	ListUserCreated(ctx context.Context, userID string) ([]Resume, error)
	ListUserStarred(ctx context.Context, userID string) ([]Resume, error)
	Star(ctx context.Context, userID, resumeID string) error
	Unstar(ctx context.Context, userID, resumeID string) error
}
