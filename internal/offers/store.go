package offers

import (
	"context"
	"time"
)

// SearchQuery is the store-side portion of the list pipeline: a location
// match plus one of two mutually exclusive job-type shapes. InternOnly
// fetches INTERN offers with no YOE constraint; otherwise only FULLTIME
// offers whose profile YOE falls inside [YOEMin, YOEMax] are returned.
type SearchQuery struct {
	Location   string
	InternOnly bool
	YOEMin     *float64
	YOEMax     *float64
}

// AnalysisRecord is the persisted form of an analysis: scalar results plus
// the ordered top-offer associations.
type AnalysisRecord struct {
	ID                       string
	ProfileID                string
	OverallHighestOfferID    string
	OverallPercentile        float64
	NoOfSimilarOffers        int
	CompanyPercentile        float64
	NoOfSimilarCompanyOffers int
	TopOverallOfferIDs       []string
	TopCompanyOfferIDs       []string
	CreatedAt                time.Time
}

// Analysis is a fully hydrated analysis with its associated offers loaded.
type Analysis struct {
	ID                       string
	ProfileID                string
	OverallHighestOffer      Offer
	OverallPercentile        float64
	NoOfSimilarOffers        int
	CompanyPercentile        float64
	NoOfSimilarCompanyOffers int
	TopOverallOffers         []Offer
	TopCompanyOffers         []Offer
}

// Store defines the persistence operations the offer engine depends on.
// Offer listings come back ordered descending by compensation: full-time
// total compensation first, intern monthly salary second, as two
// independent sort keys.
type Store interface {
	ListProfileOffers(ctx context.Context, profileID string) ([]Offer, error)
	ListSimilarOffers(ctx context.Context, f CohortFilter) ([]Offer, error)
	SearchOffers(ctx context.Context, q SearchQuery) ([]Offer, error)

	DeleteAnalysis(ctx context.Context, profileID string) error
	CreateAnalysis(ctx context.Context, rec *AnalysisRecord) error
	GetAnalysis(ctx context.Context, profileID string) (*Analysis, error)
}
