package offers

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAnalysis_SingleOffer(t *testing.T) {
	ref := ftOffer("offer-1", "acme", 150000, f64(3))
	ref.Profile.ID = "profile-1"

	var deleted string
	var created *AnalysisRecord
	store := &stubStore{
		deleteAnalysis: func(_ context.Context, profileID string) error {
			deleted = profileID
			return nil
		},
		listProfileOffers: func(_ context.Context, _ string) ([]Offer, error) {
			return []Offer{ref}, nil
		},
		listSimilarOffers: func(_ context.Context, f CohortFilter) ([]Offer, error) {
			assert.Equal(t, 2.0, f.YOEMin)
			assert.Equal(t, 4.0, f.YOEMax)
			return []Offer{ref}, nil
		},
		createAnalysis: func(_ context.Context, rec *AnalysisRecord) error {
			created = rec
			return nil
		},
	}
	svc := NewService(store, nil)

	dto, err := svc.GenerateAnalysis(context.Background(), "profile-1")
	require.NoError(t, err)

	assert.Equal(t, "profile-1", deleted, "stale analysis is dropped first")
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "offer-1", created.OverallHighestOfferID)

	// The only comparable offer is the reference itself: percentile 0, and
	// nothing left in the cohort once it is excluded.
	assert.Equal(t, "offer-1", dto.OverallHighestOffer.ID)
	assert.Equal(t, 0.0, dto.OverallAnalysis.Percentile)
	assert.Equal(t, 0, dto.OverallAnalysis.NoOfOffers)
	assert.Empty(t, dto.OverallAnalysis.TopPercentileOffers)
	assert.Equal(t, 0.0, dto.CompanyAnalysis.Percentile)
	assert.Equal(t, 0, dto.CompanyAnalysis.NoOfOffers)
	assert.Empty(t, dto.CompanyAnalysis.TopPercentileOffers)
}

func TestGenerateAnalysis_Cohorts(t *testing.T) {
	ref := ftOffer("offer-ref", "acme", 300000, f64(5))
	ref.Profile.ID = "profile-1"

	// Cohort arrives ordered descending by compensation; the reference sits
	// at rank 1 of 4 overall and rank 0 of 2 within its company.
	cohort := []Offer{
		ftOffer("offer-top", "globex", 400000, f64(5)),
		ref,
		ftOffer("offer-mid", "initech", 250000, f64(5)),
		ftOffer("offer-low", "acme", 200000, f64(4)),
	}

	var created *AnalysisRecord
	store := &stubStore{
		listProfileOffers: func(_ context.Context, _ string) ([]Offer, error) {
			return []Offer{ref, ftOffer("offer-other", "acme", 100000, f64(5))}, nil
		},
		listSimilarOffers: func(_ context.Context, _ CohortFilter) ([]Offer, error) {
			return cohort, nil
		},
		createAnalysis: func(_ context.Context, rec *AnalysisRecord) error {
			created = rec
			return nil
		},
	}
	svc := NewService(store, nil)

	dto, err := svc.GenerateAnalysis(context.Background(), "profile-1")
	require.NoError(t, err)

	// The first profile offer anchors the analysis.
	assert.Equal(t, "offer-ref", dto.OverallHighestOffer.ID)

	assert.Equal(t, 0.25, dto.OverallAnalysis.Percentile)
	assert.Equal(t, 3, dto.OverallAnalysis.NoOfOffers)
	// Post-exclusion cohort of 3: band starts at floor(3*0.9)-1 = 1.
	require.Len(t, dto.OverallAnalysis.TopPercentileOffers, 2)
	assert.Equal(t, "offer-mid", dto.OverallAnalysis.TopPercentileOffers[0].ID)
	assert.Equal(t, "offer-low", dto.OverallAnalysis.TopPercentileOffers[1].ID)

	assert.Equal(t, 0.0, dto.CompanyAnalysis.Percentile)
	assert.Equal(t, 1, dto.CompanyAnalysis.NoOfOffers)
	require.Len(t, dto.CompanyAnalysis.TopPercentileOffers, 1)
	assert.Equal(t, "offer-low", dto.CompanyAnalysis.TopPercentileOffers[0].ID)

	require.NotNil(t, created)
	assert.Equal(t, []string{"offer-mid", "offer-low"}, created.TopOverallOfferIDs)
	assert.Equal(t, []string{"offer-low"}, created.TopCompanyOfferIDs)
}

func TestGenerateAnalysis_NoOffers(t *testing.T) {
	svc := NewService(&stubStore{}, nil)

	_, err := svc.GenerateAnalysis(context.Background(), "profile-1")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, "no offers found on this profile", err.Error())
}

func TestGenerateAnalysis_NoYOE(t *testing.T) {
	store := &stubStore{
		listProfileOffers: func(_ context.Context, _ string) ([]Offer, error) {
			return []Offer{ftOffer("offer-1", "acme", 150000, nil)}, nil
		},
	}
	svc := NewService(store, nil)

	_, err := svc.GenerateAnalysis(context.Background(), "profile-1")
	require.Error(t, err)
	assert.Equal(t, CodeBadRequest, CodeOf(err))
	assert.Equal(t, "cannot analyse without YOE", err.Error())
}

func TestGetAnalysis(t *testing.T) {
	ref := ftOffer("offer-1", "acme", 150000, f64(3))
	store := &stubStore{
		getAnalysis: func(_ context.Context, profileID string) (*Analysis, error) {
			return &Analysis{
				ID:                  "analysis-1",
				ProfileID:           profileID,
				OverallHighestOffer: ref,
				OverallPercentile:   0.5,
				NoOfSimilarOffers:   4,
				TopOverallOffers:    []Offer{ftOffer("offer-2", "globex", 140000, f64(3))},
			}, nil
		},
	}
	svc := NewService(store, nil)

	dto, err := svc.GetAnalysis(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.Equal(t, "analysis-1", dto.ID)
	assert.Equal(t, "profile-1", dto.ProfileID)
	assert.Equal(t, 0.5, dto.OverallAnalysis.Percentile)
	assert.Equal(t, 4, dto.OverallAnalysis.NoOfOffers)
	require.Len(t, dto.OverallAnalysis.TopPercentileOffers, 1)
	assert.Equal(t, "offer-2", dto.OverallAnalysis.TopPercentileOffers[0].ID)
}

func TestGetAnalysis_Missing(t *testing.T) {
	svc := NewService(&stubStore{}, nil)

	_, err := svc.GetAnalysis(context.Background(), "profile-1")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, "no analysis found on this profile", err.Error())
}

func TestCodeOf_WrappedError(t *testing.T) {
	err := eris.Wrap(NotFoundError("no analysis found on this profile"), "offers: get analysis")
	assert.Equal(t, CodeNotFound, CodeOf(err))

	assert.Equal(t, ErrorCode(""), CodeOf(eris.New("boom")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
