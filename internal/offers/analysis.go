package offers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// analysisCache is the read-cache surface the service depends on;
// AnalysisCache implements it over Redis.
type analysisCache interface {
	Get(ctx context.Context, profileID string) (*ProfileAnalysis, error)
	Set(ctx context.Context, profileID string, dto *ProfileAnalysis) error
	Invalidate(ctx context.Context, profileID string) error
}

// Service composes the cohort selector, percentile ranker, and list
// pipeline on top of a Store.
type Service struct {
	store Store
	cache analysisCache
}

// NewService creates the offer service. cache may be nil to disable the
// analysis read cache.
func NewService(store Store, cache *AnalysisCache) *Service {
	s := &Service{store: store}
	if cache != nil {
		s.cache = cache
	}
	return s
}

// GenerateAnalysis rebuilds the analysis for a profile from scratch and
// returns it. The prior analysis is deleted first; the delete-then-create
// is not transactionally guarded, so two concurrent calls race and the last
// write wins, and an idempotent re-run repairs a half-finished one.
func (s *Service) GenerateAnalysis(ctx context.Context, profileID string) (*ProfileAnalysis, error) {
	if err := s.store.DeleteAnalysis(ctx, profileID); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, profileID)

	profileOffers, err := s.store.ListProfileOffers(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(profileOffers) == 0 {
		return nil, NotFoundError("no offers found on this profile")
	}

	// Offers arrive ordered descending by compensation.
	highest := profileOffers[0]

	filter, err := cohortFilterFor(&highest)
	if err != nil {
		return nil, err
	}

	similar, err := s.store.ListSimilarOffers(ctx, filter)
	if err != nil {
		return nil, err
	}
	similarCompany := companyCohort(similar, highest.Company.ID)

	// Percentiles are taken against the pre-exclusion cohorts so the
	// reference offer's own rank is well defined.
	overallPercentile := percentileOf(highest.ID, similar)
	companyPercentile := percentileOf(highest.ID, similarCompany)

	similar = excludeOffer(similar, highest.ID)
	similarCompany = excludeOffer(similarCompany, highest.ID)

	topOverall := topSlice(similar)
	topCompany := topSlice(similarCompany)

	rec := &AnalysisRecord{
		ID:                       uuid.New().String(),
		ProfileID:                profileID,
		OverallHighestOfferID:    highest.ID,
		OverallPercentile:        overallPercentile,
		NoOfSimilarOffers:        len(similar),
		CompanyPercentile:        companyPercentile,
		NoOfSimilarCompanyOffers: len(similarCompany),
		TopOverallOfferIDs:       offerIDs(topOverall),
		TopCompanyOfferIDs:       offerIDs(topCompany),
		CreatedAt:                time.Now().UTC(),
	}
	if err := s.store.CreateAnalysis(ctx, rec); err != nil {
		return nil, err
	}

	zap.L().Info("analysis generated",
		zap.String("profile_id", profileID),
		zap.Float64("overall_percentile", overallPercentile),
		zap.Int("similar_offers", len(similar)),
	)

	dto := profileAnalysisDTO(&Analysis{
		ID:                       rec.ID,
		ProfileID:                profileID,
		OverallHighestOffer:      highest,
		OverallPercentile:        overallPercentile,
		NoOfSimilarOffers:        len(similar),
		CompanyPercentile:        companyPercentile,
		NoOfSimilarCompanyOffers: len(similarCompany),
		TopOverallOffers:         topOverall,
		TopCompanyOffers:         topCompany,
	})
	s.setCache(ctx, profileID, dto)
	return dto, nil
}

// GetAnalysis loads the persisted analysis for a profile.
func (s *Service) GetAnalysis(ctx context.Context, profileID string) (*ProfileAnalysis, error) {
	if cached := s.getCache(ctx, profileID); cached != nil {
		return cached, nil
	}

	a, err := s.store.GetAnalysis(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NotFoundError("no analysis found on this profile")
	}

	dto := profileAnalysisDTO(a)
	s.setCache(ctx, profileID, dto)
	return dto, nil
}

// Cache failures are logged and otherwise ignored: the store remains the
// source of truth.

func (s *Service) getCache(ctx context.Context, profileID string) *ProfileAnalysis {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, profileID)
	if err != nil {
		zap.L().Warn("analysis cache read", zap.String("profile_id", profileID), zap.Error(err))
		return nil
	}
	return cached
}

func (s *Service) setCache(ctx context.Context, profileID string, dto *ProfileAnalysis) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, profileID, dto); err != nil {
		zap.L().Warn("analysis cache write", zap.String("profile_id", profileID), zap.Error(err))
	}
}

func (s *Service) invalidateCache(ctx context.Context, profileID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, profileID); err != nil {
		zap.L().Warn("analysis cache invalidate", zap.String("profile_id", profileID), zap.Error(err))
	}
}

func offerIDs(cohort []Offer) []string {
	ids := make([]string, 0, len(cohort))
	for i := range cohort {
		ids = append(ids, cohort[i].ID)
	}
	return ids
}
