package offers

import (
	"context"
	"time"
)

func f64(v float64) *float64 { return &v }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ftOffer(id, companyID string, totalComp float64, yoe *float64) Offer {
	return Offer{
		ID:                id,
		JobType:           JobTypeFullTime,
		Location:          "Singapore",
		MonthYearReceived: date("2023-06-01"),
		Company:           Company{ID: companyID, Name: "Co " + companyID},
		Profile: Profile{
			ID:         "profile-" + id,
			Name:       "xxxx",
			Background: &Background{ID: "bg-" + id, TotalYOE: yoe},
		},
		FullTime: &FullTimeDetails{
			Level:             "Senior",
			Specialization:    "Backend",
			Title:             "Software Engineer",
			TotalCompensation: Money{Value: totalComp, Currency: "SGD"},
		},
	}
}

func internOffer(id, companyID string, monthly float64, yoe *float64) Offer {
	return Offer{
		ID:                id,
		JobType:           JobTypeIntern,
		Location:          "Singapore",
		MonthYearReceived: date("2023-06-01"),
		Company:           Company{ID: companyID, Name: "Co " + companyID},
		Profile: Profile{
			ID:         "profile-" + id,
			Name:       "xxxx",
			Background: &Background{ID: "bg-" + id, TotalYOE: yoe},
		},
		Intern: &InternDetails{
			Specialization: "Backend",
			Title:          "Software Engineering Intern",
			MonthlySalary:  Money{Value: monthly, Currency: "SGD"},
		},
	}
}

// stubCache implements analysisCache in memory, recording the call order
// shared with stubStore via track.
type stubCache struct {
	entries map[string]*ProfileAnalysis
	track   *[]string

	getErr        error
	setErr        error
	invalidateErr error
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[string]*ProfileAnalysis{}, track: &[]string{}}
}

func (c *stubCache) record(op string) {
	if c.track != nil {
		*c.track = append(*c.track, op)
	}
}

func (c *stubCache) Get(_ context.Context, profileID string) (*ProfileAnalysis, error) {
	c.record("cache.get")
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[profileID], nil
}

func (c *stubCache) Set(_ context.Context, profileID string, dto *ProfileAnalysis) error {
	c.record("cache.set")
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[profileID] = dto
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, profileID string) error {
	c.record("cache.invalidate")
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	delete(c.entries, profileID)
	return nil
}

// stubStore implements Store with overridable behavior per method.
type stubStore struct {
	listProfileOffers func(ctx context.Context, profileID string) ([]Offer, error)
	listSimilarOffers func(ctx context.Context, f CohortFilter) ([]Offer, error)
	searchOffers      func(ctx context.Context, q SearchQuery) ([]Offer, error)
	deleteAnalysis    func(ctx context.Context, profileID string) error
	createAnalysis    func(ctx context.Context, rec *AnalysisRecord) error
	getAnalysis       func(ctx context.Context, profileID string) (*Analysis, error)
}

func (s *stubStore) ListProfileOffers(ctx context.Context, profileID string) ([]Offer, error) {
	if s.listProfileOffers == nil {
		return nil, nil
	}
	return s.listProfileOffers(ctx, profileID)
}

func (s *stubStore) ListSimilarOffers(ctx context.Context, f CohortFilter) ([]Offer, error) {
	if s.listSimilarOffers == nil {
		return nil, nil
	}
	return s.listSimilarOffers(ctx, f)
}

func (s *stubStore) SearchOffers(ctx context.Context, q SearchQuery) ([]Offer, error) {
	if s.searchOffers == nil {
		return nil, nil
	}
	return s.searchOffers(ctx, q)
}

func (s *stubStore) DeleteAnalysis(ctx context.Context, profileID string) error {
	if s.deleteAnalysis == nil {
		return nil
	}
	return s.deleteAnalysis(ctx, profileID)
}

func (s *stubStore) CreateAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	if s.createAnalysis == nil {
		return nil
	}
	return s.createAnalysis(ctx, rec)
}

func (s *stubStore) GetAnalysis(ctx context.Context, profileID string) (*Analysis, error) {
	if s.getAnalysis == nil {
		return nil, nil
	}
	return s.getAnalysis(ctx, profileID)
}
