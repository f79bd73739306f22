package offers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/offers-api/internal/db"
)

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id   TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS offers_profile (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	profile_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS offers_background (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	profile_id TEXT NOT NULL UNIQUE REFERENCES offers_profile(id),
	total_yoe  DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS offers_experience (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	background_id TEXT NOT NULL REFERENCES offers_background(id),
	company_id    TEXT NOT NULL REFERENCES companies(id),
	position      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS offers_offer (
	id                   TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	profile_id           TEXT NOT NULL REFERENCES offers_profile(id),
	company_id           TEXT NOT NULL REFERENCES companies(id),
	job_type             TEXT NOT NULL,
	location             TEXT NOT NULL,
	month_year_received  TIMESTAMPTZ NOT NULL,
	negotiation_strategy TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS offers_full_time (
	offer_id                    TEXT PRIMARY KEY REFERENCES offers_offer(id) ON DELETE CASCADE,
	level                       TEXT NOT NULL,
	specialization              TEXT NOT NULL,
	title                       TEXT NOT NULL,
	base_salary_value           DOUBLE PRECISION NOT NULL,
	base_salary_currency        TEXT NOT NULL,
	bonus_value                 DOUBLE PRECISION NOT NULL,
	bonus_currency              TEXT NOT NULL,
	stocks_value                DOUBLE PRECISION NOT NULL,
	stocks_currency             TEXT NOT NULL,
	total_compensation_value    DOUBLE PRECISION NOT NULL,
	total_compensation_currency TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS offers_intern (
	offer_id                TEXT PRIMARY KEY REFERENCES offers_offer(id) ON DELETE CASCADE,
	specialization          TEXT NOT NULL,
	title                   TEXT NOT NULL,
	monthly_salary_value    DOUBLE PRECISION NOT NULL,
	monthly_salary_currency TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS offers_analysis (
	id                           TEXT PRIMARY KEY,
	profile_id                   TEXT NOT NULL UNIQUE REFERENCES offers_profile(id),
	overall_highest_offer_id     TEXT NOT NULL REFERENCES offers_offer(id),
	overall_percentile           DOUBLE PRECISION NOT NULL,
	no_of_similar_offers         INTEGER NOT NULL,
	company_percentile           DOUBLE PRECISION NOT NULL,
	no_of_similar_company_offers INTEGER NOT NULL,
	created_at                   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS offers_analysis_top_offers (
	analysis_id TEXT NOT NULL REFERENCES offers_analysis(id) ON DELETE CASCADE,
	offer_id    TEXT NOT NULL REFERENCES offers_offer(id),
	scope       TEXT NOT NULL,
	position    INTEGER NOT NULL,
	PRIMARY KEY (analysis_id, offer_id, scope)
);

CREATE INDEX IF NOT EXISTS idx_offers_offer_profile_id ON offers_offer(profile_id);
CREATE INDEX IF NOT EXISTS idx_offers_offer_location ON offers_offer(location);
CREATE INDEX IF NOT EXISTS idx_offers_background_profile_id ON offers_background(profile_id);
CREATE INDEX IF NOT EXISTS idx_offers_experience_background_id ON offers_experience(background_id);
`

// Migrate applies the offers schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "offers: migrate")
}

// offerColumns is the relation-joined projection every offer query selects;
// the read model is always fully materialized.
const offerColumns = `
	o.id, o.job_type, o.location, o.month_year_received, o.negotiation_strategy,
	c.id, c.name,
	p.id, p.profile_name,
	bg.id, bg.total_yoe,
	ft.level, ft.specialization, ft.title,
	ft.base_salary_value, ft.base_salary_currency,
	ft.bonus_value, ft.bonus_currency,
	ft.stocks_value, ft.stocks_currency,
	ft.total_compensation_value, ft.total_compensation_currency,
	it.specialization, it.title, it.monthly_salary_value, it.monthly_salary_currency`

const offerJoins = `
	FROM offers_offer o
	JOIN companies c ON c.id = o.company_id
	JOIN offers_profile p ON p.id = o.profile_id
	LEFT JOIN offers_background bg ON bg.profile_id = p.id
	LEFT JOIN offers_full_time ft ON ft.offer_id = o.id
	LEFT JOIN offers_intern it ON it.offer_id = o.id`

// compensationOrder sorts descending by the two independent compensation
// keys: full-time total compensation first, intern monthly salary second.
const compensationOrder = `
	ORDER BY ft.total_compensation_value DESC NULLS LAST,
	         it.monthly_salary_value DESC NULLS LAST`

func scanOfferRow(scan func(dest ...any) error) (*Offer, error) {
	var (
		o       Offer
		jobType string

		bgID  *string
		bgYOE *float64

		ftLevel, ftSpec, ftTitle           *string
		ftBaseVal, ftBonusVal, ftStocksVal *float64
		ftBaseCur, ftBonusCur, ftStocksCur *string
		ftTCVal                            *float64
		ftTCCur                            *string
		itSpec, itTitle, itSalCur          *string
		itSalVal                           *float64
	)

	err := scan(
		&o.ID, &jobType, &o.Location, &o.MonthYearReceived, &o.NegotiationStrategy,
		&o.Company.ID, &o.Company.Name,
		&o.Profile.ID, &o.Profile.Name,
		&bgID, &bgYOE,
		&ftLevel, &ftSpec, &ftTitle,
		&ftBaseVal, &ftBaseCur,
		&ftBonusVal, &ftBonusCur,
		&ftStocksVal, &ftStocksCur,
		&ftTCVal, &ftTCCur,
		&itSpec, &itTitle, &itSalVal, &itSalCur,
	)
	if err != nil {
		return nil, err
	}

	o.JobType = JobType(jobType)
	if bgID != nil {
		o.Profile.Background = &Background{ID: *bgID, TotalYOE: bgYOE}
	}
	if ftLevel != nil {
		o.FullTime = &FullTimeDetails{
			Level:             *ftLevel,
			Specialization:    *ftSpec,
			Title:             *ftTitle,
			BaseSalary:        Money{Value: *ftBaseVal, Currency: *ftBaseCur},
			Bonus:             Money{Value: *ftBonusVal, Currency: *ftBonusCur},
			Stocks:            Money{Value: *ftStocksVal, Currency: *ftStocksCur},
			TotalCompensation: Money{Value: *ftTCVal, Currency: *ftTCCur},
		}
	}
	if itSpec != nil {
		o.Intern = &InternDetails{
			Specialization: *itSpec,
			Title:          *itTitle,
			MonthlySalary:  Money{Value: *itSalVal, Currency: *itSalCur},
		}
	}
	return &o, nil
}

func collectOffers(rows pgx.Rows) ([]Offer, error) {
	defer rows.Close()

	var out []Offer
	for rows.Next() {
		o, err := scanOfferRow(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "offers: scan offer")
		}
		out = append(out, *o)
	}
	return out, eris.Wrap(rows.Err(), "offers: iterate offers")
}

// ListProfileOffers returns a profile's offers ordered descending by
// compensation.
func (s *PostgresStore) ListProfileOffers(ctx context.Context, profileID string) ([]Offer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+offerColumns+offerJoins+`
		 WHERE o.profile_id = $1`+compensationOrder,
		profileID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "offers: list profile offers %s", profileID)
	}
	return collectOffers(rows)
}

// ListSimilarOffers executes a cohort filter, ordered descending by
// compensation. Empty branch fields match any offer of that branch's job
// type; see CohortFilter.
func (s *PostgresStore) ListSimilarOffers(ctx context.Context, f CohortFilter) ([]Offer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+offerColumns+offerJoins+`
		 WHERE o.location = $1
		   AND (
		     (ft.offer_id IS NOT NULL
		       AND ($2 = '' OR ft.level = $2)
		       AND ($3 = '' OR ft.specialization = $3))
		     OR
		     (it.offer_id IS NOT NULL
		       AND ($4 = '' OR it.specialization = $4))
		   )
		   AND bg.total_yoe BETWEEN $5 AND $6`+compensationOrder,
		f.Location,
		f.FullTimeLevel, f.FullTimeSpecialization,
		f.InternSpecialization,
		f.YOEMin, f.YOEMax,
	)
	if err != nil {
		return nil, eris.Wrap(err, "offers: list similar offers")
	}
	offers, err := collectOffers(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachExperiences(ctx, offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// SearchOffers fetches the raw dataset for the list pipeline: one of two
// mutually exclusive query shapes per SearchQuery.
func (s *PostgresStore) SearchOffers(ctx context.Context, q SearchQuery) ([]Offer, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if q.InternOnly {
		rows, err = s.pool.Query(ctx,
			`SELECT`+offerColumns+offerJoins+`
			 WHERE o.location = $1
			   AND it.offer_id IS NOT NULL
			   AND ft.offer_id IS NULL
			 ORDER BY o.month_year_received DESC`,
			q.Location,
		)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT`+offerColumns+offerJoins+`
			 WHERE o.location = $1
			   AND ft.offer_id IS NOT NULL
			   AND it.offer_id IS NULL
			   AND bg.total_yoe BETWEEN $2 AND $3
			 ORDER BY o.month_year_received DESC`,
			q.Location, q.YOEMin, q.YOEMax,
		)
	}
	if err != nil {
		return nil, eris.Wrap(err, "offers: search offers")
	}
	return collectOffers(rows)
}

// attachExperiences batch-loads background experience entries for a set of
// offers already carrying their backgrounds.
func (s *PostgresStore) attachExperiences(ctx context.Context, offers []Offer) error {
	byBackground := make(map[string][]*Offer)
	ids := make([]string, 0, len(offers))
	for i := range offers {
		bg := offers[i].Profile.Background
		if bg == nil {
			continue
		}
		if _, seen := byBackground[bg.ID]; !seen {
			ids = append(ids, bg.ID)
		}
		byBackground[bg.ID] = append(byBackground[bg.ID], &offers[i])
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT e.background_id, e.id, ec.id, ec.name
		 FROM offers_experience e
		 JOIN companies ec ON ec.id = e.company_id
		 WHERE e.background_id = ANY($1)
		 ORDER BY e.background_id, e.position`,
		ids,
	)
	if err != nil {
		return eris.Wrap(err, "offers: load experiences")
	}
	defer rows.Close()

	for rows.Next() {
		var backgroundID string
		var exp Experience
		if err := rows.Scan(&backgroundID, &exp.ID, &exp.Company.ID, &exp.Company.Name); err != nil {
			return eris.Wrap(err, "offers: scan experience")
		}
		for _, o := range byBackground[backgroundID] {
			o.Profile.Background.Experiences = append(o.Profile.Background.Experiences, exp)
		}
	}
	return eris.Wrap(rows.Err(), "offers: iterate experiences")
}

// DeleteAnalysis removes a profile's analysis; the top-offer associations
// cascade. Deleting a missing analysis is a no-op.
func (s *PostgresStore) DeleteAnalysis(ctx context.Context, profileID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM offers_analysis WHERE profile_id = $1`,
		profileID,
	)
	return eris.Wrapf(err, "offers: delete analysis %s", profileID)
}

// CreateAnalysis persists an analysis row plus its ordered top-offer
// associations.
func (s *PostgresStore) CreateAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "offers: begin create analysis")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO offers_analysis
		 (id, profile_id, overall_highest_offer_id, overall_percentile, no_of_similar_offers,
		  company_percentile, no_of_similar_company_offers, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.ProfileID, rec.OverallHighestOfferID,
		rec.OverallPercentile, rec.NoOfSimilarOffers,
		rec.CompanyPercentile, rec.NoOfSimilarCompanyOffers,
		rec.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "offers: insert analysis")
	}

	scopes := []struct {
		name string
		ids  []string
	}{
		{"overall", rec.TopOverallOfferIDs},
		{"company", rec.TopCompanyOfferIDs},
	}
	for _, sc := range scopes {
		for pos, offerID := range sc.ids {
			_, err = tx.Exec(ctx,
				`INSERT INTO offers_analysis_top_offers (analysis_id, offer_id, scope, position)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (analysis_id, offer_id, scope) DO NOTHING`,
				rec.ID, offerID, sc.name, pos,
			)
			if err != nil {
				return eris.Wrapf(err, "offers: insert top %s offer", sc.name)
			}
		}
	}

	return eris.Wrap(tx.Commit(ctx), "offers: commit create analysis")
}

// GetAnalysis loads the persisted analysis for a profile with all
// associated offers hydrated, or nil when none exists.
func (s *PostgresStore) GetAnalysis(ctx context.Context, profileID string) (*Analysis, error) {
	var a Analysis
	err := s.pool.QueryRow(ctx,
		`SELECT id, profile_id, overall_highest_offer_id, overall_percentile,
		        no_of_similar_offers, company_percentile, no_of_similar_company_offers
		 FROM offers_analysis WHERE profile_id = $1`,
		profileID,
	).Scan(
		&a.ID, &a.ProfileID, &a.OverallHighestOffer.ID, &a.OverallPercentile,
		&a.NoOfSimilarOffers, &a.CompanyPercentile, &a.NoOfSimilarCompanyOffers,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "offers: get analysis %s", profileID)
	}

	highest, err := s.getOfferByID(ctx, a.OverallHighestOffer.ID)
	if err != nil {
		return nil, err
	}
	a.OverallHighestOffer = *highest

	if a.TopOverallOffers, err = s.listAnalysisOffers(ctx, a.ID, "overall"); err != nil {
		return nil, err
	}
	if a.TopCompanyOffers, err = s.listAnalysisOffers(ctx, a.ID, "company"); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) getOfferByID(ctx context.Context, offerID string) (*Offer, error) {
	o, err := scanOfferRow(s.pool.QueryRow(ctx,
		`SELECT`+offerColumns+offerJoins+`
		 WHERE o.id = $1`,
		offerID,
	).Scan)
	if err != nil {
		return nil, eris.Wrapf(err, "offers: get offer %s", offerID)
	}
	return o, nil
}

func (s *PostgresStore) listAnalysisOffers(ctx context.Context, analysisID, scope string) ([]Offer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+offerColumns+offerJoins+`
		 JOIN offers_analysis_top_offers t ON t.offer_id = o.id
		 WHERE t.analysis_id = $1 AND t.scope = $2
		 ORDER BY t.position`,
		analysisID, scope,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "offers: list top %s offers", scope)
	}
	offers, err := collectOffers(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachExperiences(ctx, offers); err != nil {
		return nil, err
	}
	return offers, nil
}
