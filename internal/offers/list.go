package offers

import (
	"context"
	"math"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Coarse experience categories accepted by the list pipeline.
const (
	YOECategoryInternship = 0
	YOECategoryFreshGrad  = 1
	YOECategoryMid        = 2
	YOECategorySenior     = 3
)

type yoeRange struct {
	min float64
	max float64
}

// yoeRangeFor maps a category to its YOE range. The Internship category has
// none: its fetch is restricted to INTERN offers instead of a YOE window.
func yoeRangeFor(category int) *yoeRange {
	switch category {
	case YOECategoryFreshGrad:
		return &yoeRange{min: 0, max: 3}
	case YOECategoryMid:
		return &yoeRange{min: 4, max: 7}
	case YOECategorySenior:
		return &yoeRange{min: 8, max: 100}
	default:
		return nil
	}
}

// sortByPattern validates a sort directive: a leading '+' (ascending) or
// '-' (descending) followed by one of the closed set of sort keys.
var sortByPattern = regexp.MustCompile(`^[+-](monthYearReceived|totalCompensation|totalYoe)`)

type sortKey int

const (
	sortKeyDateReceived sortKey = iota
	sortKeyCompensation
	sortKeyTotalYOE
)

type sortSpec struct {
	key  sortKey
	desc bool
}

// parseSortBy resolves the directive once at the boundary into a typed
// comparator spec. An empty directive means date-received descending.
func parseSortBy(directive string) (sortSpec, error) {
	if directive == "" {
		return sortSpec{key: sortKeyDateReceived, desc: true}, nil
	}
	m := sortByPattern.FindStringSubmatch(directive)
	if m == nil {
		return sortSpec{}, BadRequestError("invalid sortBy directive: " + directive)
	}
	spec := sortSpec{desc: directive[0] == '-'}
	switch m[1] {
	case "monthYearReceived":
		spec.key = sortKeyDateReceived
	case "totalCompensation":
		spec.key = sortKeyCompensation
	case "totalYoe":
		spec.key = sortKeyTotalYOE
	}
	return spec, nil
}

// compare orders two offers by the resolved sort key, ascending. Comparing on
// compensation or YOE requires both offers to carry the value.
func (sp sortSpec) compare(a, b *Offer) (int, error) {
	switch sp.key {
	case sortKeyCompensation:
		ca, cb := a.Comparable(), b.Comparable()
		if ca.Compensation == nil || cb.Compensation == nil {
			return 0, NotFoundError("total compensation or salary not found")
		}
		return cmpFloat(*ca.Compensation, *cb.Compensation), nil
	case sortKeyTotalYOE:
		ya, yb := a.TotalYOE(), b.TotalYOE()
		if ya == nil || yb == nil {
			return 0, NotFoundError("total years of experience not found")
		}
		return cmpFloat(*ya, *yb), nil
	default:
		return a.MonthYearReceived.Compare(b.MonthYearReceived), nil
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ListRequest is the input to the offer list pipeline.
type ListRequest struct {
	CompanyID   string
	DateStart   *time.Time
	DateEnd     *time.Time
	Limit       int
	Location    string
	Offset      int
	SalaryMin   *float64
	SalaryMax   *float64
	SortBy      string
	Title       string
	YOECategory int
	YOEMin      *float64
	YOEMax      *float64
}

func (r *ListRequest) validate() error {
	if r.Location == "" {
		return BadRequestError("location is required")
	}
	if r.Limit <= 0 {
		return BadRequestError("limit must be positive")
	}
	if r.Offset < 0 {
		return BadRequestError("offset must be non-negative")
	}
	if r.YOECategory < YOECategoryInternship || r.YOECategory > YOECategorySenior {
		return BadRequestError("yoeCategory must be between 0 and 3")
	}
	if (r.DateStart == nil) != (r.DateEnd == nil) {
		return BadRequestError("dateStart and dateEnd must be given together")
	}
	if (r.SalaryMin == nil) != (r.SalaryMax == nil) {
		return BadRequestError("salaryMin and salaryMax must be given together")
	}
	if r.SalaryMin != nil && *r.SalaryMin < 0 {
		return BadRequestError("salaryMin must be non-negative")
	}
	return nil
}

// Paging is the pagination metadata of a list response.
type Paging struct {
	CurrPage            int `json:"currPage"`
	NumOfItemsInPage    int `json:"numOfItemsInPage"`
	NumOfPages          int `json:"numOfPages"`
	TotalNumberOfOffers int `json:"totalNumberOfOffers"`
}

// ListResponse is one page of filtered, sorted offers.
type ListResponse struct {
	Data   []Offer `json:"data"`
	Paging Paging  `json:"paging"`
}

// ListOffers runs the list pipeline: fetch by location and job-type/YOE
// shape, filter in memory, sort by the resolved directive, paginate.
func (s *Service) ListOffers(ctx context.Context, req ListRequest) (*ListResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	spec, err := parseSortBy(req.SortBy)
	if err != nil {
		return nil, err
	}

	q := SearchQuery{Location: req.Location}
	if r := yoeRangeFor(req.YOECategory); r == nil {
		q.InternOnly = true
	} else {
		// Explicit bounds override the category's, per bound.
		lo, hi := r.min, r.max
		if req.YOEMin != nil {
			lo = *req.YOEMin
		}
		if req.YOEMax != nil {
			hi = *req.YOEMax
		}
		q.YOEMin, q.YOEMax = &lo, &hi
	}

	data, err := s.store.SearchOffers(ctx, q)
	if err != nil {
		return nil, err
	}

	data, err = filterOffers(data, &req)
	if err != nil {
		return nil, err
	}

	var sortErr error
	sort.SliceStable(data, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, cmpErr := spec.compare(&data[i], &data[j])
		if cmpErr != nil {
			sortErr = cmpErr
			return false
		}
		if spec.desc {
			return c > 0
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}

	total := len(data)
	start := req.Limit * req.Offset
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}
	page := data[start:end]

	zap.L().Debug("offers listed",
		zap.String("location", req.Location),
		zap.Int("total", total),
		zap.Int("page", req.Offset),
	)

	return &ListResponse{
		Data: page,
		Paging: Paging{
			CurrPage:            req.Offset,
			NumOfItemsInPage:    len(page),
			NumOfPages:          int(math.Ceil(float64(total) / float64(req.Limit))),
			TotalNumberOfOffers: total,
		},
	}, nil
}

// filterOffers applies the optional in-memory filters conjunctively.
func filterOffers(data []Offer, req *ListRequest) ([]Offer, error) {
	out := make([]Offer, 0, len(data))
	for i := range data {
		keep, err := matchesFilters(&data[i], req)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, data[i])
		}
	}
	return out, nil
}

func matchesFilters(o *Offer, req *ListRequest) (bool, error) {
	if req.CompanyID != "" && o.Company.ID != req.CompanyID {
		return false, nil
	}
	if req.Title != "" {
		c := o.Comparable()
		if c.Title == nil || *c.Title != req.Title {
			return false, nil
		}
	}
	// Range filters only apply when both bounds are present.
	if req.DateStart != nil && req.DateEnd != nil {
		t := o.MonthYearReceived
		if t.Before(*req.DateStart) || t.After(*req.DateEnd) {
			return false, nil
		}
	}
	if req.SalaryMin != nil && req.SalaryMax != nil {
		c := o.Comparable()
		if c.Compensation == nil {
			return false, NotFoundError("total compensation or salary not found")
		}
		if *c.Compensation < *req.SalaryMin || *c.Compensation > *req.SalaryMax {
			return false, nil
		}
	}
	return true, nil
}
