package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sells-group/offers-api/internal/offers"
)

// parseListRequest maps query parameters onto the list pipeline input.
// Range validation lives in the pipeline itself; this layer only rejects
// values it cannot parse.
func parseListRequest(r *http.Request) (offers.ListRequest, error) {
	q := r.URL.Query()
	req := offers.ListRequest{
		CompanyID: q.Get("companyId"),
		Location:  q.Get("location"),
		SortBy:    q.Get("sortBy"),
		Title:     q.Get("title"),
	}

	var err error
	if req.Limit, err = intParam(q, "limit"); err != nil {
		return req, err
	}
	if req.Offset, err = intParam(q, "offset"); err != nil {
		return req, err
	}
	if req.YOECategory, err = intParam(q, "yoeCategory"); err != nil {
		return req, err
	}
	if req.SalaryMin, err = floatParam(q, "salaryMin"); err != nil {
		return req, err
	}
	if req.SalaryMax, err = floatParam(q, "salaryMax"); err != nil {
		return req, err
	}
	if req.YOEMin, err = floatParam(q, "yoeMin"); err != nil {
		return req, err
	}
	if req.YOEMax, err = floatParam(q, "yoeMax"); err != nil {
		return req, err
	}
	if req.DateStart, err = dateParam(q, "dateStart"); err != nil {
		return req, err
	}
	if req.DateEnd, err = dateParam(q, "dateEnd"); err != nil {
		return req, err
	}
	return req, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, offers.BadRequestError("invalid " + name + ": " + raw)
	}
	return v, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, offers.BadRequestError("invalid " + name + ": " + raw)
	}
	return &v, nil
}

// dateParam accepts RFC 3339 timestamps or plain dates.
func dateParam(q url.Values, name string) (*time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, offers.BadRequestError("invalid " + name + ": " + raw)
}
