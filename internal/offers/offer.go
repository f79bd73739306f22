// Package offers implements the compensation comparison engine: cohort
// selection, percentile ranking, analysis generation, and the offer list
// query pipeline.
package offers

import "time"

// JobType discriminates the two offer shapes.
type JobType string

const (
	JobTypeFullTime JobType = "FULLTIME"
	JobTypeIntern   JobType = "INTERN"
)

// Money is a monetary amount in its stored currency. Amounts are compared
// as raw numbers; no currency conversion is performed anywhere.
type Money struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Company identifies the company an offer came from.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Experience is one prior position on a profile's background.
type Experience struct {
	ID      string  `json:"id"`
	Company Company `json:"company"`
}

// Background carries the career history attached to a profile. TotalYOE is
// nil when the profile never recorded it, in which case the profile's offers
// cannot be analyzed.
type Background struct {
	ID          string       `json:"id"`
	TotalYOE    *float64     `json:"totalYoe"`
	Experiences []Experience `json:"experiences,omitempty"`
}

// Profile is the owner of a set of offers.
type Profile struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Background *Background `json:"background,omitempty"`
}

// FullTimeDetails is the FULLTIME offer payload.
type FullTimeDetails struct {
	Level             string `json:"level"`
	Specialization    string `json:"specialization"`
	Title             string `json:"title"`
	BaseSalary        Money  `json:"baseSalary"`
	Bonus             Money  `json:"bonus"`
	Stocks            Money  `json:"stocks"`
	TotalCompensation Money  `json:"totalCompensation"`
}

// InternDetails is the INTERN offer payload.
type InternDetails struct {
	Specialization string `json:"specialization"`
	Title          string `json:"title"`
	MonthlySalary  Money  `json:"monthlySalary"`
}

// Offer is a fully materialized offer record with its relations resolved.
// Exactly one of FullTime/Intern is non-nil, matching JobType.
type Offer struct {
	ID                  string           `json:"id"`
	JobType             JobType          `json:"jobType"`
	Location            string           `json:"location"`
	MonthYearReceived   time.Time        `json:"monthYearReceived"`
	NegotiationStrategy string           `json:"negotiationStrategy,omitempty"`
	Company             Company          `json:"company"`
	Profile             Profile          `json:"profile"`
	FullTime            *FullTimeDetails `json:"offersFullTime,omitempty"`
	Intern              *InternDetails   `json:"offersIntern,omitempty"`
}

// TotalYOE returns the profile's resolved years of experience, or nil.
func (o *Offer) TotalYOE() *float64 {
	if o.Profile.Background == nil {
		return nil
	}
	return o.Profile.Background.TotalYOE
}
