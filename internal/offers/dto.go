package offers

import "time"

// BackgroundSummary is the background portion of an offer summary.
type BackgroundSummary struct {
	Experiences []Experience `json:"experiences,omitempty"`
	ID          string       `json:"id"`
	TotalYOE    *float64     `json:"totalYoe"`
}

// ProfileSummary is the profile portion of an offer summary.
type ProfileSummary struct {
	Background BackgroundSummary `json:"background"`
	ID         string            `json:"id"`
	Name       string            `json:"name"`
}

// OfferSummary is the display shape of a comparable offer inside an
// analysis. MonthlySalary is set for INTERN offers, Level and
// TotalCompensation for FULLTIME ones.
type OfferSummary struct {
	Company             Company        `json:"company"`
	ID                  string         `json:"id"`
	JobType             JobType        `json:"jobType"`
	Level               *string        `json:"level,omitempty"`
	MonthYearReceived   time.Time      `json:"monthYearReceived"`
	MonthlySalary       *float64       `json:"monthlySalary,omitempty"`
	NegotiationStrategy string         `json:"negotiationStrategy,omitempty"`
	Profile             ProfileSummary `json:"profile"`
	Specialization      *string        `json:"specialization,omitempty"`
	Title               *string        `json:"title,omitempty"`
	TotalCompensation   *float64       `json:"totalCompensation,omitempty"`
}

// SpecificAnalysis is one scope of an analysis (overall or same-company).
type SpecificAnalysis struct {
	NoOfOffers          int            `json:"noOfOffers"`
	Percentile          float64        `json:"percentile"`
	TopPercentileOffers []OfferSummary `json:"topPercentileOffers"`
}

// HighestOffer summarizes the offer the analysis was anchored on.
type HighestOffer struct {
	Company        Company  `json:"company"`
	ID             string   `json:"id"`
	Level          *string  `json:"level,omitempty"`
	Location       string   `json:"location"`
	Specialization *string  `json:"specialization,omitempty"`
	TotalYOE       *float64 `json:"totalYoe"`
}

// ProfileAnalysis is the output shape of both analysis operations.
type ProfileAnalysis struct {
	ID                  string           `json:"id"`
	ProfileID           string           `json:"profileId"`
	OverallHighestOffer HighestOffer     `json:"overallHighestOffer"`
	OverallAnalysis     SpecificAnalysis `json:"overallAnalysis"`
	CompanyAnalysis     SpecificAnalysis `json:"companyAnalysis"`
}

func offerSummaryDTO(o *Offer) OfferSummary {
	c := o.Comparable()

	s := OfferSummary{
		Company:             o.Company,
		ID:                  o.ID,
		JobType:             o.JobType,
		MonthYearReceived:   o.MonthYearReceived,
		NegotiationStrategy: o.NegotiationStrategy,
		Specialization:      c.Specialization,
		Title:               c.Title,
		Profile: ProfileSummary{
			ID:   o.Profile.ID,
			Name: o.Profile.Name,
		},
	}
	if o.FullTime != nil {
		s.Level = c.Level
		v := o.FullTime.TotalCompensation.Value
		s.TotalCompensation = &v
	}
	if o.Intern != nil {
		v := o.Intern.MonthlySalary.Value
		s.MonthlySalary = &v
	}
	if bg := o.Profile.Background; bg != nil {
		s.Profile.Background = BackgroundSummary{
			Experiences: bg.Experiences,
			ID:          bg.ID,
			TotalYOE:    bg.TotalYOE,
		}
	}
	return s
}

func offerSummariesDTO(cohort []Offer) []OfferSummary {
	out := make([]OfferSummary, 0, len(cohort))
	for i := range cohort {
		out = append(out, offerSummaryDTO(&cohort[i]))
	}
	return out
}

func specificAnalysisDTO(noOfOffers int, percentile float64, top []Offer) SpecificAnalysis {
	return SpecificAnalysis{
		NoOfOffers:          noOfOffers,
		Percentile:          percentile,
		TopPercentileOffers: offerSummariesDTO(top),
	}
}

func highestOfferDTO(o *Offer) HighestOffer {
	c := o.Comparable()
	h := HighestOffer{
		Company:        o.Company,
		ID:             o.ID,
		Location:       o.Location,
		Specialization: c.Specialization,
		TotalYOE:       o.TotalYOE(),
	}
	if o.FullTime != nil {
		h.Level = c.Level
	}
	return h
}

func profileAnalysisDTO(a *Analysis) *ProfileAnalysis {
	return &ProfileAnalysis{
		ID:                  a.ID,
		ProfileID:           a.ProfileID,
		OverallHighestOffer: highestOfferDTO(&a.OverallHighestOffer),
		OverallAnalysis: specificAnalysisDTO(
			a.NoOfSimilarOffers, a.OverallPercentile, a.TopOverallOffers),
		CompanyAnalysis: specificAnalysisDTO(
			a.NoOfSimilarCompanyOffers, a.CompanyPercentile, a.TopCompanyOffers),
	}
}
