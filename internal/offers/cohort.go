package offers

import "math"

// CohortFilter selects the offers considered comparable to a reference
// offer: same location, a level/specialization match on the branch that
// applies to the reference's own job type, and profile YOE within one year
// of the reference profile's.
//
// The two job-type branches form a single OR group. Branch fields belonging
// to the job type the reference does not have stay empty and match any
// offer of that type: a FULLTIME reference also pulls in every INTERN offer
// at the location inside the YOE window, and an INTERN reference every
// FULLTIME offer. That broadening is longstanding product behavior and is
// pinned by TestCohortFilterFor_KeepsCrossTypeBranchOpen.
type CohortFilter struct {
	Location               string
	FullTimeLevel          string
	FullTimeSpecialization string
	InternSpecialization   string
	YOEMin                 float64
	YOEMax                 float64
}

// cohortFilterFor builds the similar-offer filter for a reference offer.
// Fails when the reference profile has no recorded YOE.
func cohortFilterFor(ref *Offer) (CohortFilter, error) {
	yoe := ref.TotalYOE()
	if yoe == nil {
		return CohortFilter{}, BadRequestError("cannot analyse without YOE")
	}

	f := CohortFilter{
		Location: ref.Location,
		YOEMin:   math.Max(*yoe-1, 0),
		YOEMax:   *yoe + 1,
	}
	if ref.FullTime != nil {
		f.FullTimeLevel = ref.FullTime.Level
		f.FullTimeSpecialization = ref.FullTime.Specialization
	}
	if ref.Intern != nil {
		f.InternSpecialization = ref.Intern.Specialization
	}
	return f, nil
}

// companyCohort derives the same-company cohort from an overall cohort,
// preserving order.
func companyCohort(cohort []Offer, companyID string) []Offer {
	out := make([]Offer, 0, len(cohort))
	for _, o := range cohort {
		if o.Company.ID == companyID {
			out = append(out, o)
		}
	}
	return out
}

// excludeOffer removes the offer with the given ID from a cohort,
// preserving order.
func excludeOffer(cohort []Offer, offerID string) []Offer {
	out := make([]Offer, 0, len(cohort))
	for _, o := range cohort {
		if o.ID != offerID {
			out = append(out, o)
		}
	}
	return out
}
