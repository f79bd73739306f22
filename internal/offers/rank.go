package offers

import "math"

// rankOffer returns the zero-based index of the offer with the given ID in
// a cohort, or -1 when absent. Cohorts arrive ordered descending by
// compensation, so the index is a rank from the top.
func rankOffer(offerID string, cohort []Offer) int {
	for i := range cohort {
		if cohort[i].ID == offerID {
			return i
		}
	}
	return -1
}

// percentileOf computes the offer's fractional rank within its cohort:
// index/len, or 0 for an empty cohort. Note the direction: the cohort is
// sorted descending by compensation, so 0 means highest paid. This is a
// rank-from-top fraction, not the usual "% below" percentile.
func percentileOf(offerID string, cohort []Offer) float64 {
	if len(cohort) == 0 {
		return 0
	}
	return float64(rankOffer(offerID, cohort)) / float64(len(cohort))
}

// topSlice extracts the ~90th-percentile band from a cohort that has
// already had the reference offer removed: up to two offers starting at
// floor(n*0.9)-1. Cohorts of one or zero offers are returned whole.
func topSlice(cohort []Offer) []Offer {
	n := len(cohort)
	if n <= 1 {
		return cohort
	}
	idx90 := int(math.Floor(float64(n)*0.9)) - 1
	end := idx90 + 2
	if end > n {
		end = n
	}
	return cohort[idx90:end]
}
