package offers

// Comparable is the unified projection of the two offer shapes used by the
// ranking and list pipelines. Fields are nil when the underlying payload
// does not carry them.
type Comparable struct {
	Compensation   *float64
	Level          *string
	Specialization *string
	Title          *string
}

// Comparable projects an offer into its comparable form. FULLTIME offers
// compare on total compensation, INTERN offers on monthly salary; the values
// stay in their stored currency.
func (o *Offer) Comparable() Comparable {
	var c Comparable
	switch o.JobType {
	case JobTypeFullTime:
		if o.FullTime != nil {
			v := o.FullTime.TotalCompensation.Value
			c.Compensation = &v
			c.Level = &o.FullTime.Level
			c.Specialization = &o.FullTime.Specialization
			c.Title = &o.FullTime.Title
		}
	case JobTypeIntern:
		if o.Intern != nil {
			v := o.Intern.MonthlySalary.Value
			c.Compensation = &v
			c.Specialization = &o.Intern.Specialization
			c.Title = &o.Intern.Title
		}
	}
	return c
}
