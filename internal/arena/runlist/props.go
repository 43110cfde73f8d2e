package runlist

// Columns is the set of optional columns and actions shown per row.
type Columns struct {
	Contest    bool `json:"show_contest"`
	Problem    bool `json:"show_problem"`
	User       bool `json:"show_user"`
	Points     bool `json:"show_points"`
	Rejudge    bool `json:"show_rejudge"`
	Disqualify bool `json:"show_disqualify"`
	Details    bool `json:"show_details"`
}

// Props is everything the owner hands to the view. Runs is never modified.
type Props struct {
	Runs         []Run
	ContestAlias string
	ProblemAlias string

	Columns   Columns
	ShowPager bool

	// RowCount enables pagination when positive; Offset is the page index
	// the owner currently holds.
	RowCount int
	Offset   int

	// Username pre-selects the username filter when not empty.
	Username string
	// Filters seeds the remaining filter controls.
	Filters Selection

	IsContestFinished      bool
	UseNewSubmissionButton bool
}

func (p Props) pager() Pager {
	return Pager{Offset: p.Offset, RowCount: p.RowCount}
}

func (p Props) initialSelection() Selection {
	sel := make(Selection, len(p.Filters)+1)
	for d, v := range p.Filters {
		if d.Filterable() && v != "" {
			sel[d] = v
		}
	}
	if p.Username != "" {
		sel[DimensionUsername] = p.Username
	}
	return sel
}
