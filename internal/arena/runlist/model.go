package runlist

// Model is the presentation derived from Props and the local filter state.
type Model struct {
	Title    string
	Columns  Columns
	Headers  []Header
	Rows     []Row
	Controls Controls
	Pager    *PagerModel
	Footer   *Footer

	// Filtered counts runs left after filtering, before paging.
	Filtered int
}

// Header is one column title.
type Header struct {
	Key   string
	Label string
}

// Controls is the filter row above the table.
type Controls struct {
	Visible bool
	Filters []FilterControl
}

// FilterControl is a select (Options set) or a free-text input.
type FilterControl struct {
	Dimension Dimension
	Label     string
	Value     string
	Options   []SelectOption
}

// FreeText reports whether the control is a text input.
func (c FilterControl) FreeText() bool {
	return c.Options == nil
}

// SelectOption is one entry of a select control.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// PagerModel holds the pager controls state.
type PagerModel struct {
	Page             int
	PreviousDisabled bool
	NextDisabled     bool
	PreviousOffset   int
	NextOffset       int
}

// Footer is the new submission affordance.
type Footer struct {
	Label    string
	Disabled bool
}

// Row is one rendered run. Optional cells hold "" when the run lacks data.
type Row struct {
	GUID      string
	Time      string
	Username  string
	Classname string
	Country   string
	Contest   string
	Problem   string

	Status       Status
	Verdict      Verdict
	StatusText   string
	VerdictLabel string
	VerdictHelp  string
	Popover      string

	Language   string
	Percentage string
	Points     string
	Penalty    string
	Delay      string
	Runtime    string
	Memory     string

	Disqualified bool
}

func (v *View) buildRow(run Run) Row {
	row := Row{
		GUID:         run.GUID,
		Time:         v.timeFormat.Format(run.Time),
		Username:     run.Username,
		Classname:    run.Classname,
		Country:      run.Country,
		Contest:      run.ContestAlias,
		Problem:      run.Alias,
		Status:       run.Status,
		Verdict:      run.Verdict,
		Language:     run.Language,
		Percentage:   v.numbers.percentage(run.Score),
		Points:       v.numbers.points(run.ContestScore),
		Penalty:      v.numbers.integer(run.Penalty),
		Delay:        v.numbers.integer(run.SubmitDelay),
		Disqualified: run.Type == RunTypeDisqualified,
	}
	if row.Contest == "" {
		row.Contest = v.props.ContestAlias
	}
	if run.Verdict != "" {
		row.VerdictLabel = v.texts.Text(VerdictKey(run.Verdict))
		row.VerdictHelp = v.texts.Text(VerdictHelpKey(run.Verdict))
		row.Popover = row.VerdictLabel + ": " + row.VerdictHelp
	}
	switch {
	case run.Status == StatusReady && run.Verdict != "":
		row.StatusText = row.VerdictLabel
		row.Runtime = v.numbers.runtime(run.Runtime)
		row.Memory = v.numbers.memory(run.Memory)
	case run.Status != "":
		row.StatusText = v.texts.Text(StatusKey(run.Status))
	}
	return row
}

func (v *View) buildHeaders() []Header {
	cols := v.props.Columns
	keys := []string{KeyTime, KeyGUID}
	if cols.User {
		keys = append(keys, KeyUser)
	}
	if cols.Contest {
		keys = append(keys, KeyContest)
	}
	if cols.Problem {
		keys = append(keys, KeyProblem)
	}
	keys = append(keys, KeyStatus)
	if cols.Points {
		keys = append(keys, KeyPoints, KeyPenalty, KeyDelay)
	} else {
		keys = append(keys, KeyPercentage)
	}
	keys = append(keys, KeyLanguage, KeyMemory, KeyRuntime)
	if cols.Details {
		keys = append(keys, KeyDetails)
	}
	if cols.Rejudge {
		keys = append(keys, KeyRejudge)
	}
	if cols.Disqualify {
		keys = append(keys, KeyDisqualify)
	}
	headers := make([]Header, len(keys))
	for i, key := range keys {
		headers[i] = Header{Key: key, Label: v.texts.Text(key)}
	}
	return headers
}

func (v *View) buildControls() Controls {
	if !v.props.ShowPager {
		return Controls{}
	}
	controls := Controls{Visible: true}
	controls.Filters = append(controls.Filters,
		v.selectControl(DimensionVerdict, KeyVerdict, verdictOptions(v.texts)),
		v.selectControl(DimensionStatus, KeyStatus, statusOptions(v.texts)),
		v.selectControl(DimensionLanguage, KeyLanguage, languageOptions()),
	)
	if v.props.Columns.User {
		controls.Filters = append(controls.Filters, FilterControl{
			Dimension: DimensionUsername,
			Label:     v.texts.Text(KeyUser),
			Value:     v.selection.Get(DimensionUsername),
		})
	}
	if v.props.Columns.Problem {
		controls.Filters = append(controls.Filters, FilterControl{
			Dimension: DimensionProblem,
			Label:     v.texts.Text(KeyProblem),
			Value:     v.selection.Get(DimensionProblem),
		})
	}
	return controls
}

func (v *View) selectControl(d Dimension, labelKey string, options []SelectOption) FilterControl {
	current := v.selection.Get(d)
	all := SelectOption{Value: "", Label: v.texts.Text(KeyAll), Selected: current == ""}
	out := append([]SelectOption{all}, options...)
	for i := range out[1:] {
		out[i+1].Selected = out[i+1].Value == current
	}
	return FilterControl{Dimension: d, Label: v.texts.Text(labelKey), Value: current, Options: out}
}

func verdictOptions(texts Lookup) []SelectOption {
	options := make([]SelectOption, len(Verdicts))
	for i, verdict := range Verdicts {
		options[i] = SelectOption{Value: string(verdict), Label: texts.Text(VerdictKey(verdict))}
	}
	return options
}

func statusOptions(texts Lookup) []SelectOption {
	options := make([]SelectOption, len(Statuses))
	for i, status := range Statuses {
		options[i] = SelectOption{Value: string(status), Label: texts.Text(StatusKey(status))}
	}
	return options
}

func languageOptions() []SelectOption {
	options := make([]SelectOption, len(Languages))
	for i, lang := range Languages {
		options[i] = SelectOption{Value: lang, Label: lang}
	}
	return options
}
