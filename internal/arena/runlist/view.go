package runlist

import (
	"fmt"

	"golang.org/x/text/language"
)

// View is the run list component. It holds the owner's props and its own
// filter selection, and emits FilterChanged events for every committed user
// action. A View is not safe for concurrent use; the Runs it receives are
// only read and may be shared between views.
type View struct {
	props     Props
	selection Selection

	emitter    Emitter
	texts      Lookup
	timeFormat TimeFormat
	numbers    numberFormat
	hooks      Hooks
}

// Option configures a View.
type Option func(*View)

// WithEmitter routes filter-changed events to e.
func WithEmitter(e Emitter) Option {
	return func(v *View) {
		if e != nil {
			v.emitter = e
		}
	}
}

// WithTexts sets the text lookup used for titles, labels and verdict help.
func WithTexts(l Lookup) Option {
	return func(v *View) {
		if l != nil {
			v.texts = l
		}
	}
}

// WithTimeFormat sets how submission times are printed.
func WithTimeFormat(f TimeFormat) Option {
	return func(v *View) {
		v.timeFormat = f
	}
}

// WithLocale sets the locale used to print numbers.
func WithLocale(tag language.Tag) Option {
	return func(v *View) {
		v.numbers = newNumberFormat(tag)
	}
}

// WithHooks wires the rendered controls to an owner endpoint.
func WithHooks(h Hooks) Option {
	return func(v *View) {
		v.hooks = h
	}
}

// New creates a view over props.
func New(props Props, opts ...Option) *View {
	v := &View{
		props:     props,
		selection: props.initialSelection(),
		emitter:   discardEmitter{},
		texts:     Texts{},
		numbers:   newNumberFormat(language.AmericanEnglish),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetProps replaces the owner-supplied props. The local filter selection is
// kept as is.
func (v *View) SetProps(props Props) {
	v.props = props
}

// Selection returns a copy of the local filter selection.
func (v *View) Selection() Selection {
	return v.selection.Clone()
}

// SetFilter commits value for dimension d and emits one FilterChanged event.
// An empty value clears the dimension. Committing the value already
// selected emits nothing. Offset changes go through NextPage and
// PreviousPage.
func (v *View) SetFilter(d Dimension, value string) error {
	if !d.Filterable() {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, string(d))
	}
	if v.selection.Get(d) == value {
		return nil
	}
	if value == "" {
		delete(v.selection, d)
	} else {
		v.selection[d] = value
	}
	v.emitter.Emit(FilterChanged{Filter: string(d), Value: value})
	return nil
}

// NextPage asks the owner for the following page. It returns false and
// emits nothing when the next control is disabled.
func (v *View) NextPage() bool {
	pager := v.props.pager()
	if pager.NextDisabled(len(v.filtered())) {
		return false
	}
	v.emitter.Emit(OffsetChanged(pager.offset() + 1))
	return true
}

// PreviousPage asks the owner for the preceding page. It returns false and
// emits nothing when the previous control is disabled.
func (v *View) PreviousPage() bool {
	pager := v.props.pager()
	if !pager.Enabled() || pager.PreviousDisabled() {
		return false
	}
	v.emitter.Emit(OffsetChanged(pager.offset() - 1))
	return true
}

func (v *View) filtered() []Run {
	return Filter(SortByTime(v.props.Runs), v.selection)
}

// Render derives the presentation: sort, filter, page, then format rows.
func (v *View) Render() Model {
	filtered := v.filtered()
	pager := v.props.pager()
	visible := pager.Slice(filtered)

	model := Model{
		Title:    v.title(),
		Columns:  v.props.Columns,
		Headers:  v.buildHeaders(),
		Rows:     make([]Row, 0, len(visible)),
		Controls: v.buildControls(),
		Filtered: len(filtered),
	}
	for _, run := range visible {
		model.Rows = append(model.Rows, v.buildRow(run))
	}
	if v.props.ShowPager && pager.Enabled() {
		model.Pager = &PagerModel{
			Page:             pager.Label(),
			PreviousDisabled: pager.PreviousDisabled(),
			NextDisabled:     pager.NextDisabled(len(filtered)),
			PreviousOffset:   pager.offset() - 1,
			NextOffset:       pager.offset() + 1,
		}
	}
	if v.props.UseNewSubmissionButton {
		model.Footer = &Footer{
			Label:    v.texts.Text(KeyNewSubmissions),
			Disabled: v.props.IsContestFinished,
		}
	}
	return model
}

func (v *View) title() string {
	if v.props.ProblemAlias != "" {
		return v.texts.Text(KeySubmissions)
	}
	return v.texts.Text(KeyGlobalSubmissions)
}
