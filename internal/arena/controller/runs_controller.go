package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ojarena/internal/arena/repository"
	"ojarena/internal/arena/runlist"
	"ojarena/internal/arena/service"
	pkgerrors "ojarena/pkg/errors"
	"ojarena/pkg/utils/logger"
	"ojarena/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

const (
	defaultMaxSessions = 4096
	defaultSessionTTL  = 30 * time.Minute
)

var errSessionExpired = errors.New("run list session expired")

// Options configures how run lists are presented.
type Options struct {
	Columns                runlist.Columns
	ShowPager              bool
	UseNewSubmissionButton bool
	// RowCount is the page size used when a request does not ask for one.
	RowCount   int
	TimeFormat runlist.TimeFormat
	DetailsURL string
	ScriptURL  string

	MaxSessions int
	SessionTTL  time.Duration
}

// pageState is what the server remembers about one open run list.
type pageState struct {
	Query    service.RunQuery
	Finished bool
}

// RunsController serves run list pages, their datastar round trips and the
// JSON run API.
type RunsController struct {
	runs     *service.RunsService
	sessions *repository.LRUCache[pageState]
	opts     Options
}

// NewRunsController creates a new RunsController.
func NewRunsController(runs *service.RunsService, opts Options) *RunsController {
	if opts.RowCount < 0 {
		opts.RowCount = 0
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	return &RunsController{
		runs:     runs,
		sessions: repository.NewLRUCache[pageState](opts.MaxSessions, opts.SessionTTL),
		opts:     opts,
	}
}

// RegisterRoutes mounts the run list endpoints on router.
func RegisterRoutes(router gin.IRouter, h *RunsController) {
	arena := router.Group("/arena/:contest/runs")
	arena.GET("", h.Page)
	arena.POST("/filter", h.Filter)
	arena.GET("/updates", h.Updates)

	api := router.Group("/api/v1")
	api.GET("/arena/:contest/runs", h.List)
	api.GET("/runs/:guid/diff", h.Diff)
}

// Page renders the run list document and opens a session for it.
func (h *RunsController) Page(c *gin.Context) {
	q, err := h.queryFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	finished, _ := strconv.ParseBool(c.Query("finished"))
	state := pageState{Query: q, Finished: finished}

	result, err := h.runs.Page(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	session := uuid.NewString()
	h.sessions.Set(session, state)

	_, tag := requestLanguage(c)
	view := h.newView(c, state, result, nil)
	page := runListPage(pageData{
		Title:      view.Render().Title,
		Lang:       tag.String(),
		ScriptURL:  h.opts.ScriptURL,
		Session:    session,
		UpdatesURL: runsURL(q.ContestAlias, "/updates"),
	}, view.Component())

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := page.Render(c.Request.Context(), c.Writer); err != nil {
		logger.Error(c.Request.Context(), "render run list page failed", zap.Error(err))
	}
}

type filterSignals struct {
	Filter  string `json:"filter"`
	Value   string `json:"value"`
	Session string `json:"session"`
}

// Filter receives one filter-changed action from a rendered list, folds the
// resulting events into the session query and patches the list.
func (h *RunsController) Filter(c *gin.Context) {
	var signals filterSignals
	if err := datastar.ReadSignals(c.Request, &signals); err != nil {
		response.BadRequest(c, "Invalid signals")
		return
	}
	ctx := c.Request.Context()
	state, err := h.session(c, signals.Session)
	if err != nil {
		response.Error(c, err)
		return
	}

	current, err := h.runs.Page(ctx, state.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	var recorder runlist.Recorder
	view := h.newView(c, state, current, &recorder)
	if err := dispatch(view, state.Query, signals); err != nil {
		response.Error(c, err)
		return
	}

	query := state.Query
	for _, event := range recorder.Events() {
		query, err = service.ApplyFilterChange(query, event)
		if err != nil {
			response.Error(c, err)
			return
		}
		logger.Debug(ctx, runlist.EventFilterChanged,
			zap.String("contest", query.ContestAlias),
			zap.String("filter", event.Filter),
			zap.String("value", event.Value),
		)
	}
	state.Query = query
	h.sessions.Set(signals.Session, state)

	sse := datastar.NewSSE(c.Writer, c.Request)
	if err := h.patch(c, sse, state); err != nil {
		logger.Warn(ctx, "patch run list failed", zap.Error(err))
		_ = sse.ConsoleError(err)
	}
}

type sessionSignals struct {
	Session string `json:"session"`
}

// Updates keeps an SSE stream open and re-renders the list whenever runs of
// the contest change.
func (h *RunsController) Updates(c *gin.Context) {
	var signals sessionSignals
	if err := datastar.ReadSignals(c.Request, &signals); err != nil {
		response.BadRequest(c, "Invalid signals")
		return
	}
	if _, err := h.session(c, signals.Session); err != nil {
		response.Error(c, err)
		return
	}

	updates, cancel := h.runs.Subscribe(c.Param("contest"))
	defer cancel()

	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})
	sse := datastar.NewSSE(c.Writer, c.Request)

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			state, ok := h.sessions.Get(signals.Session)
			if !ok {
				_ = sse.ConsoleError(errSessionExpired)
				return
			}
			if err := h.patch(c, sse, state); err != nil {
				logger.Warn(ctx, "push run list update failed", zap.Error(err))
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// List returns one page of runs as JSON.
func (h *RunsController) List(c *gin.Context) {
	q, err := h.queryFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.runs.Page(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithOffsetPage(c, result.Visible(), q.Offset, q.RowCount, result.HasMore)
}

// DiffResponse is the source comparison of two runs.
type DiffResponse struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Diff      string `json:"diff"`
	Identical bool   `json:"identical"`
}

// Diff compares the source of the run named by ?against= with the source
// of :guid.
func (h *RunsController) Diff(c *gin.Context) {
	guid := c.Param("guid")
	against := c.Query("against")
	if against == "" {
		response.BadRequest(c, "Query parameter against is required")
		return
	}
	diff, err := h.runs.Compare(c.Request.Context(), against, guid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, DiffResponse{From: against, To: guid, Diff: diff, Identical: diff == ""})
}

func (h *RunsController) session(c *gin.Context, id string) (pageState, error) {
	state, ok := h.sessions.Get(id)
	if !ok || state.Query.ContestAlias != c.Param("contest") {
		return pageState{}, pkgerrors.New(pkgerrors.NotFound).WithMessage(errSessionExpired.Error())
	}
	return state, nil
}

func (h *RunsController) patch(c *gin.Context, sse *datastar.ServerSentEventGenerator, state pageState) error {
	result, err := h.runs.Page(c.Request.Context(), state.Query)
	if err != nil {
		return err
	}
	return sse.PatchElementTempl(h.newView(c, state, result, nil).Component())
}

func (h *RunsController) newView(c *gin.Context, state pageState, result service.PageResult, emitter runlist.Emitter) *runlist.View {
	q := state.Query
	texts, tag := requestLanguage(c)
	props := runlist.Props{
		Runs:                   result.Runs,
		ContestAlias:           q.ContestAlias,
		ProblemAlias:           q.ProblemAlias,
		Columns:                h.opts.Columns,
		ShowPager:              h.opts.ShowPager,
		RowCount:               q.RowCount,
		Offset:                 q.Offset,
		Username:               q.Username,
		Filters:                q.Selection(),
		IsContestFinished:      state.Finished,
		UseNewSubmissionButton: h.opts.UseNewSubmissionButton,
	}
	return runlist.New(props,
		runlist.WithEmitter(emitter),
		runlist.WithTexts(texts),
		runlist.WithLocale(tag),
		runlist.WithTimeFormat(h.opts.TimeFormat),
		runlist.WithHooks(runlist.Hooks{
			FilterURL:  runsURL(q.ContestAlias, "/filter"),
			DetailsURL: h.opts.DetailsURL,
		}),
	)
}

// dispatch replays a browser action on the view so that only the events the
// view would emit reach the query. Offset jumps other than one page forward
// or back come from stale pages and are ignored.
func dispatch(view *runlist.View, q service.RunQuery, signals filterSignals) error {
	dim, err := runlist.ParseDimension(signals.Filter)
	if err != nil {
		return pkgerrors.FilterError(signals.Filter, signals.Value)
	}
	if dim != runlist.DimensionOffset {
		if err := view.SetFilter(dim, signals.Value); err != nil {
			return pkgerrors.FilterError(signals.Filter, signals.Value)
		}
		return nil
	}

	offset, err := strconv.Atoi(signals.Value)
	if err != nil || offset < 0 {
		return pkgerrors.New(pkgerrors.InvalidOffset).WithDetail("value", signals.Value)
	}
	switch offset {
	case q.Offset + 1:
		view.NextPage()
	case q.Offset - 1:
		view.PreviousPage()
	}
	return nil
}

func (h *RunsController) queryFromRequest(c *gin.Context) (service.RunQuery, error) {
	q := service.RunQuery{
		ContestAlias: c.Param("contest"),
		ProblemAlias: c.Query("problem_alias"),
		Problem:      c.Query("problem"),
		Verdict:      c.Query("verdict"),
		Status:       c.Query("status"),
		Language:     c.Query("language"),
		Username:     c.Query("username"),
		RowCount:     h.opts.RowCount,
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return q, pkgerrors.New(pkgerrors.InvalidOffset).WithDetail("value", v)
		}
		q.Offset = offset
	}
	if v := c.Query("rows"); v != "" {
		rows, err := strconv.Atoi(v)
		if err != nil || rows < 0 {
			return q, pkgerrors.ValidationError("rows", "must be a non-negative integer")
		}
		q.RowCount = rows
	}
	return q, nil
}

func runsURL(contest, suffix string) string {
	return "/arena/" + url.PathEscape(contest) + "/runs" + suffix
}
