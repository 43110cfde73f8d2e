// Package runlist derives the arena submissions table from a list of runs:
// it sorts, filters, paginates and annotates runs for display and reports
// filter changes back to its owner instead of querying anything itself.
package runlist

import "time"

// Verdict is the judged outcome of a run.
type Verdict string

const (
	VerdictAC  Verdict = "AC"  // accepted
	VerdictPA  Verdict = "PA"  // partially accepted
	VerdictPE  Verdict = "PE"  // presentation error
	VerdictWA  Verdict = "WA"  // wrong answer
	VerdictTLE Verdict = "TLE" // time limit exceeded
	VerdictOLE Verdict = "OLE" // output limit exceeded
	VerdictMLE Verdict = "MLE" // memory limit exceeded
	VerdictRTE Verdict = "RTE" // runtime error
	VerdictRFE Verdict = "RFE" // restricted function
	VerdictCE  Verdict = "CE"  // compilation error
	VerdictJE  Verdict = "JE"  // judge error
	VerdictVE  Verdict = "VE"  // validator error
)

// Verdicts lists every verdict in the order the verdict filter offers them.
var Verdicts = []Verdict{
	VerdictAC, VerdictPA, VerdictPE, VerdictWA, VerdictTLE, VerdictOLE,
	VerdictMLE, VerdictRTE, VerdictRFE, VerdictCE, VerdictJE, VerdictVE,
}

// Status is the processing state of a run.
type Status string

const (
	StatusNew       Status = "new"
	StatusWaiting   Status = "waiting"
	StatusCompiling Status = "compiling"
	StatusRunning   Status = "running"
	StatusReady     Status = "ready"
	StatusUploading Status = "uploading"
)

// Statuses lists every status in the order the status filter offers them.
var Statuses = []Status{
	StatusNew, StatusWaiting, StatusCompiling, StatusRunning, StatusReady, StatusUploading,
}

// Languages offered by the language filter.
var Languages = []string{
	"c11-gcc", "c11-clang", "cpp11-gcc", "cpp17-gcc", "cpp20-gcc", "java",
	"kotlin", "py2", "py3", "rb", "cs", "pas", "hs", "lua", "go", "rs", "js",
}

// RunType categorizes a run.
type RunType string

const (
	RunTypeNormal       RunType = "normal"
	RunTypeTest         RunType = "test"
	RunTypeDisqualified RunType = "disqualified"
)

// Run is one submission record as delivered by the owner. Only GUID and Time
// are required; every other field may be zero.
type Run struct {
	GUID         string    `json:"guid"`
	RunID        int64     `json:"run_id,omitempty"`
	Time         time.Time `json:"time"`
	Username     string    `json:"username"`
	Verdict      Verdict   `json:"verdict"`
	Status       Status    `json:"status"`
	Language     string    `json:"language"`
	Score        float64   `json:"score"`
	ContestScore *float64  `json:"contest_score,omitempty"`
	Penalty      int64     `json:"penalty"`
	Runtime      int64     `json:"runtime"`      // milliseconds
	Memory       int64     `json:"memory"`       // bytes
	SubmitDelay  int64     `json:"submit_delay"` // minutes since contest start
	Type         RunType   `json:"type"`
	Alias        string    `json:"alias"` // problem alias
	ContestAlias string    `json:"contest_alias,omitempty"`
	Classname    string    `json:"classname"`
	Country      string    `json:"country"`
}
