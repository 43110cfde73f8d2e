package runlist

// Lookup resolves symbolic text keys to display strings.
type Lookup interface {
	Text(key string) string
}

// Texts is a Lookup over a plain map. Unknown keys come back unchanged.
type Texts map[string]string

// Text returns the string for key, or key itself.
func (t Texts) Text(key string) string {
	if s, ok := t[key]; ok {
		return s
	}
	return key
}

const (
	KeyGlobalSubmissions = "wordsGlobalSubmissions"
	KeySubmissions       = "wordsSubmissions"
	KeyNewSubmissions    = "wordsNewSubmissions"
	KeyAll               = "wordsAll"
	KeyTime              = "wordsTime"
	KeyGUID              = "wordsGUID"
	KeyUser              = "wordsUser"
	KeyContest           = "wordsContest"
	KeyProblem           = "wordsProblem"
	KeyStatus            = "wordsStatus"
	KeyVerdict           = "wordsVerdict"
	KeyLanguage          = "wordsLanguage"
	KeyPoints            = "wordsPoints"
	KeyPenalty           = "wordsPenalty"
	KeyPercentage        = "wordsPercentage"
	KeyMemory            = "wordsMemory"
	KeyRuntime           = "wordsRuntime"
	KeyDelay             = "wordsDelay"
	KeyRejudge           = "wordsRejudge"
	KeyDisqualify        = "wordsDisqualify"
	KeyDetails           = "wordsDetails"
	KeyPage              = "wordsPage"
	KeyPrevious          = "wordsPrevPage"
	KeyNext              = "wordsNextPage"
)

// VerdictKey is the key of the short label of v, e.g. "verdictWA".
func VerdictKey(v Verdict) string {
	return "verdict" + string(v)
}

// VerdictHelpKey is the key of the explanation of v, e.g. "verdictHelpWA".
func VerdictHelpKey(v Verdict) string {
	return "verdictHelp" + string(v)
}

// StatusKey is the key of the label of a processing status.
func StatusKey(s Status) string {
	return "runStatus" + string(s)
}
