package runlist

import "github.com/pmezard/go-difflib/difflib"

// DiffFormatter renders the difference between two submission texts.
type DiffFormatter interface {
	Diff(fromName, toName, from, to string) (string, error)
}

// UnifiedDiff formats differences as a unified diff.
type UnifiedDiff struct {
	// Context is the number of unchanged lines kept around each change.
	Context int
}

// Diff returns "" when from and to are identical.
func (u UnifiedDiff) Diff(fromName, toName, from, to string) (string, error) {
	context := u.Context
	if context <= 0 {
		context = 3
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  context,
	})
}
