package domain

// CopyStatus is the closed set of results a single copy attempt can have.
type CopyStatus int

const (
	CopySuccess CopyStatus = iota
	CopyOverridden
	CopySkipped
	CopyFailed
)

func (s CopyStatus) String() string {
	switch s {
	case CopySuccess:
		return "success"
	case CopyOverridden:
		return "overridden"
	case CopySkipped:
		return "skipped"
	case CopyFailed:
		return "failed"
	default:
		panic("unknown copy status")
	}
}

// CopyOutcome describes one copy attempt. Cause is only set when Status is
// CopyFailed.
type CopyOutcome struct {
	Status CopyStatus
	Cause  error
}

func Succeeded() CopyOutcome  { return CopyOutcome{Status: CopySuccess} }
func Overridden() CopyOutcome { return CopyOutcome{Status: CopyOverridden} }
func Skipped() CopyOutcome    { return CopyOutcome{Status: CopySkipped} }

func Failed(cause error) CopyOutcome {
	return CopyOutcome{Status: CopyFailed, Cause: cause}
}

// Copied reports whether the destination now holds the source bytes
// (or would, in a dry run).
func (o CopyOutcome) Copied() bool {
	return o.Status == CopySuccess || o.Status == CopyOverridden
}
