package diag

// Status is the outcome class of a single diagnostic test.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarning Status = "warning"

	// StatusError is reserved for the runner: it marks tests whose
	// function returned an error or panicked. Test logic itself should
	// only produce pass, fail, or warning.
	StatusError Status = "error"
)

// Label returns the short uppercase form used in rendered output.
func (s Status) Label() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusWarning:
		return "WARN"
	case StatusError:
		return "ERR"
	default:
		return "????"
	}
}
