package plugins

// OutcomeKind classifies the result of one plugin invocation
type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeSkipped     OutcomeKind = "skipped"
	OutcomeConfigError OutcomeKind = "config-error"
	OutcomeFatal       OutcomeKind = "fatal"
)

// Outcome is the record of one plugin invocation, produced by the stage
// executor and consumed by the pipeline controller.
type Outcome struct {
	Stage  Stage
	Plugin string
	Kind   OutcomeKind
	Reason string
}

// Degrading reports whether this outcome marks the run as degraded.
// Fatal outcomes abort instead, so they are not "degrading".
func (o Outcome) Degrading() bool {
	return o.Kind == OutcomeSkipped || o.Kind == OutcomeConfigError
}

// Classify maps a plugin invocation error to an outcome kind and reason
func Classify(err error) (OutcomeKind, string) {
	switch {
	case err == nil:
		return OutcomeSuccess, ""
	case IsSkip(err):
		return OutcomeSkipped, err.Error()
	case IsConfigError(err):
		return OutcomeConfigError, err.Error()
	default:
		return OutcomeFatal, err.Error()
	}
}

// AnyDegraded reports whether any outcome in the slice is degrading
func AnyDegraded(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Degrading() {
			return true
		}
	}
	return false
}
