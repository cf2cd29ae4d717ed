package metrics

import "errors"

// MultiSink fans records out to several sinks. Every sink is called even
// when an earlier one fails; the errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink combines sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordSolve(res SolveResult) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordSolve(res))
	}
	return errors.Join(errs...)
}

// RecordAttempt forwards to the sinks implementing AttemptRecorder.
func (m *MultiSink) RecordAttempt(res AttemptResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(AttemptRecorder); ok {
			errs = append(errs, r.RecordAttempt(res))
		}
	}
	return errors.Join(errs...)
}

// RecordPlayerMinutes forwards to the sinks implementing PlayerMinutesRecorder.
func (m *MultiSink) RecordPlayerMinutes(mins []PlayerMinutes) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(PlayerMinutesRecorder); ok {
			errs = append(errs, r.RecordPlayerMinutes(mins))
		}
	}
	return errors.Join(errs...)
}
