package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	errs    []error
	panics  []any
	flushed time.Duration
}

func (r *recorder) CaptureException(err error, _ map[string]string) { r.errs = append(r.errs, err) }
func (r *recorder) CapturePanic(v any)                              { r.panics = append(r.panics, v) }
func (r *recorder) Flush(d time.Duration)                          { r.flushed = d }

func TestInitAndCapture(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})

	Init(nil)
	assert.Same(t, rec, Current())

	CaptureException(nil, nil)
	CaptureException(errors.New("boom"), map[string]string{"module": "test"})
	Flush(time.Second)

	assert.Len(t, rec.errs, 1)
	assert.Equal(t, time.Second, rec.flushed)
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})

	assert.PanicsWithValue(t, "bad lineup", func() {
		defer Recover()
		panic("bad lineup")
	})
	assert.Equal(t, []any{"bad lineup"}, rec.panics)
	assert.Equal(t, 2*time.Second, rec.flushed)
}
