package pkg

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

// TeeWriter fans each write out to all of its outputs. A failing output does
// not stop the others, and the write is reported as complete as long as at
// least one output accepted the whole buffer.
type TeeWriter struct {
	mu       sync.Mutex
	outputs  []io.Writer
	failures []int
}

func NewTeeWriter(outputs ...io.Writer) *TeeWriter {
	tw := &TeeWriter{}
	for _, w := range outputs {
		if w == nil {
			continue
		}
		tw.outputs = append(tw.outputs, w)
	}
	tw.failures = make([]int, len(tw.outputs))
	return tw
}

func (tw *TeeWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	var err error
	delivered := false
	for i, w := range tw.outputs {
		n, werr := w.Write(p)
		if werr == nil && n < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			tw.failures[i]++
			err = multierr.Append(err, werr)
			continue
		}
		delivered = true
	}

	if delivered || len(tw.outputs) == 0 {
		return len(p), err
	}
	return 0, err
}

// Failures returns the number of failed writes per output, in constructor order.
func (tw *TeeWriter) Failures() []int {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	res := make([]int, len(tw.failures))
	copy(res, tw.failures)
	return res
}
