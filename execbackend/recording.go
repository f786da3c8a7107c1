package execbackend

import (
	"context"
	"sync"
)

// RecordingBackend is a Backend test double: it launches no process,
// recording every call it receives and returning canned results keyed
// by command name, or a configurable default. It satisfies the same
// contract a real backend must, per §4.K's requirement that tests
// have such a double available.
type RecordingBackend struct {
	mu sync.Mutex

	// Results maps a command name to the Result it should return.
	// Commands with no matching entry get Default.
	Results map[string]Result
	Default Result

	Calls         []Command
	PipelineCalls [][]Command
	JobControlled bool
}

// NewRecordingBackend returns a RecordingBackend whose Default result
// is a clean exit.
func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{Results: map[string]Result{}}
}

func (b *RecordingBackend) Execute(ctx context.Context, cmd Command) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, cmd)
	if res, ok := b.Results[cmd.Name]; ok {
		return res, nil
	}
	return b.Default, nil
}

func (b *RecordingBackend) ExecutePipeline(ctx context.Context, cmds []Command) (Result, error) {
	b.mu.Lock()
	b.PipelineCalls = append(b.PipelineCalls, cmds)
	b.mu.Unlock()
	var last Result
	for _, cmd := range cmds {
		res, err := b.Execute(ctx, cmd)
		if err != nil {
			return res, err
		}
		last = res
	}
	return last, nil
}

func (b *RecordingBackend) InitJobControl() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.JobControlled = true
	return nil
}
