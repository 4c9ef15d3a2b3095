package logging

import "sync"

// Entry is a single recorded log line.
type Entry struct {
	Level   string
	Message string
}

// Recorder captures log lines in memory for test assertions.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
}

func (r *Recorder) Log(message string)   { r.record("log", message) }
func (r *Recorder) Info(message string)  { r.record("info", message) }
func (r *Recorder) Warn(message string)  { r.record("warn", message) }
func (r *Recorder) Error(message string) { r.record("error", message) }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
