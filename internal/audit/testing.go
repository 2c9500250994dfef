package audit

// Events is a test helper that returns recorded events when using the
// in-memory recorder.
func Events(r Recorder) []Event {
	mem, ok := r.(*inMemoryRecorder)
	if !ok {
		return nil
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	out := make([]Event, len(mem.events))
	copy(out, mem.events)
	return out
}
