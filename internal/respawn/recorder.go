package respawn

// Recorder receives module events for metrics.
type Recorder interface {
	TeleportDecision(reason string, redirected bool)
	Enqueued()
	StoreError(op string)
	Population(tracked, queued int)
}

type nopRecorder struct{}

func (nopRecorder) TeleportDecision(string, bool) {}
func (nopRecorder) Enqueued() {}
func (nopRecorder) StoreError(string) {}
func (nopRecorder) Population(int, int) {}
