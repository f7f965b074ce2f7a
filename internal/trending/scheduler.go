package trending

import (
	"context"
	"log/slog"
	"time"
)

// RegisterBackgroundRefresh starts the periodic refresh loop, which forces a
// full refresh at the configured default limit once per refresh interval.
// Calling it while the loop is already running is a no-op.
func (e *Engine) RegisterBackgroundRefresh() {
	e.loopMu.Lock()
	defer e.loopMu.Unlock()
	if e.stop != nil {
		return
	}
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go e.refreshLoop(e.stop, e.done)
	slog.Info("trending: refresh loop started", "interval", e.refreshInterval)
}

// Shutdown stops the refresh loop and blocks until it has observed the stop
// signal and exited. An in-flight refresh is allowed to complete rather than
// being aborted. Safe to call when the loop is not running; after Shutdown
// returns, RegisterBackgroundRefresh can start the loop again.
func (e *Engine) Shutdown() {
	e.loopMu.Lock()
	defer e.loopMu.Unlock()
	if e.stop == nil {
		return
	}
	close(e.stop)
	<-e.done
	e.stop, e.done = nil, nil
	slog.Info("trending: refresh loop stopped")
}

// refreshLoop runs one cycle immediately, then once per interval until stop
// is closed. The wait is interruptible so shutdown latency is bounded by
// signal delivery, not by the refresh interval.
func (e *Engine) refreshLoop(stop, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(e.refreshInterval)
	defer t.Stop()
	for {
		e.runCycle()
		select {
		case <-stop:
			return
		case <-t.C:
		}
	}
}

// runCycle performs one forced refresh, containing panics so a transient bug
// in merge logic cannot kill the loop.
func (e *Engine) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("trending: refresh cycle failed", "panic", r)
		}
	}()
	e.FetchTrending(context.Background(), 0, true)
}
