package main

import (
	"fmt"
	"sync/atomic"
	"time"
)

const (
	progressUpdateInterval = 250 * time.Millisecond
	clearLineSequence      = "\r\033[K"
)

// requestProgress renders a single-line countdown while a request is running,
// including how many advertisements have been evaluated so far.
//
// A requestProgress is single-use: Start at most once, then Stop. Stop is safe
// to call multiple times and must be called to terminate the goroutine.
type requestProgress struct {
	deadline time.Time
	seen     atomic.Int64
	stopChan chan struct{}
	done     chan struct{}
	stopped  atomic.Bool
}

func newRequestProgress(scanTime time.Duration) *requestProgress {
	return &requestProgress{
		deadline: time.Now().Add(scanTime),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *requestProgress) Start() {
	fmt.Print("\rScanning...   ")

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(progressUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stopChan:
				return
			case <-ticker.C:
				remaining := time.Until(p.deadline)
				if remaining < 0 {
					remaining = 0
				}
				// Round to the nearest second for display
				fmt.Printf("\rScanning... %ds left, %d candidates seen   ",
					int(remaining.Seconds()+0.5), p.seen.Load())
			}
		}
	}()
}

// Observed bumps the candidate counter shown on the progress line.
// Safe to call from any goroutine.
func (p *requestProgress) Observed() {
	p.seen.Add(1)
}

// Stop terminates the display goroutine and clears the progress line.
func (p *requestProgress) Stop() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}
	close(p.stopChan)
	<-p.done
	fmt.Print(clearLineSequence)
}
