package strategy

import "sync"

// Tracker keeps the recent run of forecast signs per pair. A run of
// lookback forecasts sharing one sign is a confirmed short-term trend.
type Tracker struct {
	lookback int

	mu   sync.Mutex
	runs map[string][]int
}

func NewTracker(lookback int) *Tracker {
	return &Tracker{lookback: lookback, runs: make(map[string][]int)}
}

// Observe records the sign of a pair's latest forecast.
func (t *Tracker) Observe(pair string, direction float64) {
	if t.lookback <= 0 {
		return
	}
	sign := 0
	if direction > 0 {
		sign = 1
	} else if direction < 0 {
		sign = -1
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	run := append(t.runs[pair], sign)
	if len(run) > t.lookback {
		run = run[len(run)-t.lookback:]
	}
	t.runs[pair] = run
}

// Signal returns the confirmed trend sign for the pair: +1 or -1 when the
// last lookback forecasts all share that sign, 0 otherwise.
func (t *Tracker) Signal(pair string) int {
	if t.lookback <= 0 {
		return 0
	}
	t.mu.Lock()
	run := t.runs[pair]
	t.mu.Unlock()
	if len(run) < t.lookback {
		return 0
	}
	first := run[0]
	if first == 0 {
		return 0
	}
	for _, s := range run[1:] {
		if s != first {
			return 0
		}
	}
	return first
}
