package geocode

import "sync/atomic"

// Sequencer hands out increasing request tokens so that only the answer to the
// most recent lookup is applied.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new token, superseding every earlier one.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Latest reports whether token is still the newest issued.
func (s *Sequencer) Latest(token uint64) bool {
	return s.latest.Load() == token
}

// Current returns the newest token issued, zero if none.
func (s *Sequencer) Current() uint64 {
	return s.latest.Load()
}

// Restore sets the counter, used when a session is rebuilt from a client snapshot.
func (s *Sequencer) Restore(token uint64) {
	s.latest.Store(token)
}

// Claim records token as the newest when it is greater than every token seen so far.
// It reports false for a token that an equal or newer lookup has already superseded.
func (s *Sequencer) Claim(token uint64) bool {
	for {
		cur := s.latest.Load()
		if token <= cur {
			return false
		}
		if s.latest.CompareAndSwap(cur, token) {
			return true
		}
	}
}
