// Package quota enforces the daily review limit.
package quota

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// StateKey is the key the quota record is persisted under.
const StateKey = "revkit.quota"

// DefaultLimit is the number of reviews allowed per calendar day.
const DefaultLimit = 100

const dateLayout = "2006-01-02"

// ErrExhausted is returned by Check and Consume once the day's limit is
// used up.
var ErrExhausted = errors.New("daily review limit reached")

// KV persists the quota record. settings.StateFile satisfies it.
type KV interface {
	Get(key string, out any) bool
	Put(key string, value any) error
}

// State is the persisted record.
type State struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// Tracker counts reviews per local calendar day.
type Tracker struct {
	KV    KV
	Limit int
	// Now defaults to time.Now.
	Now func() time.Time

	mu sync.Mutex
}

func (t *Tracker) effectiveLimit() int {
	if t.Limit > 0 {
		return t.Limit
	}
	return DefaultLimit
}

func (t *Tracker) today() string {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	return now().Local().Format(dateLayout)
}

// load returns the stored record, resetting and persisting it when it
// belongs to an earlier day.
func (t *Tracker) load() (State, error) {
	var st State
	t.KV.Get(StateKey, &st)
	if today := t.today(); st.Date != today {
		st = State{Count: 0, Date: today}
		if err := t.KV.Put(StateKey, st); err != nil {
			return st, fmt.Errorf("resetting quota: %w", err)
		}
	}
	return st, nil
}

// Check verifies that a review may start without consuming anything.
func (t *Tracker) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load()
	if err != nil {
		return err
	}
	if st.Count >= t.effectiveLimit() {
		return ErrExhausted
	}
	return nil
}

// Consume records one review. It fails with ErrExhausted instead of
// exceeding the limit.
func (t *Tracker) Consume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load()
	if err != nil {
		return err
	}
	if st.Count >= t.effectiveLimit() {
		return ErrExhausted
	}
	st.Count++
	if err := t.KV.Put(StateKey, st); err != nil {
		return fmt.Errorf("saving quota: %w", err)
	}
	return nil
}

// Status returns today's usage and the limit.
func (t *Tracker) Status() (used, limit int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load()
	return st.Count, t.effectiveLimit(), err
}
