package systemd

import (
	"context"
	"errors"
	"sync"

	"github.com/creachadair/taskgroup"

	"github.com/sysdkit/systemd/transport"
)

// Signal is one broadcast message received from the bus.
type Signal = transport.Signal

const watcherBuffer = 16

// Watch subscribes to broadcast signals selected by the given matches
// and returns a Watcher delivering them. With no matches, every
// broadcast signal is delivered.
//
// Watch requires a Conn with its own bus connection; a Conn built with
// [NewWithCaller] cannot watch.
func (c *Conn) Watch(ctx context.Context, matches ...*Match) (*Watcher, error) {
	if c.bus == nil {
		return nil, errors.New("connection cannot watch: no bus")
	}
	if len(matches) == 0 {
		matches = []*Match{MatchSignals()}
	}

	for i, m := range matches {
		if err := c.bus.AddMatch(ctx, m.String()); err != nil {
			for _, added := range matches[:i] {
				c.bus.RemoveMatch(ctx, added.String())
			}
			return nil, err
		}
	}

	raw, stop := c.bus.Signals(watcherBuffer)
	w := &Watcher{
		conn:    c,
		ch:      make(chan Signal, watcherBuffer),
		done:    make(chan struct{}),
		stop:    stop,
		matches: matches,
	}
	w.g = taskgroup.New(nil)
	w.g.Go(func() error {
		defer close(w.ch)
		for sig := range raw {
			if !w.wants(sig) {
				continue
			}
			select {
			case w.ch <- sig:
			case <-w.done:
				return nil
			}
		}
		return nil
	})

	c.mu.Lock()
	c.watchers.Add(w)
	c.mu.Unlock()
	return w, nil
}

// WatchManager subscribes to the manager's own change signals: unit
// and job lifecycle events plus property change notifications.
func (c *Conn) WatchManager(ctx context.Context) (*Watcher, error) {
	if err := c.Subscribe(ctx); err != nil {
		return nil, err
	}
	return c.Watch(ctx,
		MatchSignals().Sender(busName).Interface(managerInterface),
		MatchSignals().Sender(busName).
			Interface("org.freedesktop.DBus.Properties").Member("PropertiesChanged"),
	)
}

// A Watcher delivers signals received from the bus that match its
// filters.
type Watcher struct {
	conn    *Conn
	ch      chan Signal
	done    chan struct{}
	stop    func()
	g       *taskgroup.Group
	matches []*Match

	closeOnce sync.Once
}

// Chan returns the channel on which signals are delivered. The channel
// is closed when the Watcher is closed. The caller must drain it
// promptly; a full channel stalls signal dispatch for the whole
// connection.
func (w *Watcher) Chan() <-chan Signal {
	return w.ch
}

// wants reports whether any of the watcher's matches selects sig. A
// connection receives one signal stream shared by all watchers, so
// each watcher re-filters it.
func (w *Watcher) wants(sig Signal) bool {
	for _, m := range w.matches {
		if m.matches(sig) {
			return true
		}
	}
	return false
}

// Close unsubscribes the watcher's match rules and stops delivery.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		w.stop()
		w.g.Wait()

		ctx := context.Background()
		for _, m := range w.matches {
			w.conn.bus.RemoveMatch(ctx, m.String())
		}

		w.conn.mu.Lock()
		delete(w.conn.watchers, w)
		w.conn.mu.Unlock()
	})
}
