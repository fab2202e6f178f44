package status

import (
	"sync"

	"github.com/sirupsen/logrus"

	"ong-client/pkg/observe"
)

// Aggregator is the merge point for the three source statuses of a screen.
// Each Update recomputes the aggregate and publishes it exactly once.
type Aggregator struct {
	mu       sync.Mutex
	snapshot Snapshot
	out      *observe.Value[AggregateStatus]
	log      *logrus.Entry
}

// NewAggregator returns an aggregator with every source Loading and no
// aggregate published yet
func NewAggregator(log *logrus.Entry) *Aggregator {
	return &Aggregator{
		out: observe.NewValue[AggregateStatus](),
		log: log,
	}
}

// Update records st for src, recomputes and publishes the aggregate
func (a *Aggregator) Update(src Source, st FetchStatus) AggregateStatus {
	if !src.Valid() {
		a.log.Warnf("Ignoring status update for unknown source %d", int(src))
		return a.Current()
	}

	a.mu.Lock()
	a.snapshot = a.snapshot.With(src, st)
	snap := a.snapshot
	a.mu.Unlock()

	agg := snap.Combine()
	a.log.WithFields(logrus.Fields{
		"source":       src.String(),
		"source_state": st.String(),
		"aggregate":    agg.String(),
	}).Debug("Aggregate status recomputed")

	a.out.Set(agg)
	return agg
}

// AddSource subscribes holder so that each of its changes feeds Update
func (a *Aggregator) AddSource(src Source, holder *observe.Value[FetchStatus]) *observe.Subscription {
	return holder.Observe(func(st FetchStatus) {
		a.Update(src, st)
	})
}

// Status is the observable aggregate
func (a *Aggregator) Status() *observe.Value[AggregateStatus] {
	return a.out
}

// Snapshot returns the latest triple
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot
}

// Current recomputes the aggregate from the latest triple
func (a *Aggregator) Current() AggregateStatus {
	return a.Snapshot().Combine()
}

// Classify returns the error class of the latest triple
func (a *Aggregator) Classify() ErrorClass {
	return a.Snapshot().Classify()
}
