package indexer

import "github.com/ygrebnov/cursorflow/metrics"

// Instrument names recorded against the configured metrics.Provider.
// Kept as constants so callers wiring a real backend (Prometheus,
// OpenTelemetry, ...) have a single place to look up what the engine emits.
const (
	metricClaims       = "indexer.claims"           // Counter: Atomic() calls that returned an interval
	metricAdmitted     = "indexer.admitted"         // Counter: Consume calls that passed admission and dispatched
	metricRejected     = "indexer.rejected"         // Counter: Consume calls rejected by the concurrency cap
	metricZombies      = "indexer.zombies"          // Counter: live-task entries migrated to retry by Cleanup
	metricRetries      = "indexer.retries"          // Counter: fail() calls (callback failures routed to retry)
	metricRollbacks    = "indexer.rollbacks"        // Counter: Rollback() calls
	metricInFlight     = "indexer.in_flight"        // UpDownCounter: occupy/release balance
	metricCallbackSecs = "indexer.callback_seconds" // Histogram: callback latency in seconds
)

// instruments bundles the instruments for one Indexer, created once at
// construction so call sites don't repeatedly look them up by name.
type instruments struct {
	claims       metrics.Counter
	admitted     metrics.Counter
	rejected     metrics.Counter
	zombies      metrics.Counter
	retries      metrics.Counter
	rollbacks    metrics.Counter
	inFlight     metrics.UpDownCounter
	callbackSecs metrics.Histogram
}

func newInstruments(p metrics.Provider, name string) *instruments {
	attrs := metrics.WithAttributes(map[string]string{"indexer": name})
	return &instruments{
		claims:       p.Counter(metricClaims, attrs),
		admitted:     p.Counter(metricAdmitted, attrs),
		rejected:     p.Counter(metricRejected, attrs),
		zombies:      p.Counter(metricZombies, attrs),
		retries:      p.Counter(metricRetries, attrs),
		rollbacks:    p.Counter(metricRollbacks, attrs),
		inFlight:     p.UpDownCounter(metricInFlight, attrs),
		callbackSecs: p.Histogram(metricCallbackSecs, attrs, metrics.WithUnit("s")),
	}
}
