package equeue

// options.go implements interface-wrapped functional options for this
// package's configuration surface: clock injection (for deterministic
// tests), logger/metrics attachment, and the semaphore's wakeup backend.

type queueConfig struct {
	clock       Clock
	logger      Logger
	metrics     *Metrics
	useFDWakeup bool
}

// QueueOption configures a Queue at construction time.
type QueueOption interface {
	applyQueue(*queueConfig)
}

type queueOptionFunc func(*queueConfig)

func (f queueOptionFunc) applyQueue(cfg *queueConfig) { f(cfg) }

// WithClock injects a Clock in place of the default wall-clock one. Tests
// use this to drive scheduling scenarios deterministically with a
// manual clock.
func WithClock(c Clock) QueueOption {
	return queueOptionFunc(func(cfg *queueConfig) { cfg.clock = c })
}

// WithLogger attaches a Logger. The default is NewNoOpLogger().
func WithLogger(l Logger) QueueOption {
	return queueOptionFunc(func(cfg *queueConfig) { cfg.logger = l })
}

// WithMetrics attaches a *Metrics for the Queue to update. If omitted, a
// private Metrics is still allocated and updated (the counters are cheap
// atomics), but not exposed unless the caller wants to read it: pass one
// in to retain a handle to it.
func WithMetrics(m *Metrics) QueueOption {
	return queueOptionFunc(func(cfg *queueConfig) { cfg.metrics = m })
}

// WithEventFDWakeup selects the eventfd-backed semaphore
// (semaphore_linux.go) instead of the portable channel-based one. Only
// has an effect on linux; Create silently falls back to the portable
// semaphore on other platforms, and also falls back if eventfd creation
// itself fails (file descriptors exhausted, etc).
func WithEventFDWakeup() QueueOption {
	return queueOptionFunc(func(cfg *queueConfig) { cfg.useFDWakeup = true })
}

func resolveQueueConfig(opts []QueueOption) *queueConfig {
	cfg := &queueConfig{
		clock:  newRealClock(),
		logger: NewNoOpLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyQueue(cfg)
	}
	if cfg.metrics == nil {
		cfg.metrics = newMetrics()
	}
	return cfg
}
