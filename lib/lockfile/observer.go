package lockfile

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/hashicorp/go-hclog"
)

// ILockObserver receives diagnostic events from a lock manager and its
// Lockfiles. Implementations must be safe for concurrent use.
type ILockObserver interface {
	// Acquired is called after the lock at path has been taken.
	Acquired(path string)
	// Released is called after the lock at path has been released; err is
	// the release error, if any.
	Released(path string, err error)
	// Contended is called when an acquisition attempt found the lock held
	// by another holder.
	Contended(path string)
}

// --------------------------------------------------------------------------
// No-op observer (the default)
// --------------------------------------------------------------------------

type noopObserver struct{}

// NewNoopObserver returns the observer that discards all events. It is the
// default of NewLockManager, so disabling instrumentation costs nothing.
func NewNoopObserver() ILockObserver {
	return noopObserver{}
}

func (noopObserver) Acquired(string) {}

func (noopObserver) Released(string, error) {}

func (noopObserver) Contended(string) {}

// --------------------------------------------------------------------------
// Logging observer
// --------------------------------------------------------------------------

type logObserver struct {
	logger hclog.Logger
}

// NewLogObserver returns an observer that logs lock events through the given
// logger. A nil logger falls back to hclog's default.
func NewLogObserver(logger hclog.Logger) ILockObserver {
	if logger == nil {
		logger = hclog.Default()
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) Acquired(path string) {
	o.logger.Debug("lockfile acquired", "path", path)
}

func (o *logObserver) Released(path string, err error) {
	if err != nil {
		o.logger.Warn("lockfile released with error", "path", path, "error", err)
		return
	}
	o.logger.Debug("lockfile released", "path", path)
}

func (o *logObserver) Contended(path string) {
	o.logger.Debug("lockfile held by another holder", "path", path)
}

// --------------------------------------------------------------------------
// Metrics observer
// --------------------------------------------------------------------------

type metricsObserver struct {
	acquired  *metrics.Counter
	released  *metrics.Counter
	contended *metrics.Counter
}

// NewMetricsObserver returns an observer that counts lock events in the
// given metrics set. A nil set counts in the global default set.
func NewMetricsObserver(set *metrics.Set) ILockObserver {
	if set == nil {
		return &metricsObserver{
			acquired:  metrics.GetOrCreateCounter("lockfile_acquired_total"),
			released:  metrics.GetOrCreateCounter("lockfile_released_total"),
			contended: metrics.GetOrCreateCounter("lockfile_contended_total"),
		}
	}
	return &metricsObserver{
		acquired:  set.GetOrCreateCounter("lockfile_acquired_total"),
		released:  set.GetOrCreateCounter("lockfile_released_total"),
		contended: set.GetOrCreateCounter("lockfile_contended_total"),
	}
}

func (o *metricsObserver) Acquired(string) { o.acquired.Inc() }

func (o *metricsObserver) Released(string, error) { o.released.Inc() }

func (o *metricsObserver) Contended(string) { o.contended.Inc() }

// --------------------------------------------------------------------------
// Composition
// --------------------------------------------------------------------------

type multiObserver []ILockObserver

// NewMultiObserver fans events out to all given observers in order.
func NewMultiObserver(observers ...ILockObserver) ILockObserver {
	return multiObserver(observers)
}

func (m multiObserver) Acquired(path string) {
	for _, o := range m {
		o.Acquired(path)
	}
}

func (m multiObserver) Released(path string, err error) {
	for _, o := range m {
		o.Released(path, err)
	}
}

func (m multiObserver) Contended(path string) {
	for _, o := range m {
		o.Contended(path)
	}
}
