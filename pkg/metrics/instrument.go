package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// Collector wires a Registry to a Config and hands out instrumented stream
// wrappers. A disabled collector hands streams back untouched.
type Collector struct {
	config   Config
	registry *Registry
}

// NewCollector creates a collector from config. With Config.Registry nil the
// default Prometheus registerer is used; extra Config.Labels are curried onto
// every metric.
func NewCollector(config Config) *Collector {
	if !config.Enabled {
		return &Collector{config: config}
	}
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(config.Labels) > 0 {
		reg = prometheus.WrapRegistererWith(config.Labels, reg)
	}
	return &Collector{
		config:   config,
		registry: NewRegistry(reg, config.Namespace),
	}
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// Registry returns the underlying metric registry, nil when disabled.
func (c *Collector) Registry() *Registry {
	return c.registry
}

// InstrumentReader wraps a reader so items, bytes, errors and the end marker
// are counted under the given stream name.
func InstrumentReader[T any](c *Collector, name string, r stream.Reader[T]) stream.Reader[T] {
	if c == nil || !c.config.Enabled {
		return r
	}
	return &instrumentedReader[T]{c: c, name: name, inner: r}
}

// InstrumentWriter wraps a writer the same way InstrumentReader wraps a
// reader.
func InstrumentWriter[T any](c *Collector, name string, w stream.Writer[T]) stream.Writer[T] {
	if c == nil || !c.config.Enabled {
		return w
	}
	return &instrumentedWriter[T]{c: c, name: name, inner: w}
}

type instrumentedReader[T any] struct {
	c     *Collector
	name  string
	inner stream.Reader[T]
}

func (r *instrumentedReader[T]) Read(ctx context.Context) (T, bool, error) {
	value, ok, err := r.inner.Read(ctx)
	reg := r.c.registry
	switch {
	case err != nil:
		reg.StreamErrors.WithLabelValues("read", r.name).Inc()
	case !ok:
		reg.StreamEnded.WithLabelValues("read", r.name).Inc()
	default:
		reg.StreamItems.WithLabelValues("read", r.name).Inc()
		if n := byteLen(value); n > 0 {
			reg.StreamBytes.WithLabelValues("read", r.name).Add(float64(n))
		}
	}
	return value, ok, err
}

type instrumentedWriter[T any] struct {
	c     *Collector
	name  string
	inner stream.Writer[T]
}

func (w *instrumentedWriter[T]) Write(ctx context.Context, value T) error {
	err := w.inner.Write(ctx, value)
	reg := w.c.registry
	if err != nil {
		reg.StreamErrors.WithLabelValues("write", w.name).Inc()
		return err
	}
	reg.StreamItems.WithLabelValues("write", w.name).Inc()
	if n := byteLen(value); n > 0 {
		reg.StreamBytes.WithLabelValues("write", w.name).Add(float64(n))
	}
	return nil
}

func (w *instrumentedWriter[T]) End(ctx context.Context) error {
	err := w.inner.End(ctx)
	if err != nil {
		w.c.registry.StreamErrors.WithLabelValues("write", w.name).Inc()
		return err
	}
	w.c.registry.StreamEnded.WithLabelValues("write", w.name).Inc()
	return nil
}

// byteLen reports the chunk size for byte and text streams, 0 for anything
// else.
func byteLen(value any) int {
	switch v := value.(type) {
	case []byte:
		return len(v)
	case string:
		return len(v)
	}
	return 0
}
