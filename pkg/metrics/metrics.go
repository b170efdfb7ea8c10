// Package metrics provides Prometheus instrumentation for stream components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for stream components.
type Registry struct {
	// Stream Metrics
	StreamItems  *prometheus.CounterVec
	StreamBytes  *prometheus.CounterVec
	StreamErrors *prometheus.CounterVec
	StreamEnded  *prometheus.CounterVec

	// Codec Metrics
	PartsParsed      *prometheus.CounterVec
	PartsFormatted   *prometheus.CounterVec
	RecordsParsed    *prometheus.CounterVec
	RecordsFormatted *prometheus.CounterVec
	CodecErrors      *prometheus.CounterVec

	// Sink Metrics
	SinkFlushes      *prometheus.CounterVec
	SinkBytesWritten *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with the given Prometheus
// registerer and namespace; an empty namespace falls back to "fstreams".
func NewRegistry(reg prometheus.Registerer, namespace string) *Registry {
	if namespace == "" {
		namespace = "fstreams"
	}
	factory := promauto.With(reg)

	return &Registry{
		StreamItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "items_total",
				Help:      "Total number of items moved through streams",
			},
			[]string{"direction", "stream_name"},
		),

		StreamBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "bytes_total",
				Help:      "Total bytes moved through byte and text streams",
			},
			[]string{"direction", "stream_name"},
		),

		StreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "errors_total",
				Help:      "Total number of stream failures",
			},
			[]string{"direction", "stream_name"},
		),

		StreamEnded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "ended_total",
				Help:      "Total number of streams that reached their end",
			},
			[]string{"direction", "stream_name"},
		),

		PartsParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "multipart",
				Name:      "parts_parsed_total",
				Help:      "Total number of multipart parts parsed",
			},
			[]string{"subtype"},
		),

		PartsFormatted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "multipart",
				Name:      "parts_formatted_total",
				Help:      "Total number of multipart parts formatted",
			},
			[]string{"subtype"},
		),

		RecordsParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "xml",
				Name:      "records_parsed_total",
				Help:      "Total number of XML records parsed",
			},
			[]string{"path"},
		),

		RecordsFormatted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "xml",
				Name:      "records_formatted_total",
				Help:      "Total number of XML records formatted",
			},
			[]string{"path"},
		),

		CodecErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "codec",
				Name:      "errors_total",
				Help:      "Total number of codec protocol and document errors",
			},
			[]string{"codec"},
		),

		SinkFlushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sink",
				Name:      "flushes_total",
				Help:      "Total number of buffered sink flushes",
			},
			[]string{"sink_name"},
		),

		SinkBytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sink",
				Name:      "bytes_written_total",
				Help:      "Total bytes written by buffered sinks",
			},
			[]string{"sink_name"},
		),
	}
}
