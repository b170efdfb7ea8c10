package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tchambard/f-streams-async/internal/testutil"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

func TestInstrumentReader(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	reg := prometheus.NewRegistry()
	c := NewCollector(Config{Enabled: true, Registry: reg, Namespace: "test"})

	r := InstrumentReader(c, "chunks", stream.FromSlice([][]byte{
		[]byte("abc"),
		[]byte("de"),
	}))
	_, err := stream.ToSlice(ctx, r)
	testutil.AssertNoError(t, err)

	m := c.Registry()
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.StreamItems.WithLabelValues("read", "chunks")), 2.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.StreamBytes.WithLabelValues("read", "chunks")), 5.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.StreamEnded.WithLabelValues("read", "chunks")), 1.0)
}

func TestInstrumentWriter(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	reg := prometheus.NewRegistry()
	c := NewCollector(Config{Enabled: true, Registry: reg, Namespace: "test"})

	sink := stream.NewTextBuffer()
	w := InstrumentWriter(c, "text", stream.Writer[string](sink))
	testutil.AssertNoError(t, w.Write(ctx, "hello"))
	testutil.AssertNoError(t, w.End(ctx))
	testutil.AssertEqual(t, sink.String(), "hello")

	m := c.Registry()
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.StreamItems.WithLabelValues("write", "text")), 1.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.StreamBytes.WithLabelValues("write", "text")), 5.0)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.StreamEnded.WithLabelValues("write", "text")), 1.0)
}

func TestDisabledCollectorIsPassthrough(t *testing.T) {
	c := NewCollector(Config{Enabled: false})
	testutil.AssertEqual(t, c.Enabled(), false)
	testutil.AssertTrue(t, c.Registry() == nil, "disabled collector must not build a registry")

	src := stream.FromSlice([]int{1})
	testutil.AssertTrue(t, InstrumentReader(c, "x", src) == src, "disabled collector must hand the reader back")
}

func TestCollectorLabels(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	reg := prometheus.NewRegistry()
	c := NewCollector(Config{
		Enabled:   true,
		Registry:  reg,
		Namespace: "test",
		Labels:    prometheus.Labels{"instance": "a"},
	})

	r := InstrumentReader(c, "s", stream.FromSlice([]int{1, 2, 3}))
	_, err := stream.ToSlice(ctx, r)
	testutil.AssertNoError(t, err)

	// The curried label shows up on the registry side.
	count, err := promtestutil.GatherAndCount(reg, "test_stream_items_total")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, 1)
}
