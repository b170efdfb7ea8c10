package benchmark

import (
	"context"
	"strconv"
	"testing"

	"github.com/tchambard/f-streams-async/pkg/streaming/chunk"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// BenchmarkMap measures map operation performance.
func BenchmarkMap(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		data := make([]int, size)
		for i := range data {
			data[i] = i
		}

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s := stream.Map(stream.FromSlice(data), func(_ context.Context, n int) (int, error) {
					return n * 2, nil
				})
				_, _ = stream.ToSlice(context.Background(), s)
			}
		})
	}
}

// BenchmarkPipeHandOff measures the per-element cost of the rendezvous pipe.
func BenchmarkPipeHandOff(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.ReportAllocs()

	r, w := stream.Pipe[int]()
	go func() {
		for {
			if err := w.Write(ctx, 1); err != nil {
				return
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = r.Read(ctx)
	}
}

// BenchmarkTransform measures the cost of a pass-through transform stage.
func BenchmarkTransform(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		data := make([]int, size)
		for i := range data {
			data[i] = i
		}

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s := stream.Transform(stream.FromSlice(data), func(ctx context.Context, in stream.Reader[int], out stream.Writer[int]) error {
					return stream.PipeTo(ctx, in, out)
				})
				_, _ = stream.ToSlice(context.Background(), s)
			}
		})
	}
}

// BenchmarkRechunk measures re-chunking throughput across chunk sizes.
func BenchmarkRechunk(b *testing.B) {
	payload := make([]byte, 64*1024)
	for i := range payload {
		payload[i] = byte(i)
	}

	for _, size := range []int{16, 256, 4096} {
		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))
			for i := 0; i < b.N; i++ {
				r := chunk.Rechunk(stream.FromBytes(payload), size)
				_, _ = stream.ToSlice(context.Background(), r)
			}
		})
	}
}

// sizeLabel returns a readable label for benchmark sizes.
func sizeLabel(size int) string {
	if size >= 1000 {
		return strconv.Itoa(size/1000) + "k"
	}
	return strconv.Itoa(size)
}
