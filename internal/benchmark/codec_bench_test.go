package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tchambard/f-streams-async/pkg/codec/multipart"
	"github.com/tchambard/f-streams-async/pkg/codec/xmlstream"
	"github.com/tchambard/f-streams-async/pkg/streaming/chunk"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

const benchContentType = "multipart/form-data; boundary=BENCHBND"

func multipartPayload(parts, bodySize int) []byte {
	body := strings.Repeat("x", bodySize)
	var sb strings.Builder
	for i := 0; i < parts; i++ {
		fmt.Fprintf(&sb, "--BENCHBND\r\ncontent-type: text/plain\r\n\r\n%s\r\n", body)
	}
	sb.WriteString("--BENCHBND--\r\n")
	return []byte(sb.String())
}

// BenchmarkMultipartParse measures parser throughput over whole payloads.
func BenchmarkMultipartParse(b *testing.B) {
	ctx := context.Background()
	payload := multipartPayload(10, 4096)

	for _, size := range []int{64, 4096} {
		b.Run("chunk_"+sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))
			for i := 0; i < b.N; i++ {
				src := chunk.Rechunk(stream.FromBytes(payload), size)
				r, err := multipart.NewReader(src, benchContentType)
				if err != nil {
					b.Fatal(err)
				}
				err = stream.Each(ctx, r, func(ctx context.Context, p *multipart.Part) error {
					return stream.Each(ctx, p.Body, func(_ context.Context, _ []byte) error { return nil })
				})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func xmlPayload(items int) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><feed>`)
	for i := 0; i < items; i++ {
		fmt.Fprintf(&sb, `<item id="%d"><name>item %d</name><score>%d</score></item>`, i, i, i*7)
	}
	sb.WriteString(`</feed>`)
	return sb.String()
}

// BenchmarkXMLParse measures record extraction throughput.
func BenchmarkXMLParse(b *testing.B) {
	ctx := context.Background()

	for _, items := range []int{10, 1000} {
		doc := xmlPayload(items)
		b.Run(sizeLabel(items), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(doc)))
			for i := 0; i < b.N; i++ {
				r := xmlstream.NewReader(stream.FromString(doc), "feed/item")
				err := stream.Each(ctx, r, func(_ context.Context, _ *xmlstream.Element) error { return nil })
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkXMLFormat measures formatter throughput.
func BenchmarkXMLFormat(b *testing.B) {
	ctx := context.Background()
	records, err := stream.ToSlice(ctx, xmlstream.NewReader(stream.FromString(xmlPayload(100)), "feed/item"))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sink := stream.NewTextBuffer()
		w, err := xmlstream.NewWriter(sink, xmlstream.Config{Tags: "feed/item"})
		if err != nil {
			b.Fatal(err)
		}
		for _, record := range records {
			if err := w.Write(ctx, record); err != nil {
				b.Fatal(err)
			}
		}
		if err := w.End(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
