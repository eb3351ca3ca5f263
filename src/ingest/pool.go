package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MaxWorkers bounds the number of concurrent segment downloads.
const MaxWorkers = 6

// Segment is one piece of a log stored separately by the provider, such as
// the output of a CircleCI step.
type Segment struct {
	Name   string
	URL    string
	Failed bool
}

// SegmentFetcher downloads the content of one segment.
type SegmentFetcher func(ctx context.Context, segment Segment) ([]byte, error)

// Dedup drops segments that are not worth downloading twice. Parallel
// containers produce one segment per step and container; successful ones
// with the same name carry the same output, so only the first is kept.
// Failed segments are always kept.
func Dedup(segments []Segment) []Segment {
	seen := make(map[string]bool)
	unique := make([]Segment, 0, len(segments))

	for _, s := range segments {
		if !s.Failed {
			if seen[s.Name] {
				continue
			}
			seen[s.Name] = true
		}
		unique = append(unique, s)
	}

	return unique
}

// FetchSegments downloads every segment into buf with at most MaxWorkers
// concurrent downloads. Segments are appended in completion order. The first
// error cancels the remaining downloads and is returned; buf must then be
// discarded.
func FetchSegments(ctx context.Context, segments []Segment, fetch SegmentFetcher, buf *LogBuffer) error {
	queue := make(chan Segment, len(segments))
	for _, s := range segments {
		queue <- s
	}
	close(queue)

	g, ctx := errgroup.WithContext(ctx)

	workers := min(MaxWorkers, len(segments))
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for segment := range queue {
				if err := ctx.Err(); err != nil {
					return err
				}

				body, err := fetch(ctx, segment)
				if err != nil {
					return fmt.Errorf("downloading %s: %w", segment.Name, err)
				}

				if _, err := buf.Write(body); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}
