// Package scan streams whole registry index files through the entry
// decoder, sharding lines across a bounded worker pool and reporting
// per-line failures without aborting the batch.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/git-pkgs/cratesindex"
)

const defaultConcurrency = 15

// Index lines are one JSON object each; entries with large dependency
// lists run well past bufio's default token size.
const maxLineSize = 16 * 1024 * 1024

// LineError records a single index line that failed to decode.
type LineError struct {
	Line int // 1-based line number in the input
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result holds the outcome of scanning one index file.
type Result struct {
	// Entries are the successfully decoded lines, in input order.
	Entries []*cratesindex.Entry

	// Errors are the lines that failed to decode, in input order. A
	// corrupt line never blocks the rest of the file.
	Errors []*LineError
}

type options struct {
	concurrency int
	logger      zerolog.Logger
	decode      cratesindex.Options
}

// Option configures a scan.
type Option func(*options)

// WithConcurrency sets the number of lines decoded in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger used to report skipped lines. The default
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDecodeOptions sets the options passed to the entry decoder.
func WithDecodeOptions(opts cratesindex.Options) Option {
	return func(o *options) {
		o.decode = opts
	}
}

// Index decodes every line of an index file read from r. Blank lines are
// skipped. Decoding is sharded across a worker pool; each line is
// independent, so no coordination beyond collecting results is needed.
//
// A non-nil error is only returned for problems with the input stream
// itself or a canceled context; decode failures are reported per line in
// the Result.
func Index(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	o := options{
		concurrency: defaultConcurrency,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	type decoded struct {
		line  int
		entry *cratesindex.Entry
	}

	var (
		mu       sync.Mutex
		entries  []decoded
		lineErrs []*LineError
	)
	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		// Scanner reuses its buffer; decoding needs a stable copy.
		data = append([]byte(nil), data...)

		wg.Add(1)
		go func(line int, data []byte) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			entry, err := cratesindex.DecodeWithOptions(data, o.decode)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				o.logger.Warn().Int("line", line).Err(err).Msg("skipping undecodable index entry")
				lineErrs = append(lineErrs, &LineError{Line: line, Err: err})
				return
			}
			entries = append(entries, decoded{line: line, entry: entry})
		}(line, data)
	}

	wg.Wait()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].line < entries[j].line })
	sort.Slice(lineErrs, func(i, j int) bool { return lineErrs[i].Line < lineErrs[j].Line })

	result := &Result{
		Entries: make([]*cratesindex.Entry, len(entries)),
		Errors:  lineErrs,
	}
	for i, d := range entries {
		result.Entries[i] = d.entry
	}
	return result, nil
}
