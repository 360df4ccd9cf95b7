// Package pager extracts fixed-size pages of non-blank lines from a text file.
//
// Every call scans the source from the beginning. Nothing is cached between
// calls, so concurrent fetches against the same file are independent
// read-only scans.
package pager

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

// BreakMarker is appended to the last collected line once per blank line
// that follows it when break marking is enabled. Clients of the reader page
// depend on this exact text.
const BreakMarker = "  n"

// cancelCheckInterval is how many raw lines are read between context checks.
const cancelCheckInterval = 1024

// PageRequest addresses one page of a source file.
type PageRequest struct {
	// Number is the 1-based page number.
	Number int
	// Size is the number of non-blank lines per page.
	Size int
	// Path is the source file.
	Path string
	// MarkBreaks folds blank lines into the previous collected line as BreakMarker.
	MarkBreaks bool
}

// Validate reports ErrInvalidArgument for a request that must not reach I/O.
func (r PageRequest) Validate() error {
	if r.Number < 1 || r.Size < 1 {
		return fmt.Errorf("%w: page number and page size must be greater than 0 (page=%d, size=%d)",
			ErrInvalidArgument, r.Number, r.Size)
	}
	if strings.TrimSpace(r.Path) == "" {
		return fmt.Errorf("%w: source path cannot be empty", ErrInvalidArgument)
	}
	return nil
}

// window returns the inclusive range of non-blank line indexes the page covers.
func (r PageRequest) window() (start, end int) {
	start = (r.Number - 1) * r.Size
	return start, start + r.Size - 1
}

// Fetch returns page pageNumber of sourcePath, pageSize non-blank lines per page.
//
// Pages past the end of the file are empty, not an error.
func Fetch(pageNumber, pageSize int, sourcePath string, markBreaks bool) ([]string, error) {
	return FetchContext(context.Background(), PageRequest{
		Number:     pageNumber,
		Size:       pageSize,
		Path:       sourcePath,
		MarkBreaks: markBreaks,
	})
}

// FetchContext is Fetch with a context that is checked while scanning.
func FetchContext(ctx context.Context, req PageRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	file, err := os.Open(req.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, req.Path)
		}
		return nil, wrapIO("open", err)
	}
	defer file.Close()

	return FetchReader(ctx, file, req)
}

// FetchReader runs the page extraction over r. req.Path is not used for I/O
// but must still be set for the request to validate.
func FetchReader(ctx context.Context, r io.Reader, req PageRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startIndex, endIndex := req.window()
	currentIndex := 0
	result := make([]string, 0, req.Size)

	reader := bufio.NewReader(r)
	for scanned := 0; ; scanned++ {
		if scanned%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, wrapIO("read", err)
			}
		}

		raw, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, wrapIO("read", readErr)
		}
		if raw == "" && readErr != nil {
			break
		}

		line := trimTerminator(raw)
		if !utf8.ValidString(line) {
			return nil, wrapIO("read", fmt.Errorf("%w at line %d", ErrEncoding, scanned+1))
		}

		if strings.TrimSpace(line) == "" {
			if req.MarkBreaks && len(result) != 0 {
				result[len(result)-1] += BreakMarker
			}
		} else {
			if startIndex <= currentIndex && currentIndex <= endIndex {
				result = append(result, line)
			}
			if currentIndex > endIndex {
				break
			}
			currentIndex++
		}

		if readErr != nil {
			break
		}
	}

	return result, nil
}

// trimTerminator strips one trailing "\n" or "\r\n".
func trimTerminator(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Options is the immutable reading configuration bound into a Paginator.
type Options struct {
	Path       string
	Size       int
	MarkBreaks bool
}

// Paginator serves pages of one source with fixed options.
type Paginator struct {
	opts Options
}

// New returns a Paginator for opts. Options are validated on every fetch.
func New(opts Options) *Paginator {
	return &Paginator{opts: opts}
}

// Options returns the paginator's configuration.
func (p *Paginator) Options() Options {
	return p.opts
}

// Page returns page number n with the configured size.
func (p *Paginator) Page(ctx context.Context, n int) ([]string, error) {
	return p.PageWithSize(ctx, n, p.opts.Size)
}

// PageWithSize returns page n using size instead of the configured page size.
func (p *Paginator) PageWithSize(ctx context.Context, n, size int) ([]string, error) {
	return FetchContext(ctx, PageRequest{
		Number:     n,
		Size:       size,
		Path:       p.opts.Path,
		MarkBreaks: p.opts.MarkBreaks,
	})
}
