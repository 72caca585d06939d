// Package frame provides the small in-memory tabular layer the converter
// reads model output through: eager frames with ordered columns, lazy frames
// that defer file loading until collected, left joins, and grouping. It is
// deliberately minimal; the converter is a single-pass batch transform and
// needs predictable semantics, not a query engine.
package frame

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
)

// Record is one row of a frame.
type Record = map[string]any

// Frame is an eager table with ordered columns.
type Frame struct {
	cols []string
	recs []Record
}

// New creates an empty frame with the given column order.
func New(cols ...string) *Frame {
	return &Frame{cols: append([]string(nil), cols...)}
}

// FromRecords builds a frame from records. When cols is empty the column
// order is inferred from first appearance, sorted within each record for
// determinism.
func FromRecords(recs []Record, cols ...string) *Frame {
	f := New(cols...)
	if len(cols) == 0 {
		seen := make(map[string]bool)
		for _, rec := range recs {
			keys := make([]string, 0, len(rec))
			for k := range rec {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if !seen[k] {
					seen[k] = true
					f.cols = append(f.cols, k)
				}
			}
		}
	}
	f.recs = append(f.recs, recs...)
	return f
}

// Columns returns the ordered column names.
func (f *Frame) Columns() []string { return f.cols }

// HasColumn reports whether the frame has the named column.
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.cols {
		if c == name {
			return true
		}
	}
	return false
}

// NumRows returns the number of records.
func (f *Frame) NumRows() int { return len(f.recs) }

// IsEmpty reports whether the frame has no records.
func (f *Frame) IsEmpty() bool { return len(f.recs) == 0 }

// Records returns the backing records. Callers must not mutate them.
func (f *Frame) Records() []Record { return f.recs }

// Row returns the i-th record.
func (f *Frame) Row(i int) Record { return f.recs[i] }

// Append adds a record, extending the column set with unseen keys.
func (f *Frame) Append(rec Record) {
	for k := range rec {
		if !f.HasColumn(k) {
			f.cols = append(f.cols, k)
		}
	}
	f.recs = append(f.recs, rec)
}

// Filter returns a new frame with the records for which pred is true.
func (f *Frame) Filter(pred func(Record) bool) *Frame {
	out := New(f.cols...)
	for _, rec := range f.recs {
		if pred(rec) {
			out.recs = append(out.recs, rec)
		}
	}
	return out
}

// WithColumn returns a new frame with an added or replaced column computed
// per record.
func (f *Frame) WithColumn(name string, fn func(Record) any) *Frame {
	out := New(f.cols...)
	if !out.HasColumn(name) {
		out.cols = append(out.cols, name)
	}
	for _, rec := range f.recs {
		next := make(Record, len(rec)+1)
		for k, v := range rec {
			next[k] = v
		}
		next[name] = fn(rec)
		out.recs = append(out.recs, next)
	}
	return out
}

// Rename returns a new frame with columns renamed per the mapping. Columns
// absent from the mapping keep their names; mapping entries for columns the
// frame lacks are ignored.
func (f *Frame) Rename(mapping map[string]string) *Frame {
	cols := make([]string, len(f.cols))
	for i, c := range f.cols {
		if renamed, ok := mapping[c]; ok {
			cols[i] = renamed
		} else {
			cols[i] = c
		}
	}
	out := New(cols...)
	for _, rec := range f.recs {
		next := make(Record, len(rec))
		for k, v := range rec {
			if renamed, ok := mapping[k]; ok {
				k = renamed
			}
			next[k] = v
		}
		out.recs = append(out.recs, next)
	}
	return out
}

// Column returns the values of one column in row order.
func (f *Frame) Column(name string) []any {
	out := make([]any, 0, len(f.recs))
	for _, rec := range f.recs {
		out = append(out, rec[name])
	}
	return out
}

func joinKey(rec Record, on []string) string {
	var b strings.Builder
	for i, col := range on {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		fmt.Fprintf(&b, "%v", rec[col])
	}
	return b.String()
}

// LeftJoin joins right onto f by equality on the given columns. Every left
// record survives; unmatched right columns stay absent from the record
// (reading them yields nil). Fails when a join column is missing from either
// side.
func (f *Frame) LeftJoin(right *Frame, on ...string) (*Frame, error) {
	if len(on) == 0 {
		return nil, errors.New(errors.ErrorTypeData, "left join requires join columns")
	}
	for _, col := range on {
		if !f.HasColumn(col) {
			return nil, errors.Newf(errors.ErrorTypeData,
				"left frame is missing join column %q", col)
		}
		if !right.HasColumn(col) {
			return nil, errors.Newf(errors.ErrorTypeData,
				"right frame is missing join column %q", col)
		}
	}

	index := make(map[string][]Record)
	for _, rec := range right.recs {
		k := joinKey(rec, on)
		index[k] = append(index[k], rec)
	}

	cols := append([]string(nil), f.cols...)
	for _, c := range right.cols {
		dup := false
		for _, existing := range cols {
			if existing == c {
				dup = true
				break
			}
		}
		if !dup {
			cols = append(cols, c)
		}
	}

	out := New(cols...)
	for _, left := range f.recs {
		matches := index[joinKey(left, on)]
		if len(matches) == 0 {
			out.recs = append(out.recs, left)
			continue
		}
		for _, match := range matches {
			merged := make(Record, len(left)+len(match))
			for k, v := range match {
				merged[k] = v
			}
			for k, v := range left {
				merged[k] = v
			}
			out.recs = append(out.recs, merged)
		}
	}
	return out, nil
}

// Group is one group produced by GroupBy, in first-appearance order.
type Group struct {
	Key     Record
	Records []Record
}

// GroupBy partitions the frame by equality on the given columns, preserving
// the order groups first appear.
func (f *Frame) GroupBy(on ...string) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, rec := range f.recs {
		k := joinKey(rec, on)
		i, ok := index[k]
		if !ok {
			keyRec := make(Record, len(on))
			for _, col := range on {
				keyRec[col] = rec[col]
			}
			index[k] = len(groups)
			groups = append(groups, Group{Key: keyRec})
			i = index[k]
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// LazyFrame defers loading until Collect is called, then memoizes the
// result. Datasets registered in the data store are lazy frames.
type LazyFrame struct {
	load  func() (*Frame, error)
	once  sync.Once
	frame *Frame
	err   error
}

// NewLazy wraps a loader.
func NewLazy(load func() (*Frame, error)) *LazyFrame {
	return &LazyFrame{load: load}
}

// Eager wraps an already-materialized frame.
func Eager(f *Frame) *LazyFrame {
	return &LazyFrame{load: func() (*Frame, error) { return f, nil }}
}

// Collect materializes the frame, loading it at most once.
func (l *LazyFrame) Collect() (*Frame, error) {
	l.once.Do(func() {
		l.frame, l.err = l.load()
	})
	return l.frame, l.err
}

// MergeLazyFrames left-joins right onto left by the given columns, returning
// a new lazy frame.
func MergeLazyFrames(left, right *LazyFrame, on ...string) (*LazyFrame, error) {
	if left == nil || right == nil {
		return nil, errors.New(errors.ErrorTypeData, "cannot merge nil frames")
	}
	return NewLazy(func() (*Frame, error) {
		lf, err := left.Collect()
		if err != nil {
			return nil, err
		}
		rf, err := right.Collect()
		if err != nil {
			return nil, err
		}
		return lf.LeftJoin(rf, on...)
	}), nil
}
