// Package jsonstream decodes a JSON array of objects one element at a time so
// seed files larger than memory can be imported.
package jsonstream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

const readBufferSize = 64 << 10

// Record is one flat row of a seed file, keyed by column name.
type Record = map[string]any

// Records is a forward-only sequence of records. A decode failure is yielded
// once as a non-nil error and ends the sequence.
type Records = iter.Seq2[Record, error]

// DecodeError reports malformed or unexpected JSON in a seed file.
type DecodeError struct {
	Index  int   // zero based element index, -1 outside an element
	Offset int64 // byte offset reached by the decoder
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decode element %d (offset %d): %v", e.Index, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Decoder struct {
	dec     *json.Decoder
	started bool
	index   int
	err     error
}

func NewDecoder(r io.Reader) *Decoder {
	dec := json.NewDecoder(bufio.NewReaderSize(r, readBufferSize))
	dec.UseNumber()
	return &Decoder{dec: dec}
}

// Next returns the next record, or io.EOF once the closing bracket of the
// array has been consumed.
func (d *Decoder) Next() (Record, error) {
	if d.err != nil {
		return nil, d.err
	}

	if !d.started {
		if err := d.openArray(); err != nil {
			d.err = err
			return nil, err
		}
		d.started = true
	}

	if !d.dec.More() {
		d.err = d.closeArray()
		return nil, d.err
	}

	var rec Record
	if err := d.dec.Decode(&rec); err != nil {
		d.err = d.fail(d.index, err)
		return nil, d.err
	}
	if rec == nil {
		d.err = d.fail(d.index, errors.New("element is not a JSON object"))
		return nil, d.err
	}

	for k, v := range rec {
		rec[k] = normalize(v)
	}
	d.index++
	return rec, nil
}

// All adapts the decoder to a range-over-func sequence.
func (d *Decoder) All() Records {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := d.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (d *Decoder) openArray() error {
	tok, err := d.dec.Token()
	if err == io.EOF {
		return d.fail(-1, errors.New("empty document"))
	}
	if err != nil {
		return d.fail(-1, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return d.fail(-1, fmt.Errorf("expected top-level array, found %v", tok))
	}
	return nil
}

func (d *Decoder) closeArray() error {
	tok, err := d.dec.Token()
	if err != nil {
		return d.fail(-1, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != ']' {
		return d.fail(-1, fmt.Errorf("expected end of array, found %v", tok))
	}
	if _, err := d.dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after array")
		}
		return d.fail(-1, err)
	}
	return io.EOF
}

func (d *Decoder) fail(index int, err error) error {
	return &DecodeError{Index: index, Offset: d.dec.InputOffset(), Err: err}
}

// normalize converts json.Number into int64 when integral and float64
// otherwise, descending into nested objects and arrays. Integers outside the
// int64 range keep their decimal text.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		s := val.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := val.Int64(); err == nil {
				return i
			}
			// Out of int64 range; a float would lose digits.
			return s
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return s
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}
