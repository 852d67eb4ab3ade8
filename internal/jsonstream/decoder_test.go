package jsonstream

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func collect(t *testing.T, input string, size int) ([]Chunk, error) {
	t.Helper()
	var chunks []Chunk
	for chunk, err := range Chunks(NewDecoder(strings.NewReader(input)).All(), size) {
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func TestChunksPreserveOrder(t *testing.T) {
	chunks, err := collect(t, `[{"id":1},{"id":2},{"id":3}]`, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Chunk{
		{Index: 0, Records: []Record{{"id": int64(1)}, {"id": int64(2)}}},
		{Index: 1, Records: []Record{{"id": int64(3)}}},
	}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("chunks = %#v, want %#v", chunks, want)
	}
}

func TestEmptyArrayYieldsNoChunks(t *testing.T) {
	chunks, err := collect(t, " [ ] ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestValueNormalization(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`[{"n":42,"f":1.5,"e":1e3,"s":"x","b":true,"z":null,"nested":{"k":[1,2.5]}}]`))
	rec, err := dec.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	want := Record{
		"n":      int64(42),
		"f":      1.5,
		"e":      float64(1000),
		"s":      "x",
		"b":      true,
		"z":      nil,
		"nested": map[string]any{"k": []any{int64(1), 2.5}},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("record = %#v, want %#v", rec, want)
	}

	if _, err := dec.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last element, got %v", err)
	}
	if _, err := dec.Next(); err != io.EOF {
		t.Errorf("expected io.EOF to be sticky, got %v", err)
	}
}

func TestLargeIntegersKeepPrecision(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`[{"big":18446744073709551615,"neg":-9223372036854775809,"max":9223372036854775807}]`))
	rec, err := dec.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	want := Record{
		"big": "18446744073709551615",
		"neg": "-9223372036854775809",
		"max": int64(9223372036854775807),
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("record = %#v, want %#v", rec, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		good  int
	}{
		{"empty document", "", 0},
		{"top level object", `{"id":1}`, 0},
		{"non object element", `[{"id":1}, 5]`, 1},
		{"null element", `[null]`, 0},
		{"truncated", `[{"id":1},{"id":`, 1},
		{"trailing comma", `[{"id":1},]`, 1},
		{"trailing data", `[{"id":1}] {}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var good int
			var gotErr error
			for _, err := range NewDecoder(strings.NewReader(tt.input)).All() {
				if err != nil {
					gotErr = err
					break
				}
				good++
			}

			var decErr *DecodeError
			if !errors.As(gotErr, &decErr) {
				t.Fatalf("expected DecodeError, got %v", gotErr)
			}
			if good != tt.good {
				t.Errorf("decoded %d records before failure, want %d", good, tt.good)
			}
		})
	}
}

func TestChunksStopEarly(t *testing.T) {
	var seen int
	for chunk, err := range Chunks(NewDecoder(strings.NewReader(`[{"a":1},{"a":2},{"a":3},{"a":4}]`)).All(), 1) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen++
		if chunk.Index == 1 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("expected iteration to stop after 2 chunks, got %d", seen)
	}
}
