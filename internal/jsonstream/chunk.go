package jsonstream

import "iter"

// Chunk is a bounded, ordered batch of records handed to one bulk insert.
type Chunk struct {
	Index   int
	Records []Record
}

// Chunks groups records into batches of at most size records. The final
// batch may be shorter; an empty sequence yields nothing. An error from the
// underlying sequence is yielded with a zero Chunk and ends iteration.
func Chunks(records Records, size int) iter.Seq2[Chunk, error] {
	if size < 1 {
		size = 1
	}
	return func(yield func(Chunk, error) bool) {
		index := 0
		batch := make([]Record, 0, size)
		for rec, err := range records {
			if err != nil {
				yield(Chunk{}, err)
				return
			}
			batch = append(batch, rec)
			if len(batch) == size {
				if !yield(Chunk{Index: index, Records: batch}, nil) {
					return
				}
				index++
				batch = make([]Record, 0, size)
			}
		}
		if len(batch) > 0 {
			yield(Chunk{Index: index, Records: batch}, nil)
		}
	}
}
