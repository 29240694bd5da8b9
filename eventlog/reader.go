package eventlog

import (
	"errors"
	"fmt"
	"io"

	flatbuffers "github.com/google/flatbuffers/go"
)

// maxRecordSize bounds a single record so a corrupt prefix cannot trigger a
// huge allocation.
const maxRecordSize = 1 << 20

// Reader decodes events written by Writer.
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next event, or io.EOF after the last one. A record cut
// short returns io.ErrUnexpectedEOF.
func (r *Reader) Next() (Event, error) {
	var prefix [flatbuffers.SizeUint32]byte
	if _, err := io.ReadFull(r.r, prefix[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Event{}, fmt.Errorf("truncated record prefix: %w", err)
		}
		return Event{}, err
	}

	size := int(flatbuffers.GetUint32(prefix[:]))
	if size > maxRecordSize {
		return Event{}, fmt.Errorf("event record of %d bytes exceeds limit", size)
	}
	if cap(r.buf) < size+len(prefix) {
		r.buf = make([]byte, size+len(prefix))
	}
	r.buf = r.buf[:size+len(prefix)]
	copy(r.buf, prefix[:])
	if _, err := io.ReadFull(r.r, r.buf[len(prefix):]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Event{}, fmt.Errorf("truncated record body: %w", err)
	}
	return Decode(r.buf)
}

// ReadAll decodes every event in r.
func ReadAll(r io.Reader) ([]Event, error) {
	reader := NewReader(r)
	var events []Event
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}
