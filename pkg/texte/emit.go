package texte

import (
	"encoding/json"
	"io"
)

// Emitter receives records as the parser closes them. Emission is streaming
// and append-only: records are final once emitted.
type Emitter interface {
	Emit(record any) error
}

// JSONEmitter writes records as newline-delimited JSON. HTML escaping is
// disabled so the legal text round-trips byte-for-byte; map keys (the alinea
// indexes) and struct fields encode in sorted key order.
type JSONEmitter struct {
	enc *json.Encoder
}

// NewJSONEmitter creates a JSONEmitter writing to w.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONEmitter{enc: enc}
}

// Emit encodes one record followed by a newline.
func (e *JSONEmitter) Emit(record any) error {
	return e.enc.Encode(record)
}

// RecordSink collects emitted records in memory, for callers that store or
// inspect the full record stream after parsing.
type RecordSink struct {
	Records []any
}

// Emit appends the record to the sink.
func (s *RecordSink) Emit(record any) error {
	s.Records = append(s.Records, record)
	return nil
}
