package wire

import (
	"fmt"

	"github.com/chazu/nanbox/box"
	"github.com/fxamacker/cbor/v2"
)

// Record describes one boxed word together with where it came from.
// Payload is the CBOR encoding of the value and is omitted when the value
// is not serializable.
type Record struct {
	Session string          `cbor:"1,keyasint"`
	Word    uint64          `cbor:"2,keyasint"`
	Kind    string          `cbor:"3,keyasint"`
	Payload cbor.RawMessage `cbor:"4,keyasint,omitempty"`
}

// NewRecord builds a Record for v.
func NewRecord(session string, v box.Value) (*Record, error) {
	r := &Record{
		Session: session,
		Word:    v.Bits(),
		Kind:    v.Kind().String(),
	}
	if Serializable(v) {
		data, err := Marshal(v)
		if err != nil {
			return nil, err
		}
		r.Payload = data
	}
	return r, nil
}

// Value returns the recorded word.
func (r *Record) Value() box.Value {
	return box.FromBits(r.Word)
}

// Verify checks that the kind and payload agree with the recorded word.
func (r *Record) Verify() error {
	v := r.Value()
	if v.Kind().String() != r.Kind {
		return fmt.Errorf("wire: record kind %q, word %#016x is %s", r.Kind, r.Word, v.Kind())
	}
	if len(r.Payload) == 0 {
		if Serializable(v) {
			return fmt.Errorf("wire: record for %s has no payload", r.Kind)
		}
		return nil
	}
	got, err := Unmarshal(r.Payload)
	if err != nil {
		return err
	}
	if got != v {
		return fmt.Errorf("wire: payload decodes to %#016x, word is %#016x", got.Bits(), r.Word)
	}
	return nil
}

// MarshalRecord serializes a Record to CBOR bytes.
func MarshalRecord(r *Record) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// UnmarshalRecord deserializes a Record from CBOR bytes.
func UnmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("wire: unmarshal record: %w", err)
	}
	return &r, nil
}
