package paging

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// Direction represents a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is a known sort direction.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// Payload is the decoded content of a page cursor. LastValue and LastID mark
// the boundary row of the previous page; both are nil on a first-page
// payload. Filters are fixed for the lifetime of a traversal: every cursor
// derived from this payload echoes them unchanged.
type Payload struct {
	SortBy        string    `json:"sort_by"`
	SortDirection Direction `json:"sort_direction"`
	LastValue     any       `json:"last_value"`
	LastID        *int64    `json:"last_id"`
	Filters       Filters   `json:"filters"`
}

// ID returns a pointer to id, for building payloads literally.
func ID(id int64) *int64 {
	return &id
}

// Validate checks the payload's structural invariants.
func (p Payload) Validate() error {
	if !p.SortDirection.Valid() {
		return invalidCursor("sort_direction must be %q or %q", Asc, Desc)
	}
	if (p.LastValue == nil) != (p.LastID == nil) {
		return invalidCursor("last_value and last_id must be present together")
	}
	return nil
}

// normalized returns a copy of p with scalar values reduced to the canonical
// domain (string, int64, float64, bool, nil) so that encoding is
// deterministic and decode(encode(p)) reproduces p exactly.
func (p Payload) normalized() Payload {
	p.LastValue = normalizeValue(p.LastValue)
	if p.Filters == nil {
		p.Filters = Filters{}
	} else {
		p.Filters = p.Filters.normalized()
	}
	return p
}

// normalizeValue maps a scalar onto the canonical cursor value domain.
// Timestamps become RFC 3339 strings, integer types widen to int64 and
// floating point types to float64. json.Number is resolved to int64 when
// integral, float64 otherwise.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format(time.RFC3339Nano)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

// Codec encodes and decodes signed page cursors. The signing secret is
// injected at construction; there is no ambient process-wide state.
type Codec struct {
	secret []byte
}

// NewCodec creates a cursor codec signing with the given secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("paging: signing secret is required")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// cursorEnvelope is the wire form wrapped inside the base64url token.
type cursorEnvelope struct {
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

// Encode serializes the payload to canonical JSON, signs it with
// HMAC-SHA256 and returns the base64url token. Identical payloads always
// produce identical tokens.
func (c *Codec) Encode(p Payload) (string, error) {
	p = p.normalized()
	if err := p.Validate(); err != nil {
		return "", err
	}

	data, err := canonicalJSON(p)
	if err != nil {
		return "", err
	}

	envelope, err := marshalCompact(cursorEnvelope{
		Data:      data,
		Signature: c.sign(data),
	})
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(envelope), nil
}

// Decode verifies and unpacks a cursor token. Every failure mode surfaces as
// ErrInvalidCursor; the underlying cause is wrapped for logging only.
func (c *Codec) Decode(token string) (Payload, error) {
	// Strict decoding rejects non-canonical trailing bits, so every
	// single-character substitution in a token is detectable.
	raw, err := base64.URLEncoding.Strict().DecodeString(token)
	if err != nil {
		return Payload{}, invalidCursor("malformed base64url")
	}

	var envelope cursorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Payload{}, invalidCursor("malformed envelope")
	}
	if len(envelope.Data) == 0 || envelope.Signature == "" {
		return Payload{}, invalidCursor("missing data or signature")
	}

	canonical, err := recanonicalize(envelope.Data)
	if err != nil {
		return Payload{}, invalidCursor("malformed payload")
	}

	// Compare the hex strings rather than decoded bytes: hex decoding is
	// case-insensitive and would let a case flip inside the signature pass.
	if subtle.ConstantTimeCompare([]byte(envelope.Signature), []byte(c.sign(canonical))) != 1 {
		return Payload{}, invalidCursor("signature mismatch")
	}

	var p Payload
	dec := json.NewDecoder(bytes.NewReader(envelope.Data))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return Payload{}, invalidCursor("malformed payload")
	}
	p = p.normalized()
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// sign returns the hex HMAC-SHA256 of data under the codec secret.
func (c *Codec) sign(data []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalJSON serializes v deterministically: object keys sorted, no
// insignificant whitespace, no HTML escaping, numeric literals preserved.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := marshalCompact(v)
	if err != nil {
		return nil, err
	}
	return recanonicalize(raw)
}

// recanonicalize re-serializes raw JSON bytes into canonical form by decoding
// into generic maps (whose keys Go marshals in sorted order) with numbers
// kept as literals.
func recanonicalize(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return marshalCompact(tree)
}

// marshalCompact marshals without HTML escaping and without the trailing
// newline json.Encoder appends.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
