package reddit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

// DecodeError reports a payload that could not be decoded into the model.
//
// Err is [shared.ErrDecodeSyntax] for malformed JSON and [shared.ErrDecodeSchema]
// for a missing or mistyped field.
type DecodeError struct {
	Path   string // dotted JSON path of the offending value, empty for the root
	Offset int64  // byte offset of a syntax error
	Err    error
	Cause  error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	if e.Path != "" {
		fmt.Fprintf(&sb, " at %s", e.Path)
	}
	if errors.Is(e.Err, shared.ErrDecodeSyntax) && e.Offset > 0 {
		fmt.Fprintf(&sb, " (offset %d)", e.Offset)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap allows errors.Is to match both the sentinel and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// DecodeThing decodes a raw upstream payload into a [Thing].
func DecodeThing(data []byte) (Thing, error) {
	var thing Thing
	if err := json.Unmarshal(data, &thing); err != nil {
		return Thing{}, atPath("", err)
	}
	return thing, nil
}

// missing builds a schema error for a required field that is absent or null.
func missing(path string) error {
	return &DecodeError{Path: path, Err: shared.ErrDecodeSchema, Cause: errors.New("required field missing")}
}

// atPath converts err into a [*DecodeError] rooted at prefix.
//
// Nested decode errors keep their own path, appended to prefix.
func atPath(prefix string, err error) error {
	if err == nil {
		return nil
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{Path: joinPath(prefix, de.Path), Offset: de.Offset, Err: de.Err, Cause: de.Cause}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DecodeError{Path: prefix, Offset: syntaxErr.Offset, Err: shared.ErrDecodeSyntax, Cause: err}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		cause := fmt.Errorf("expected %s, got %s", typeErr.Type, typeErr.Value)
		return &DecodeError{Path: joinPath(prefix, typeErr.Field), Err: shared.ErrDecodeSchema, Cause: cause}
	}

	return &DecodeError{Path: prefix, Err: shared.ErrDecodeSchema, Cause: err}
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	case strings.HasPrefix(path, "["):
		return prefix + path
	default:
		return prefix + "." + path
	}
}

func index(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

// isNull reports whether raw holds no value: an absent key or an explicit null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeField unmarshals raw into v, prefixing any error with path.
func decodeField(raw json.RawMessage, path string, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return atPath(path, err)
	}
	return nil
}

// decodeArray splits a JSON array so each element can be decoded with its index in the path.
func decodeArray(raw json.RawMessage, path string) ([]json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := decodeField(raw, path, &elems); err != nil {
		return nil, err
	}
	return elems, nil
}

// firstPresent returns the first raw value that holds a value, with its key.
func firstPresent(pairs ...keyed) (keyed, bool) {
	for _, p := range pairs {
		if !isNull(p.raw) {
			return p, true
		}
	}
	return keyed{}, false
}

type keyed struct {
	key string
	raw json.RawMessage
}
