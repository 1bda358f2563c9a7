package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"homewizard-client/internal/domain/model"
)

// flex holds a device field whose JSON type varies between firmware
// versions: numbers arrive as numbers or strings, booleans as "yes"/"no",
// "on"/"off" or real booleans, and anything may be null.
type flex struct {
	v any
}

func (f *flex) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &f.v)
}

func (f flex) IsNull() bool {
	return f.v == nil
}

func (f flex) Bool() bool {
	switch v := f.v.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "y", "on", "true", "t", "1":
			return true
		}
	}
	return false
}

// Int returns nil for null or unparsable values.
func (f flex) Int() *int {
	if f.v == nil {
		return nil
	}
	n, err := cast.ToIntE(f.v)
	if err != nil {
		x, ferr := cast.ToFloat64E(f.v)
		if ferr != nil {
			return nil
		}
		n = int(x)
	}
	return &n
}

// Float returns nil for null or unparsable values.
func (f flex) Float() *float64 {
	if f.v == nil {
		return nil
	}
	x, err := cast.ToFloat64E(f.v)
	if err != nil {
		return nil
	}
	return &x
}

func (f flex) String() string {
	if f.v == nil {
		return ""
	}
	return cast.ToString(f.v)
}

// origin is the payload a record was decoded from, kept for error reports.
type origin struct {
	path    string
	payload json.RawMessage
}

func (o origin) fail(reason string, err error) error {
	return &model.ProtocolError{URL: o.path, Reason: reason, Payload: string(o.payload), Err: err}
}

// requireInt reads a mandatory integer such as an entity id.
func (f flex) requireInt(field string, at origin) (int, error) {
	n := f.Int()
	if n == nil {
		return 0, at.fail(fmt.Sprintf("missing or invalid %q", field), nil)
	}
	return *n, nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// decode unmarshals a payload into dst, reporting failures as protocol errors.
func decode(payload json.RawMessage, path string, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return &model.ProtocolError{URL: path, Reason: "unexpected payload", Payload: string(payload), Err: err}
	}
	return nil
}

// member extracts a required array member of an object payload.
func member[T any](payload json.RawMessage, path, name string) ([]T, error) {
	var obj map[string]json.RawMessage
	if err := decode(payload, path, &obj); err != nil {
		return nil, err
	}
	raw, ok := obj[name]
	if !ok {
		return nil, &model.ProtocolError{URL: path, Reason: fmt.Sprintf("missing %q", name), Payload: string(payload)}
	}
	var out []T
	if err := decode(raw, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func invalid(at origin, err error) error {
	return at.fail("invalid value", err)
}
