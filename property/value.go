package property

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-slark/proptree/errors"
)

// Value is a scalar property: a typed value with a canonical text form.
// Decode must accept everything Encode produces.
type Value interface {
	Encode() string
	Decode(text string) error
}

func malformed(kind, text string, cause error) error {
	return errors.Malformed("not a valid "+kind).WithMeta(errors.MetaValue, text).WithError(cause)
}

type Int int

func (v Int) Get() int { return int(v) }

func (v *Int) Set(i int) { *v = Int(i) }

func (v Int) Encode() string { return strconv.FormatInt(int64(v), 10) }

func (v *Int) Decode(text string) error {
	i, err := strconv.ParseInt(strings.TrimSpace(text), 10, strconv.IntSize)
	if err != nil {
		return malformed("int", text, err)
	}
	*v = Int(i)
	return nil
}

type Int64 int64

func (v Int64) Get() int64 { return int64(v) }

func (v *Int64) Set(i int64) { *v = Int64(i) }

func (v Int64) Encode() string { return strconv.FormatInt(int64(v), 10) }

func (v *Int64) Decode(text string) error {
	i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return malformed("int64", text, err)
	}
	*v = Int64(i)
	return nil
}

type Uint uint

func (v Uint) Get() uint { return uint(v) }

func (v *Uint) Set(u uint) { *v = Uint(u) }

func (v Uint) Encode() string { return strconv.FormatUint(uint64(v), 10) }

func (v *Uint) Decode(text string) error {
	u, err := strconv.ParseUint(strings.TrimSpace(text), 10, strconv.IntSize)
	if err != nil {
		return malformed("uint", text, err)
	}
	*v = Uint(u)
	return nil
}

type Uint64 uint64

func (v Uint64) Get() uint64 { return uint64(v) }

func (v *Uint64) Set(u uint64) { *v = Uint64(u) }

func (v Uint64) Encode() string { return strconv.FormatUint(uint64(v), 10) }

func (v *Uint64) Decode(text string) error {
	u, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return malformed("uint64", text, err)
	}
	*v = Uint64(u)
	return nil
}

// Float encodes in the shortest form that parses back to the same value.
type Float float64

func (v Float) Get() float64 { return float64(v) }

func (v *Float) Set(f float64) { *v = Float(f) }

func (v Float) Encode() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

func (v *Float) Decode(text string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return malformed("float", text, err)
	}
	*v = Float(f)
	return nil
}

// Bool accepts only true and false.
type Bool bool

func (v Bool) Get() bool { return bool(v) }

func (v *Bool) Set(b bool) { *v = Bool(b) }

func (v Bool) Encode() string { return strconv.FormatBool(bool(v)) }

func (v *Bool) Decode(text string) error {
	switch strings.TrimSpace(text) {
	case "true":
		*v = true
	case "false":
		*v = false
	default:
		return malformed("bool", text, nil)
	}
	return nil
}

// String is stored verbatim, whitespace included. Encode replaces invalid
// UTF-8 sequences with U+FFFD so every archiver writes the same text.
type String string

func (v String) Get() string { return string(v) }

func (v *String) Set(s string) { *v = String(s) }

func (v String) Encode() string { return strings.ToValidUTF8(string(v), "\uFFFD") }

func (v *String) Decode(text string) error {
	*v = String(text)
	return nil
}

// Duration uses the time.Duration text form, e.g. 1m30s.
type Duration time.Duration

func (v Duration) Get() time.Duration { return time.Duration(v) }

func (v *Duration) Set(d time.Duration) { *v = Duration(d) }

func (v Duration) Encode() string { return time.Duration(v).String() }

func (v *Duration) Decode(text string) error {
	d, err := time.ParseDuration(strings.TrimSpace(text))
	if err != nil {
		return malformed("duration", text, err)
	}
	*v = Duration(d)
	return nil
}
