// Package traitkey provides an opaque string identifier type with
// conversions to and from numeric row ids. The models and repositories
// identify entities by int64 ids and do not use this type.
package traitkey

import "strconv"

// Key is an opaque domain identifier. It wraps a string so call sites never
// confuse a TraitsKey with an arbitrary user-facing string, while staying
// cheap to pass around and easy to log.
type Key string

// String returns the underlying value.
func (k Key) String() string {
	return string(k)
}

// IsZero reports whether the key carries no value.
func (k Key) IsZero() bool {
	return k == ""
}

// FromInt64 builds a Key from a numeric row id, the shape most relational
// repositories hand back from a sequence or RETURNING clause.
func FromInt64(id int64) Key {
	return Key(strconv.FormatInt(id, 10))
}

// Int64 parses the key back into a numeric row id. Returns an error if the
// key was never numeric (e.g. a synthetic test key).
func (k Key) Int64() (int64, error) {
	return strconv.ParseInt(string(k), 10, 64)
}
