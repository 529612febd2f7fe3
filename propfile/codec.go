package propfile

import (
	"fmt"
	"reflect"
	"strconv"
)

// Codec converts values of the types it matches to and from their stored
// string form. Codecs are consulted in registration order for any type the
// serializer does not handle natively.
type Codec interface {
	// Matches reports whether the codec handles values of type t.
	Matches(t reflect.Type) bool
	// Serialize renders v as a property value.
	Serialize(v any) (string, error)
	// Parse converts a stored value back into a value of the matched type.
	Parse(s string) (any, error)
}

// TypeCodec adapts a pair of typed functions into a Codec matching exactly T.
type TypeCodec[T any] struct {
	SerializeFunc func(T) (string, error)
	ParseFunc     func(string) (T, error)
}

// Matches implements Codec.
func (c TypeCodec[T]) Matches(t reflect.Type) bool {
	return t == reflect.TypeFor[T]()
}

// Serialize implements Codec.
func (c TypeCodec[T]) Serialize(v any) (string, error) {
	tv, ok := v.(T)
	if !ok {
		return "", fmt.Errorf("%w: expected %v, got %T", ErrSerialization, reflect.TypeFor[T](), v)
	}
	return c.SerializeFunc(tv)
}

// Parse implements Codec.
func (c TypeCodec[T]) Parse(s string) (any, error) {
	v, err := c.ParseFunc(s)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// isBuiltin reports whether values of t are converted without a codec.
func isBuiltin(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// formatBuiltin renders a builtin value.
func formatBuiltin(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	default:
		return strconv.FormatInt(v.Int(), 10)
	}
}

// parseBuiltin converts s into a value of builtin type t.
func parseBuiltin(s string, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	default:
		i, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(i)
	}
	return out, nil
}
