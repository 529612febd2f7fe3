// Package propfile persists settings objects as flat key=value property
// files. Values of string, bool, integer and float types are converted
// natively; any other type is handled by a pluggable Codec matched on the
// property's reflect.Type.
//
// A target describes its properties either explicitly by implementing
// Source, or implicitly as a pointer to a struct whose exported fields are
// discovered by reflection (see StructProperties).
package propfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
)

var (
	// ErrSerialization is the umbrella error for every failure to map a
	// property to or from its stored form.
	ErrSerialization = errors.New("serialization error")

	// ErrMissingValue is returned by Read when a property has no stored
	// value and missing values are not ignored.
	ErrMissingValue = fmt.Errorf("%w: missing value", ErrSerialization)

	// ErrUnknownType is returned when no codec handles a property type and
	// unknown types are not skipped.
	ErrUnknownType = fmt.Errorf("%w: unknown type", ErrSerialization)

	// ErrIO wraps failures to open, read or write the property file.
	ErrIO = errors.New("property file i/o error")
)

// classProperty is never serialized.
const classProperty = "class"

// Property is one named, typed value of a target. A property is only
// serialized when it has both a reader (Get) and a writer (Set).
type Property struct {
	Name string
	Type reflect.Type
	Get  func() any
	Set  func(v any) error
}

// Source is implemented by targets that enumerate their own properties.
type Source interface {
	Properties() []Property
}

// Named is implemented by targets that want a specific type name in the
// file header.
type Named interface {
	PropertyTypeName() string
}

// Serializer reads and writes property files.
type Serializer struct {
	skipUnknownTypes    bool
	ignoreMissingValues bool
	codecs              []Codec
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithCodecs registers codecs for non-builtin types.
func WithCodecs(codecs ...Codec) Option {
	return func(s *Serializer) {
		s.AddCodec(codecs...)
	}
}

// SkipUnknownTypes controls whether properties with no matching codec are
// silently skipped (the default) or reported as ErrUnknownType.
func SkipUnknownTypes(skip bool) Option {
	return func(s *Serializer) {
		s.skipUnknownTypes = skip
	}
}

// IgnoreMissingValues controls whether Read leaves properties without a
// stored value untouched instead of failing with ErrMissingValue (the
// default).
func IgnoreMissingValues(ignore bool) Option {
	return func(s *Serializer) {
		s.ignoreMissingValues = ignore
	}
}

// New creates a Serializer. Defaults: skip unknown types, fail on missing
// values, no codecs.
func New(opts ...Option) *Serializer {
	s := &Serializer{skipUnknownTypes: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SkipsUnknownTypes reports the unknown-type policy.
func (s *Serializer) SkipsUnknownTypes() bool { return s.skipUnknownTypes }

// IgnoresMissingValues reports the missing-value policy.
func (s *Serializer) IgnoresMissingValues() bool { return s.ignoreMissingValues }

// Codecs returns the registered codecs in match order.
func (s *Serializer) Codecs() []Codec { return slices.Clone(s.codecs) }

// AddCodec appends codecs to the match order.
func (s *Serializer) AddCodec(codecs ...Codec) {
	s.codecs = append(s.codecs, codecs...)
}

// RemoveCodec unregisters codecs. Codecs whose dynamic type is not
// comparable (such as a TypeCodec value) can only be removed through a
// pointer.
func (s *Serializer) RemoveCodec(codecs ...Codec) {
	s.codecs = slices.DeleteFunc(s.codecs, func(c Codec) bool {
		if !reflect.ValueOf(c).Comparable() {
			return false
		}
		return slices.Contains(codecs, c)
	})
}

// CodecFor returns the first codec matching t, or nil.
func (s *Serializer) CodecFor(t reflect.Type) Codec {
	for _, c := range s.codecs {
		if c.Matches(t) {
			return c
		}
	}
	return nil
}

// Write serializes target's properties to path.
func (s *Serializer) Write(target any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := s.Encode(target, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Read loads path and assigns every stored property to target.
func (s *Serializer) Read(target any, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	return s.Decode(target, f)
}

// Encode writes target's properties to w, preceded by a comment naming the
// serialized type.
func (s *Serializer) Encode(target any, w io.Writer) error {
	props, err := propertiesOf(target)
	if err != nil {
		return err
	}

	entries := make([]entry, 0, len(props))
	for _, p := range props {
		if !serializable(p) {
			continue
		}
		value, ok, err := s.serialize(p)
		if err != nil {
			return err
		}
		if ok {
			entries = append(entries, entry{key: p.Name, value: value})
		}
	}

	if err := writeFile(w, "Serialized: "+typeName(target), entries); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Decode reads properties from r and assigns them to target.
func (s *Serializer) Decode(target any, r io.Reader) error {
	props, err := propertiesOf(target)
	if err != nil {
		return err
	}
	stored, err := readFile(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	for _, p := range props {
		if !serializable(p) {
			continue
		}
		raw, ok := stored[p.Name]
		if !ok {
			if s.ignoreMissingValues {
				continue
			}
			return fmt.Errorf("%w with name: %s", ErrMissingValue, p.Name)
		}
		value, ok, err := s.parse(p, raw)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := p.Set(value); err != nil {
			return fmt.Errorf("%w: setting %s: %w", ErrSerialization, p.Name, err)
		}
	}
	return nil
}

func serializable(p Property) bool {
	return p.Get != nil && p.Set != nil && p.Name != classProperty
}

// serialize renders p's current value. ok is false when the property was
// skipped because its type is unknown.
func (s *Serializer) serialize(p Property) (string, bool, error) {
	v := p.Get()
	if isBuiltin(p.Type) {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || !rv.Type().ConvertibleTo(p.Type) {
			return "", false, fmt.Errorf("%w: property %s holds %T, expected %v", ErrSerialization, p.Name, v, p.Type)
		}
		return formatBuiltin(rv.Convert(p.Type)), true, nil
	}
	if c := s.CodecFor(p.Type); c != nil {
		out, err := c.Serialize(v)
		if err != nil {
			return "", false, fmt.Errorf("%w: property %s: %w", ErrSerialization, p.Name, err)
		}
		return out, true, nil
	}
	if s.skipUnknownTypes {
		return "", false, nil
	}
	return "", false, fmt.Errorf("%w in class: %v (property %s)", ErrUnknownType, p.Type, p.Name)
}

// parse converts a stored value for p. ok is false when the property was
// skipped because its type is unknown.
func (s *Serializer) parse(p Property, raw string) (any, bool, error) {
	if isBuiltin(p.Type) {
		v, err := parseBuiltin(raw, p.Type)
		if err != nil {
			return nil, false, fmt.Errorf("%w: property %s: %w", ErrSerialization, p.Name, err)
		}
		return v.Interface(), true, nil
	}
	if c := s.CodecFor(p.Type); c != nil {
		v, err := c.Parse(raw)
		if err != nil {
			return nil, false, fmt.Errorf("%w: property %s: %w", ErrSerialization, p.Name, err)
		}
		return v, true, nil
	}
	if s.skipUnknownTypes {
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("%w in class: %v (property %s)", ErrUnknownType, p.Type, p.Name)
}

func propertiesOf(target any) ([]Property, error) {
	if src, ok := target.(Source); ok {
		return src.Properties(), nil
	}
	return StructProperties(target)
}

func typeName(target any) string {
	if n, ok := target.(Named); ok {
		return n.PropertyTypeName()
	}
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
