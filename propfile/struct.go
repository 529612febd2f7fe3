package propfile

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// StructProperties discovers the properties of a pointer to a struct by
// reflection. Every exported field becomes a property named by its `prop`
// tag, or by the snake_case form of the field name when untagged. A tag of
// "-" excludes the field.
func StructProperties(target any) ([]Property, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: target must be a non-nil pointer to a struct or a Source, got %T",
			ErrSerialization, target)
	}
	sv := rv.Elem()
	st := sv.Type()

	props := make([]Property, 0, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("prop")
		if name == "-" {
			continue
		}
		if name == "" {
			name = SnakeCase(field.Name)
		}
		fv := sv.Field(i)
		ft := field.Type
		props = append(props, Property{
			Name: name,
			Type: ft,
			Get:  func() any { return fv.Interface() },
			Set: func(v any) error {
				val := reflect.ValueOf(v)
				if !val.IsValid() || !val.Type().AssignableTo(ft) {
					if val.IsValid() && val.Type().ConvertibleTo(ft) {
						val = val.Convert(ft)
					} else {
						return fmt.Errorf("cannot assign %T to %v", v, ft)
					}
				}
				fv.Set(val)
				return nil
			},
		})
	}
	return props, nil
}

// SnakeCase converts a Go identifier such as "BackgroundColor" or "HTTPPort"
// to "background_color" or "http_port".
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
