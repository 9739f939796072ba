package anim

import (
	"errors"
	"fmt"
	"image"
	"reflect"
)

var ErrMember = errors.New("anim: member lookup failed")

var (
	rectType  = reflect.TypeOf(image.Rectangle{})
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// Schema names the members read from live patch instances. The external
// patch system does not promise a stable shape, so every name is looked up
// at call time and may be overridden.
type Schema struct {
	DisplayName string
	Applied     string
	SourceAsset string
	TargetAsset string
	FromArea    string
	ToArea      string
	// TryGetRect is the method on an area returning (image.Rectangle, bool).
	TryGetRect string
}

func DefaultSchema() Schema {
	return Schema{
		DisplayName: "LogName",
		Applied:     "IsApplied",
		SourceAsset: "FromAsset",
		TargetAsset: "TargetAsset",
		FromArea:    "FromArea",
		ToArea:      "ToArea",
		TryGetRect:  "TryGetRectangle",
	}
}

func (s Schema) members() []string {
	return []string{s.DisplayName, s.Applied, s.SourceAsset, s.TargetAsset, s.FromArea, s.ToArea}
}

// member returns the result of the zero-argument method called name, or
// failing that the exported field called name. A method may return a single
// value or a value and an error.
func member(obj any, name string) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s on nil instance", ErrMember, name)
	}

	if m := rv.MethodByName(name); m.IsValid() {
		return callGetter(m, name)
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: %s on nil %s", ErrMember, name, rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s on non-struct %s", ErrMember, name, rv.Type())
	}

	sf, ok := rv.Type().FieldByName(name)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s not found on %s", ErrMember, name, rv.Type())
	}
	if !sf.IsExported() {
		return reflect.Value{}, fmt.Errorf("%w: %s on %s is unexported", ErrMember, name, rv.Type())
	}
	return elem(rv.FieldByIndex(sf.Index)), nil
}

func callGetter(m reflect.Value, name string) (reflect.Value, error) {
	mt := m.Type()
	if mt.NumIn() != 0 || mt.NumOut() == 0 || mt.NumOut() > 2 {
		return reflect.Value{}, fmt.Errorf("%w: %s is not a getter (%s)", ErrMember, name, mt)
	}
	if mt.NumOut() == 2 && !mt.Out(1).Implements(errorType) {
		return reflect.Value{}, fmt.Errorf("%w: %s second result is not an error", ErrMember, name)
	}

	out := m.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, fmt.Errorf("%s: %w", name, out[1].Interface().(error))
	}
	return elem(out[0]), nil
}

// hasMember reports whether name resolves to a getter or exported field.
func hasMember(obj any, name string) bool {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return false
	}
	if m := rv.MethodByName(name); m.IsValid() {
		return true
	}
	t := rv.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	sf, ok := t.FieldByName(name)
	return ok && sf.IsExported()
}

func elem(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return v.Elem()
	}
	return v
}

func stringMember(obj any, name string) (string, error) {
	v, err := member(obj, name)
	if err != nil {
		return "", err
	}
	if v.Kind() != reflect.String {
		return "", fmt.Errorf("%w: %s is %s, want string", ErrMember, name, v.Kind())
	}
	return v.String(), nil
}

func boolMember(obj any, name string) (bool, error) {
	v, err := member(obj, name)
	if err != nil {
		return false, err
	}
	if v.Kind() != reflect.Bool {
		return false, fmt.Errorf("%w: %s is %s, want bool", ErrMember, name, v.Kind())
	}
	return v.Bool(), nil
}

// rectMember reads the area called field and asks it for a concrete
// rectangle through the method called try. An absent area or a "none"
// answer both yield the empty rectangle.
func rectMember(obj any, field, try string) (image.Rectangle, error) {
	area, err := member(obj, field)
	if err != nil {
		return image.Rectangle{}, err
	}
	if (area.Kind() == reflect.Pointer || area.Kind() == reflect.Interface) && area.IsNil() {
		return image.Rectangle{}, nil
	}

	m := area.MethodByName(try)
	if !m.IsValid() && area.CanAddr() {
		m = area.Addr().MethodByName(try)
	}
	if !m.IsValid() {
		return image.Rectangle{}, fmt.Errorf("%w: %s has no method %s", ErrMember, field, try)
	}

	mt := m.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 2 || !mt.Out(0).ConvertibleTo(rectType) || mt.Out(1).Kind() != reflect.Bool {
		return image.Rectangle{}, fmt.Errorf("%w: %s.%s has signature %s", ErrMember, field, try, mt)
	}

	out := m.Call(nil)
	if !out[1].Bool() {
		return image.Rectangle{}, nil
	}
	return out[0].Convert(rectType).Interface().(image.Rectangle), nil
}
