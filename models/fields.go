package models

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// fieldIndex maps JSON field names to struct field index paths, per record type.
var fieldIndex sync.Map // reflect.Type -> map[string][]int

func indexFor(t reflect.Type) map[string][]int {
	if cached, ok := fieldIndex.Load(t); ok {
		return cached.(map[string][]int)
	}
	idx := make(map[string][]int)
	collectFields(t, nil, idx)
	actual, _ := fieldIndex.LoadOrStore(t, idx)
	return actual.(map[string][]int)
}

func collectFields(t reflect.Type, prefix []int, idx map[string][]int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectFields(f.Type, path, idx)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			name = f.Name
		}
		idx[name] = path
	}
}

// fieldValue resolves a JSON field name on a record, following pointers.
// ok is false for unknown fields and for nil optional values.
func fieldValue(rec any, name string) (reflect.Value, bool) {
	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	path, ok := indexFor(v.Type())[name]
	if !ok {
		return reflect.Value{}, false
	}
	f := v.FieldByIndex(path)
	for f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return reflect.Value{}, false
		}
		f = f.Elem()
	}
	return f, true
}

var timeType = reflect.TypeOf(time.Time{})
var timestampType = reflect.TypeOf(Timestamp{})

// LookupString returns the text value of a field by JSON name. Numbers are
// formatted; dates are rendered in RFC 3339. ok is false when the field is
// absent or unknown.
func LookupString(rec any, name string) (string, bool) {
	f, ok := fieldValue(rec, name)
	if !ok {
		return "", false
	}
	switch f.Type() {
	case timeType:
		return f.Interface().(time.Time).Format(time.RFC3339), true
	case timestampType:
		return f.Interface().(Timestamp).Format(time.RFC3339), true
	}
	switch f.Kind() {
	case reflect.String:
		return f.String(), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(f.Float(), 'f', -1, 64), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(f.Int(), 10), true
	default:
		return "", false
	}
}

// LookupTime returns the value of a date field by JSON name. ok is false when
// the field is absent, unknown, or not a date.
func LookupTime(rec any, name string) (time.Time, bool) {
	f, ok := fieldValue(rec, name)
	if !ok {
		return time.Time{}, false
	}
	switch f.Type() {
	case timeType:
		return f.Interface().(time.Time), true
	case timestampType:
		return f.Interface().(Timestamp).Time, true
	default:
		return time.Time{}, false
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
