package audit

import (
	"fmt"
	"reflect"
	"time"
)

// Field is one column of an entity as seen before (Old) and after (New) a
// mutation. Values are rendered to strings up front so the recorder never
// has to look at live entities again.
type Field struct {
	Name string
	Old  string
	New  string
}

var timeType = reflect.TypeOf(time.Time{})

// snapshot walks the exported scalar fields of an entity struct in
// declaration order. Relation fields (slices, nested model structs) and the
// GORM bookkeeping timestamps are skipped; pointers render as "" when nil.
func snapshot(entity any) []pair {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	out := make([]pair, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Name == "CreatedAt" || f.Name == "UpdatedAt" {
			continue
		}
		s, ok := render(v.Field(i))
		if !ok {
			continue
		}
		out = append(out, pair{name: f.Name, value: s})
	}
	return out
}

type pair struct {
	name  string
	value string
}

func render(v reflect.Value) (string, bool) {
	if v.Kind() == reflect.Pointer {
		// Relation pointers are skipped by type, not by value, so a field
		// is present in every snapshot of the entity or in none.
		if elem := v.Type().Elem(); elem.Kind() == reflect.Struct && elem != timeType {
			return "", false
		}
		if v.IsNil() {
			return "", true
		}
		return render(v.Elem())
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", v.Float()), true
	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface().(time.Time).Format("2006-01-02 15:04:05"), true
		}
		return "", false
	default:
		return "", false
	}
}

// entityName reports the struct type name, e.g. "Equipment".
func entityName(entity any) string {
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
