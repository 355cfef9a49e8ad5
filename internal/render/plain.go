// Package render converts SDK responses into plain values and writes them
// as JSON, YAML or text.
package render

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// skippedFields are SDK bookkeeping fields that never belong in output.
var skippedFields = map[string]bool{
	"ResultMetadata": true,
}

var timeType = reflect.TypeOf(time.Time{})

// Plain converts v into maps, slices and scalars. It handles:
// - PascalCase field names (VpcLinkId, not vpc_link_id)
// - Omitting nil/zero fields
// - Dereferencing pointers
// - Timestamps as RFC 3339 strings
func Plain(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return plainValue(reflect.ValueOf(v))
}

func plainStruct(val reflect.Value) (map[string]any, error) {
	result := make(map[string]any)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !field.IsExported() || skippedFields[field.Name] {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}

		if isZeroValue(fieldVal) {
			continue
		}

		v, err := plainValue(fieldVal)
		if err != nil {
			return nil, err
		}
		if v != nil {
			result[name] = v
		}
	}

	return result, nil
}

// fieldName returns the JSON field name for a struct field.
func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

// isZeroValue returns true if the value is the zero value for its type.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface().(time.Time).IsZero()
		}
		return false
	default:
		return v.IsZero()
	}
}

func plainValue(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		return plainValue(v.Elem())
	}

	if v.Type() == timeType {
		return v.Interface().(time.Time).UTC().Format(time.RFC3339), nil
	}

	switch v.Kind() {
	case reflect.Struct:
		return plainStruct(v)

	case reflect.Slice, reflect.Array:
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := plainValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			result[i] = elem
		}
		return result, nil

	case reflect.Map:
		result := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val, err := plainValue(iter.Value())
			if err != nil {
				return nil, err
			}
			result[iter.Key().String()] = val
		}
		return result, nil

	case reflect.String:
		return v.String(), nil

	case reflect.Bool:
		return v.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil

	case reflect.Float32, reflect.Float64:
		return v.Float(), nil

	default:
		// Fall back to JSON marshaling
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return nil, err
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		return result, nil
	}
}
