package model

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"time"
)

// normalize converts value to the canonical representation of attrType so
// that values set locally and values decoded from JSON compare equal. Values
// that cannot be converted are kept as given and reported by Validate.
func normalize(attrType AttrType, value interface{}) interface{} {
	if value == nil {
		return nil
	}

	switch attrType {
	case TypeInt:
		if n, ok := toInt64(value); ok {
			return n
		}
	case TypeFloat:
		if f, ok := toFloat64(value); ok {
			return f
		}
	case TypeBool:
		if b, ok := toBool(value); ok {
			return b
		}
	case TypeTime:
		if ts, ok := toTime(value); ok {
			return ts
		}
	case TypeString:
		switch typed := value.(type) {
		case []byte:
			return string(typed)
		case json.Number:
			return typed.String()
		}
	case TypeAny, TypeMap, TypeList:
	}

	return normalizeGeneric(value)
}

// normalizeGeneric turns maps into map[string]interface{}, sequences into
// []interface{} and integers into int64, recursively.
func normalizeGeneric(value interface{}) interface{} {
	switch typed := value.(type) {
	case nil, string, bool, int64, float64, time.Time:
		return typed
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return n
		}

		if f, err := typed.Float64(); err == nil {
			return f
		}

		return typed.String()
	case []byte:
		return string(typed)
	}

	if n, ok := toInt64(value); ok {
		if _, isFloat := value.(float32); !isFloat {
			return n
		}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32:
		return rv.Float()
	case reflect.Map:
		normalized := make(map[string]interface{}, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key()
			if key.Kind() != reflect.String {
				continue
			}

			normalized[key.String()] = normalizeGeneric(iter.Value().Interface())
		}

		return normalized
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []interface{}{}
		}

		normalized := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			normalized[i] = normalizeGeneric(rv.Index(i).Interface())
		}

		return normalized
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}

		return normalizeGeneric(rv.Elem().Interface())
	default:
		return value
	}
}

func toInt64(value interface{}) (int64, bool) {
	switch typed := value.(type) {
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return n, true
		}

		if f, err := typed.Float64(); err == nil {
			return floatToInt64(f)
		}

		return 0, false
	case bool, string:
		return 0, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}

		return int64(u), true
	case reflect.Float32, reflect.Float64:
		return floatToInt64(rv.Float())
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}

	return int64(f), true
}

func toFloat64(value interface{}) (float64, bool) {
	if number, ok := value.(json.Number); ok {
		f, err := number.Float64()

		return f, err == nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func toBool(value interface{}) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		b, err := strconv.ParseBool(typed)

		return b, err == nil
	}

	if f, ok := toFloat64(value); ok {
		return f != 0, true
	}

	return false, false
}

func toTime(value interface{}) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed.UTC(), true
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}

		return typed.UTC(), true
	case string:
		parsed, err := time.Parse(time.RFC3339, typed)
		if err != nil {
			return time.Time{}, false
		}

		return parsed.UTC(), true
	}

	if seconds, ok := toInt64(value); ok {
		return time.Unix(seconds, 0).UTC(), true
	}

	return time.Time{}, false
}

// matchesType reports whether a normalised value has the declared type.
func matchesType(attrType AttrType, value interface{}) bool {
	switch attrType {
	case TypeString:
		_, ok := value.(string)

		return ok
	case TypeInt:
		_, ok := value.(int64)

		return ok
	case TypeFloat:
		_, ok := value.(float64)

		return ok
	case TypeBool:
		_, ok := value.(bool)

		return ok
	case TypeMap:
		_, ok := value.(map[string]interface{})

		return ok
	case TypeList:
		_, ok := value.([]interface{})

		return ok
	case TypeTime:
		_, ok := value.(time.Time)

		return ok
	default:
		return true
	}
}

// cloneValue deep copies maps and lists so callers cannot mutate stored state.
func cloneValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		cloned := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			cloned[key] = cloneValue(item)
		}

		return cloned
	case []interface{}:
		cloned := make([]interface{}, len(typed))
		for i, item := range typed {
			cloned[i] = cloneValue(item)
		}

		return cloned
	default:
		return value
	}
}
