package http

import (
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/stackla-go/internal/constants"
)

// PreserveEmpty returns a copy of data in which every empty value (nil, "",
// empty map, empty slice) is replaced by "". The API distinguishes an absent
// parameter from an explicitly empty one, so empties must still be encoded as
// "key=". Nested maps and slices are processed recursively.
func PreserveEmpty(data map[string]interface{}) map[string]interface{} {
	preserved := make(map[string]interface{}, len(data))
	for key, value := range data {
		preserved[key] = preserveValue(value)
	}

	return preserved
}

func preserveValue(value interface{}) interface{} {
	if isEmpty(value) {
		return ""
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		nested := make(map[string]interface{}, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			nested[mapKey(iter.Key())] = preserveValue(iter.Value().Interface())
		}

		return nested
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}

		items := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = preserveValue(rv.Index(i).Interface())
		}

		return items
	default:
		return value
	}
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}

		return isEmpty(rv.Elem().Interface())
	case reflect.String, reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}

// EncodeQuery encodes data with bracket notation for nested values
// ("filter[name]=x", "ids[0]=1"). Keys are sorted.
func EncodeQuery(data map[string]interface{}) string {
	pairs := make([]string, 0, len(data))
	for _, key := range sortedKeys(data) {
		pairs = appendPairs(pairs, key, data[key])
	}

	return strings.Join(pairs, constants.QuerySeparator)
}

func appendPairs(pairs []string, prefix string, value interface{}) []string {
	switch typed := value.(type) {
	case nil:
		return append(pairs, url.QueryEscape(prefix)+"=")
	case string:
		return append(pairs, url.QueryEscape(prefix)+"="+url.QueryEscape(typed))
	case bool:
		if typed {
			return append(pairs, url.QueryEscape(prefix)+"=1")
		}

		return append(pairs, url.QueryEscape(prefix)+"=0")
	case time.Time:
		return append(pairs, url.QueryEscape(prefix)+"="+strconv.FormatInt(typed.Unix(), 10))
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return append(pairs, url.QueryEscape(prefix)+"=")
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		nested := make(map[string]interface{}, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			nested[mapKey(iter.Key())] = iter.Value().Interface()
		}

		for _, key := range sortedKeys(nested) {
			pairs = appendPairs(pairs, prefix+"["+key+"]", nested[key])
		}

		return pairs
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			pairs = appendPairs(pairs, prefix+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}

		return pairs
	default:
		return append(pairs, url.QueryEscape(prefix)+"="+url.QueryEscape(scalarString(rv)))
	}
}

func scalarString(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.Bool:
		if rv.Bool() {
			return "1"
		}

		return "0"
	case reflect.String:
		return rv.String()
	default:
		if stringer, ok := rv.Interface().(interface{ String() string }); ok {
			return stringer.String()
		}

		return ""
	}
}

func mapKey(key reflect.Value) string {
	if key.Kind() == reflect.String {
		return key.String()
	}

	return scalarString(key)
}

func sortedKeys(data map[string]interface{}) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
