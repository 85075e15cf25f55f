package http

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/vedsharma/soar/internal/model"
)

// EstimateSize approximates the in-memory size of a payload in bytes.
// Numbers count 8, strings 2 per character and booleans 4. Composite values
// are the sum of their members; keys are not counted.
func EstimateSize(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		return 4
	case string:
		return 2 * utf8.RuneCountInString(val)
	case json.Number, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return 8
	case *model.Object:
		size := 0
		for _, key := range val.Keys() {
			member, _ := val.Get(key)
			size += EstimateSize(member)
		}
		return size
	case map[string]any:
		size := 0
		for _, member := range val {
			size += EstimateSize(member)
		}
		return size
	case []any:
		size := 0
		for _, member := range val {
			size += EstimateSize(member)
		}
		return size
	case []byte:
		return len(val)
	}
	return 0
}
