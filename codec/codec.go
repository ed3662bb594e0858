// Package codec encodes the JSON documents written next to persisted
// scan indexes (manifests and CURRENT pointers).
//
// Both codecs write plain JSON, so a manifest written with one reads
// with the other. ByName selects a codec from configuration.
package codec

// Codec encodes and decodes values. Implementations are safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
