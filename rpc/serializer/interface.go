package serializer

// ISerializer encodes values stored by the collection facades
type ISerializer interface {
	// Marshal encodes v into a byte array
	// It returns the encoded bytes and an error if v can not be encoded
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes b into the value v points to
	// It returns an error if b can not be decoded into v
	Unmarshal(b []byte, v any) error
	// Name returns the name used to select the serializer on the command line
	Name() string
}

// ByName returns the serializer registered under name
// (json, sonic, gob or binary), nil if there is none
func ByName(name string) ISerializer {
	switch name {
	case "json":
		return NewJSONSerializer()
	case "sonic":
		return NewSonicSerializer()
	case "gob":
		return NewGOBSerializer()
	case "binary":
		return NewBinarySerializer()
	default:
		return nil
	}
}
