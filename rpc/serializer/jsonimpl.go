package serializer

import (
	"encoding/json"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() ISerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the ISerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (j jsonSerializerImpl) Unmarshal(b []byte, v any) error {
	return json.Unmarshal(b, v)
}

func (j jsonSerializerImpl) Name() string {
	return "json"
}
