package serializer

import (
	"github.com/bytedance/sonic"
)

// NewSonicSerializer creates a new serializer using sonic's JIT json encoder.
// It uses the std compatible configuration, so its output can be read by the
// json serializer and the other way around.
func NewSonicSerializer() ISerializer {
	return &sonicSerializerImpl{api: sonic.ConfigStd}
}

// sonicSerializerImpl implements the ISerializer interface using sonic
type sonicSerializerImpl struct {
	api sonic.API
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (s sonicSerializerImpl) Marshal(v any) ([]byte, error) {
	return s.api.Marshal(v)
}

func (s sonicSerializerImpl) Unmarshal(b []byte, v any) error {
	return s.api.Unmarshal(b, v)
}

func (s sonicSerializerImpl) Name() string {
	return "sonic"
}
