package serializer

import (
	"encoding/binary"
	"fmt"
	"math"
)

// NewBinarySerializer creates a new serializer that stores scalars in their
// raw form: byte slices and strings verbatim, booleans as one byte and
// numbers as big endian fixed size integers. Values stored this way are
// readable by other clients of the store without a json decoder.
func NewBinarySerializer() ISerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements ISerializer for scalar types
type binarySerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Marshal(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return append([]byte{}, x...), nil
	case string:
		return []byte(x), nil
	case bool:
		if x {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case int8:
		return []byte{byte(x)}, nil
	case uint8:
		return []byte{x}, nil
	case int16:
		return binary.BigEndian.AppendUint16(nil, uint16(x)), nil
	case uint16:
		return binary.BigEndian.AppendUint16(nil, x), nil
	case int32:
		return binary.BigEndian.AppendUint32(nil, uint32(x)), nil
	case uint32:
		return binary.BigEndian.AppendUint32(nil, x), nil
	case int:
		return binary.BigEndian.AppendUint64(nil, uint64(x)), nil
	case int64:
		return binary.BigEndian.AppendUint64(nil, uint64(x)), nil
	case uint:
		return binary.BigEndian.AppendUint64(nil, uint64(x)), nil
	case uint64:
		return binary.BigEndian.AppendUint64(nil, x), nil
	case float32:
		return binary.BigEndian.AppendUint32(nil, math.Float32bits(x)), nil
	case float64:
		return binary.BigEndian.AppendUint64(nil, math.Float64bits(x)), nil
	default:
		return nil, fmt.Errorf("binary serializer: unsupported type %T", v)
	}
}

func (b binarySerializerImpl) Unmarshal(data []byte, v any) error {
	switch x := v.(type) {
	case *[]byte:
		*x = append([]byte{}, data...)
	case *string:
		*x = string(data)
	case *bool:
		if err := checkLen(data, 1, v); err != nil {
			return err
		}
		*x = data[0] != 0
	case *int8:
		if err := checkLen(data, 1, v); err != nil {
			return err
		}
		*x = int8(data[0])
	case *uint8:
		if err := checkLen(data, 1, v); err != nil {
			return err
		}
		*x = data[0]
	case *int16:
		if err := checkLen(data, 2, v); err != nil {
			return err
		}
		*x = int16(binary.BigEndian.Uint16(data))
	case *uint16:
		if err := checkLen(data, 2, v); err != nil {
			return err
		}
		*x = binary.BigEndian.Uint16(data)
	case *int32:
		if err := checkLen(data, 4, v); err != nil {
			return err
		}
		*x = int32(binary.BigEndian.Uint32(data))
	case *uint32:
		if err := checkLen(data, 4, v); err != nil {
			return err
		}
		*x = binary.BigEndian.Uint32(data)
	case *int:
		if err := checkLen(data, 8, v); err != nil {
			return err
		}
		*x = int(binary.BigEndian.Uint64(data))
	case *int64:
		if err := checkLen(data, 8, v); err != nil {
			return err
		}
		*x = int64(binary.BigEndian.Uint64(data))
	case *uint:
		if err := checkLen(data, 8, v); err != nil {
			return err
		}
		*x = uint(binary.BigEndian.Uint64(data))
	case *uint64:
		if err := checkLen(data, 8, v); err != nil {
			return err
		}
		*x = binary.BigEndian.Uint64(data)
	case *float32:
		if err := checkLen(data, 4, v); err != nil {
			return err
		}
		*x = math.Float32frombits(binary.BigEndian.Uint32(data))
	case *float64:
		if err := checkLen(data, 8, v); err != nil {
			return err
		}
		*x = math.Float64frombits(binary.BigEndian.Uint64(data))
	default:
		return fmt.Errorf("binary serializer: unsupported type %T", v)
	}
	return nil
}

func (b binarySerializerImpl) Name() string {
	return "binary"
}

// checkLen verifies that data has exactly the size of the fixed size type v
func checkLen(data []byte, size int, v any) error {
	if len(data) != size {
		return fmt.Errorf("binary serializer: expected %d bytes for %T, got %d", size, v, len(data))
	}
	return nil
}
