// Package serializer provides value serialization for the collection facades.
// A Cell[T], List[T] or Map[F, V] stores its elements as byte strings in the
// store, the serializer decides how a Go value becomes such a byte string.
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: json encoding via encoding/json. Values written this
//     way can be read by any json speaking client of the store.
//
//   - sonicSerializerImpl: the same json format produced by bytedance/sonic,
//     faster on amd64 and arm64 for large structs.
//
//   - gobSerializerImpl: Go's gob encoding. Handles every Go type but the
//     output is only readable by Go programs and is considerably larger.
//
//   - binarySerializerImpl: raw encoding of scalars (byte slices, strings,
//     booleans, integers, floats). Smallest output, no structs.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s := serializer.NewJSONSerializer()
//	data, err := s.Marshal(value)
//	// ... store data ...
//	var result Value
//	err = s.Unmarshal(data, &result)
package serializer
