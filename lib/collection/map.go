package collection

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/conn"
	"github.com/ValentinKolb/dRESP/rpc/serializer"
)

// ScanBatchHint is the COUNT passed to HSCAN when iterating a map
const ScanBatchHint = 12

// Map is a hash of fields of type F to values of type V, similar to a
// map[F]V. Fields and values are encoded with the same serializer.
type Map[F any, V any] struct {
	keyed
	serializer serializer.ISerializer
}

// NewMap creates a facade for the hash stored at key
func NewMap[F any, V any](p conn.IProvider, key string, s serializer.ISerializer) *Map[F, V] {
	return &Map[F, V]{keyed: keyed{provider: p, key: []byte(key)}, serializer: s}
}

// Insert sets field f to v
func (m *Map[F, V]) Insert(f F, v V) error {
	fb, err := encode(m.serializer, f)
	if err != nil {
		return err
	}
	vb, err := encode(m.serializer, v)
	if err != nil {
		return err
	}
	_, err = m.exec("HSET", fb, vb)
	return err
}

// Get returns the value of field f, ok is false if the field does not exist
func (m *Map[F, V]) Get(f F) (v V, ok bool, err error) {
	fb, err := encode(m.serializer, f)
	if err != nil {
		return v, false, err
	}
	reply, err := m.exec("HGET", fb)
	if err != nil {
		return v, false, err
	}
	b, ok, err := optionalBytes(reply)
	if err != nil || !ok {
		return v, false, err
	}
	v, err = decode[V](m.serializer, b)
	return v, err == nil, err
}

// Remove deletes field f, it is not an error if f does not exist
func (m *Map[F, V]) Remove(f F) error {
	fb, err := encode(m.serializer, f)
	if err != nil {
		return err
	}
	_, err = m.exec("HDEL", fb)
	return err
}

// ContainsKey reports whether field f exists
func (m *Map[F, V]) ContainsKey(f F) (bool, error) {
	fb, err := encode(m.serializer, f)
	if err != nil {
		return false, err
	}
	reply, err := m.exec("HEXISTS", fb)
	if err != nil {
		return false, err
	}
	n, err := reply.Integer()
	return n == 1, err
}

// Len returns the number of fields
func (m *Map[F, V]) Len() (int64, error) {
	reply, err := m.exec("HLEN")
	if err != nil {
		return 0, err
	}
	return reply.Integer()
}

// IsEmpty reports whether the map has no fields
func (m *Map[F, V]) IsEmpty() (bool, error) {
	n, err := m.Len()
	return n == 0, err
}

// Iter calls fn for every field and value, fetching them in batches with
// HSCAN. Iteration stops at the first error returned by fn or the store.
// Fields changed during iteration may be seen twice or not at all.
func (m *Map[F, V]) Iter(fn func(f F, v V) error) error {
	cursor := []byte("0")
	for {
		reply, err := m.exec("HSCAN", cursor, []byte("COUNT"), itoa(ScanBatchHint))
		if err != nil {
			return err
		}
		next, batch, err := scanReply(reply)
		if err != nil {
			return err
		}
		Logger.Debugf("scan %s: %d fields, next cursor %s", m.key, len(batch)/2, next)

		// the batch interleaves fields and values
		for i := 0; i+1 < len(batch); i += 2 {
			f, err := decode[F](m.serializer, batch[i])
			if err != nil {
				return err
			}
			v, err := decode[V](m.serializer, batch[i+1])
			if err != nil {
				return err
			}
			if err := fn(f, v); err != nil {
				return err
			}
		}

		if string(next) == "0" {
			return nil
		}
		cursor = next
	}
}

// scanReply splits a scan reply into the next cursor and the returned elements
func scanReply(reply common.Reply) ([]byte, [][]byte, error) {
	seq, err := reply.Sequence()
	if err != nil {
		return nil, nil, err
	}
	if len(seq) != 2 {
		return nil, nil, common.NewOtherError("scan reply has %d elements, expected 2", len(seq))
	}
	next, err := seq[0].Bytes()
	if err != nil {
		return nil, nil, err
	}
	elems, err := seq[1].Sequence()
	if err != nil {
		return nil, nil, err
	}
	if len(elems)%2 != 0 {
		return nil, nil, common.NewOtherError("scan reply has an odd number of elements")
	}
	batch := make([][]byte, len(elems))
	for i, e := range elems {
		if batch[i], err = e.Bytes(); err != nil {
			return nil, nil, err
		}
	}
	return next, batch, nil
}
