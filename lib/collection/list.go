package collection

import (
	"github.com/ValentinKolb/dRESP/rpc/conn"
	"github.com/ValentinKolb/dRESP/rpc/serializer"
)

// List is a sequence of values of type T, similar to a []T. Elements are
// appended at the end.
type List[T any] struct {
	keyed
	serializer serializer.ISerializer
}

// NewList creates a facade for the list stored at key, elements encoded with s
func NewList[T any](p conn.IProvider, key string, s serializer.ISerializer) *List[T] {
	return &List[T]{keyed: keyed{provider: p, key: []byte(key)}, serializer: s}
}

// Push appends the values to the list and returns the new length
func (l *List[T]) Push(vs ...T) (int64, error) {
	args := make([][]byte, 0, len(vs))
	for _, v := range vs {
		b, err := encode(l.serializer, v)
		if err != nil {
			return 0, err
		}
		args = append(args, b)
	}
	reply, err := l.exec("RPUSH", args...)
	if err != nil {
		return 0, err
	}
	return reply.Integer()
}

// Len returns the number of elements, 0 if the list does not exist
func (l *List[T]) Len() (int64, error) {
	reply, err := l.exec("LLEN")
	if err != nil {
		return 0, err
	}
	return reply.Integer()
}

// Get returns the element at index i. Negative indices count from the end,
// ok is false if i is out of range.
func (l *List[T]) Get(i int64) (v T, ok bool, err error) {
	reply, err := l.exec("LINDEX", itoa(i))
	if err != nil {
		return v, false, err
	}
	b, ok, err := optionalBytes(reply)
	if err != nil || !ok {
		return v, false, err
	}
	v, err = decode[T](l.serializer, b)
	return v, err == nil, err
}

// Range returns the elements from start to stop, both inclusive. Negative
// indices count from the end, Range(0, -1) returns the whole list.
func (l *List[T]) Range(start, stop int64) ([]T, error) {
	reply, err := l.exec("LRANGE", itoa(start), itoa(stop))
	if err != nil {
		return nil, err
	}
	seq, err := reply.Sequence()
	if err != nil {
		return nil, err
	}
	vs := make([]T, 0, len(seq))
	for _, e := range seq {
		b, err := e.Bytes()
		if err != nil {
			return nil, err
		}
		v, err := decode[T](l.serializer, b)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}
