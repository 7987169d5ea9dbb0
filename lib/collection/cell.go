package collection

import (
	"github.com/ValentinKolb/dRESP/rpc/conn"
	"github.com/ValentinKolb/dRESP/rpc/serializer"
)

// Cell is a container that holds a single value of type T
type Cell[T any] struct {
	keyed
	serializer serializer.ISerializer
}

// NewCell creates a facade for the value stored at key, encoded with s
func NewCell[T any](p conn.IProvider, key string, s serializer.ISerializer) *Cell[T] {
	return &Cell[T]{keyed: keyed{provider: p, key: []byte(key)}, serializer: s}
}

// Set stores v, replacing the previous value
func (c *Cell[T]) Set(v T) error {
	b, err := encode(c.serializer, v)
	if err != nil {
		return err
	}
	_, err = c.exec("SET", b)
	return err
}

// Get returns the stored value, ok is false if the cell is empty
func (c *Cell[T]) Get() (v T, ok bool, err error) {
	reply, err := c.exec("GET")
	if err != nil {
		return v, false, err
	}
	b, ok, err := optionalBytes(reply)
	if err != nil || !ok {
		return v, false, err
	}
	v, err = decode[T](c.serializer, b)
	return v, err == nil, err
}
