package collection

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/conn"
)

// BitVec is a vector of bits stored as a byte string, similar to a []bool.
// Bit 0 is the most significant bit of the first byte. Reading beyond the
// end yields false, writing beyond the end grows the vector.
type BitVec struct {
	keyed
}

// NewBitVec creates a facade for the bit vector stored at key
func NewBitVec(p conn.IProvider, key string) *BitVec {
	return &BitVec{keyed{provider: p, key: []byte(key)}}
}

// Get returns the bit at index i
func (b *BitVec) Get(i uint64) (bool, error) {
	reply, err := b.exec("GETBIT", utoa(i))
	if err != nil {
		return false, err
	}
	n, err := reply.Integer()
	return n != 0, err
}

// Set sets the bit at index i to v and returns its previous value
func (b *BitVec) Set(i uint64, v bool) (bool, error) {
	bit := []byte("0")
	if v {
		bit = []byte("1")
	}
	reply, err := b.exec("SETBIT", utoa(i), bit)
	if err != nil {
		return false, err
	}
	n, err := reply.Integer()
	return n != 0, err
}

// Len returns the number of bits, always a multiple of 8
func (b *BitVec) Len() (uint64, error) {
	reply, err := b.exec("STRLEN")
	if err != nil {
		return 0, err
	}
	n, err := reply.Integer()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, common.NewOtherError("negative length %d", n)
	}
	return 8 * uint64(n), nil
}

// Sum returns the number of bits set to 1
func (b *BitVec) Sum() (uint64, error) {
	reply, err := b.exec("BITCOUNT")
	if err != nil {
		return 0, err
	}
	n, err := reply.Integer()
	return uint64(max(n, 0)), err
}

// FindFirst returns the index of the first bit set to 1, ok is false if no
// bit is set
func (b *BitVec) FindFirst() (i uint64, ok bool, err error) {
	reply, err := b.exec("BITPOS", []byte("1"))
	if err != nil {
		return 0, false, err
	}
	n, err := reply.Integer()
	if err != nil || n < 0 {
		return 0, false, err
	}
	return uint64(n), true, nil
}

// SetRaw replaces the whole vector with the bytes v
func (b *BitVec) SetRaw(v []byte) error {
	_, err := b.exec("SET", v)
	return err
}

// GetRaw returns the underlying bytes, empty if the key does not exist
func (b *BitVec) GetRaw() ([]byte, error) {
	reply, err := b.exec("GET")
	if err != nil {
		return nil, err
	}
	v, _, err := optionalBytes(reply)
	if v == nil && err == nil {
		v = []byte{}
	}
	return v, err
}
