package collection

import (
	"github.com/ValentinKolb/dRESP/rpc/conn"
)

// Blob is a single byte string stored under one key, similar to a []byte
type Blob struct {
	keyed
}

// NewBlob creates a facade for the blob stored at key
func NewBlob(p conn.IProvider, key string) *Blob {
	return &Blob{keyed{provider: p, key: []byte(key)}}
}

// Set replaces the blob with v
func (b *Blob) Set(v []byte) error {
	_, err := b.exec("SET", v)
	return err
}

// Get returns the blob, ok is false if the key does not exist
func (b *Blob) Get() (v []byte, ok bool, err error) {
	reply, err := b.exec("GET")
	if err != nil {
		return nil, false, err
	}
	return optionalBytes(reply)
}

// Len returns the length of the blob in bytes, 0 if the key does not exist
func (b *Blob) Len() (int64, error) {
	reply, err := b.exec("STRLEN")
	if err != nil {
		return 0, err
	}
	return reply.Integer()
}
