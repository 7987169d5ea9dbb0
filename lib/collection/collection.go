package collection

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/conn"
	"github.com/ValentinKolb/dRESP/rpc/serializer"
	"github.com/ValentinKolb/dRESP/rpc/session"
	"github.com/lni/dragonboat/v4/logger"
	"strconv"
)

var Logger = logger.GetLogger("collection")

// keyed is embedded by every facade: one key in the store, reached through
// a provider
type keyed struct {
	provider conn.IProvider
	key      []byte
}

// exec runs "<cmd> <key> <args...>" on a connection from the provider
func (k keyed) exec(cmd string, args ...[]byte) (common.Reply, error) {
	full := make([][]byte, 0, len(args)+2)
	full = append(full, []byte(cmd), k.key)
	full = append(full, args...)
	return session.Exec(k.provider, full...)
}

// Key returns the key the collection is stored under
func (k keyed) Key() string {
	return string(k.key)
}

// Clear deletes the key
func (k keyed) Clear() error {
	_, err := k.exec("DEL")
	return err
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func itoa(n int64) []byte {
	return strconv.AppendInt(nil, n, 10)
}

func utoa(n uint64) []byte {
	return strconv.AppendUint(nil, n, 10)
}

func encode(s serializer.ISerializer, v any) ([]byte, error) {
	b, err := s.Marshal(v)
	if err != nil {
		return nil, common.NewOtherError("serialize %T with %s: %v", v, s.Name(), err)
	}
	return b, nil
}

func decode[T any](s serializer.ISerializer, b []byte) (T, error) {
	var v T
	if err := s.Unmarshal(b, &v); err != nil {
		return v, common.NewOtherError("deserialize %T with %s: %v", v, s.Name(), err)
	}
	return v, nil
}

// optionalBytes extracts Bytes, reporting Nothing as not found
func optionalBytes(reply common.Reply) ([]byte, bool, error) {
	if reply.IsNothing() {
		return nil, false, nil
	}
	b, err := reply.Bytes()
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}
