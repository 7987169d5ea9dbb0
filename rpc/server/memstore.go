package server

import (
	"bytes"
	"fmt"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
	"math/bits"
	"slices"
	"strconv"
	"strings"
)

const (
	errWrongType = "WRONGTYPE Operation against a key holding the wrong kind of value"
	errNotInt    = "ERR value is not an integer or out of range"
	errSyntax    = "ERR syntax error"
	errBitOffset = "ERR bit offset is not an integer or out of range"
	errBitValue  = "ERR bit is not an integer or out of range"

	// maxBitOffset matches the store's 512 MiB string limit
	maxBitOffset = 512*1024*1024*8 - 1

	// defaultScanCount is the number of fields HSCAN returns without COUNT
	defaultScanCount = 10
)

type valueKind uint8

const (
	kindString valueKind = iota
	kindList
	kindHash
)

// value is one entry of the keyspace. Values are never mutated after they
// are stored, updates store a modified copy.
type value struct {
	kind valueKind
	str  []byte
	list [][]byte
	hash map[string][]byte
}

// MemStore is an in-memory IHandler implementing the subset of the store's
// commands used by the collection facades. It is safe for concurrent use;
// every command on a single key is atomic.
type MemStore struct {
	keys     *xsync.MapOf[string, *value]
	commands map[string]commandFunc
}

type commandFunc func(args [][]byte) (common.Reply, error)

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	m := &MemStore{keys: xsync.NewMapOf[string, *value]()}
	m.commands = map[string]commandFunc{
		"PING":     m.ping,
		"ECHO":     m.echo,
		"SET":      m.set,
		"GET":      m.get,
		"DEL":      m.del,
		"EXISTS":   m.exists,
		"STRLEN":   m.strlen,
		"RPUSH":    m.rpush,
		"LLEN":     m.llen,
		"LINDEX":   m.lindex,
		"LRANGE":   m.lrange,
		"HSET":     m.hset,
		"HGET":     m.hget,
		"HDEL":     m.hdel,
		"HEXISTS":  m.hexists,
		"HLEN":     m.hlen,
		"HSCAN":    m.hscan,
		"SETBIT":   m.setbit,
		"GETBIT":   m.getbit,
		"BITCOUNT": m.bitcount,
		"BITPOS":   m.bitpos,
	}
	return m
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IHandler)
// --------------------------------------------------------------------------

func (m *MemStore) Handle(args [][]byte) (common.Reply, error) {
	name := strings.ToUpper(string(args[0]))
	cmd, ok := m.commands[name]
	if !ok {
		return common.Reply{}, remote("ERR unknown command '%s'", args[0])
	}
	return cmd(args[1:])
}

// Len returns the number of keys in the store
func (m *MemStore) Len() int {
	return m.keys.Size()
}

// --------------------------------------------------------------------------
// Generic commands
// --------------------------------------------------------------------------

func (m *MemStore) ping(args [][]byte) (common.Reply, error) {
	switch len(args) {
	case 0:
		return common.TextReply("PONG"), nil
	case 1:
		return common.BytesReply(args[0]), nil
	default:
		return common.Reply{}, arity("ping")
	}
}

func (m *MemStore) echo(args [][]byte) (common.Reply, error) {
	if len(args) != 1 {
		return common.Reply{}, arity("echo")
	}
	return common.BytesReply(args[0]), nil
}

func (m *MemStore) del(args [][]byte) (common.Reply, error) {
	if len(args) < 1 {
		return common.Reply{}, arity("del")
	}
	var n int64
	for _, k := range args {
		if _, ok := m.keys.LoadAndDelete(string(k)); ok {
			n++
		}
	}
	return common.IntegerReply(n), nil
}

func (m *MemStore) exists(args [][]byte) (common.Reply, error) {
	if len(args) < 1 {
		return common.Reply{}, arity("exists")
	}
	var n int64
	for _, k := range args {
		if _, ok := m.keys.Load(string(k)); ok {
			n++
		}
	}
	return common.IntegerReply(n), nil
}

// --------------------------------------------------------------------------
// String commands
// --------------------------------------------------------------------------

func (m *MemStore) set(args [][]byte) (common.Reply, error) {
	if len(args) != 2 {
		return common.Reply{}, arity("set")
	}
	m.keys.Store(string(args[0]), &value{kind: kindString, str: bytes.Clone(args[1])})
	return common.TextReply("OK"), nil
}

func (m *MemStore) get(args [][]byte) (common.Reply, error) {
	if len(args) != 1 {
		return common.Reply{}, arity("get")
	}
	v, ok, err := m.load(args[0], kindString)
	if err != nil || !ok {
		return common.NothingReply(), err
	}
	return common.BytesReply(v.str), nil
}

func (m *MemStore) strlen(args [][]byte) (common.Reply, error) {
	if len(args) != 1 {
		return common.Reply{}, arity("strlen")
	}
	v, ok, err := m.load(args[0], kindString)
	if err != nil || !ok {
		return common.IntegerReply(0), err
	}
	return common.IntegerReply(int64(len(v.str))), nil
}

// --------------------------------------------------------------------------
// List commands
// --------------------------------------------------------------------------

func (m *MemStore) rpush(args [][]byte) (common.Reply, error) {
	if len(args) < 2 {
		return common.Reply{}, arity("rpush")
	}
	var n int
	err := m.update(args[0], kindList, func(v *value) *value {
		list := make([][]byte, 0, len(v.list)+len(args)-1)
		list = append(list, v.list...)
		for _, e := range args[1:] {
			list = append(list, bytes.Clone(e))
		}
		n = len(list)
		return &value{kind: kindList, list: list}
	})
	if err != nil {
		return common.Reply{}, err
	}
	return common.IntegerReply(int64(n)), nil
}

func (m *MemStore) llen(args [][]byte) (common.Reply, error) {
	if len(args) != 1 {
		return common.Reply{}, arity("llen")
	}
	v, ok, err := m.load(args[0], kindList)
	if err != nil || !ok {
		return common.IntegerReply(0), err
	}
	return common.IntegerReply(int64(len(v.list))), nil
}

func (m *MemStore) lindex(args [][]byte) (common.Reply, error) {
	if len(args) != 2 {
		return common.Reply{}, arity("lindex")
	}
	i, err := parseInt(args[1])
	if err != nil {
		return common.Reply{}, err
	}
	v, ok, err := m.load(args[0], kindList)
	if err != nil || !ok {
		return common.NothingReply(), err
	}
	if i < 0 {
		i += int64(len(v.list))
	}
	if i < 0 || i >= int64(len(v.list)) {
		return common.NothingReply(), nil
	}
	return common.BytesReply(v.list[i]), nil
}

func (m *MemStore) lrange(args [][]byte) (common.Reply, error) {
	if len(args) != 3 {
		return common.Reply{}, arity("lrange")
	}
	start, err := parseInt(args[1])
	if err != nil {
		return common.Reply{}, err
	}
	stop, err := parseInt(args[2])
	if err != nil {
		return common.Reply{}, err
	}
	v, ok, err := m.load(args[0], kindList)
	if err != nil || !ok {
		return common.SequenceReply(), err
	}

	n := int64(len(v.list))
	if start < 0 {
		start = max(start+n, 0)
	}
	if stop < 0 {
		stop += n
	}
	stop = min(stop, n-1)
	if start > stop {
		return common.SequenceReply(), nil
	}

	seq := make([]common.Reply, 0, stop-start+1)
	for _, e := range v.list[start : stop+1] {
		seq = append(seq, common.BytesReply(e))
	}
	return common.SequenceReply(seq...), nil
}

// --------------------------------------------------------------------------
// Hash commands
// --------------------------------------------------------------------------

func (m *MemStore) hset(args [][]byte) (common.Reply, error) {
	if len(args) < 3 || len(args)%2 != 1 {
		return common.Reply{}, arity("hset")
	}
	var added int64
	err := m.update(args[0], kindHash, func(v *value) *value {
		hash := make(map[string][]byte, len(v.hash)+len(args)/2)
		for f, x := range v.hash {
			hash[f] = x
		}
		for i := 1; i < len(args); i += 2 {
			if _, ok := hash[string(args[i])]; !ok {
				added++
			}
			hash[string(args[i])] = bytes.Clone(args[i+1])
		}
		return &value{kind: kindHash, hash: hash}
	})
	if err != nil {
		return common.Reply{}, err
	}
	return common.IntegerReply(added), nil
}

func (m *MemStore) hget(args [][]byte) (common.Reply, error) {
	if len(args) != 2 {
		return common.Reply{}, arity("hget")
	}
	v, ok, err := m.load(args[0], kindHash)
	if err != nil || !ok {
		return common.NothingReply(), err
	}
	x, ok := v.hash[string(args[1])]
	if !ok {
		return common.NothingReply(), nil
	}
	return common.BytesReply(x), nil
}

func (m *MemStore) hdel(args [][]byte) (common.Reply, error) {
	if len(args) < 2 {
		return common.Reply{}, arity("hdel")
	}
	var removed int64
	var wrongType bool
	m.keys.Compute(string(args[0]), func(old *value, loaded bool) (*value, bool) {
		if !loaded {
			return nil, true
		}
		if old.kind != kindHash {
			wrongType = true
			return old, false
		}
		hash := make(map[string][]byte, len(old.hash))
		for f, x := range old.hash {
			hash[f] = x
		}
		for _, f := range args[1:] {
			if _, ok := hash[string(f)]; ok {
				delete(hash, string(f))
				removed++
			}
		}
		// the key disappears with its last field
		return &value{kind: kindHash, hash: hash}, len(hash) == 0
	})
	if wrongType {
		return common.Reply{}, remote(errWrongType)
	}
	return common.IntegerReply(removed), nil
}

func (m *MemStore) hexists(args [][]byte) (common.Reply, error) {
	if len(args) != 2 {
		return common.Reply{}, arity("hexists")
	}
	v, ok, err := m.load(args[0], kindHash)
	if err != nil || !ok {
		return common.IntegerReply(0), err
	}
	if _, ok := v.hash[string(args[1])]; ok {
		return common.IntegerReply(1), nil
	}
	return common.IntegerReply(0), nil
}

func (m *MemStore) hlen(args [][]byte) (common.Reply, error) {
	if len(args) != 1 {
		return common.Reply{}, arity("hlen")
	}
	v, ok, err := m.load(args[0], kindHash)
	if err != nil || !ok {
		return common.IntegerReply(0), err
	}
	return common.IntegerReply(int64(len(v.hash))), nil
}

// hscan iterates the fields in lexical order, the cursor is the offset of
// the next field. A returned cursor of "0" ends the iteration.
func (m *MemStore) hscan(args [][]byte) (common.Reply, error) {
	if len(args) != 2 && len(args) != 4 {
		return common.Reply{}, arity("hscan")
	}
	cursor, err := strconv.ParseUint(string(args[1]), 10, 64)
	if err != nil {
		return common.Reply{}, remote("ERR invalid cursor")
	}
	count := defaultScanCount
	if len(args) == 4 {
		if !strings.EqualFold(string(args[2]), "COUNT") {
			return common.Reply{}, remote(errSyntax)
		}
		n, err := parseInt(args[3])
		if err != nil {
			return common.Reply{}, err
		}
		if n < 1 {
			return common.Reply{}, remote(errSyntax)
		}
		count = int(n)
	}

	v, ok, err := m.load(args[0], kindHash)
	if err != nil {
		return common.Reply{}, err
	}
	if !ok {
		return common.SequenceReply(common.BytesReply([]byte("0")), common.SequenceReply()), nil
	}

	fields := make([]string, 0, len(v.hash))
	for f := range v.hash {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	start := min(cursor, uint64(len(fields)))
	end := min(start+uint64(count), uint64(len(fields)))
	next := end
	if end == uint64(len(fields)) {
		next = 0
	}

	batch := make([]common.Reply, 0, 2*(end-start))
	for _, f := range fields[start:end] {
		batch = append(batch, common.BytesReply([]byte(f)), common.BytesReply(v.hash[f]))
	}
	return common.SequenceReply(
		common.BytesReply(strconv.AppendUint(nil, next, 10)),
		common.SequenceReply(batch...),
	), nil
}

// --------------------------------------------------------------------------
// Bit commands (bit 0 is the most significant bit of the first byte)
// --------------------------------------------------------------------------

func (m *MemStore) setbit(args [][]byte) (common.Reply, error) {
	if len(args) != 3 {
		return common.Reply{}, arity("setbit")
	}
	offset, err := strconv.ParseUint(string(args[1]), 10, 64)
	if err != nil || offset > maxBitOffset {
		return common.Reply{}, remote(errBitOffset)
	}
	bit := string(args[2])
	if bit != "0" && bit != "1" {
		return common.Reply{}, remote(errBitValue)
	}

	byteIdx, mask := offset/8, byte(0x80)>>(offset%8)
	var old int64
	err = m.update(args[0], kindString, func(v *value) *value {
		str := make([]byte, max(uint64(len(v.str)), byteIdx+1))
		copy(str, v.str)
		if str[byteIdx]&mask != 0 {
			old = 1
		}
		if bit == "1" {
			str[byteIdx] |= mask
		} else {
			str[byteIdx] &^= mask
		}
		return &value{kind: kindString, str: str}
	})
	if err != nil {
		return common.Reply{}, err
	}
	return common.IntegerReply(old), nil
}

func (m *MemStore) getbit(args [][]byte) (common.Reply, error) {
	if len(args) != 2 {
		return common.Reply{}, arity("getbit")
	}
	offset, err := strconv.ParseUint(string(args[1]), 10, 64)
	if err != nil || offset > maxBitOffset {
		return common.Reply{}, remote(errBitOffset)
	}
	v, ok, err := m.load(args[0], kindString)
	if err != nil || !ok {
		return common.IntegerReply(0), err
	}
	byteIdx, mask := offset/8, byte(0x80)>>(offset%8)
	if byteIdx >= uint64(len(v.str)) || v.str[byteIdx]&mask == 0 {
		return common.IntegerReply(0), nil
	}
	return common.IntegerReply(1), nil
}

func (m *MemStore) bitcount(args [][]byte) (common.Reply, error) {
	if len(args) != 1 {
		return common.Reply{}, arity("bitcount")
	}
	v, ok, err := m.load(args[0], kindString)
	if err != nil || !ok {
		return common.IntegerReply(0), err
	}
	var n int
	for _, b := range v.str {
		n += bits.OnesCount8(b)
	}
	return common.IntegerReply(int64(n)), nil
}

// bitpos returns the first bit set to the requested value. Looking for a 0
// in a string of only ones yields the first bit past the end, looking for a
// 1 that does not exist yields -1.
func (m *MemStore) bitpos(args [][]byte) (common.Reply, error) {
	if len(args) != 2 {
		return common.Reply{}, arity("bitpos")
	}
	bit := string(args[1])
	if bit != "0" && bit != "1" {
		return common.Reply{}, remote("ERR The bit argument must be 1 or 0.")
	}
	v, ok, err := m.load(args[0], kindString)
	if err != nil {
		return common.Reply{}, err
	}
	if !ok {
		if bit == "1" {
			return common.IntegerReply(-1), nil
		}
		return common.IntegerReply(0), nil
	}

	for i, b := range v.str {
		if bit == "0" {
			b = ^b
		}
		if b != 0 {
			return common.IntegerReply(int64(i*8 + bits.LeadingZeros8(b))), nil
		}
	}
	if bit == "1" {
		return common.IntegerReply(-1), nil
	}
	return common.IntegerReply(int64(len(v.str) * 8)), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// load returns the value stored at key if it has the given kind
func (m *MemStore) load(key []byte, kind valueKind) (*value, bool, error) {
	v, ok := m.keys.Load(string(key))
	if !ok {
		return nil, false, nil
	}
	if v.kind != kind {
		return nil, false, remote(errWrongType)
	}
	return v, true, nil
}

// update atomically replaces the value at key with fn's result. A missing
// key is passed to fn as an empty value of the given kind.
func (m *MemStore) update(key []byte, kind valueKind, fn func(v *value) *value) error {
	var wrongType bool
	m.keys.Compute(string(key), func(old *value, loaded bool) (*value, bool) {
		if !loaded {
			return fn(&value{kind: kind}), false
		}
		if old.kind != kind {
			wrongType = true
			return old, false
		}
		return fn(old), false
	})
	if wrongType {
		return remote(errWrongType)
	}
	return nil
}

func parseInt(b []byte) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, remote(errNotInt)
	}
	return n, nil
}

func remote(format string, args ...interface{}) error {
	if len(args) == 0 {
		return common.NewRemoteError(format)
	}
	return common.NewRemoteError(fmt.Sprintf(format, args...))
}

func arity(cmd string) error {
	return remote("ERR wrong number of arguments for '%s' command", cmd)
}
