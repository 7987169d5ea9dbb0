package collection

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dRESP/rpc/client"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/serializer"
	"github.com/ValentinKolb/dRESP/rpc/server"
	"github.com/ValentinKolb/dRESP/rpc/transport/tcp"
	"reflect"
	"sort"
	"testing"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()

	s := server.NewServer(common.ServerConfig{Endpoint: "127.0.0.1:0"}, tcp.NewTCPServerConnector(), server.NewMemStore())
	if err := s.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	config := common.DefaultClientConfig(s.Addr().String())
	config.Pool.Name = t.Name()
	config.Pool.InitialSize = 2

	c, err := client.New(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

type point struct {
	X, Y int
}

func TestBlob(t *testing.T) {
	c := newTestClient(t)
	b := NewBlob(c, "blob")

	if _, ok, err := b.Get(); err != nil || ok {
		t.Fatalf("Expected a missing blob, got ok=%v err=%v", ok, err)
	}

	data := []byte("binary\x00\r\ndata")
	if err := b.Set(data); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := b.Get()
	if err != nil || !ok || !reflect.DeepEqual(got, data) {
		t.Errorf("Expected %q, got %q (ok=%v err=%v)", data, got, ok, err)
	}
	if n, err := b.Len(); err != nil || n != int64(len(data)) {
		t.Errorf("Expected length %d, got %d (%v)", len(data), n, err)
	}

	if err := b.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok, _ := b.Get(); ok {
		t.Errorf("Expected the blob to be gone after clear")
	}
}

func TestCell(t *testing.T) {
	c := newTestClient(t)

	for name, factory := range map[string]func() serializer.ISerializer{
		"json":  serializer.NewJSONSerializer,
		"sonic": serializer.NewSonicSerializer,
		"gob":   serializer.NewGOBSerializer,
	} {
		t.Run(name, func(t *testing.T) {
			cell := NewCell[point](c, "cell-"+name, factory())

			if _, ok, err := cell.Get(); err != nil || ok {
				t.Fatalf("Expected an empty cell, got ok=%v err=%v", ok, err)
			}
			if err := cell.Set(point{X: 1, Y: -2}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := cell.Set(point{X: 3, Y: 4}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, ok, err := cell.Get()
			if err != nil || !ok || got != (point{X: 3, Y: 4}) {
				t.Errorf("Expected {3 4}, got %v (ok=%v err=%v)", got, ok, err)
			}
			if err := cell.Clear(); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
		})
	}
}

func TestCellDecodeError(t *testing.T) {
	c := newTestClient(t)
	NewBlob(c, "cell").Set([]byte("not json"))

	_, _, err := NewCell[point](c, "cell", serializer.NewJSONSerializer()).Get()
	if !errors.Is(err, common.ErrOther) {
		t.Errorf("Expected ErrOther for undecodable content, got %v", err)
	}
}

func TestList(t *testing.T) {
	c := newTestClient(t)
	l := NewList[string](c, "list", serializer.NewJSONSerializer())

	if n, err := l.Len(); err != nil || n != 0 {
		t.Fatalf("Expected an empty list, got %d (%v)", n, err)
	}
	if n, err := l.Push("a", "b"); err != nil || n != 2 {
		t.Fatalf("Expected length 2 after push, got %d (%v)", n, err)
	}
	if n, err := l.Push("c"); err != nil || n != 3 {
		t.Fatalf("Expected length 3 after push, got %d (%v)", n, err)
	}

	if v, ok, err := l.Get(-1); err != nil || !ok || v != "c" {
		t.Errorf("Expected c at -1, got %q (ok=%v err=%v)", v, ok, err)
	}
	if _, ok, err := l.Get(10); err != nil || ok {
		t.Errorf("Expected no element at 10, got ok=%v err=%v", ok, err)
	}

	all, err := l.Range(0, -1)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if !reflect.DeepEqual(all, []string{"a", "b", "c"}) {
		t.Errorf("Unexpected elements %v", all)
	}

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n, _ := l.Len(); n != 0 {
		t.Errorf("Expected an empty list after clear, got %d", n)
	}
}

func TestListBinary(t *testing.T) {
	c := newTestClient(t)
	l := NewList[int64](c, "numbers", serializer.NewBinarySerializer())

	if _, err := l.Push(1, -2, 1<<40); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	got, err := l.Range(0, -1)
	if err != nil || !reflect.DeepEqual(got, []int64{1, -2, 1 << 40}) {
		t.Errorf("Unexpected elements %v (%v)", got, err)
	}
}

func TestWrongType(t *testing.T) {
	c := newTestClient(t)
	NewBlob(c, "key").Set([]byte("x"))

	_, err := NewList[string](c, "key", serializer.NewJSONSerializer()).Len()
	if !errors.Is(err, common.ErrRemote) {
		t.Errorf("Expected remote error for a list op on a string, got %v", err)
	}
}

func TestMap(t *testing.T) {
	c := newTestClient(t)
	m := NewMap[string, point](c, "map", serializer.NewJSONSerializer())

	if empty, err := m.IsEmpty(); err != nil || !empty {
		t.Fatalf("Expected an empty map, got %v (%v)", empty, err)
	}

	if err := m.Insert("origin", point{}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := m.Insert("p", point{X: 1, Y: 2}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if v, ok, err := m.Get("p"); err != nil || !ok || v != (point{X: 1, Y: 2}) {
		t.Errorf("Expected {1 2}, got %v (ok=%v err=%v)", v, ok, err)
	}
	if _, ok, err := m.Get("nope"); err != nil || ok {
		t.Errorf("Expected no value, got ok=%v err=%v", ok, err)
	}
	if has, err := m.ContainsKey("origin"); err != nil || !has {
		t.Errorf("Expected origin to exist (%v)", err)
	}
	if n, err := m.Len(); err != nil || n != 2 {
		t.Errorf("Expected 2 fields, got %d (%v)", n, err)
	}

	if err := m.Remove("origin"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := m.Remove("origin"); err != nil {
		t.Errorf("Removing a missing field must not fail: %v", err)
	}
	if has, _ := m.ContainsKey("origin"); has {
		t.Errorf("Expected origin to be removed")
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if empty, _ := m.IsEmpty(); !empty {
		t.Errorf("Expected an empty map after clear")
	}
}

func TestMapIter(t *testing.T) {
	c := newTestClient(t)
	m := NewMap[int, string](c, "iter", serializer.NewJSONSerializer())

	// more than two batches
	const n = 3*ScanBatchHint + 5
	for i := 0; i < n; i++ {
		if err := m.Insert(i, fmt.Sprintf("v%d", i)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	var keys []int
	err := m.Iter(func(f int, v string) error {
		if v != fmt.Sprintf("v%d", f) {
			t.Errorf("Field %d has value %s", f, v)
		}
		keys = append(keys, f)
		return nil
	})
	if err != nil {
		t.Fatalf("Iter failed: %v", err)
	}

	sort.Ints(keys)
	if len(keys) != n {
		t.Fatalf("Expected %d fields, got %d", n, len(keys))
	}
	for i, k := range keys {
		if k != i {
			t.Fatalf("Missing or duplicate field around %d", i)
		}
	}

	// the callback error stops the iteration
	stop := errors.New("stop")
	calls := 0
	err = m.Iter(func(int, string) error {
		calls++
		return stop
	})
	if err != stop || calls != 1 {
		t.Errorf("Expected iteration to stop after one call, got %d calls (%v)", calls, err)
	}

	// an empty map iterates nothing
	empty := NewMap[int, string](c, "empty", serializer.NewJSONSerializer())
	if err := empty.Iter(func(int, string) error {
		t.Errorf("Callback called for an empty map")
		return nil
	}); err != nil {
		t.Errorf("Iter on an empty map failed: %v", err)
	}
}

func TestBitVec(t *testing.T) {
	c := newTestClient(t)
	b := NewBitVec(c, "bits")

	if _, ok, err := b.FindFirst(); err != nil || ok {
		t.Fatalf("Expected no set bit, got ok=%v err=%v", ok, err)
	}
	if v, err := b.Get(100); err != nil || v {
		t.Errorf("Expected false beyond the end, got %v (%v)", v, err)
	}

	if old, err := b.Set(10, true); err != nil || old {
		t.Fatalf("Expected previous value false, got %v (%v)", old, err)
	}
	if old, err := b.Set(10, true); err != nil || !old {
		t.Errorf("Expected previous value true, got %v (%v)", old, err)
	}
	b.Set(3, true)

	if n, err := b.Len(); err != nil || n != 16 {
		t.Errorf("Expected 16 bits, got %d (%v)", n, err)
	}
	if n, err := b.Sum(); err != nil || n != 2 {
		t.Errorf("Expected 2 set bits, got %d (%v)", n, err)
	}
	if i, ok, err := b.FindFirst(); err != nil || !ok || i != 3 {
		t.Errorf("Expected first set bit 3, got %d (ok=%v err=%v)", i, ok, err)
	}

	raw, err := b.GetRaw()
	if err != nil || !reflect.DeepEqual(raw, []byte{0x10, 0x20}) {
		t.Errorf("Unexpected raw bytes %x (%v)", raw, err)
	}

	if err := b.SetRaw([]byte{0x00, 0x01}); err != nil {
		t.Fatalf("SetRaw failed: %v", err)
	}
	if i, ok, _ := b.FindFirst(); !ok || i != 15 {
		t.Errorf("Expected first set bit 15 after SetRaw, got %d", i)
	}

	if err := b.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if raw, err := b.GetRaw(); err != nil || len(raw) != 0 {
		t.Errorf("Expected no bytes after clear, got %x (%v)", raw, err)
	}
}

// TestBitVecLargeIndex checks that indices above the int64 range are sent
// unchanged instead of wrapping to negative offsets
func TestBitVecLargeIndex(t *testing.T) {
	seen := make(chan [][]byte, 2)
	handler := server.HandlerFunc(func(args [][]byte) (common.Reply, error) {
		seen <- args
		return common.IntegerReply(0), nil
	})
	s := server.NewServer(common.ServerConfig{Endpoint: "127.0.0.1:0"}, tcp.NewTCPServerConnector(), handler)
	if err := s.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	config := common.DefaultClientConfig(s.Addr().String())
	config.Pool.Name = t.Name()
	config.Pool.InitialSize = 1
	c, err := client.New(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	const index = uint64(1)<<63 + 5
	b := NewBitVec(c, "bits")
	if _, err := b.Get(index); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := b.Set(index, true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	for _, cmd := range []string{"GETBIT", "SETBIT"} {
		args := <-seen
		if string(args[0]) != cmd {
			t.Fatalf("Expected %s, got %s", cmd, args[0])
		}
		if got := string(args[2]); got != "9223372036854775813" {
			t.Errorf("%s: expected index 9223372036854775813, got %s", cmd, got)
		}
	}
}
