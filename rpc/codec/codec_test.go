package codec

import (
	"bufio"
	"bytes"
	"errors"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"strings"
	"testing"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

// TestEncodeCommand checks the exact request framing
func TestEncodeCommand(t *testing.T) {
	got := EncodeCommand([]byte("SET"), []byte("key"), []byte("val"))
	want := "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$3\r\nval\r\n"
	if string(got) != want {
		t.Fatalf("Expected %q, got %q", want, got)
	}

	if got := EncodeCommand(); string(got) != "*0\r\n" {
		t.Errorf("Expected empty array header, got %q", got)
	}

	// lengths are byte counts, not code points
	if got := AppendBulk(nil, []byte("äö")); string(got) != "$4\r\näö\r\n" {
		t.Errorf("Expected byte length 4, got %q", got)
	}
}

// TestCommandRoundTrip decodes an encoded command the way an echoing peer would
func TestCommandRoundTrip(t *testing.T) {
	cases := map[string][][]byte{
		"simple":     {[]byte("GET"), []byte("key")},
		"empty args": {[]byte(""), []byte("x"), []byte("")},
		"crlf":       {[]byte("SET"), []byte("k\r\n"), []byte("\r\n\r\n$3\r\n")},
		"binary":     {{0x00, 0xff, '\r', 0x01, '\n'}},
		"no args":    {},
		"large":      {bytes.Repeat([]byte("z"), 100_000)},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			reply, err := Decode(bufio.NewReader(bytes.NewReader(EncodeCommand(args...))))
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			seq, err := reply.Sequence()
			if err != nil {
				t.Fatalf("Expected a sequence: %v", err)
			}
			if len(seq) != len(args) {
				t.Fatalf("Expected %d elements, got %d", len(args), len(seq))
			}
			for i, e := range seq {
				b, err := e.Bytes()
				if err != nil {
					t.Fatalf("Element %d is not bytes: %v", i, err)
				}
				if !bytes.Equal(b, args[i]) {
					t.Errorf("Element %d doesn't match: expected %q, got %q", i, args[i], b)
				}
			}
		})
	}
}

// TestDecodeVariants checks that every tag produces the matching variant
func TestDecodeVariants(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  common.Reply
	}{
		{"text", "+OK\r\n", common.TextReply("OK")},
		{"empty text", "+\r\n", common.TextReply("")},
		{"integer", ":42\r\n", common.IntegerReply(42)},
		{"negative integer", ":-7\r\n", common.IntegerReply(-7)},
		{"bytes", "$5\r\nhello\r\n", common.BytesReply([]byte("hello"))},
		{"empty bytes", "$0\r\n\r\n", common.BytesReply([]byte{})},
		{"bytes with crlf", "$4\r\n\r\n\r\n\r\n", common.BytesReply([]byte("\r\n\r\n"))},
		{"nil bytes", "$-1\r\n", common.NothingReply()},
		{"nil sequence", "*-1\r\n", common.NothingReply()},
		{"empty sequence", "*0\r\n", common.SequenceReply()},
		{"sequence", "*2\r\n:1\r\n:2\r\n", common.SequenceReply(common.IntegerReply(1), common.IntegerReply(2))},
		{"nested", "*2\r\n*1\r\n$1\r\na\r\n$-1\r\n", common.SequenceReply(
			common.SequenceReply(common.BytesReply([]byte("a"))),
			common.NothingReply(),
		)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(reader(tc.input))
			if err != nil {
				t.Fatalf("Failed to decode %q: %v", tc.input, err)
			}
			if got.Kind() != tc.want.Kind() {
				t.Fatalf("Expected kind %s, got %s", tc.want.Kind(), got.Kind())
			}
			if !got.Equal(tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

// TestNothingExtraction checks that Nothing never turns into an empty collection
func TestNothingExtraction(t *testing.T) {
	for _, input := range []string{"$-1\r\n", "*-1\r\n"} {
		reply, err := Decode(reader(input))
		if err != nil {
			t.Fatalf("Failed to decode %q: %v", input, err)
		}
		if err := reply.Nothing(); err != nil {
			t.Errorf("Expected Nothing for %q: %v", input, err)
		}
		if _, err := reply.Bytes(); !errors.Is(err, common.ErrOther) {
			t.Errorf("Expected ErrOther extracting bytes from %q, got %v", input, err)
		}
		if _, err := reply.Sequence(); !errors.Is(err, common.ErrOther) {
			t.Errorf("Expected ErrOther extracting sequence from %q, got %v", input, err)
		}
	}
}

// TestDecodeLeftover checks that trailing bytes after a complete reply are a protocol error
func TestDecodeLeftover(t *testing.T) {
	_, err := Decode(reader("+OK\r\n+OK\r\n"))
	if !errors.Is(err, common.ErrProtocol) {
		t.Fatalf("Expected protocol error, got %v", err)
	}
	if !common.IsFatal(err) {
		t.Errorf("Leftover bytes must be fatal to the connection")
	}

	// a remote error followed by garbage is still a desync
	_, err = Decode(reader("-ERR x\r\n:1\r\n"))
	if !errors.Is(err, common.ErrProtocol) {
		t.Errorf("Expected protocol error, got %v", err)
	}

	// ReadReply leaves the rest for the next call
	r := reader("+OK\r\n:1\r\n")
	if _, err := ReadReply(r); err != nil {
		t.Fatalf("Failed to read first reply: %v", err)
	}
	if got, err := ReadReply(r); err != nil || !got.Equal(common.IntegerReply(1)) {
		t.Errorf("Expected second reply (integer) 1, got %v (%v)", got, err)
	}
}

// TestDecodeErrors checks the classification of malformed input
func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown tag", "?what\r\n", common.ErrProtocol},
		{"bad integer", ":12a\r\n", common.ErrProtocol},
		{"integer overflow", ":99999999999999999999\r\n", common.ErrProtocol},
		{"bad bulk length", "$x\r\n", common.ErrProtocol},
		{"negative bulk length", "$-2\r\n", common.ErrProtocol},
		{"bad array length", "*-5\r\n", common.ErrProtocol},
		{"bad bulk terminator", "$2\r\nabXY", common.ErrProtocol},
		{"lf only", "+OK\n", common.ErrProtocol},
		{"empty line", "\r\n", common.ErrProtocol},
		{"too long bulk", "$999999999999\r\n", common.ErrProtocol},
		{"truncated bulk", "$5\r\nab", common.ErrIO},
		{"truncated line", "+OK", common.ErrIO},
		{"truncated sequence", "*3\r\n:1\r\n", common.ErrIO},
		{"eof", "", common.ErrIO},
		{"remote", "-ERR wrong type\r\n", common.ErrRemote},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(reader(tc.input))
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v for %q, got %v", tc.want, tc.input, err)
			}
		})
	}
}

// TestRemoteErrorMessage checks that the store's text is carried unchanged
func TestRemoteErrorMessage(t *testing.T) {
	_, err := Decode(reader("-WRONGTYPE Operation against a key\r\n"))
	var e *common.Error
	if !errors.As(err, &e) {
		t.Fatalf("Expected *common.Error, got %T", err)
	}
	if e.Code != common.ErrCRemote || e.Msg != "WRONGTYPE Operation against a key" {
		t.Errorf("Unexpected error %+v", e)
	}
	if common.IsFatal(err) {
		t.Errorf("Remote errors must not be fatal")
	}
}

// TestRemoteErrorInSequence checks that the stream stays aligned after a nested error
func TestRemoteErrorInSequence(t *testing.T) {
	r := reader("*3\r\n:1\r\n-ERR nested\r\n:3\r\n+NEXT\r\n")

	if _, err := ReadReply(r); !errors.Is(err, common.ErrRemote) {
		t.Fatalf("Expected remote error, got %v", err)
	}

	next, err := Decode(r)
	if err != nil {
		t.Fatalf("Stream not aligned after nested error: %v", err)
	}
	if s, _ := next.Text(); s != "NEXT" {
		t.Errorf("Expected NEXT, got %v", next)
	}
}

// TestDecodeDepth checks the nesting bound
func TestDecodeDepth(t *testing.T) {
	ok := strings.Repeat("*1\r\n", MaxDepth) + ":1\r\n"
	if _, err := Decode(reader(ok)); err != nil {
		t.Fatalf("Expected %d levels to decode: %v", MaxDepth, err)
	}

	tooDeep := strings.Repeat("*1\r\n", MaxDepth+1) + ":1\r\n"
	if _, err := ReadReply(reader(tooDeep)); !errors.Is(err, common.ErrProtocol) {
		t.Errorf("Expected protocol error for %d levels, got %v", MaxDepth+1, err)
	}
}

// TestReplyEncodingRoundTrip checks AppendReply against Decode for every variant
func TestReplyEncodingRoundTrip(t *testing.T) {
	replies := []common.Reply{
		common.NothingReply(),
		common.IntegerReply(-12345),
		common.TextReply("PONG"),
		common.BytesReply([]byte("a\r\nb")),
		common.SequenceReply(
			common.BytesReply([]byte("0")),
			common.SequenceReply(common.TextReply("x"), common.IntegerReply(9)),
		),
	}

	for _, want := range replies {
		got, err := Decode(bufio.NewReader(bytes.NewReader(AppendReply(nil, want))))
		if err != nil {
			t.Fatalf("Failed to decode %v: %v", want, err)
		}
		if !got.Equal(want) {
			t.Errorf("Reply doesn't match after round trip:\nOriginal: %v\nResult: %v", want, got)
		}
	}

	if got := string(AppendError(nil, "ERR boom")); got != "-ERR boom\r\n" {
		t.Errorf("Unexpected error encoding %q", got)
	}
}
