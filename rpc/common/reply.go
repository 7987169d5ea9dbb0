package common

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Reply Kinds
// --------------------------------------------------------------------------

// ReplyKind tells which variant of a Reply is active
type ReplyKind uint8

const (
	KindNothing  ReplyKind = iota // explicit absent marker ($-1 / *-1)
	KindInteger                   // :<int64>
	KindText                      // +<simple string>
	KindBytes                     // $<len> bulk string
	KindSequence                  // *<count> array
)

func (k ReplyKind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Reply Structure
// --------------------------------------------------------------------------

// Reply is the tagged value produced by one completed exchange.
// Exactly one variant is active, the zero value is Nothing.
// Payloads are only reachable through the typed extractors, which fail
// with an ErrCOther error when the kind does not match.
type Reply struct {
	kind ReplyKind
	num  int64
	str  string
	buf  []byte
	seq  []Reply
}

// IntegerReply creates an Integer reply
func IntegerReply(v int64) Reply {
	return Reply{kind: KindInteger, num: v}
}

// TextReply creates a Text reply
func TextReply(v string) Reply {
	return Reply{kind: KindText, str: v}
}

// BytesReply creates a Bytes reply. A nil slice is stored as an empty one,
// absence is expressed with NothingReply.
func BytesReply(v []byte) Reply {
	if v == nil {
		v = []byte{}
	}
	return Reply{kind: KindBytes, buf: v}
}

// SequenceReply creates a Sequence reply
func SequenceReply(v ...Reply) Reply {
	if v == nil {
		v = []Reply{}
	}
	return Reply{kind: KindSequence, seq: v}
}

// NothingReply creates a Nothing reply
func NothingReply() Reply {
	return Reply{kind: KindNothing}
}

// --------------------------------------------------------------------------
// Extractors
// --------------------------------------------------------------------------

// Kind returns the active variant
func (r Reply) Kind() ReplyKind {
	return r.kind
}

// IsNothing reports whether the reply is the absent marker
func (r Reply) IsNothing() bool {
	return r.kind == KindNothing
}

func (r Reply) mismatch(want ReplyKind) error {
	return NewOtherError("reply is %s, not %s", r.kind, want)
}

// Integer returns the payload of an Integer reply
func (r Reply) Integer() (int64, error) {
	if r.kind != KindInteger {
		return 0, r.mismatch(KindInteger)
	}
	return r.num, nil
}

// Text returns the payload of a Text reply
func (r Reply) Text() (string, error) {
	if r.kind != KindText {
		return "", r.mismatch(KindText)
	}
	return r.str, nil
}

// Bytes returns the payload of a Bytes reply
func (r Reply) Bytes() ([]byte, error) {
	if r.kind != KindBytes {
		return nil, r.mismatch(KindBytes)
	}
	return r.buf, nil
}

// Sequence returns the elements of a Sequence reply
func (r Reply) Sequence() ([]Reply, error) {
	if r.kind != KindSequence {
		return nil, r.mismatch(KindSequence)
	}
	return r.seq, nil
}

// Nothing succeeds only for the absent marker
func (r Reply) Nothing() error {
	if r.kind != KindNothing {
		return r.mismatch(KindNothing)
	}
	return nil
}

// Equal reports whether both replies have the same kind and payload
func (r Reply) Equal(o Reply) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case KindInteger:
		return r.num == o.num
	case KindText:
		return r.str == o.str
	case KindBytes:
		return bytes.Equal(r.buf, o.buf)
	case KindSequence:
		if len(r.seq) != len(o.seq) {
			return false
		}
		for i := range r.seq {
			if !r.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String formats the reply the way redis-cli prints it
func (r Reply) String() string {
	var sb strings.Builder
	r.format(&sb, "")
	return sb.String()
}

func (r Reply) format(sb *strings.Builder, indent string) {
	switch r.kind {
	case KindNothing:
		sb.WriteString("(nil)")
	case KindInteger:
		sb.WriteString("(integer) ")
		sb.WriteString(strconv.FormatInt(r.num, 10))
	case KindText:
		sb.WriteString(r.str)
	case KindBytes:
		sb.WriteString(strconv.Quote(string(r.buf)))
	case KindSequence:
		if len(r.seq) == 0 {
			sb.WriteString("(empty array)")
			return
		}
		width := len(strconv.Itoa(len(r.seq)))
		for i, e := range r.seq {
			if i > 0 {
				sb.WriteString("\n")
				sb.WriteString(indent)
			}
			prefix := fmt.Sprintf("%*d) ", width, i+1)
			sb.WriteString(prefix)
			e.format(sb, indent+strings.Repeat(" ", len(prefix)))
		}
	}
}
