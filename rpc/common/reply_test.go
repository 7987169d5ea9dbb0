package common

import (
	"github.com/pkg/errors"
	"testing"
)

// TestReplyExtractors checks that only the active variant can be extracted
func TestReplyExtractors(t *testing.T) {
	replies := []Reply{
		NothingReply(),
		IntegerReply(7),
		TextReply("OK"),
		BytesReply([]byte("v")),
		SequenceReply(IntegerReply(1)),
	}

	for _, r := range replies {
		checks := map[ReplyKind]error{
			KindNothing: r.Nothing(),
		}
		_, checks[KindInteger] = r.Integer()
		_, checks[KindText] = r.Text()
		_, checks[KindBytes] = r.Bytes()
		_, checks[KindSequence] = r.Sequence()

		for kind, err := range checks {
			if kind == r.Kind() {
				if err != nil {
					t.Errorf("Expected %s extraction to succeed: %v", kind, err)
				}
				continue
			}
			if !errors.Is(err, ErrOther) {
				t.Errorf("Expected ErrOther extracting %s from %s, got %v", kind, r.Kind(), err)
			}
			if IsFatal(err) {
				t.Errorf("Shape mismatch must not be fatal")
			}
		}
	}
}

// TestReplyZeroValue checks that the zero Reply is Nothing and empty payloads are not
func TestReplyZeroValue(t *testing.T) {
	var r Reply
	if !r.IsNothing() {
		t.Errorf("Expected zero value to be Nothing, got %s", r.Kind())
	}

	b := BytesReply(nil)
	if b.IsNothing() {
		t.Fatalf("Empty bytes must not be Nothing")
	}
	if v, err := b.Bytes(); err != nil || v == nil || len(v) != 0 {
		t.Errorf("Expected empty non-nil bytes, got %v (%v)", v, err)
	}

	s := SequenceReply()
	if seq, err := s.Sequence(); err != nil || seq == nil || len(seq) != 0 {
		t.Errorf("Expected empty non-nil sequence, got %v (%v)", seq, err)
	}
}

// TestReplyEqual checks kind and payload comparison
func TestReplyEqual(t *testing.T) {
	if !SequenceReply(TextReply("a"), NothingReply()).Equal(SequenceReply(TextReply("a"), NothingReply())) {
		t.Errorf("Expected equal sequences")
	}
	if TextReply("1").Equal(BytesReply([]byte("1"))) {
		t.Errorf("Text and bytes with the same content must differ")
	}
	if IntegerReply(1).Equal(IntegerReply(2)) {
		t.Errorf("Different integers must differ")
	}
	if SequenceReply(IntegerReply(1)).Equal(SequenceReply(IntegerReply(1), IntegerReply(2))) {
		t.Errorf("Sequences of different length must differ")
	}
	if !NothingReply().Equal(Reply{}) {
		t.Errorf("Expected Nothing to equal the zero value")
	}
}

// TestReplyString checks the redis-cli like formatting
func TestReplyString(t *testing.T) {
	cases := map[string]struct {
		reply Reply
		want  string
	}{
		"nothing":  {NothingReply(), "(nil)"},
		"integer":  {IntegerReply(-3), "(integer) -3"},
		"text":     {TextReply("OK"), "OK"},
		"bytes":    {BytesReply([]byte("a\nb")), `"a\nb"`},
		"empty":    {SequenceReply(), "(empty array)"},
		"sequence": {SequenceReply(BytesReply([]byte("a")), IntegerReply(2)), "1) \"a\"\n2) (integer) 2"},
		"nested": {
			SequenceReply(SequenceReply(TextReply("x"), TextReply("y"))),
			"1) 1) x\n   2) y",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.reply.String(); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}
