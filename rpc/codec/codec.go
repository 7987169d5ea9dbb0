package codec

import (
	"bufio"
	"fmt"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/pkg/errors"
	"io"
	"strconv"
)

const (
	// MaxDepth bounds the nesting of sequences in one reply
	MaxDepth = 512
	// MaxBulkLength is the largest bulk string the store can emit (512 MiB)
	MaxBulkLength = 512 * 1024 * 1024
)

// Type tags of the wire format
const (
	TagText     byte = '+'
	TagError    byte = '-'
	TagInteger  byte = ':'
	TagBytes    byte = '$'
	TagSequence byte = '*'
)

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// AppendArrayHeader appends "*<n>\r\n" to dst
func AppendArrayHeader(dst []byte, n int) []byte {
	dst = append(dst, TagSequence)
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, '\r', '\n')
}

// AppendBulk appends "$<len>\r\n<arg>\r\n" to dst. arg is copied verbatim,
// it may contain any byte including CR and LF.
func AppendBulk(dst []byte, arg []byte) []byte {
	dst = append(dst, TagBytes)
	dst = strconv.AppendInt(dst, int64(len(arg)), 10)
	dst = append(dst, '\r', '\n')
	dst = append(dst, arg...)
	return append(dst, '\r', '\n')
}

// AppendBulkString is AppendBulk for a string argument
func AppendBulkString(dst []byte, arg string) []byte {
	dst = append(dst, TagBytes)
	dst = strconv.AppendInt(dst, int64(len(arg)), 10)
	dst = append(dst, '\r', '\n')
	dst = append(dst, arg...)
	return append(dst, '\r', '\n')
}

// EncodeCommand frames args as an array of bulk strings
func EncodeCommand(args ...[]byte) []byte {
	size := 16
	for _, a := range args {
		size += len(a) + 16
	}
	buf := AppendArrayHeader(make([]byte, 0, size), len(args))
	for _, a := range args {
		buf = AppendBulk(buf, a)
	}
	return buf
}

// AppendReply appends the wire representation of r to dst.
// Text must not contain CR or LF, use a Bytes reply for binary content.
func AppendReply(dst []byte, r common.Reply) []byte {
	switch r.Kind() {
	case common.KindInteger:
		n, _ := r.Integer()
		dst = append(dst, TagInteger)
		dst = strconv.AppendInt(dst, n, 10)
		return append(dst, '\r', '\n')
	case common.KindText:
		s, _ := r.Text()
		dst = append(dst, TagText)
		dst = append(dst, s...)
		return append(dst, '\r', '\n')
	case common.KindBytes:
		b, _ := r.Bytes()
		return AppendBulk(dst, b)
	case common.KindSequence:
		seq, _ := r.Sequence()
		dst = AppendArrayHeader(dst, len(seq))
		for _, e := range seq {
			dst = AppendReply(dst, e)
		}
		return dst
	default:
		return append(dst, "$-1\r\n"...)
	}
}

// AppendError appends an error reply "-<msg>\r\n" to dst
func AppendError(dst []byte, msg string) []byte {
	dst = append(dst, TagError)
	dst = append(dst, msg...)
	return append(dst, '\r', '\n')
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// Decode reads exactly one top-level reply from r. Bytes still buffered in r
// after the reply mean the peer sent more than was asked for or the framing
// is corrupt, this is reported as a protocol error even when the reply
// itself was well-formed.
func Decode(r *bufio.Reader) (common.Reply, error) {
	reply, err := ReadReply(r)
	if n := r.Buffered(); n > 0 {
		return common.Reply{}, common.NewProtocolError(fmt.Sprintf("extra content in response (%d bytes)", n))
	}
	return reply, err
}

// ReadReply reads one reply from r without checking for trailing bytes.
// Servers reading pipelined requests use this, clients use Decode.
func ReadReply(r *bufio.Reader) (common.Reply, error) {
	return readReply(r, 0)
}

func readReply(r *bufio.Reader, depth int) (common.Reply, error) {
	if depth > MaxDepth {
		return common.Reply{}, common.NewProtocolError("reply nesting too deep")
	}

	line, err := readLine(r)
	if err != nil {
		return common.Reply{}, err
	}
	if len(line) == 0 {
		return common.Reply{}, common.NewProtocolError("empty response line")
	}

	tag, body := line[0], line[1:]
	switch tag {
	case TagText:
		return common.TextReply(string(body)), nil

	case TagError:
		return common.Reply{}, common.NewRemoteError(string(body))

	case TagInteger:
		n, err := strconv.ParseInt(string(body), 10, 64)
		if err != nil {
			return common.Reply{}, common.NewProtocolError("parse integer response failed")
		}
		return common.IntegerReply(n), nil

	case TagBytes:
		if isNil(body) {
			return common.NothingReply(), nil
		}
		n, err := strconv.ParseUint(string(body), 10, 64)
		if err != nil {
			return common.Reply{}, common.NewProtocolError("parse bytes length failed")
		}
		if n > MaxBulkLength {
			return common.Reply{}, common.NewProtocolError(fmt.Sprintf("bulk length %d exceeds limit", n))
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return common.Reply{}, readError(err)
		}
		if buf[n] != '\r' || buf[n+1] != '\n' {
			return common.Reply{}, common.NewProtocolError("bulk string not terminated by CRLF")
		}
		return common.BytesReply(buf[:n:n]), nil

	case TagSequence:
		if isNil(body) {
			return common.NothingReply(), nil
		}
		n, err := strconv.ParseUint(string(body), 10, 32)
		if err != nil {
			return common.Reply{}, common.NewProtocolError("parse array length failed")
		}
		return readSequence(r, int(n), depth)

	default:
		return common.Reply{}, common.NewProtocolError("unknown response type")
	}
}

// readSequence decodes n elements. An error element does not stop the loop:
// the remaining elements are consumed so the stream stays aligned, then the
// first remote error is returned.
func readSequence(r *bufio.Reader, n int, depth int) (common.Reply, error) {
	seq := make([]common.Reply, 0, min(n, 1024))
	var remoteErr error
	for i := 0; i < n; i++ {
		e, err := readReply(r, depth+1)
		if err != nil {
			if common.CodeOf(err) != common.ErrCRemote {
				return common.Reply{}, err
			}
			if remoteErr == nil {
				remoteErr = err
			}
			continue
		}
		seq = append(seq, e)
	}
	if remoteErr != nil {
		return common.Reply{}, remoteErr
	}
	return common.SequenceReply(seq...), nil
}

// readLine returns the next line without its CRLF terminator
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, readError(err)
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, common.NewProtocolError("line not terminated by CRLF")
	}
	return line[:len(line)-2], nil
}

// readError classifies a failed read. Errors already carrying a code (such as
// a handle used after release) keep it.
func readError(err error) error {
	var e *common.Error
	if errors.As(err, &e) {
		return err
	}
	if err == io.EOF {
		return common.NewIOError(err, "connection closed while reading reply")
	}
	return common.NewIOError(err, "read reply")
}

func isNil(body []byte) bool {
	return len(body) == 2 && body[0] == '-' && body[1] == '1'
}
