// Package codec implements the RESP wire format used between the client and
// the store. It has no state and does no I/O beyond the reader or buffer it
// is handed.
//
// Requests are arrays of bulk strings:
//
//	*<argc>\r\n
//	$<len>\r\n<bytes>\r\n   (once per argument)
//
// Replies start with a one-byte tag:
//
//	+<text>\r\n             Text
//	-<text>\r\n             remote error (common.ErrCRemote)
//	:<int64>\r\n            Integer
//	$<len>\r\n<bytes>\r\n   Bytes, $-1\r\n is Nothing
//	*<count>\r\n<replies>   Sequence, *-1\r\n is Nothing
//
// Decode reads exactly one reply and then requires the read-ahead buffer to
// be empty. Anything left over means the stream is no longer aligned to frame
// boundaries and is reported as a protocol error, never silently dropped.
// Nesting is limited to MaxDepth levels and bulk strings to MaxBulkLength
// bytes.
package codec
