// Package session runs request/response exchanges on one connection handle.
//
// A Session buffers the arguments of one command, writes them as a RESP array
// of bulk strings and reads exactly one reply. Arguments are raw byte strings
// and are sent verbatim, no escaping or length limit applies.
//
// States:
//
//	StateIdle --Arg--> StateBuilding --Send--> StateSent --Recv--> StateIdle
//
// Recv outside StateSent fails with a common.ErrCOther error. Protocol and
// io errors poison the session; Close then discards the connection so it is
// never handed to another caller in an unknown state. Remote errors (the
// store answered with "-...") leave the session usable.
package session
