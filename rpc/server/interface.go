package server

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
)

// IHandler executes commands received by the server
type IHandler interface {
	// Handle executes one command. args[0] is the command name.
	// A returned error is sent to the client as an error reply: a
	// common.ErrCRemote error verbatim, anything else prefixed with "ERR ".
	Handle(args [][]byte) (common.Reply, error)
}

// HandlerFunc adapts a plain function to IHandler
type HandlerFunc func(args [][]byte) (common.Reply, error)

func (f HandlerFunc) Handle(args [][]byte) (common.Reply, error) {
	return f(args)
}
