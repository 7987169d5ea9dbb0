// Package cmd implements the command-line interface of dRESP. It provides a
// hierarchical command structure for talking to a RESP store as a client and
// for running a local in-memory server.
//
// The package is organized into several subpackages:
//
//   - store: Client commands (do, ping, metrics, blob, cell, map, list, bits, perf)
//   - serve: Starts the in-memory RESP server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through an environment variable DRESP_<FLAG>
// (dashes become underscores) or a .env / .env.local file.
//
// See dresp -help for a list of all commands.
package cmd
