// Package target contains the write collaborators that apply parsed
// register instructions: the shared memory set of a local Modbus server, or
// a remote Modbus TCP server.
package target

import (
	"context"

	"github.com/openmodbus/shmwrite/internal/engine"
)

// A Target applies the instructions of one accepted line. Apply is
// all-or-nothing: implementations validate the whole batch before writing
// the first register.
type Target interface {
	Apply(ctx context.Context, instructions []engine.Instruction) error
	Close() error
}

// Discard validates nothing and writes nowhere. Used for dry runs where
// only parsing, verbose decoding and the script log are of interest.
type Discard struct{}

func (Discard) Apply(context.Context, []engine.Instruction) error { return nil }
func (Discard) Close() error                                      { return nil }
