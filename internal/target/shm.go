package target

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/openmodbus/shmwrite/internal/engine"
	"github.com/openmodbus/shmwrite/internal/shm"
)

// ShmTarget writes instructions into the mapped register arrays of a local
// Modbus server. Discrete registers store 1 for any nonzero value; analog
// registers store the 16-bit word in host byte order, as the server expects.
type ShmTarget struct {
	group  *shm.Group
	mu     sync.Mutex
	logger *zap.Logger
}

func NewShm(group *shm.Group, logger *zap.Logger) *ShmTarget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShmTarget{group: group, logger: logger}
}

// Apply bounds-checks all instructions against the live array sizes and
// then writes them under the inter-process writer lock. A failed check
// rejects the whole batch before anything is written.
func (t *ShmTarget) Apply(_ context.Context, instructions []engine.Instruction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	do, di, ao, ai := t.group.Registers()
	for _, ins := range instructions {
		limit := 0
		switch ins.Type {
		case engine.DO:
			limit = do
		case engine.DI:
			limit = di
		case engine.AO:
			limit = ao
		case engine.AI:
			limit = ai
		}
		if ins.Address >= uint64(limit) {
			return fmt.Errorf("address out of range: %s (only %d registers mapped)", ins, limit)
		}
	}

	if err := t.group.Lock(); err != nil {
		return err
	}
	defer func() {
		if err := t.group.Unlock(); err != nil {
			t.logger.Warn("failed to release writer lock", zap.Error(err))
		}
	}()

	for _, ins := range instructions {
		switch ins.Type {
		case engine.DO, engine.DI:
			data := t.group.DO.Data()
			if ins.Type == engine.DI {
				data = t.group.DI.Data()
			}
			// coils are booleans: everything nonzero becomes 1
			b := byte(0)
			if ins.Value != 0 {
				b = 1
			}
			data[ins.Address] = b
		case engine.AO:
			binary.NativeEndian.PutUint16(t.group.AO.Data()[2*ins.Address:], ins.Value)
		case engine.AI:
			binary.NativeEndian.PutUint16(t.group.AI.Data()[2*ins.Address:], ins.Value)
		}
	}

	return nil
}

func (t *ShmTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.group.Close()
}
