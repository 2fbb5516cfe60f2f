package target

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openmodbus/shmwrite/internal/engine"
	"github.com/openmodbus/shmwrite/internal/modbus"
)

// ModbusTarget applies instructions to a live Modbus TCP server. Only do
// (coils, function 0x05) and ao (holding registers, function 0x06) can be
// written; the protocol defines no write functions for di and ai.
type ModbusTarget struct {
	client *modbus.Client
	logger *zap.Logger
}

func NewModbus(client *modbus.Client, logger *zap.Logger) *ModbusTarget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModbusTarget{client: client, logger: logger}
}

func (t *ModbusTarget) Apply(ctx context.Context, instructions []engine.Instruction) error {
	// reject unwritable register types before the first write goes out
	for _, ins := range instructions {
		switch ins.Type {
		case engine.DI, engine.AI:
			return fmt.Errorf("%s registers cannot be written over modbus tcp", ins.Type)
		}
		if ins.Address > 0xFFFF {
			return fmt.Errorf("address out of range: %s", ins)
		}
	}

	for _, ins := range instructions {
		var err error
		switch ins.Type {
		case engine.DO:
			err = t.client.WriteSingleCoil(ctx, uint16(ins.Address), ins.Value != 0)
		case engine.AO:
			err = t.client.WriteSingleRegister(ctx, uint16(ins.Address), ins.Value)
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", ins, err)
		}
		t.logger.Debug("register written",
			zap.String("instruction", ins.String()))
	}

	return nil
}

func (t *ModbusTarget) Close() error {
	return t.client.Close()
}
