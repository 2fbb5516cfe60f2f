package modbus

import (
	"encoding/binary"
	"fmt"
)

// MBAP Header (7 Bytes) + Function Code + Data
type Frame struct {
	TransactionID uint16 // Request/Response Korrelation
	ProtocolID    uint16 // immer 0x0000 für Modbus
	Length        uint16 // Anzahl folgender Bytes
	UnitID        uint8  // Slave Address
	FunctionCode  uint8
	Data          []byte
}

// Modbus Function Codes (nur die Schreibseite wird benutzt)
const (
	FuncCodeWriteSingleCoil     = 0x05
	FuncCodeWriteSingleRegister = 0x06
)

// exceptionBit markiert eine Exception Response
const exceptionBit = 0x80

// Coil values on the wire: 0xFF00 = on, 0x0000 = off.
const (
	coilOn  = 0xFF00
	coilOff = 0x0000
)

// Encode erstellt das komplette TCP Frame
func (f *Frame) Encode() []byte {
	// PDU Length = UnitID (1) + Function Code (1) + Data
	f.Length = uint16(len(f.Data) + 2)

	frame := make([]byte, 7+len(f.Data)+1)

	// MBAP Header
	binary.BigEndian.PutUint16(frame[0:2], f.TransactionID)
	binary.BigEndian.PutUint16(frame[2:4], f.ProtocolID)
	binary.BigEndian.PutUint16(frame[4:6], f.Length)
	frame[6] = f.UnitID

	// PDU
	frame[7] = f.FunctionCode
	copy(frame[8:], f.Data)

	return frame
}

// DecodeFrame parst ein empfangenes Frame
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("frame too short: %d bytes", len(data))
	}

	frame := &Frame{
		TransactionID: binary.BigEndian.Uint16(data[0:2]),
		ProtocolID:    binary.BigEndian.Uint16(data[2:4]),
		Length:        binary.BigEndian.Uint16(data[4:6]),
		UnitID:        data[6],
		FunctionCode:  data[7],
	}

	if frame.ProtocolID != 0x0000 {
		return nil, fmt.Errorf("invalid protocol ID: 0x%04X", frame.ProtocolID)
	}

	if len(data) > 8 {
		frame.Data = data[8:]
	}

	return frame, nil
}

// CheckException prüft ob die Response eine Modbus Exception ist
func (f *Frame) CheckException(request *Frame) error {
	if f.FunctionCode == request.FunctionCode {
		return nil
	}
	if f.FunctionCode == request.FunctionCode|exceptionBit {
		code := uint8(0)
		if len(f.Data) > 0 {
			code = f.Data[0]
		}
		return fmt.Errorf("modbus exception 0x%02X for function 0x%02X", code, request.FunctionCode)
	}
	return fmt.Errorf("unexpected function code 0x%02X in response", f.FunctionCode)
}

// WriteSingleCoilRequest erstellt Request für Function Code 0x05
func WriteSingleCoilRequest(unitID uint8, addr uint16, on bool) *Frame {
	value := uint16(coilOff)
	if on {
		value = coilOn
	}

	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data[0:2], addr)
	binary.BigEndian.PutUint16(data[2:4], value)

	return &Frame{
		ProtocolID:   0x0000,
		UnitID:       unitID,
		FunctionCode: FuncCodeWriteSingleCoil,
		Data:         data,
	}
}

// WriteSingleRegisterRequest erstellt Request für Function Code 0x06
func WriteSingleRegisterRequest(unitID uint8, addr uint16, value uint16) *Frame {
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data[0:2], addr)
	binary.BigEndian.PutUint16(data[2:4], value)

	return &Frame{
		ProtocolID:   0x0000,
		UnitID:       unitID,
		FunctionCode: FuncCodeWriteSingleRegister,
		Data:         data,
	}
}
