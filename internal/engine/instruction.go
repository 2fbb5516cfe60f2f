package engine

import (
	"fmt"
	"strings"
)

// RegisterType identifiziert eines der vier Modbus Register-Arrays.
type RegisterType int

const (
	DO RegisterType = iota // discrete outputs (coils), 1 byte per register
	DI                     // discrete inputs, 1 byte per register
	AO                     // analog outputs (holding registers), 2 bytes per register
	AI                     // analog inputs (input registers), 2 bytes per register
)

func (t RegisterType) String() string {
	switch t {
	case DO:
		return "do"
	case DI:
		return "di"
	case AO:
		return "ao"
	case AI:
		return "ai"
	}
	return fmt.Sprintf("RegisterType(%d)", int(t))
}

// Discrete reports whether the type is one of the two coil-style arrays.
// Discrete registers hold a boolean: the writer stores 1 for any nonzero
// value and 0 otherwise.
func (t RegisterType) Discrete() bool {
	return t == DO || t == DI
}

// ParseRegisterType maps a (case-insensitive) register type token.
func ParseRegisterType(s string) (RegisterType, error) {
	switch strings.ToLower(s) {
	case "do":
		return DO, nil
	case "di":
		return DI, nil
	case "ao":
		return AO, nil
	case "ai":
		return AI, nil
	}
	return 0, &ParseError{Field: "register type", Token: s, Reason: "not a valid register type"}
}

// Instruction is a single register write: Value is stored at register
// Address of the array selected by Type. Multi-register data types produce
// one Instruction per 16-bit word at consecutive ascending addresses.
type Instruction struct {
	Type    RegisterType
	Address uint64
	Value   uint16
}

// String renders the instruction in the input grammar (hex address and
// value) so that emitted instructions can be fed back in with base 0.
func (i Instruction) String() string {
	return fmt.Sprintf("%s:0x%x:0x%04x", i.Type, i.Address, i.Value)
}

// ParseError describes why a line was rejected. The whole line is discarded
// on any ParseError; no instructions are produced.
type ParseError struct {
	Field  string // line, register type, address, value, data type
	Token  string // the offending token, empty if the whole line is at fault
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Token, e.Reason)
}
