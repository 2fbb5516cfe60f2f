package modbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameEncodeDecode(t *testing.T) {
	assert := assert.New(t)

	req := WriteSingleRegisterRequest(1, 0x0010, 0xBEEF)
	req.TransactionID = 42

	raw := req.Encode()
	assert.Equal(12, len(raw))
	assert.Equal(uint16(6), req.Length) // UnitID + FunctionCode + 4 data bytes

	decoded, err := DecodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(uint16(42), decoded.TransactionID)
	assert.Equal(uint8(1), decoded.UnitID)
	assert.Equal(uint8(FuncCodeWriteSingleRegister), decoded.FunctionCode)
	assert.Equal([]byte{0x00, 0x10, 0xBE, 0xEF}, decoded.Data)
}

func TestWriteSingleCoilRequest(t *testing.T) {
	assert := assert.New(t)

	on := WriteSingleCoilRequest(3, 7, true)
	assert.Equal([]byte{0x00, 0x07, 0xFF, 0x00}, on.Data)

	off := WriteSingleCoilRequest(3, 7, false)
	assert.Equal([]byte{0x00, 0x07, 0x00, 0x00}, off.Data)
}

func TestDecodeFrameErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodeFrame([]byte{0x00, 0x01})
	assert.Error(err)

	// non-zero protocol id
	raw := WriteSingleRegisterRequest(1, 0, 0).Encode()
	raw[2] = 0xFF
	_, err = DecodeFrame(raw)
	assert.Error(err)
}

func TestCheckException(t *testing.T) {
	assert := assert.New(t)

	req := WriteSingleRegisterRequest(1, 0, 0)

	ok := &Frame{FunctionCode: FuncCodeWriteSingleRegister}
	assert.NoError(ok.CheckException(req))

	exc := &Frame{FunctionCode: FuncCodeWriteSingleRegister | exceptionBit, Data: []byte{0x02}}
	err := exc.CheckException(req)
	require.Error(t, err)
	assert.Contains(err.Error(), "exception")

	odd := &Frame{FunctionCode: 0x03}
	assert.Error(odd.CheckException(req))
}
