package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoccDecodeEncode(t *testing.T) {
	assert := assert.New(t)

	// Device 5, InitRead, modifiers 0x42.
	iocc := DecodeIocc(0x1000, 0x2A42)
	assert.Equal(uint16(0x1000), iocc.WCA)
	assert.Equal(uint8(5), iocc.DeviceCode)
	assert.Equal(FUNC_INIT_READ, iocc.Func)
	assert.Equal(uint8(0x42), iocc.Modifiers)

	word1, word2 := iocc.Encode()
	assert.Equal(uint16(0x1000), word1)
	assert.Equal(uint16(0x2A42), word2)
}

func TestIoccAllFunctions(t *testing.T) {
	assert := assert.New(t)

	for fn := uint16(0); fn < 8; fn++ {
		iocc := DecodeIocc(0x0100, fn<<8)
		assert.Equal(Func(fn), iocc.Func)
	}
}

func TestFuncNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Sense", FUNC_SENSE.String())
	assert.Equal("InitRead", FUNC_INIT_READ.String())
	assert.Equal("Reserved", FUNC_RESERVED.String())
}
