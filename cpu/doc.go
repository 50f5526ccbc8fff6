// Package cpu emulates the IBM 1130 processor: 16-bit word memory with
// memory-mapped index registers, the 28-opcode instruction set in short and
// long format, and a fetch-execute loop that dispatches XIO channel commands
// to attached devices.
package cpu
