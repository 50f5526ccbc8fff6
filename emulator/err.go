package emulator

import (
	"errors"

	"github.com/wrightmikea/s1130/translate"
)

var f = translate.From

var (
	// ErrNoProgram reports a run or dump with nothing loaded.
	ErrNoProgram = errors.New(f("no program loaded"))
)
