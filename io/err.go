package io

import (
	"fmt"

	"github.com/wrightmikea/s1130/translate"
)

var f = translate.From

// ErrInvalidDevice reports a dispatch to a device code with nothing attached.
type ErrInvalidDevice uint8

func (e ErrInvalidDevice) Error() string {
	return fmt.Sprintf(f("no device attached at code %d"), uint8(e))
}

// ErrDevice reports a device refusing or failing a channel command.
type ErrDevice struct {
	Device string
	Reason string
}

func (e ErrDevice) Error() string {
	return fmt.Sprintf(f("%v: %v"), e.Device, e.Reason)
}
