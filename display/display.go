// Copyright © 2023 EcoSwell

// Package display shows human readable status messages on the board's
// LCD or, without one, on the console.
package display

import (
	"time"
)

// Notifier is the status display. Nothing depends on its success, so it
// reports no errors.
type Notifier interface {
	ShowMessage(text string, hint time.Duration)
	BacklightOn()
	BacklightOff()
}

// Nop discards every message.
type Nop struct{}

func (Nop) ShowMessage(string, time.Duration) {}
func (Nop) BacklightOn()                      {}
func (Nop) BacklightOff()                     {}

// Announce lights the display, shows text and clears it again after hold.
// It does not block; the returned timer can be stopped to keep the message.
func Announce(n Notifier, text string, hold time.Duration) *time.Timer {
	n.BacklightOn()
	n.ShowMessage(text, hold)
	return time.AfterFunc(hold, func() {
		n.ShowMessage("", 0)
		n.BacklightOff()
	})
}
