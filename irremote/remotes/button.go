package remotes

import (
	"fmt"
	"strings"
)

// StandardButton names a key on a remote control
type StandardButton uint8

const (
	None StandardButton = iota
	Power
	Zero
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	VolumeUp
	VolumeDown
	Mute
	ChannelUp
	ChannelDown
	ChannelList
	Teletext
	Source
	Menu
	Info
	Guide
	Back
	Exit
	Ok
	Up
	Down
	Left
	Right
	Play
	Pause
	PlayPause
	Stop
	Record
	Rewind
	FastForward
	Next
	Prev
	Red
	Green
	Yellow
	Blue
	Eq
	Plus100
	Plus200
	Subtitle
	Setup
	Random
	Repeat

	numButtons
)

var buttonNames = [numButtons]string{
	None:        "None",
	Power:       "Power",
	Zero:        "Zero",
	One:         "One",
	Two:         "Two",
	Three:       "Three",
	Four:        "Four",
	Five:        "Five",
	Six:         "Six",
	Seven:       "Seven",
	Eight:       "Eight",
	Nine:        "Nine",
	VolumeUp:    "VolumeUp",
	VolumeDown:  "VolumeDown",
	Mute:        "Mute",
	ChannelUp:   "ChannelUp",
	ChannelDown: "ChannelDown",
	ChannelList: "ChannelList",
	Teletext:    "Teletext",
	Source:      "Source",
	Menu:        "Menu",
	Info:        "Info",
	Guide:       "Guide",
	Back:        "Back",
	Exit:        "Exit",
	Ok:          "Ok",
	Up:          "Up",
	Down:        "Down",
	Left:        "Left",
	Right:       "Right",
	Play:        "Play",
	Pause:       "Pause",
	PlayPause:   "PlayPause",
	Stop:        "Stop",
	Record:      "Record",
	Rewind:      "Rewind",
	FastForward: "FastForward",
	Next:        "Next",
	Prev:        "Prev",
	Red:         "Red",
	Green:       "Green",
	Yellow:      "Yellow",
	Blue:        "Blue",
	Eq:          "Eq",
	Plus100:     "Plus100",
	Plus200:     "Plus200",
	Subtitle:    "Subtitle",
	Setup:       "Setup",
	Random:      "Random",
	Repeat:      "Repeat",
}

func (b StandardButton) String() string {
	if b < numButtons {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// ParseButton returns the button with the given name, ignoring case
func ParseButton(name string) (StandardButton, error) {
	for b, n := range buttonNames {
		if b != int(None) && strings.EqualFold(n, strings.TrimSpace(name)) {
			return StandardButton(b), nil
		}
	}
	return None, fmt.Errorf("remotes: unknown button %q", name)
}
