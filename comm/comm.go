// Package comm parses the remote's text protocol.
//
// A message is either a volume directive (a_<digits>) or a brightness
// directive (b_<digits>). Directives may appear anywhere in the message.
// When both appear, the volume directive wins, even if its level is out of
// range and the brightness one is not.
package comm

import (
	"regexp"
	"strconv"
)

var (
	volumePattern     = regexp.MustCompile(`a_(\d+)`)
	brightnessPattern = regexp.MustCompile(`b_(\d+)`)
)

// Parse never fails: anything it cannot make sense of comes back as an
// Invalid command carrying the text to send to the client.
func Parse(s string) Command {
	if m := volumePattern.FindStringSubmatch(s); m != nil {
		step, ok := parseStep(m[1])
		if !ok {
			return NewInvalidCommand(InvalidAudioLevel)
		}
		return NewSetVolumeCommand(step)
	}
	if m := brightnessPattern.FindStringSubmatch(s); m != nil {
		step, ok := parseStep(m[1])
		if !ok {
			return NewInvalidCommand(InvalidBrightnessLevel)
		}
		return NewSetBrightnessCommand(step)
	}
	return NewInvalidCommand(InvalidFormat)
}

// parseStep reports whether digits is a step in [MinStep, MaxStep]. Digit runs
// too long for an int are simply out of range.
func parseStep(digits string) (int, bool) {
	step, err := strconv.Atoi(digits)
	if err != nil || step < MinStep || step > MaxStep {
		return 0, false
	}
	return step, true
}
