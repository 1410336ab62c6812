package comm

type commandKind int

// commandKind values
const (
	Invalid commandKind = iota
	SetVolume
	SetBrightness
)

func (k commandKind) String() string {
	switch k {
	case SetVolume:
		return "volume"
	case SetBrightness:
		return "brightness"
	default:
		return "invalid"
	}
}

// Command is the parsed form of one inbound text message. Step is set for
// SetVolume and SetBrightness, Reason only for Invalid.
type Command struct {
	Kind   commandKind
	Step   int
	Reason string
}

// Percentage is the device level a valid command asks for.
func (c Command) Percentage() int {
	return c.Step * 10
}
