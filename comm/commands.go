package comm

const (
	MinStep = 1
	MaxStep = 10
)

const (
	InvalidAudioLevel      = "Invalid audio level. Please use 1-10."
	InvalidBrightnessLevel = "Invalid brightness level. Please use 1-10."
	InvalidFormat          = "Invalid message format. Use 'a_X' for audio or 'b_X' for brightness (X: 1-10)"
)

func NewSetVolumeCommand(step int) Command {
	return Command{Kind: SetVolume, Step: step}
}

func NewSetBrightnessCommand(step int) Command {
	return Command{Kind: SetBrightness, Step: step}
}

func NewInvalidCommand(reason string) Command {
	return Command{Kind: Invalid, Reason: reason}
}
