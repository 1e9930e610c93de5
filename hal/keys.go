package hal

// keyBinding ties a keyboard key to a simulated input pin.
type keyBinding struct {
	key rune
	pin Driver
}
