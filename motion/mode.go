package motion

// Mode is the active behavioral mode of the pet. Exactly one is active.
type Mode uint8

const (
	ModeWander Mode = iota
	ModeFollow
	ModeCurious
	ModeRest

	modeCount
)

// Modes lists every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, 0, modeCount)
	for m := Mode(0); m < modeCount; m++ {
		out = append(out, m)
	}
	return out
}

func (m Mode) String() string {
	switch m {
	case ModeWander:
		return "wander"
	case ModeFollow:
		return "follow"
	case ModeCurious:
		return "curious"
	case ModeRest:
		return "rest"
	}
	return "unknown"
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes() {
		if m.String() == s {
			return m, true
		}
	}
	return ModeWander, false
}

// MouseReactive reports whether the mode is driven by the pointer.
func (m Mode) MouseReactive() bool {
	return m == ModeFollow || m == ModeCurious
}
