package core

// Action represents a semantic control, abstracted from physical key presses.
// Directions feed the movement axis; the remaining actions are only tracked
// as held / just pressed / just released.
type Action uint8

const (
	ActionNone  Action = iota
	ActionUp           // W, Up arrow
	ActionDown         // S, Down arrow
	ActionLeft         // A, Left arrow
	ActionRight        // D, Right arrow
	ActionJump         // Space in gravity demos (flap)
	ActionShoot        // Space in the top-down demo

	actionCount
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionShoot:
		return "Shoot"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether the action contributes to the movement axis.
func (a Action) IsDirection() bool {
	return a >= ActionUp && a <= ActionRight
}

// horizontal reports whether a direction acts on the X component.
func (a Action) horizontal() bool {
	return a == ActionLeft || a == ActionRight
}

// sign returns the axis value a direction drives its component to.
func (a Action) sign() float32 {
	switch a {
	case ActionUp, ActionRight:
		return 1
	case ActionDown, ActionLeft:
		return -1
	default:
		return 0
	}
}

// Key identifies a physical key as reported by the platform.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeySpace
)

// Edge is the transition a key event reports.
type Edge uint8

const (
	Pressed Edge = iota
	Released
)

// KeyEvent is one raw keyboard event for the current frame.
type KeyEvent struct {
	Key    Key
	Edge   Edge
	Repeat bool // auto-repeat while held; ignored by InputState
}

// Press is shorthand for a non-repeat press event.
func Press(k Key) KeyEvent {
	return KeyEvent{Key: k, Edge: Pressed}
}

// Release is shorthand for a release event.
func Release(k Key) KeyEvent {
	return KeyEvent{Key: k, Edge: Released}
}

// KeyMap is the fixed table from physical keys to actions.
type KeyMap map[Key]Action

// movementKeys is shared by every demo.
func movementKeys() KeyMap {
	return KeyMap{
		KeyW:          ActionUp,
		KeyArrowUp:    ActionUp,
		KeyA:          ActionLeft,
		KeyArrowLeft:  ActionLeft,
		KeyS:          ActionDown,
		KeyArrowDown:  ActionDown,
		KeyD:          ActionRight,
		KeyArrowRight: ActionRight,
	}
}

// JumpKeyMap binds movement keys plus Space→Jump.
func JumpKeyMap() KeyMap {
	km := movementKeys()
	km[KeySpace] = ActionJump
	return km
}

// ShootKeyMap binds movement keys plus Space→Shoot.
func ShootKeyMap() KeyMap {
	km := movementKeys()
	km[KeySpace] = ActionShoot
	return km
}

// MovementKeyMap binds only the direction keys.
func MovementKeyMap() KeyMap {
	return movementKeys()
}

// actionSet is a bit set over Action.
type actionSet uint16

func (s actionSet) has(a Action) bool { return s&(1<<a) != 0 }
func (s *actionSet) add(a Action)     { *s |= 1 << a }
func (s *actionSet) remove(a Action)  { *s &^= 1 << a }

// InputState accumulates raw key events into held actions and a discrete
// movement axis. Held actions persist across frames; the just-pressed and
// just-released markers only live for the frame that produced them.
//
// Each axis component is always -1, 0 or 1. It is 0 when no key on that
// component is held, or when both opposing keys are held.
type InputState struct {
	pressed      actionSet
	justPressed  actionSet
	justReleased actionSet
	axis         Vec2
}

// BeginFrame drops the per-frame markers. Held actions and the axis persist.
func (s *InputState) BeginFrame() {
	s.justPressed = 0
	s.justReleased = 0
}

// Apply starts a new frame and processes events in order. Repeat events and
// keys missing from km are skipped individually.
func (s *InputState) Apply(events []KeyEvent, km KeyMap) {
	s.BeginFrame()
	for _, ev := range events {
		if ev.Repeat {
			continue
		}
		a, ok := km[ev.Key]
		if !ok || a == ActionNone {
			continue
		}
		switch ev.Edge {
		case Pressed:
			s.Press(a)
		case Released:
			s.Release(a)
		}
	}
}

// Press marks a as held. Pressing an already held action is a no-op.
func (s *InputState) Press(a Action) {
	if a == ActionNone || a >= actionCount || s.pressed.has(a) {
		return
	}
	s.pressed.add(a)
	s.justPressed.add(a)

	if !a.IsDirection() {
		return
	}
	s.setComponent(a, a.sign())
	// An opposing direction that is still held cancels this one out.
	if s.opposingHeld(a) {
		s.setComponent(a, 0)
	}
}

// Release marks a as no longer held. Releasing an action that is not held
// is a no-op.
func (s *InputState) Release(a Action) {
	if a == ActionNone || a >= actionCount || !s.pressed.has(a) {
		return
	}
	s.pressed.remove(a)
	s.justReleased.add(a)

	if !a.IsDirection() {
		return
	}
	s.setComponent(a, 0)
	// Letting go of one of two opposing keys resumes the other direction.
	for d := ActionUp; d <= ActionRight; d++ {
		if d != a && d.horizontal() == a.horizontal() && s.pressed.has(d) {
			s.setComponent(d, d.sign())
		}
	}
}

// Reset releases everything without producing just-released markers.
func (s *InputState) Reset() {
	*s = InputState{}
}

// Held reports whether a is currently held.
func (s *InputState) Held(a Action) bool {
	return s.pressed.has(a)
}

// JustPressed reports whether a went down this frame.
func (s *InputState) JustPressed(a Action) bool {
	return s.justPressed.has(a)
}

// JustReleased reports whether a went up this frame.
func (s *InputState) JustReleased(a Action) bool {
	return s.justReleased.has(a)
}

// Axis returns the discrete movement axis.
func (s *InputState) Axis() Vec2 {
	return s.axis
}

func (s *InputState) opposingHeld(a Action) bool {
	for d := ActionUp; d <= ActionRight; d++ {
		if d.horizontal() == a.horizontal() && d.sign() == -a.sign() && s.pressed.has(d) {
			return true
		}
	}
	return false
}

func (s *InputState) setComponent(a Action, v float32) {
	if a.horizontal() {
		s.axis.X = v
	} else {
		s.axis.Y = v
	}
}
