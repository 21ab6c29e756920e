package render

import (
	"maps"
	"time"
)

// Key is a logical input key.
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyStrafeLeft
	KeyStrafeRight
	KeyRise
	KeySink
	KeyYawLeft
	KeyYawRight
	KeyPitchUp
	KeyPitchDown
)

var keyNames = [...]string{
	"forward", "back", "strafe-left", "strafe-right", "rise",
	"sink", "yaw-left", "yaw-right", "pitch-up", "pitch-down",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// KeyState maps each held key to the moment it was pressed.
// A missing entry or a zero time means the key is up.
type KeyState map[Key]time.Time

// Clone returns a copy of s.
func (s KeyState) Clone() KeyState {
	return maps.Clone(s)
}

// Directions is the resolved set of movement and rotation intents. At most
// one member of each opposing pair is set.
type Directions struct {
	Forward, Back           bool
	StrafeLeft, StrafeRight bool
	Rise, Sink              bool
	YawLeft, YawRight       bool
	PitchUp, PitchDown      bool
}

// Resolve computes the active directions from raw key state. Within each
// opposing pair the most recently pressed key wins; equal press times go
// to the second key of the pair.
func Resolve(s KeyState) Directions {
	var d Directions
	d.Forward, d.Back = pick(s[KeyForward], s[KeyBack])
	d.StrafeLeft, d.StrafeRight = pick(s[KeyStrafeLeft], s[KeyStrafeRight])
	d.Rise, d.Sink = pick(s[KeyRise], s[KeySink])
	d.YawLeft, d.YawRight = pick(s[KeyYawLeft], s[KeyYawRight])
	d.PitchUp, d.PitchDown = pick(s[KeyPitchUp], s[KeyPitchDown])
	return d
}

func pick(a, b time.Time) (bool, bool) {
	switch {
	case a.IsZero() && b.IsZero():
		return false, false
	case b.IsZero():
		return true, false
	case a.IsZero():
		return false, true
	case a.After(b):
		return true, false
	default:
		return false, true
	}
}

// KeyTracker accumulates raw press and release events for a frontend.
//
// Terminals report key repeats but often no releases, so each press also
// refreshes a last-seen time that Expire uses to synthesize releases.
type KeyTracker struct {
	pressed  KeyState
	lastSeen map[Key]time.Time
}

// NewKeyTracker creates an empty tracker.
func NewKeyTracker() *KeyTracker {
	return &KeyTracker{
		pressed:  make(KeyState),
		lastSeen: make(map[Key]time.Time),
	}
}

// Press records k as held. Repeats keep the first press time.
func (t *KeyTracker) Press(k Key, at time.Time) {
	if _, ok := t.pressed[k]; !ok {
		t.pressed[k] = at
	}
	t.lastSeen[k] = at
}

// Release marks k as up.
func (t *KeyTracker) Release(k Key) {
	delete(t.pressed, k)
	delete(t.lastSeen, k)
}

// Expire releases keys that have not been seen within hold of now and
// reports whether any key was released.
func (t *KeyTracker) Expire(now time.Time, hold time.Duration) bool {
	changed := false
	for k, seen := range t.lastSeen {
		if now.Sub(seen) > hold {
			t.Release(k)
			changed = true
		}
	}
	return changed
}

// State returns a snapshot of the held keys.
func (t *KeyTracker) State() KeyState {
	return t.pressed.Clone()
}
