// Package input maps keyboard and gamepad state onto driver keys.
package input

import (
	"github.com/automoto/racetrainer/agent"
	"github.com/hajimehoshi/ebiten/v2"
)

// Binding represents the keys and buttons that hold one driver key down
type Binding struct {
	Keys                   []ebiten.Key
	StandardGamepadButtons []ebiten.StandardGamepadButton
}

// Bindings holds all driver key mappings
type Bindings map[agent.Key]Binding

// DefaultBindings follows the classic layout: space to accelerate, A/D
// to steer. Arrow keys and a gamepad work too.
func DefaultBindings() Bindings {
	return Bindings{
		agent.KeyAccelerate: {
			Keys: []ebiten.Key{ebiten.KeySpace, ebiten.KeyUp, ebiten.KeyW},
			StandardGamepadButtons: []ebiten.StandardGamepadButton{
				ebiten.StandardGamepadButtonRightBottom,
				ebiten.StandardGamepadButtonFrontBottomRight,
			},
		},
		agent.KeySteerLeft: {
			Keys: []ebiten.Key{ebiten.KeyA, ebiten.KeyLeft},
			StandardGamepadButtons: []ebiten.StandardGamepadButton{
				ebiten.StandardGamepadButtonLeftLeft,
			},
		},
		agent.KeySteerRight: {
			Keys: []ebiten.Key{ebiten.KeyD, ebiten.KeyRight},
			StandardGamepadButtons: []ebiten.StandardGamepadButton{
				ebiten.StandardGamepadButtonLeftRight,
			},
		},
	}
}

// Keyboard reads live ebiten input. It satisfies agent.KeyState.
type Keyboard struct {
	bindings Bindings
	// Reusable slice for gamepad IDs to avoid allocations
	gamepadIDs []ebiten.GamepadID
}

func NewKeyboard(bindings Bindings) *Keyboard {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Keyboard{bindings: bindings}
}

// IsPressed reports whether any binding of key is held.
func (k *Keyboard) IsPressed(key agent.Key) bool {
	binding, ok := k.bindings[key]
	if !ok {
		return false
	}

	for _, ek := range binding.Keys {
		if ebiten.IsKeyPressed(ek) {
			return true
		}
	}

	k.gamepadIDs = ebiten.AppendGamepadIDs(k.gamepadIDs[:0])
	for _, id := range k.gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, b := range binding.StandardGamepadButtons {
			if ebiten.IsStandardGamepadButtonPressed(id, b) {
				return true
			}
		}
	}
	return false
}
