package dispatch

import (
	"github.com/extinput/hidremap/internal/policy"
	"github.com/extinput/hidremap/internal/quartz"
	"github.com/extinput/hidremap/internal/source"
)

// Dedicated HID key codes used as the fallback path when the private
// symbolic-hotkey notification fails to resolve (§4.5).
const (
	keyCodeF3  uint16 = 0x63 // Mission Control / App Exposé
	keyCodeF4  uint16 = 0x76 // Launchpad
	keyCodeF11 uint16 = 0x67 // Show Desktop
)

// DefaultExecutor returns the production action executor: named editing
// actions synthesize their key combo, MiddleClick synthesizes a real
// middle-button click, system actions fire via the symbolic-hotkey bridge
// (or a dedicated-keycode fallback), and Show Desktop always goes through
// the F11/function-key path (§4.5).
func DefaultExecutor() func(policy.Action) {
	return func(a policy.Action) {
		switch a.Kind {
		case policy.ActionInert:
			return
		case policy.ActionSystem:
			executeSystem(a.System)
		case policy.ActionEditing:
			if a.Editing == policy.MiddleClick {
				source.PostMiddleClick()
				return
			}
			if combo, ok := a.KeyCombo(); ok {
				source.PostKeyCombo(combo)
			}
		case policy.ActionCustom:
			if combo, ok := a.KeyCombo(); ok {
				source.PostKeyCombo(combo)
			}
		}
	}
}

func executeSystem(action policy.SystemAction) {
	switch action {
	case policy.MissionControl:
		if err := quartz.Fire(quartz.HotKeyMissionControl); err != nil {
			source.PostFunctionKey(keyCodeF3, 0)
		}
	case policy.AppExpose:
		if err := quartz.Fire(quartz.HotKeyAppExpose); err != nil {
			source.PostFunctionKey(keyCodeF3, quartz.KCGEventFlagMaskControl)
		}
	case policy.Launchpad:
		if err := quartz.Fire(quartz.HotKeyLaunchpad); err != nil {
			source.PostFunctionKey(keyCodeF4, 0)
		}
	case policy.ShowDesktop:
		source.PostFunctionKey(keyCodeF11, 0)
	case policy.SwitchSpaceLeft:
		_ = quartz.Fire(quartz.HotKeySwitchSpaceLeft)
	case policy.SwitchSpaceRight:
		_ = quartz.Fire(quartz.HotKeySwitchSpaceRight)
	}
}
