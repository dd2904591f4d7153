package config

import (
	"encoding/json"
	"fmt"

	"github.com/extinput/hidremap/internal/policy"
)

// actionDTO is the JSON shape an Action is encoded to when nested inside
// the YAML document's structured fields (§6: "JSON-encoded values for
// structured fields").
type actionDTO struct {
	Kind    string `json:"kind"`
	System  string `json:"system,omitempty"`
	Editing string `json:"editing,omitempty"`
	KeyCode uint16 `json:"key_code,omitempty"`
	Mods    uint64 `json:"modifiers,omitempty"`
}

func encodeAction(a policy.Action) actionDTO {
	switch a.Kind {
	case policy.ActionSystem:
		return actionDTO{Kind: "system", System: a.System.String()}
	case policy.ActionEditing:
		return actionDTO{Kind: "editing", Editing: a.Editing.String()}
	case policy.ActionCustom:
		return actionDTO{Kind: "custom", KeyCode: a.Combo.KeyCode, Mods: uint64(a.Combo.Modifiers)}
	default:
		return actionDTO{Kind: "inert"}
	}
}

func decodeAction(d actionDTO) (policy.Action, error) {
	switch d.Kind {
	case "inert", "":
		return policy.Inert(), nil
	case "system":
		s, err := policy.ParseSystemAction(d.System)
		if err != nil {
			return policy.Action{}, err
		}
		return policy.OfSystem(s), nil
	case "editing":
		e, err := policy.ParseEditingAction(d.Editing)
		if err != nil {
			return policy.Action{}, err
		}
		return policy.OfEditing(e), nil
	case "custom":
		return policy.OfCombo(policy.KeyCombo{KeyCode: d.KeyCode, Modifiers: policy.ModifierMask(d.Mods)}), nil
	default:
		return policy.Action{}, fmt.Errorf("config: unrecognized action kind %q", d.Kind)
	}
}

type buttonMappingDTO struct {
	Button uint8     `json:"button"`
	Action actionDTO `json:"action"`
}

type directionMappingDTO struct {
	Direction string    `json:"direction"`
	Action    actionDTO `json:"action"`
}

type keyboardRemapDTO struct {
	SourceNamed string    `json:"source_named,omitempty"`
	SourceKey   uint16    `json:"source_key_code,omitempty"`
	SourceMods  uint64    `json:"source_modifiers,omitempty"`
	Target      actionDTO `json:"target"`
}

// structuredFields is the envelope for the four structured settings fields,
// marshaled to JSON and stored as a single YAML string scalar (fileDoc
// in config.go), matching the teacher's pattern of hand-picking which fields go
// through YAML directly versus an opaque encoded blob.
type structuredFields struct {
	ExcludedBundleIDs []string              `json:"excluded_bundle_ids,omitempty"`
	ButtonMappings    []buttonMappingDTO    `json:"button_mappings,omitempty"`
	Directions        []directionMappingDTO `json:"directions,omitempty"`
	KeyboardRemaps    []keyboardRemapDTO    `json:"keyboard_remaps,omitempty"`
}

func encodeStructuredFields(s *Settings) (string, error) {
	sf := structuredFields{}
	for id := range s.ExcludedBundleIDs {
		sf.ExcludedBundleIDs = append(sf.ExcludedBundleIDs, id)
	}
	for _, m := range s.ButtonMappings.All() {
		sf.ButtonMappings = append(sf.ButtonMappings, buttonMappingDTO{Button: m.Button, Action: encodeAction(m.Action)})
	}
	for _, d := range s.Directions.All() {
		sf.Directions = append(sf.Directions, directionMappingDTO{Direction: d.Direction.String(), Action: encodeAction(d.Action)})
	}
	for _, r := range s.KeyboardRemaps.All() {
		dto := keyboardRemapDTO{Target: encodeAction(r.Target)}
		if r.Source.IsNamed() {
			dto.SourceNamed = r.Source.Named().String()
		} else {
			combo := r.Source.Custom()
			dto.SourceKey = combo.KeyCode
			dto.SourceMods = uint64(combo.Modifiers)
		}
		sf.KeyboardRemaps = append(sf.KeyboardRemaps, dto)
	}
	data, err := json.Marshal(sf)
	if err != nil {
		return "", fmt.Errorf("config: encoding structured fields: %w", err)
	}
	return string(data), nil
}

func decodeStructuredFields(s *Settings, raw string) error {
	if raw == "" {
		return nil
	}
	var sf structuredFields
	if err := json.Unmarshal([]byte(raw), &sf); err != nil {
		return fmt.Errorf("config: decoding structured fields: %w", err)
	}
	for _, id := range sf.ExcludedBundleIDs {
		s.ExcludedBundleIDs[id] = struct{}{}
	}
	for _, m := range sf.ButtonMappings {
		a, err := decodeAction(m.Action)
		if err != nil {
			return err
		}
		if err := s.ButtonMappings.Set(m.Button, a); err != nil {
			return err
		}
	}
	for _, d := range sf.Directions {
		dir, err := policy.ParseDirection(d.Direction)
		if err != nil {
			return err
		}
		a, err := decodeAction(d.Action)
		if err != nil {
			return err
		}
		s.Directions.Set(dir, a)
	}
	for _, r := range sf.KeyboardRemaps {
		target, err := decodeAction(r.Target)
		if err != nil {
			return err
		}
		var src policy.KeySource
		if r.SourceNamed != "" {
			n, err := policy.ParseNamedKey(r.SourceNamed)
			if err != nil {
				return err
			}
			src = policy.NamedSource(n)
		} else {
			src = policy.CustomSource(policy.KeyCombo{KeyCode: r.SourceKey, Modifiers: policy.ModifierMask(r.SourceMods)})
		}
		s.KeyboardRemaps.Add(policy.KeyboardRemap{Source: src, Target: target})
	}
	return nil
}
