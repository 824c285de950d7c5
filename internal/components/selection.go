package components

import (
	"encoding/json"
	"fmt"
)

// Selection is one widget chosen for a turn.
type Selection struct {
	Component ID
	Props     Props
	Reasoning string
}

type wireSelection struct {
	ComponentName string          `json:"componentName"`
	Props         json.RawMessage `json:"props"`
	Reasoning     string          `json:"reasoning"`
}

// MarshalJSON renders {componentName, props, reasoning}; props is {} when empty.
func (s Selection) MarshalJSON() ([]byte, error) {
	if err := checkProps(s.Component, s.Props); err != nil {
		return nil, err
	}
	props := json.RawMessage("{}")
	if s.Props != nil {
		b, err := json.Marshal(s.Props)
		if err != nil {
			return nil, err
		}
		props = b
	}
	return json.Marshal(wireSelection{
		ComponentName: string(s.Component),
		Props:         props,
		Reasoning:     s.Reasoning,
	})
}

// UnmarshalJSON rejects unknown component names and decodes props loosely.
func (s *Selection) UnmarshalJSON(b []byte) error {
	var w wireSelection
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	id, err := ParseID(w.ComponentName)
	if err != nil {
		return err
	}
	*s = Selection{Component: id, Props: decodeProps(id, w.Props), Reasoning: w.Reasoning}
	return nil
}

// DecodeSelections decodes a JSON array of selections, dropping entries that
// name unknown widgets. The second return value lists what was dropped.
func DecodeSelections(raw json.RawMessage) ([]Selection, []string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil, fmt.Errorf("components must be an array: %w", err)
	}
	out := make([]Selection, 0, len(items))
	var dropped []string
	for _, item := range items {
		var sel Selection
		if err := sel.UnmarshalJSON(item); err != nil {
			dropped = append(dropped, string(item))
			continue
		}
		out = append(out, sel)
	}
	return out, dropped, nil
}

// IDs returns the component of each selection in order.
func IDs(sels []Selection) []ID {
	out := make([]ID, len(sels))
	for i, s := range sels {
		out[i] = s.Component
	}
	return out
}
