package actions

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrUnknownAction = errors.New("unknown action kind")

// actionWire is the serialized form of the Action union: the kind tag plus
// the superset of all variant fields
type actionWire struct {
	Kind       string   `json:"kind" yaml:"kind"`
	URL        string   `json:"url,omitempty" yaml:"url,omitempty"`
	Selector   string   `json:"selector,omitempty" yaml:"selector,omitempty"`
	Button     string   `json:"button,omitempty" yaml:"button,omitempty"`
	Modifiers  []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	ClickCount int      `json:"clickCount,omitempty" yaml:"clickCount,omitempty"`
	Text       string   `json:"text,omitempty" yaml:"text,omitempty"`
	Key        string   `json:"key,omitempty" yaml:"key,omitempty"`
	Files      []string `json:"files,omitempty" yaml:"files,omitempty"`
	Options    []string `json:"options,omitempty" yaml:"options,omitempty"`
}

func wireFromAction(a Action) (actionWire, error) {
	switch action := a.(type) {
	case OpenPage:
		return actionWire{Kind: KindOpenPage, URL: action.URL}, nil
	case ClosePage:
		return actionWire{Kind: KindClosePage}, nil
	case Click:
		return actionWire{
			Kind:       KindClick,
			Selector:   action.Selector,
			Button:     action.Button,
			Modifiers:  action.Modifiers,
			ClickCount: action.ClickCount,
		}, nil
	case Check:
		return actionWire{Kind: KindCheck, Selector: action.Selector}, nil
	case Uncheck:
		return actionWire{Kind: KindUncheck, Selector: action.Selector}, nil
	case Fill:
		return actionWire{Kind: KindFill, Selector: action.Selector, Text: action.Text}, nil
	case SetInputFiles:
		return actionWire{Kind: KindSetInputFiles, Selector: action.Selector, Files: action.Files}, nil
	case Press:
		return actionWire{Kind: KindPress, Selector: action.Selector, Key: action.Key, Modifiers: action.Modifiers}, nil
	case Navigate:
		return actionWire{Kind: KindNavigate, URL: action.URL}, nil
	case Select:
		return actionWire{Kind: KindSelect, Selector: action.Selector, Options: action.Options}, nil
	default:
		return actionWire{}, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

func (w actionWire) action() (Action, error) {
	switch w.Kind {
	case KindOpenPage:
		return OpenPage{URL: w.URL}, nil
	case KindClosePage:
		return ClosePage{}, nil
	case KindClick:
		return Click{
			Selector:   w.Selector,
			Button:     w.Button,
			Modifiers:  w.Modifiers,
			ClickCount: w.ClickCount,
		}, nil
	case KindCheck:
		return Check{Selector: w.Selector}, nil
	case KindUncheck:
		return Uncheck{Selector: w.Selector}, nil
	case KindFill:
		return Fill{Selector: w.Selector, Text: w.Text}, nil
	case KindSetInputFiles:
		return SetInputFiles{Selector: w.Selector, Files: w.Files}, nil
	case KindPress:
		return Press{Selector: w.Selector, Key: w.Key, Modifiers: w.Modifiers}, nil
	case KindNavigate:
		return Navigate{URL: w.URL}, nil
	case KindSelect:
		return Select{Selector: w.Selector, Options: w.Options}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, w.Kind)
	}
}

// actionInContextWire mirrors ActionInContext with the action flattened to
// its wire form
type actionInContextWire struct {
	PageAlias string     `json:"pageAlias" yaml:"pageAlias"`
	Frame     Frame      `json:"frame,omitempty" yaml:"frame,omitempty"`
	Action    actionWire `json:"action" yaml:"action"`
	Signals   []Signal   `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// MarshalJSON encodes the action with its kind tag
func (c ActionInContext) MarshalJSON() ([]byte, error) {
	w, err := wireFromAction(c.Action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(actionInContextWire{
		PageAlias: c.PageAlias,
		Frame:     c.Frame,
		Action:    w,
		Signals:   c.Signals,
	})
}

// UnmarshalJSON decodes the action from its kind tag
func (c *ActionInContext) UnmarshalJSON(data []byte) error {
	var w actionInContextWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	action, err := w.Action.action()
	if err != nil {
		return err
	}
	*c = ActionInContext{
		PageAlias: w.PageAlias,
		Frame:     w.Frame,
		Action:    action,
		Signals:   w.Signals,
	}
	return nil
}

// MarshalYAML encodes the action with its kind tag
func (c ActionInContext) MarshalYAML() (interface{}, error) {
	w, err := wireFromAction(c.Action)
	if err != nil {
		return nil, err
	}
	return actionInContextWire{
		PageAlias: c.PageAlias,
		Frame:     c.Frame,
		Action:    w,
		Signals:   c.Signals,
	}, nil
}

// UnmarshalYAML decodes the action from its kind tag
func (c *ActionInContext) UnmarshalYAML(node *yaml.Node) error {
	var w actionInContextWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	action, err := w.Action.action()
	if err != nil {
		return err
	}
	*c = ActionInContext{
		PageAlias: w.PageAlias,
		Frame:     w.Frame,
		Action:    action,
		Signals:   w.Signals,
	}
	return nil
}
