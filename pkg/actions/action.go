package actions

import (
	"fmt"
	"strings"
)

// Action kind tags
const (
	KindOpenPage      = "openPage"
	KindClosePage     = "closePage"
	KindClick         = "click"
	KindCheck         = "check"
	KindUncheck       = "uncheck"
	KindFill          = "fill"
	KindSetInputFiles = "setInputFiles"
	KindPress         = "press"
	KindNavigate      = "navigate"
	KindSelect        = "select"
)

// Action represents a single recorded user interaction. The set of
// implementations is closed; generators and players dispatch on the
// concrete type.
type Action interface {
	// Kind returns the action's wire tag
	Kind() string
	// Title returns a short human-readable description of the action
	Title() string

	isAction()
}

// OpenPage opens a new page and optionally navigates it to URL
type OpenPage struct {
	URL string
}

func (OpenPage) Kind() string  { return KindOpenPage }
func (OpenPage) Title() string { return "Open new page" }
func (OpenPage) isAction()     {}

// ClosePage closes the page it is recorded against
type ClosePage struct{}

func (ClosePage) Kind() string  { return KindClosePage }
func (ClosePage) Title() string { return "Close page" }
func (ClosePage) isAction()     {}

// Click clicks the element matching Selector
type Click struct {
	Selector   string
	Button     string   // "left", "middle" or "right"; empty means left
	Modifiers  []string // "Alt", "Control", "Meta", "Shift"
	ClickCount int      // 0 and 1 both mean a single click
}

func (Click) Kind() string { return KindClick }

func (a Click) Title() string {
	switch a.ClickCount {
	case 0, 1:
		return "Click " + a.Selector
	case 2:
		return "Double click " + a.Selector
	case 3:
		return "Triple click " + a.Selector
	default:
		return fmt.Sprintf("%dx click %s", a.ClickCount, a.Selector)
	}
}

func (Click) isAction() {}

// Check checks the checkbox matching Selector
type Check struct {
	Selector string
}

func (Check) Kind() string    { return KindCheck }
func (a Check) Title() string { return "Check " + a.Selector }
func (Check) isAction()       {}

// Uncheck unchecks the checkbox matching Selector
type Uncheck struct {
	Selector string
}

func (Uncheck) Kind() string    { return KindUncheck }
func (a Uncheck) Title() string { return "Uncheck " + a.Selector }
func (Uncheck) isAction()       {}

// Fill replaces the content of the input matching Selector with Text
type Fill struct {
	Selector string
	Text     string
}

func (Fill) Kind() string    { return KindFill }
func (a Fill) Title() string { return "Fill " + a.Selector }
func (Fill) isAction()       {}

// SetInputFiles attaches Files to the file input matching Selector.
// An empty list clears the current selection.
type SetInputFiles struct {
	Selector string
	Files    []string
}

func (SetInputFiles) Kind() string { return KindSetInputFiles }

func (a SetInputFiles) Title() string {
	if len(a.Files) == 0 {
		return "Clear selected files"
	}
	return "Upload " + strings.Join(a.Files, ", ")
}

func (SetInputFiles) isAction() {}

// Press sends a key chord to the element matching Selector
type Press struct {
	Selector  string
	Key       string
	Modifiers []string
}

func (Press) Kind() string { return KindPress }

func (a Press) Title() string {
	if len(a.Modifiers) > 0 {
		return fmt.Sprintf("Press %s with modifiers", a.Key)
	}
	return "Press " + a.Key
}

func (Press) isAction() {}

// Navigate loads URL in the current page
type Navigate struct {
	URL string
}

func (Navigate) Kind() string    { return KindNavigate }
func (a Navigate) Title() string { return "Go to " + a.URL }
func (Navigate) isAction()       {}

// Select chooses Options in the select element matching Selector
type Select struct {
	Selector string
	Options  []string
}

func (Select) Kind() string    { return KindSelect }
func (a Select) Title() string { return "Select " + strings.Join(a.Options, ", ") }
func (Select) isAction()       {}
