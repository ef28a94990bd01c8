package actions

// Signal kind tags
const (
	SignalDialog            = "dialog"
	SignalDownload          = "download"
	SignalPopup             = "popup"
	SignalWaitForNavigation = "waitForNavigation"
	SignalAssertNavigation  = "assertNavigation"
)

// Frame addresses the frame an action targets. The zero value means the
// page's main frame; when both fields are set, Name wins.
type Frame struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// IsMain reports whether the frame is the page's main frame
func (f Frame) IsMain() bool {
	return f.Name == "" && f.URL == ""
}

// Signal describes a side effect observed while an action was recorded,
// such as a dialog opening or a navigation completing
type Signal struct {
	Kind  string `json:"kind" yaml:"kind"`
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DialogSignal marks that the action opened a JavaScript dialog
func DialogSignal(alias string) Signal {
	return Signal{Kind: SignalDialog, Alias: alias}
}

// DownloadSignal marks that the action started a download
func DownloadSignal(alias string) Signal {
	return Signal{Kind: SignalDownload, Alias: alias}
}

// PopupSignal marks that the action opened a new page
func PopupSignal(alias string) Signal {
	return Signal{Kind: SignalPopup, Alias: alias}
}

// WaitForNavigationSignal marks that the action triggered a navigation
// that must complete before the next action runs
func WaitForNavigationSignal(url string) Signal {
	return Signal{Kind: SignalWaitForNavigation, URL: url}
}

// AssertNavigationSignal marks the URL the page is expected to be at
// once the action settles
func AssertNavigationSignal(url string) Signal {
	return Signal{Kind: SignalAssertNavigation, URL: url}
}

// ActionInContext pairs an action with the page, frame and signals it was
// recorded against
type ActionInContext struct {
	PageAlias string
	Frame     Frame
	Action    Action
	Signals   []Signal
}

// Signal returns the last recorded signal of the given kind, or nil
func (c *ActionInContext) Signal(kind string) *Signal {
	var found *Signal
	for i := range c.Signals {
		if c.Signals[i].Kind == kind {
			found = &c.Signals[i]
		}
	}
	return found
}
