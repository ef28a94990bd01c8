package actions

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"time"
)

// Recorder accumulates recorded actions and hands out the aliases that
// keep page, popup, download and dialog references unique within one
// recording.
type Recorder struct {
	actions   []ActionInContext
	pages     int
	popups    int
	downloads int
	dialogs   int
	logger    *log.Logger
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithLogger sets a custom logger for the recorder
func WithLogger(logger *log.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates an empty recorder
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		actions: make([]ActionInContext, 0),
		logger:  log.New(io.Discard, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPageAlias returns the next free page variable name. The first page is
// called "page", later ones "page1", "page2" and so on.
func (r *Recorder) NewPageAlias() string {
	alias := "page"
	if r.pages > 0 {
		alias = fmt.Sprintf("page%d", r.pages)
	}
	r.pages++
	return alias
}

// NewPopupAlias returns the next free popup variable name, starting at
// "popup1"
func (r *Recorder) NewPopupAlias() string {
	r.popups++
	return fmt.Sprintf("popup%d", r.popups)
}

// NewDownloadAlias returns the numeric suffix for the next download
// variable, starting at "1"
func (r *Recorder) NewDownloadAlias() string {
	r.downloads++
	return strconv.Itoa(r.downloads)
}

// NewDialogAlias returns the numeric suffix for the next dialog handler,
// starting at "1"
func (r *Recorder) NewDialogAlias() string {
	r.dialogs++
	return strconv.Itoa(r.dialogs)
}

// Record appends an action to the recording
func (r *Recorder) Record(in ActionInContext) {
	r.logger.Printf("Recorded %s on %s", in.Action.Kind(), in.PageAlias)
	r.actions = append(r.actions, in)
}

// OpenPage records an openPage action under a fresh alias and returns the
// alias for use by the actions that follow
func (r *Recorder) OpenPage(url string) string {
	alias := r.NewPageAlias()
	r.Record(ActionInContext{
		PageAlias: alias,
		Action:    OpenPage{URL: url},
	})
	return alias
}

// Actions returns a copy of the recorded actions in recording order
func (r *Recorder) Actions() []ActionInContext {
	actions := make([]ActionInContext, len(r.actions))
	copy(actions, r.actions)
	return actions
}

// Session packages the recording under a name
func (r *Recorder) Session(name string) *Session {
	return &Session{
		Name:      name,
		CreatedAt: time.Now(),
		Actions:   r.Actions(),
	}
}
