package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/ivikasavnish/go-scriptgen/pkg/actions"
)

var (
	ErrNotStarted         = errors.New("player not started")
	ErrPageExists         = errors.New("page alias already in use")
	ErrUnknownPage        = errors.New("unknown page alias")
	ErrNavigationMismatch = errors.New("navigation assertion failed")
)

// Config controls how the player drives the browser
type Config struct {
	Headless    bool
	Proxy       string
	StepTimeout time.Duration
	DownloadDir string
}

// Player replays recorded sessions against a live browser
type Player struct {
	config  Config
	browser *rod.Browser
	pages   map[string]*rod.Page
	logger  *logrus.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// Option configures a Player
type Option func(*Player)

// WithLogger sets the player's logger
func WithLogger(logger *logrus.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithBrowser injects an already connected browser, bypassing Start's
// launcher
func WithBrowser(browser *rod.Browser) Option {
	return func(p *Player) {
		p.browser = browser
	}
}

// NewPlayer creates a player for the given configuration
func NewPlayer(config Config, opts ...Option) *Player {
	if config.StepTimeout <= 0 {
		config.StepTimeout = 30 * time.Second
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		config: config,
		pages:  make(map[string]*rod.Page),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start launches the browser and connects to it
func (p *Player) Start() error {
	if p.browser != nil {
		return nil
	}

	l := launcher.New().Headless(p.config.Headless)
	if path, has := launcher.LookPath(); has {
		l = l.Bin(path)
	}
	if p.config.Proxy != "" {
		l = l.Proxy(p.config.Proxy)
	}

	url, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url).Context(p.ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	p.browser = browser
	return nil
}

// Stop closes the browser and cancels all pending waits
func (p *Player) Stop() error {
	p.cancel()
	if p.browser != nil {
		return p.browser.Close()
	}
	return nil
}

// Play replays every action of the session in order. The first failing
// step aborts the replay.
func (p *Player) Play(session *actions.Session) error {
	if p.browser == nil {
		return ErrNotStarted
	}
	if err := session.Validate(); err != nil {
		return err
	}

	for i := range session.Actions {
		in := &session.Actions[i]
		p.logger.WithFields(logrus.Fields{
			"step": i,
			"kind": in.Action.Kind(),
			"page": in.PageAlias,
		}).Info("replaying action")

		if err := p.step(in); err != nil {
			return fmt.Errorf("step %d (%s) failed: %w", i, in.Action.Kind(), err)
		}
	}

	return nil
}

// step executes a single recorded action with its signals. Waiters are
// armed before the action fires and collected after, in the same order the
// generated code nests them.
func (p *Player) step(in *actions.ActionInContext) error {
	if open, ok := in.Action.(actions.OpenPage); ok {
		return p.openPage(in.PageAlias, open.URL)
	}

	page, ok := p.pages[in.PageAlias]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, in.PageAlias)
	}
	page = page.Timeout(p.config.StepTimeout)

	target, err := frameTarget(page, in.Frame)
	if err != nil {
		return err
	}

	if in.Signal(actions.SignalDialog) != nil {
		p.armDialogDismiss(page)
	}

	var waitNavigation func()
	if in.Signal(actions.SignalWaitForNavigation) != nil {
		waitNavigation = target.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	}

	var waitDownload func() *proto.PageDownloadWillBegin
	if in.Signal(actions.SignalDownload) != nil {
		dir := p.config.DownloadDir
		if dir == "" {
			dir = os.TempDir()
		}
		waitDownload = p.browser.WaitDownload(dir)
	}

	var waitOpen func() (*rod.Page, error)
	var popupAlias string
	if sig := in.Signal(actions.SignalPopup); sig != nil {
		waitOpen = page.WaitOpen()
		popupAlias = sig.Alias
	}

	if err := p.perform(page, target, in.Action); err != nil {
		return err
	}

	if in.Action.Kind() == actions.KindClosePage {
		delete(p.pages, in.PageAlias)
	}

	if waitNavigation != nil {
		waitNavigation()
	}
	if waitDownload != nil {
		info := waitDownload()
		p.logger.WithFields(logrus.Fields{
			"url":  info.URL,
			"file": info.SuggestedFilename,
		}).Info("download finished")
	}
	if waitOpen != nil {
		popup, err := waitOpen()
		if err != nil {
			return fmt.Errorf("popup did not open: %w", err)
		}
		p.pages[popupAlias] = popup
	}

	if sig := in.Signal(actions.SignalAssertNavigation); sig != nil {
		return assertNavigation(target, sig.URL)
	}

	return nil
}

// openPage creates a fresh browser page under the alias
func (p *Player) openPage(alias, url string) error {
	if _, exists := p.pages[alias]; exists {
		return fmt.Errorf("%w: %s", ErrPageExists, alias)
	}

	target := url
	if target == "" {
		target = "about:blank"
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}

	if url != "" && url != "about:blank" && url != "chrome://newtab/" {
		if err := page.Timeout(p.config.StepTimeout).WaitLoad(); err != nil {
			p.logger.WithField("url", url).Warn("load wait timed out")
		}
	}

	p.pages[alias] = page
	return nil
}

// perform dispatches an action to the page or frame it addresses. page is
// the top-level page carrying keyboard focus, target the page or iframe
// the selectors resolve against.
func (p *Player) perform(page, target *rod.Page, action actions.Action) error {
	switch a := action.(type) {
	case actions.OpenPage:
		return errors.New("openPage must create a page, not act on one")

	case actions.ClosePage:
		return page.Close()

	case actions.Navigate:
		if err := target.Navigate(a.URL); err != nil {
			return fmt.Errorf("navigate failed: %w", err)
		}
		if err := target.WaitLoad(); err != nil {
			p.logger.WithField("url", a.URL).Warn("load wait timed out")
		}
		return nil

	case actions.Click:
		el, err := target.Element(a.Selector)
		if err != nil {
			return fmt.Errorf("element not found: %s", a.Selector)
		}
		for _, mod := range a.Modifiers {
			key, ok := modifierKeys[mod]
			if !ok {
				return fmt.Errorf("unsupported modifier: %s", mod)
			}
			if err := page.Keyboard.Press(key); err != nil {
				return err
			}
		}
		count := a.ClickCount
		if count < 1 {
			count = 1
		}
		clickErr := el.Click(mouseButton(a.Button), count)
		for i := len(a.Modifiers) - 1; i >= 0; i-- {
			key := modifierKeys[a.Modifiers[i]]
			if err := page.Keyboard.Release(key); err != nil && clickErr == nil {
				clickErr = err
			}
		}
		if clickErr != nil {
			return fmt.Errorf("click failed: %w", clickErr)
		}
		return nil

	case actions.Check:
		return p.setChecked(target, a.Selector, true)

	case actions.Uncheck:
		return p.setChecked(target, a.Selector, false)

	case actions.Fill:
		el, err := target.Element(a.Selector)
		if err != nil {
			return fmt.Errorf("element not found: %s", a.Selector)
		}
		if err := el.SelectAllText(); err != nil {
			p.logger.WithError(err).Warn("failed to select existing text")
		}
		if err := el.Input(a.Text); err != nil {
			return fmt.Errorf("fill failed: %w", err)
		}
		return nil

	case actions.Press:
		el, err := target.Element(a.Selector)
		if err != nil {
			return fmt.Errorf("element not found: %s", a.Selector)
		}
		if err := el.Focus(); err != nil {
			return fmt.Errorf("focus failed: %w", err)
		}
		key, err := keyFor(a.Key)
		if err != nil {
			return err
		}
		keys := page.KeyActions()
		for _, mod := range a.Modifiers {
			modKey, ok := modifierKeys[mod]
			if !ok {
				return fmt.Errorf("unsupported modifier: %s", mod)
			}
			keys = keys.Press(modKey)
		}
		if err := keys.Type(key).Do(); err != nil {
			return fmt.Errorf("press failed: %w", err)
		}
		return nil

	case actions.Select:
		el, err := target.Element(a.Selector)
		if err != nil {
			return fmt.Errorf("element not found: %s", a.Selector)
		}
		// Try by option text first, then by value attribute
		if err := el.Select(a.Options, true, rod.SelectorTypeText); err != nil {
			selectors := make([]string, len(a.Options))
			for i, opt := range a.Options {
				selectors[i] = fmt.Sprintf(`[value=%q]`, opt)
			}
			if err := el.Select(selectors, true, rod.SelectorTypeCSSSector); err != nil {
				return fmt.Errorf("select failed: %w", err)
			}
		}
		return nil

	case actions.SetInputFiles:
		el, err := target.Element(a.Selector)
		if err != nil {
			return fmt.Errorf("element not found: %s", a.Selector)
		}
		if err := el.SetFiles(a.Files); err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown action type: %s", action.Kind())
	}
}

// setChecked clicks a checkbox only when its state differs from the wanted
// one, so replays are idempotent
func (p *Player) setChecked(target *rod.Page, selector string, checked bool) error {
	el, err := target.Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s", selector)
	}

	current, err := el.Property("checked")
	if err != nil {
		return fmt.Errorf("failed to read checked state: %w", err)
	}
	if current.Bool() == checked {
		return nil
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// armDialogDismiss dismisses the next JavaScript dialog the page opens.
// The wait runs in the background because the dialog suspends the page
// until it is handled.
func (p *Player) armDialogDismiss(page *rod.Page) {
	wait := page.EachEvent(func(e *proto.PageJavascriptDialogOpening) bool {
		p.logger.WithFields(logrus.Fields{
			"type":    string(e.Type),
			"message": e.Message,
		}).Info("dismissing dialog")

		if err := (proto.PageHandleJavaScriptDialog{Accept: false}).Call(page); err != nil {
			p.logger.WithError(err).Warn("failed to dismiss dialog")
		}
		return true
	})
	go wait()
}

// assertNavigation compares the target's current location with the
// recorded URL
func assertNavigation(target *rod.Page, url string) error {
	obj, err := target.Eval(`() => location.href`)
	if err != nil {
		return fmt.Errorf("failed to read location: %w", err)
	}
	if got := obj.Value.Str(); got != url {
		return fmt.Errorf("%w: expected %s, got %s", ErrNavigationMismatch, url, got)
	}
	return nil
}

// frameTarget resolves the page or iframe an action addresses. Frames are
// looked up by name first, by source URL otherwise.
func frameTarget(page *rod.Page, frame actions.Frame) (*rod.Page, error) {
	if frame.IsMain() {
		return page, nil
	}

	selector := fmt.Sprintf(`iframe[name=%q]`, frame.Name)
	if frame.Name == "" {
		selector = fmt.Sprintf(`iframe[src=%q]`, frame.URL)
	}

	el, err := page.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("frame not found: %s", selector)
	}
	return el.Frame()
}

// modifierKeys maps recorded modifier names to held keys
var modifierKeys = map[string]input.Key{
	"Alt":     input.AltLeft,
	"Control": input.ControlLeft,
	"Meta":    input.MetaLeft,
	"Shift":   input.ShiftLeft,
}

// namedKeys maps recorded key names to rod key codes
var namedKeys = map[string]input.Key{
	"Enter":      input.Enter,
	"Tab":        input.Tab,
	"Escape":     input.Escape,
	"Backspace":  input.Backspace,
	"Delete":     input.Delete,
	"ArrowUp":    input.ArrowUp,
	"ArrowDown":  input.ArrowDown,
	"ArrowLeft":  input.ArrowLeft,
	"ArrowRight": input.ArrowRight,
	"Home":       input.Home,
	"End":        input.End,
	"PageUp":     input.PageUp,
	"PageDown":   input.PageDown,
	"Space":      input.Space,
}

// keyFor resolves a recorded key name, falling back to the literal
// character for single-rune keys
func keyFor(name string) (input.Key, error) {
	if key, ok := namedKeys[name]; ok {
		return key, nil
	}
	if len([]rune(name)) == 1 {
		return input.Key([]rune(name)[0]), nil
	}
	return 0, fmt.Errorf("unsupported key: %s", name)
}

// mouseButton maps a recorded button name to the protocol button,
// defaulting to left
func mouseButton(name string) proto.InputMouseButton {
	switch name {
	case "right":
		return proto.InputMouseButtonRight
	case "middle":
		return proto.InputMouseButtonMiddle
	default:
		return proto.InputMouseButtonLeft
	}
}
