package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ivikasavnish/go-scriptgen/pkg/actions"
)

var (
	// ErrOpenPageCall reports that an openPage action reached the method
	// call emitter. openPage becomes a page-creation statement in the
	// translator and must never render as a call on an existing page.
	ErrOpenPageCall = errors.New("openPage cannot be rendered as a method call")

	// ErrUnsupportedAction reports an action kind outside the recorded
	// vocabulary
	ErrUnsupportedAction = errors.New("unsupported action kind")
)

// GeneratorOptions configures one script generation pass
type GeneratorOptions struct {
	BrowserName    string     `json:"browser,omitempty" yaml:"browser,omitempty"`
	LaunchOptions  *OptionMap `json:"launchOptions,omitempty" yaml:"launchOptions,omitempty"`
	ContextOptions *OptionMap `json:"contextOptions,omitempty" yaml:"contextOptions,omitempty"`
	DeviceName     string     `json:"device,omitempty" yaml:"device,omitempty"`
	SaveStorage    string     `json:"saveStorage,omitempty" yaml:"saveStorage,omitempty"`
}

// browser returns the configured browser name, defaulting to chromium
func (o *GeneratorOptions) browser() string {
	if o.BrowserName == "" {
		return "chromium"
	}
	return o.BrowserName
}

// LanguageGenerator renders recorded actions as replayable source code in
// one target language
type LanguageGenerator interface {
	// ID returns the generator's registry key, for example "csharp"
	ID() string
	// GenerateHeader renders the bootstrap block that launches the
	// browser and creates the context
	GenerateHeader(opts *GeneratorOptions) string
	// GenerateAction renders one recorded action with its signal wrappers
	GenerateAction(in *actions.ActionInContext) (string, error)
	// GenerateFooter renders the teardown block closing the program
	GenerateFooter(opts *GeneratorOptions) string
}

// GenerateScript runs a full generation pass over a recording: header,
// every action in order, footer. The output is deterministic for a given
// recording and options.
func GenerateScript(g LanguageGenerator, opts *GeneratorOptions, recording []actions.ActionInContext) (string, error) {
	if opts == nil {
		opts = &GeneratorOptions{}
	}

	parts := make([]string, 0, len(recording)+2)
	parts = append(parts, g.GenerateHeader(opts))
	for i := range recording {
		text, err := g.GenerateAction(&recording[i])
		if err != nil {
			return "", fmt.Errorf("action %d (%s): %w", i, recording[i].Action.Kind(), err)
		}
		parts = append(parts, text)
	}
	parts = append(parts, g.GenerateFooter(opts))

	return strings.Join(parts, "\n") + "\n", nil
}
