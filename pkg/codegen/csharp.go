package codegen

import (
	"fmt"
	"strings"

	"github.com/ivikasavnish/go-scriptgen/pkg/actions"
)

// Blank page URLs a fresh page is never explicitly navigated to
const (
	aboutBlank   = "about:blank"
	chromeNewTab = "chrome://newtab/"
)

// CSharpGenerator renders recorded actions as a self-contained Playwright
// .NET console program
type CSharpGenerator struct {
	devices *DeviceRegistry
}

// NewCSharpGenerator creates a C# generator that resolves device names
// against registry; nil means the built-in presets
func NewCSharpGenerator(registry *DeviceRegistry) *CSharpGenerator {
	if registry == nil {
		registry = DefaultDevices()
	}
	return &CSharpGenerator{devices: registry}
}

// ID implements LanguageGenerator
func (g *CSharpGenerator) ID() string {
	return "csharp"
}

// GenerateHeader renders the usings, the program skeleton, the browser
// launch and the context construction
func (g *CSharpGenerator) GenerateHeader(opts *GeneratorOptions) string {
	f := NewFormatter(0)
	f.Add(fmt.Sprintf(`using Microsoft.Playwright;
using System;
using System.Threading.Tasks;

class Program
{
    public static async Task Main()
    {
        using var playwright = await Playwright.CreateAsync();
        await using var browser = await playwright.%s.LaunchAsync(%s);
        var context = await browser.NewContextAsync(%s);`,
		pascal(opts.browser()),
		formatValue(opts.LaunchOptions, "BrowserTypeLaunchOptions"),
		g.formatContextOptions(opts.ContextOptions, opts.DeviceName)))
	return f.Format()
}

// GenerateFooter renders the optional storage-state save and closes the
// program
func (g *CSharpGenerator) GenerateFooter(opts *GeneratorOptions) string {
	var b strings.Builder
	if opts.SaveStorage != "" {
		f := NewFormatter(8)
		f.NewLine()
		storage := NewOptionMap().Set("path", opts.SaveStorage)
		f.Add(fmt.Sprintf("await context.StorageStateAsync(%s);",
			formatValue(storage, "BrowserContextStorageStateOptions")))
		b.WriteString(f.Format())
		b.WriteString("\n")
	}
	b.WriteString("    }\n}")
	return b.String()
}

// GenerateAction renders one recorded action: a title comment, the dialog
// handler when one is attached, the awaited call on the page or frame, and
// the signal wrappers nested popup over download over navigation
func (g *CSharpGenerator) GenerateAction(in *actions.ActionInContext) (string, error) {
	f := NewFormatter(8)
	f.NewLine()
	f.Add("// " + in.Action.Title())

	if open, ok := in.Action.(actions.OpenPage); ok {
		f.Add(fmt.Sprintf("var %s = await context.NewPageAsync();", in.PageAlias))
		if open.URL != "" && open.URL != aboutBlank && open.URL != chromeNewTab {
			f.Add(fmt.Sprintf("await %s.GotoAsync(%s);", in.PageAlias, quote(open.URL)))
		}
		return f.Format(), nil
	}

	subject := subjectExpr(in)
	isPage := in.Frame.IsMain()

	if dialog := in.Signal(actions.SignalDialog); dialog != nil {
		handler := fmt.Sprintf("%s_Dialog%s_EventHandler", in.PageAlias, dialog.Alias)
		f.Add(fmt.Sprintf(`void %s(object sender, IDialog dialog)
{
    Console.WriteLine($"Dialog message: {dialog.Message}");
    dialog.DismissAsync();
    %s.Dialog -= %s;
}
%s.Dialog += %s;`, handler, in.PageAlias, handler, in.PageAlias, handler))
	}

	call, err := generateActionCall(in.Action, isPage)
	if err != nil {
		return "", err
	}
	lines := []string{fmt.Sprintf("await %s.%s;", subject, call)}

	if navigation := in.Signal(actions.SignalWaitForNavigation); navigation != nil {
		scope := "Frame"
		if isPage {
			scope = "Page"
		}
		lines = wrapStatement(lines,
			fmt.Sprintf("await %s.RunAndWaitForNavigationAsync(async () =>", subject),
			fmt.Sprintf("}/*, new %sRunAndWaitForNavigationOptions { UrlString = %s } */);",
				scope, quote(navigation.URL)))
	}
	if download := in.Signal(actions.SignalDownload); download != nil {
		lines = wrapStatement(lines,
			fmt.Sprintf("var download%s = await %s.RunAndWaitForDownloadAsync(async () =>",
				download.Alias, in.PageAlias),
			"});")
	}
	if popup := in.Signal(actions.SignalPopup); popup != nil {
		lines = wrapStatement(lines,
			fmt.Sprintf("var %s = await %s.RunAndWaitForPopupAsync(async () =>",
				popup.Alias, in.PageAlias),
			"});")
	}

	for _, line := range lines {
		f.Add(line)
	}

	if assertion := in.Signal(actions.SignalAssertNavigation); assertion != nil {
		f.Add(fmt.Sprintf("// Assert.Equal(%s, %s.Url);", quote(assertion.URL), subject))
	}

	return f.Format(), nil
}

// wrapStatement nests lines inside an awaited callback block: the call and
// its opening brace in front, the closing line behind
func wrapStatement(lines []string, call, closer string) []string {
	wrapped := make([]string, 0, len(lines)+3)
	wrapped = append(wrapped, call, "{")
	wrapped = append(wrapped, lines...)
	wrapped = append(wrapped, closer)
	return wrapped
}

// subjectExpr resolves the expression an action's call is invoked on: the
// page alias itself, or a frame lookup by name or URL
func subjectExpr(in *actions.ActionInContext) string {
	switch {
	case in.Frame.IsMain():
		return in.PageAlias
	case in.Frame.Name != "":
		return fmt.Sprintf("%s.Frame(%s)", in.PageAlias, quote(in.Frame.Name))
	default:
		return fmt.Sprintf("%s.FrameByUrl(%s)", in.PageAlias, quote(in.Frame.URL))
	}
}

// formatContextOptions renders the argument of NewContextAsync. With a
// known device the preset feeds the constructor and only the explicit
// options that differ from it render in the initializer.
func (g *CSharpGenerator) formatContextOptions(options *OptionMap, deviceName string) string {
	device, known := g.devices.Lookup(deviceName)
	if !known {
		return formatValue(options, "BrowserNewContextOptions")
	}

	lookup := fmt.Sprintf("playwright.Devices[%s]", quote(deviceName))
	cleaned := mergeDeviceOptions(device.Options, options)
	if cleaned.Len() == 0 {
		return lookup
	}

	var b strings.Builder
	b.WriteString("new BrowserNewContextOptions(" + lookup + ")\n{\n")
	for _, key := range cleaned.Keys() {
		value, _ := cleaned.Get(key)
		b.WriteString(propertyName(key) + " = " + formatValue(value, key) + ",\n")
	}
	b.WriteString("}")
	return b.String()
}

// generateActionCall maps an action to the method call fragment invoked on
// its subject. isPage selects page- or frame-typed option classes.
func generateActionCall(action actions.Action, isPage bool) (string, error) {
	switch a := action.(type) {
	case actions.OpenPage:
		return "", ErrOpenPageCall
	case actions.ClosePage:
		return "CloseAsync()", nil
	case actions.Click:
		method := "Click"
		if a.ClickCount == 2 {
			method = "DblClick"
		}
		options := NewOptionMap()
		if a.Button != "" && a.Button != "left" {
			options.Set("button", a.Button)
		}
		if len(a.Modifiers) > 0 {
			options.Set("modifiers", a.Modifiers)
		}
		if a.ClickCount > 2 {
			options.Set("clickCount", a.ClickCount)
		}
		if options.Len() == 0 {
			return fmt.Sprintf("%sAsync(%s)", method, quote(a.Selector)), nil
		}
		scope := "Frame"
		if isPage {
			scope = "Page"
		}
		return fmt.Sprintf("%sAsync(%s, %s)", method, quote(a.Selector),
			formatValue(options, scope+method+"Options")), nil
	case actions.Check:
		return fmt.Sprintf("CheckAsync(%s)", quote(a.Selector)), nil
	case actions.Uncheck:
		return fmt.Sprintf("UncheckAsync(%s)", quote(a.Selector)), nil
	case actions.Fill:
		return fmt.Sprintf("FillAsync(%s, %s)", quote(a.Selector), quote(a.Text)), nil
	case actions.SetInputFiles:
		return fmt.Sprintf("SetInputFilesAsync(%s, %s)", quote(a.Selector),
			formatValue(collapseList(a.Files), "")), nil
	case actions.Press:
		shortcut := strings.Join(append(append([]string{}, a.Modifiers...), a.Key), "+")
		return fmt.Sprintf("PressAsync(%s, %s)", quote(a.Selector), quote(shortcut)), nil
	case actions.Navigate:
		return fmt.Sprintf("GotoAsync(%s)", quote(a.URL)), nil
	case actions.Select:
		return fmt.Sprintf("SelectOptionAsync(%s, %s)", quote(a.Selector),
			formatValue(collapseList(a.Options), "")), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAction, action.Kind())
	}
}

// collapseList unwraps single-element lists so a lone value renders bare
// instead of as a one-element array
func collapseList(values []string) interface{} {
	if len(values) == 1 {
		return values[0]
	}
	return values
}
