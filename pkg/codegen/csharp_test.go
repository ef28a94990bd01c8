package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivikasavnish/go-scriptgen/pkg/actions"
)

func TestCSharpGenerator_HeaderDefaults(t *testing.T) {
	g := NewCSharpGenerator(nil)

	header := g.GenerateHeader(&GeneratorOptions{})

	expected := strings.Join([]string{
		"using Microsoft.Playwright;",
		"using System;",
		"using System.Threading.Tasks;",
		"",
		"class Program",
		"{",
		"    public static async Task Main()",
		"    {",
		"        using var playwright = await Playwright.CreateAsync();",
		"        await using var browser = await playwright.Chromium.LaunchAsync(new BrowserTypeLaunchOptions());",
		"        var context = await browser.NewContextAsync(new BrowserNewContextOptions());",
	}, "\n")
	assert.Equal(t, expected, header)
}

func TestCSharpGenerator_HeaderLaunchOptionsAndDevice(t *testing.T) {
	g := NewCSharpGenerator(nil)

	header := g.GenerateHeader(&GeneratorOptions{
		BrowserName:   "firefox",
		LaunchOptions: NewOptionMap().Set("headless", false),
		DeviceName:    "Pixel 4",
	})

	assert.Contains(t, header, "await playwright.Firefox.LaunchAsync(new BrowserTypeLaunchOptions")
	assert.Contains(t, header, "            Headless = false,")
	// No explicit context options survive, so only the lookup is passed
	assert.Contains(t, header, `var context = await browser.NewContextAsync(playwright.Devices["Pixel 4"]);`)
}

func TestCSharpGenerator_HeaderDeviceMerge(t *testing.T) {
	registry := NewDeviceRegistry()
	registry.Register(Device{Name: "Test Phone", Options: NewOptionMap().
		Set("viewport", NewOptionMap().Set("width", 100).Set("height", 200))})
	g := NewCSharpGenerator(registry)

	header := g.GenerateHeader(&GeneratorOptions{
		DeviceName: "Test Phone",
		ContextOptions: NewOptionMap().
			Set("viewport", NewOptionMap().Set("width", 300).Set("height", 200)),
	})

	// The explicit width wins over the preset and the preset feeds the
	// constructor argument
	assert.Contains(t, header, `new BrowserNewContextOptions(playwright.Devices["Test Phone"])`)
	assert.Contains(t, header, "Width = 300,")
	assert.NotContains(t, header, "Width = 100,")
}

func TestCSharpGenerator_HeaderUnknownDeviceFallsBack(t *testing.T) {
	g := NewCSharpGenerator(nil)

	header := g.GenerateHeader(&GeneratorOptions{
		DeviceName:     "Nokia 3310",
		ContextOptions: NewOptionMap().Set("locale", "de-DE"),
	})

	assert.NotContains(t, header, "playwright.Devices")
	assert.Contains(t, header, "new BrowserNewContextOptions")
	assert.Contains(t, header, `Locale = "de-DE",`)
}

func TestCSharpGenerator_FooterPlain(t *testing.T) {
	g := NewCSharpGenerator(nil)
	assert.Equal(t, "    }\n}", g.GenerateFooter(&GeneratorOptions{}))
}

func TestCSharpGenerator_FooterSavesStorage(t *testing.T) {
	g := NewCSharpGenerator(nil)

	footer := g.GenerateFooter(&GeneratorOptions{SaveStorage: "auth.json"})

	expected := strings.Join([]string{
		"",
		"        await context.StorageStateAsync(new BrowserContextStorageStateOptions",
		"        {",
		`            Path = "auth.json",`,
		"        });",
		"    }",
		"}",
	}, "\n")
	assert.Equal(t, expected, footer)
}

func TestCSharpGenerator_OpenPage(t *testing.T) {
	g := NewCSharpGenerator(nil)

	text, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Action:    actions.OpenPage{URL: "https://example.com"},
	})
	require.NoError(t, err)

	expected := strings.Join([]string{
		"",
		"        // Open new page",
		"        var page = await context.NewPageAsync();",
		`        await page.GotoAsync("https://example.com");`,
	}, "\n")
	assert.Equal(t, expected, text)
}

func TestCSharpGenerator_OpenPageBlankURL(t *testing.T) {
	g := NewCSharpGenerator(nil)

	for _, url := range []string{"", "about:blank", "chrome://newtab/"} {
		text, err := g.GenerateAction(&actions.ActionInContext{
			PageAlias: "page1",
			Action:    actions.OpenPage{URL: url},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "var page1 = await context.NewPageAsync();")
		assert.NotContains(t, text, "GotoAsync")
	}
}

func TestCSharpGenerator_NavigateScenario(t *testing.T) {
	g := NewCSharpGenerator(nil)

	text, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Action:    actions.Navigate{URL: "https://example.com"},
	})
	require.NoError(t, err)

	expected := strings.Join([]string{
		"",
		"        // Go to https://example.com",
		`        await page.GotoAsync("https://example.com");`,
	}, "\n")
	assert.Equal(t, expected, text)
}

func TestCSharpGenerator_ClickOptionOmission(t *testing.T) {
	g := NewCSharpGenerator(nil)

	plain, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Action:    actions.Click{Selector: "#go"},
	})
	require.NoError(t, err)
	assert.Contains(t, plain, `await page.ClickAsync("#go");`)
	assert.NotContains(t, plain, "PageClickOptions")

	tests := []struct {
		name   string
		action actions.Click
		want   string
	}{
		{"non-default button", actions.Click{Selector: "#go", Button: "right"}, "Button = MouseButton.Right,"},
		{"modifiers", actions.Click{Selector: "#go", Modifiers: []string{"Alt", "Shift"}}, "Modifiers = new[] { KeyboardModifier.Alt, KeyboardModifier.Shift },"},
		{"click count above two", actions.Click{Selector: "#go", ClickCount: 3}, "ClickCount = 3,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := g.GenerateAction(&actions.ActionInContext{
				PageAlias: "page",
				Action:    tt.action,
			})
			require.NoError(t, err)
			assert.Contains(t, text, "new PageClickOptions")
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestCSharpGenerator_DoubleClick(t *testing.T) {
	g := NewCSharpGenerator(nil)

	text, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Action:    actions.Click{Selector: "#row", ClickCount: 2},
	})
	require.NoError(t, err)

	assert.Contains(t, text, `await page.DblClickAsync("#row");`)
	assert.NotContains(t, text, "Options")
}

func TestCSharpGenerator_FrameSubjects(t *testing.T) {
	g := NewCSharpGenerator(nil)

	named, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Frame:     actions.Frame{Name: "menu"},
		Action:    actions.Click{Selector: "#item", Button: "middle"},
	})
	require.NoError(t, err)
	assert.Contains(t, named, `await page.Frame("menu").ClickAsync("#item", new FrameClickOptions`)

	byURL, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Frame:     actions.Frame{URL: "https://shop.example.com/cart"},
		Action:    actions.Check{Selector: "#agree"},
	})
	require.NoError(t, err)
	assert.Contains(t, byURL, `await page.FrameByUrl("https://shop.example.com/cart").CheckAsync("#agree");`)
}

func TestCSharpGenerator_CallShapes(t *testing.T) {
	tests := []struct {
		name   string
		action actions.Action
		want   string
	}{
		{"check", actions.Check{Selector: "#agree"}, `await page.CheckAsync("#agree");`},
		{"uncheck", actions.Uncheck{Selector: "#spam"}, `await page.UncheckAsync("#spam");`},
		{"fill", actions.Fill{Selector: "#name", Text: "Jane"}, `await page.FillAsync("#name", "Jane");`},
		{"press plain", actions.Press{Selector: "#q", Key: "Enter"}, `await page.PressAsync("#q", "Enter");`},
		{"press chord", actions.Press{Selector: "#q", Key: "a", Modifiers: []string{"Control", "Shift"}}, `await page.PressAsync("#q", "Control+Shift+a");`},
		{"select one", actions.Select{Selector: "#size", Options: []string{"L"}}, `await page.SelectOptionAsync("#size", "L");`},
		{"select many", actions.Select{Selector: "#size", Options: []string{"L", "XL"}}, `await page.SelectOptionAsync("#size", new[] { "L", "XL" });`},
		{"upload one", actions.SetInputFiles{Selector: "#file", Files: []string{"a.txt"}}, `await page.SetInputFilesAsync("#file", "a.txt");`},
		{"upload many", actions.SetInputFiles{Selector: "#file", Files: []string{"a.txt", "b.txt"}}, `await page.SetInputFilesAsync("#file", new[] { "a.txt", "b.txt" });`},
		{"clear files", actions.SetInputFiles{Selector: "#file"}, `await page.SetInputFilesAsync("#file", new[] { });`},
		{"close page", actions.ClosePage{}, "await page.CloseAsync();"},
	}

	g := NewCSharpGenerator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := g.GenerateAction(&actions.ActionInContext{
				PageAlias: "page",
				Action:    tt.action,
			})
			require.NoError(t, err)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestCSharpGenerator_DialogHandler(t *testing.T) {
	g := NewCSharpGenerator(nil)

	text, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Action:    actions.Click{Selector: "#alert"},
		Signals:   []actions.Signal{actions.DialogSignal("1")},
	})
	require.NoError(t, err)

	expected := strings.Join([]string{
		"",
		"        // Click #alert",
		"        void page_Dialog1_EventHandler(object sender, IDialog dialog)",
		"        {",
		`            Console.WriteLine($"Dialog message: {dialog.Message}");`,
		"            dialog.DismissAsync();",
		"            page.Dialog -= page_Dialog1_EventHandler;",
		"        }",
		"        page.Dialog += page_Dialog1_EventHandler;",
		`        await page.ClickAsync("#alert");`,
	}, "\n")
	assert.Equal(t, expected, text)
}

func TestCSharpGenerator_WaitForNavigation(t *testing.T) {
	g := NewCSharpGenerator(nil)

	text, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Action:    actions.Click{Selector: "a.next"},
		Signals:   []actions.Signal{actions.WaitForNavigationSignal("https://example.com/next")},
	})
	require.NoError(t, err)

	expected := strings.Join([]string{
		"",
		"        // Click a.next",
		"        await page.RunAndWaitForNavigationAsync(async () =>",
		"        {",
		`            await page.ClickAsync("a.next");`,
		`        }/*, new PageRunAndWaitForNavigationOptions { UrlString = "https://example.com/next" } */);`,
	}, "\n")
	assert.Equal(t, expected, text)
}

func TestCSharpGenerator_SignalNesting(t *testing.T) {
	g := NewCSharpGenerator(nil)

	text, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Action:    actions.Click{Selector: "#export"},
		Signals: []actions.Signal{
			actions.DownloadSignal("1"),
			actions.PopupSignal("popup1"),
		},
	})
	require.NoError(t, err)

	expected := strings.Join([]string{
		"",
		"        // Click #export",
		"        var popup1 = await page.RunAndWaitForPopupAsync(async () =>",
		"        {",
		"            var download1 = await page.RunAndWaitForDownloadAsync(async () =>",
		"            {",
		`                await page.ClickAsync("#export");`,
		"            });",
		"        });",
	}, "\n")
	assert.Equal(t, expected, text)

	// The download block nests strictly inside the popup block
	popupAt := strings.Index(text, "RunAndWaitForPopupAsync")
	downloadAt := strings.Index(text, "RunAndWaitForDownloadAsync")
	assert.Greater(t, downloadAt, popupAt)
}

func TestCSharpGenerator_AssertNavigation(t *testing.T) {
	g := NewCSharpGenerator(nil)

	text, err := g.GenerateAction(&actions.ActionInContext{
		PageAlias: "page",
		Action:    actions.Click{Selector: "#login"},
		Signals:   []actions.Signal{actions.AssertNavigationSignal("https://example.com/home")},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(text,
		`        // Assert.Equal("https://example.com/home", page.Url);`))
}

func TestGenerateScript_Determinism(t *testing.T) {
	g := NewCSharpGenerator(nil)
	opts := &GeneratorOptions{
		BrowserName:   "chromium",
		LaunchOptions: NewOptionMap().Set("headless", false),
		SaveStorage:   "auth.json",
	}
	recording := []actions.ActionInContext{
		{PageAlias: "page", Action: actions.OpenPage{URL: "https://example.com"}},
		{PageAlias: "page", Action: actions.Fill{Selector: "#q", Text: "go"}},
		{
			PageAlias: "page",
			Action:    actions.Click{Selector: "#search"},
			Signals:   []actions.Signal{actions.WaitForNavigationSignal("https://example.com/results")},
		},
	}

	first, err := GenerateScript(g, opts, recording)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := GenerateScript(g, opts, recording)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerateScript_BracketBalance(t *testing.T) {
	g := NewCSharpGenerator(nil)
	opts := &GeneratorOptions{
		DeviceName:  "iPhone 11",
		SaveStorage: "state.json",
		ContextOptions: NewOptionMap().
			Set("locale", "en-US").
			Set("geolocation", NewOptionMap().Set("latitude", 59.95).Set("longitude", 30.31)),
	}
	recording := []actions.ActionInContext{
		{PageAlias: "page", Action: actions.OpenPage{URL: "https://example.com"}},
		{
			PageAlias: "page",
			Action:    actions.Click{Selector: "#alert"},
			Signals:   []actions.Signal{actions.DialogSignal("1")},
		},
		{
			PageAlias: "page",
			Action:    actions.Click{Selector: "#export"},
			Signals: []actions.Signal{
				actions.PopupSignal("popup1"),
				actions.DownloadSignal("1"),
				actions.WaitForNavigationSignal("https://example.com/done"),
			},
		},
		{PageAlias: "popup1", Action: actions.ClosePage{}},
	}

	script, err := GenerateScript(g, opts, recording)
	require.NoError(t, err)

	// Replaying the indentation heuristic over the final text must end at
	// depth zero without ever going negative
	depth := 0
	for _, raw := range strings.Split(script, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "}") || strings.HasPrefix(line, "]") ||
			strings.Contains(line, "});") || line == ");" {
			depth--
		}
		require.GreaterOrEqual(t, depth, 0, "line %q dropped below depth zero", line)
		if strings.HasSuffix(line, "{") || strings.HasSuffix(line, "[") ||
			strings.HasSuffix(line, "(") {
			depth++
		}
	}
	assert.Equal(t, 0, depth)
}

func TestGenerateScript_UnknownActionFails(t *testing.T) {
	g := NewCSharpGenerator(nil)

	_, err := GenerateScript(g, nil, []actions.ActionInContext{
		{PageAlias: "page", Action: unknownAction{}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAction)
	assert.Contains(t, err.Error(), "action 0 (hover)")
}

func TestGenerateActionCall_OpenPageRejected(t *testing.T) {
	_, err := generateActionCall(actions.OpenPage{URL: "https://example.com"}, true)
	assert.ErrorIs(t, err, ErrOpenPageCall)
}

// unknownAction simulates a future vocabulary extension the emitter does
// not know yet
type unknownAction struct{ actions.Click }

func (unknownAction) Kind() string  { return "hover" }
func (unknownAction) Title() string { return "Hover" }
