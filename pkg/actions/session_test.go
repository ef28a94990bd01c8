package actions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedSession() *Session {
	r := NewRecorder()
	page := r.OpenPage("https://example.com")
	r.Record(ActionInContext{
		PageAlias: page,
		Action: Click{
			Selector:  "#menu",
			Button:    "right",
			Modifiers: []string{"Shift"},
		},
		Signals: []Signal{PopupSignal("popup1")},
	})
	r.Record(ActionInContext{
		PageAlias: page,
		Frame:     Frame{Name: "checkout"},
		Action:    Fill{Selector: "#card", Text: "4242"},
	})
	return r.Session("roundtrip")
}

func TestSession_SaveAndLoadJSON(t *testing.T) {
	session := recordedSession()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, session.SaveToFile(path))

	loaded, err := LoadSession(path)
	require.NoError(t, err)

	assert.Equal(t, session.Name, loaded.Name)
	require.Len(t, loaded.Actions, 3)
	assert.Equal(t, session.Actions[1].Action, loaded.Actions[1].Action)
	assert.Equal(t, session.Actions[1].Signals, loaded.Actions[1].Signals)
	assert.Equal(t, Frame{Name: "checkout"}, loaded.Actions[2].Frame)
}

func TestSession_SaveAndLoadYAML(t *testing.T) {
	session := recordedSession()

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, session.SaveToFile(path))

	loaded, err := LoadSession(path)
	require.NoError(t, err)

	assert.Equal(t, session.Name, loaded.Name)
	require.Len(t, loaded.Actions, 3)
	assert.Equal(t, session.Actions[1].Action, loaded.Actions[1].Action)
	assert.Equal(t, session.Actions[2].Action, loaded.Actions[2].Action)
}

func TestSession_UnsupportedExtension(t *testing.T) {
	session := recordedSession()

	err := session.SaveToFile(filepath.Join(t.TempDir(), "session.txt"))
	assert.Error(t, err)

	_, err = LoadSession(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadSession_UnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	payload := `{
        "name": "bad",
        "actions": [
            {"pageAlias": "page", "action": {"kind": "hover", "selector": "#x"}}
        ]
    }`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	_, err := LoadSession(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestSession_Validate(t *testing.T) {
	empty := &Session{Name: "empty"}
	assert.ErrorIs(t, empty.Validate(), ErrNoActions)

	missingAlias := &Session{
		Name:    "missing",
		Actions: []ActionInContext{{Action: ClosePage{}}},
	}
	assert.ErrorIs(t, missingAlias.Validate(), ErrNoPageAlias)
}
