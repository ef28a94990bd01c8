package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Device is a named preset of context options emulating a specific phone,
// tablet or desktop profile
type Device struct {
	Name    string     `json:"name" yaml:"name"`
	Options *OptionMap `json:"options" yaml:"options"`
}

// DeviceRegistry resolves device names to their presets
type DeviceRegistry struct {
	devices map[string]Device
	names   []string
}

// NewDeviceRegistry creates an empty registry
func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{devices: make(map[string]Device)}
}

// DefaultDevices returns a registry preloaded with the built-in presets
func DefaultDevices() *DeviceRegistry {
	r := NewDeviceRegistry()
	r.Register(Device{Name: "Desktop Chrome", Options: NewOptionMap().
		Set("userAgent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.77 Safari/537.36").
		Set("viewport", NewOptionMap().Set("width", 1280).Set("height", 720)).
		Set("deviceScaleFactor", 1).
		Set("isMobile", false).
		Set("hasTouch", false)})
	r.Register(Device{Name: "Pixel 4", Options: NewOptionMap().
		Set("userAgent", "Mozilla/5.0 (Linux; Android 10; Pixel 4) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.77 Mobile Safari/537.36").
		Set("viewport", NewOptionMap().Set("width", 353).Set("height", 745)).
		Set("deviceScaleFactor", 3).
		Set("isMobile", true).
		Set("hasTouch", true)})
	r.Register(Device{Name: "Pixel 5", Options: NewOptionMap().
		Set("userAgent", "Mozilla/5.0 (Linux; Android 11; Pixel 5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.77 Mobile Safari/537.36").
		Set("viewport", NewOptionMap().Set("width", 393).Set("height", 851)).
		Set("deviceScaleFactor", 2.75).
		Set("isMobile", true).
		Set("hasTouch", true)})
	r.Register(Device{Name: "iPhone 11", Options: NewOptionMap().
		Set("userAgent", "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1").
		Set("viewport", NewOptionMap().Set("width", 414).Set("height", 896)).
		Set("deviceScaleFactor", 2).
		Set("isMobile", true).
		Set("hasTouch", true)})
	r.Register(Device{Name: "iPad (gen 7)", Options: NewOptionMap().
		Set("userAgent", "Mozilla/5.0 (iPad; CPU OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1").
		Set("viewport", NewOptionMap().Set("width", 810).Set("height", 1080)).
		Set("deviceScaleFactor", 2).
		Set("isMobile", true).
		Set("hasTouch", true)})
	return r
}

// Register adds or replaces a device preset
func (r *DeviceRegistry) Register(device Device) {
	if _, exists := r.devices[device.Name]; !exists {
		r.names = append(r.names, device.Name)
	}
	r.devices[device.Name] = device
}

// Lookup returns the preset registered under name
func (r *DeviceRegistry) Lookup(name string) (Device, bool) {
	device, exists := r.devices[name]
	return device, exists
}

// Names returns the registered device names in registration order
func (r *DeviceRegistry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// LoadFile merges device presets from a JSON or YAML file into the
// registry. The file holds a mapping from device name to context options.
func (r *DeviceRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read device file: %w", err)
	}

	var doc OptionMap
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return fmt.Errorf("unsupported device file type: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse device file: %w", err)
	}

	for _, name := range doc.Keys() {
		value, _ := doc.Get(name)
		options, ok := value.(*OptionMap)
		if !ok {
			return fmt.Errorf("device %s: options must be a mapping", name)
		}
		r.Register(Device{Name: name, Options: options})
	}
	return nil
}

// mergeDeviceOptions returns the explicit options that still matter once a
// device preset is in play. Entries equal to the preset value are dropped,
// everything else is kept, so an explicit value always wins over the
// preset.
func mergeDeviceOptions(preset, explicit *OptionMap) *OptionMap {
	cleaned := NewOptionMap()
	for _, key := range explicit.Keys() {
		value, _ := explicit.Get(key)
		if presetValue, exists := preset.Get(key); exists && optionsEqual(presetValue, value) {
			continue
		}
		cleaned.Set(key, value)
	}
	return cleaned
}

// optionsEqual deep-compares two option values through their canonical
// JSON encoding, falling back to reflection for values JSON cannot encode
func optionsEqual(a, b interface{}) bool {
	aData, aErr := json.Marshal(a)
	bData, bErr := json.Marshal(b)
	if aErr != nil || bErr != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(aData, bData)
}
