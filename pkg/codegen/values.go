package codegen

import (
	"fmt"
	"strconv"
	"strings"
)

// enumClasses maps option keys whose values are enums to the C# enum type
// rendered for them
var enumClasses = map[string]string{
	"permissions": "ContextPermission",
	"modifiers":   "KeyboardModifier",
	"button":      "MouseButton",
	"recordHar":   "RecordHarOptions",
}

// enumValueKeys is the set of option keys whose string values render as
// enum members instead of quoted literals
var enumValueKeys = map[string]bool{
	"permissions": true,
	"colorScheme": true,
	"modifiers":   true,
	"button":      true,
}

// propertyOverrides maps option keys to C# property names that differ from
// their plain PascalCase form
var propertyOverrides = map[string]string{
	"storageState": "StorageStatePath",
	"viewport":     "ViewportSize",
}

// decimalSuffixKeys is the set of option keys whose numeric values carry
// the C# decimal suffix
var decimalSuffixKeys = map[string]bool{
	"latitude":  true,
	"longitude": true,
}

// className returns the C# type constructed for a named option value
func className(name string) string {
	if class, ok := enumClasses[name]; ok {
		return class
	}
	return pascal(name)
}

// propertyName returns the C# property an option key is assigned to
func propertyName(key string) string {
	if property, ok := propertyOverrides[key]; ok {
		return property
	}
	return pascal(key)
}

// pascal upper-cases the first letter of every dash, underscore or space
// separated segment and joins the segments
func pascal(name string) string {
	segments := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	var b strings.Builder
	for _, segment := range segments {
		runes := []rune(segment)
		b.WriteString(strings.ToUpper(string(runes[0])))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// quote renders s as a double-quoted C# string literal
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatValue renders a value as a C# expression. name carries the option
// key the value was reached under; it selects enum rendering for strings,
// recurses into list elements, and names the class of nested option
// objects. Mapping values render as multi-line object initializers whose
// final indentation comes from the Formatter.
func formatValue(value interface{}, name string) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		if enumValueKeys[name] {
			return className(name) + "." + pascal(v)
		}
		return quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return formatNumber(strconv.Itoa(v), name)
	case int64:
		return formatNumber(strconv.FormatInt(v, 10), name)
	case float64:
		return formatNumber(strconv.FormatFloat(v, 'f', -1, 64), name)
	case []string:
		elements := make([]string, len(v))
		for i, element := range v {
			elements[i] = formatValue(element, name)
		}
		return formatList(elements)
	case []interface{}:
		elements := make([]string, len(v))
		for i, element := range v {
			elements[i] = formatValue(element, name)
		}
		return formatList(elements)
	case *OptionMap:
		return formatOptionMap(v, name)
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(literal, name string) string {
	if decimalSuffixKeys[name] {
		return literal + "m"
	}
	return literal
}

func formatList(elements []string) string {
	if len(elements) == 0 {
		return "new[] { }"
	}
	return "new[] { " + strings.Join(elements, ", ") + " }"
}

func formatOptionMap(m *OptionMap, name string) string {
	if m.Len() == 0 {
		if name != "" {
			return "new " + className(name) + "()"
		}
		return ""
	}

	var b strings.Builder
	if name != "" {
		b.WriteString("new " + className(name) + "\n")
	}
	b.WriteString("{\n")
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		b.WriteString(propertyName(key) + " = " + formatValue(value, key) + ",\n")
	}
	b.WriteString("}")
	return b.String()
}
