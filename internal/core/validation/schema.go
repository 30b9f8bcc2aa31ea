package validation

type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeInteger PropertyType = "integer"
	PropertyTypeBoolean PropertyType = "boolean"
	PropertyTypeArray   PropertyType = "array"
)

// NonBlank matches strings with at least one non-whitespace character.
const NonBlank = `\S`

type SchemaProperty struct {
	Type      PropertyType    `json:"type"`
	Title     string          `json:"title,omitempty"`
	Format    string          `json:"format,omitempty"`
	Pattern   string          `json:"pattern,omitempty"`
	MinLength *int            `json:"minLength,omitempty"`
	MaxLength *int            `json:"maxLength,omitempty"`
	Minimum   *int            `json:"minimum,omitempty"`
	MinItems  *int            `json:"minItems,omitempty"`
	Items     *SchemaProperty `json:"items,omitempty"`
}

func NewSchema(title string, properties map[string]*SchemaProperty, required []string) map[string]interface{} {
	props := make(map[string]interface{})
	for k, v := range properties {
		props[k] = v
	}

	return map[string]interface{}{
		"type":       "object",
		"title":      title,
		"properties": props,
		"required":   required,
	}
}

func Int(n int) *int {
	return &n
}

// RequiredText is a string that must contain something besides whitespace.
func RequiredText(title string, maxLength int) *SchemaProperty {
	p := &SchemaProperty{Type: PropertyTypeString, Title: title, Pattern: NonBlank}
	if maxLength > 0 {
		p.MaxLength = Int(maxLength)
	}
	return p
}

func Count(title string) *SchemaProperty {
	return &SchemaProperty{Type: PropertyTypeInteger, Title: title, Minimum: Int(0)}
}
