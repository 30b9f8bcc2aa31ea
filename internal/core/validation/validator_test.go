package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

var noteSchema = NewSchema("note", map[string]*SchemaProperty{
	"text":  RequiredText("Texto", 10),
	"count": Count("Quantidade"),
}, []string{"text", "count"})

func TestValidateValue(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		value note
		field string
	}{
		{"valid", note{Text: "ok", Count: 1}, ""},
		{"whitespace only", note{Text: " \n\t", Count: 1}, "text"},
		{"too long", note{Text: "texto longo demais", Count: 1}, "text"},
		{"negative count", note{Text: "ok", Count: -1}, "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateValue(&tt.value, noteSchema)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.True(t, IsValidationError(err))
			fields := []string{}
			for _, e := range GetValidationErrors(err).Errors {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateValue_EmptySchema(t *testing.T) {
	assert.NoError(t, NewValidator().ValidateValue(note{Count: -1}, nil))
}

func TestValidationErrors_Err(t *testing.T) {
	ve := &ValidationErrors{}
	assert.NoError(t, ve.Err())

	ve.Add("suites", "suítes não podem exceder o número de quartos")
	err := ve.Err()
	require.Error(t, err)
	assert.Equal(t, "suites: suítes não podem exceder o número de quartos", err.Error())
	assert.True(t, IsValidationError(err))
	assert.Nil(t, GetValidationErrors(errors.New("other")))
}
