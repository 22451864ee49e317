package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"framework"},
	"properties": map[string]interface{}{
		"framework": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"general", "medtech"},
		},
		"score": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
			"maximum": 10,
		},
	},
})

func TestSchema_ValidateJSON(t *testing.T) {
	tests := []struct {
		name       string
		document   string
		valid      bool
		errorField string
	}{
		{name: "valid general", document: `{"framework":"general","score":7.5}`, valid: true},
		{name: "missing framework", document: `{"score":3}`, valid: false, errorField: "(root)"},
		{name: "unknown framework", document: `{"framework":"fintech"}`, valid: false, errorField: "framework"},
		{name: "score out of range", document: `{"framework":"medtech","score":11}`, valid: false, errorField: "score"},
		{name: "empty document", document: "", valid: false, errorField: "(root)"},
		{name: "malformed json", document: `{"framework":`, valid: false, errorField: "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testSchema.ValidateJSON(tt.document)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				require.NotEmpty(t, result.Errors)
				assert.True(t, result.HasErrors(tt.errorField), "errors: %v", result.GetErrorMessages())
				assert.NotEmpty(t, result.Error())
			} else {
				assert.Empty(t, result.Error())
			}
		})
	}
}

func TestSchema_ValidateInput(t *testing.T) {
	result := testSchema.ValidateInput(map[string]interface{}{"framework": "general"})
	assert.True(t, result.Valid)

	result = testSchema.ValidateInput(map[string]interface{}{"framework": 3})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.GetErrorsForField("framework"))
}

func TestGetSchemaFromJSON(t *testing.T) {
	s, err := GetSchemaFromJSON(`{"type":"object","required":["id"]}`)
	require.NoError(t, err)
	assert.True(t, s.ValidateJSON(`{"id":"x"}`).Valid)

	_, err = GetSchemaFromJSON(`{"type": 12}`)
	assert.Error(t, err)
}

func TestValidateContacts(t *testing.T) {
	assert.True(t, ValidateEmail("founder@startup.io"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.True(t, ValidatePhone("+14155550123"))
	assert.False(t, ValidatePhone("4155550123"))
}
