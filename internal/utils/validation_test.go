package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSize(t *testing.T) {
	v := NewJSONSizeValidator(16)

	assert.NoError(t, v.ValidateSize([]byte(`{"a":1}`)))
	assert.Error(t, v.ValidateSize([]byte(`{"a":"0123456789abcdef"}`)))
}

func TestValidateJSON(t *testing.T) {
	v := DefaultJSONValidator()

	assert.NoError(t, v.ValidateJSON([]byte(`{"a":1}`)))
	assert.Error(t, v.ValidateJSON([]byte(`{"a":`)))
}

func TestValidateParams(t *testing.T) {
	assert.NoError(t, ValidateParams(nil))
	assert.NoError(t, ValidateParams(map[string]interface{}{
		"notation": "tinyNotation: 4/4 c d e",
	}))
}

func TestValidateParamsTooDeep(t *testing.T) {
	nested := map[string]interface{}{"leaf": true}
	for i := 0; i < MaxParamsDepth+2; i++ {
		nested = map[string]interface{}{"next": nested}
	}

	assert.Error(t, ValidateParams(nested))
}

func TestValidateNotation(t *testing.T) {
	assert.NoError(t, ValidateNotation("tinyNotation: 4/4 c d e"))
	assert.Error(t, ValidateNotation(strings.Repeat("c ", MaxNotationSize)))
}
