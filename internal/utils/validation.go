package utils

import (
	"encoding/json"
	"fmt"
)

// Input size limits (in bytes)
const (
	MaxJSONSize     = 1 * 1024 * 1024 // 1MB - maximum JSON payload size
	MaxParamsSize   = 256 * 1024      // 256KB - capability call parameter limit
	MaxNotationSize = 64 * 1024       // 64KB - notation source limit
	MaxParamsDepth  = 20              // nesting limit for parameter maps
)

// JSONSizeValidator validates JSON size limits
type JSONSizeValidator struct {
	maxSize int
}

// NewJSONSizeValidator creates a new validator with the specified max size
func NewJSONSizeValidator(maxSize int) *JSONSizeValidator {
	return &JSONSizeValidator{maxSize: maxSize}
}

// DefaultJSONValidator returns a validator with the default 1MB limit
func DefaultJSONValidator() *JSONSizeValidator {
	return NewJSONSizeValidator(MaxJSONSize)
}

// ValidateSize checks if the data size is within limits
func (v *JSONSizeValidator) ValidateSize(data []byte) error {
	size := len(data)
	if size > v.maxSize {
		return fmt.Errorf("JSON size %d bytes exceeds maximum %d bytes", size, v.maxSize)
	}
	return nil
}

// ValidateJSON validates both size and JSON structure
func (v *JSONSizeValidator) ValidateJSON(data []byte) error {
	// Check size first (faster than parsing)
	if err := v.ValidateSize(data); err != nil {
		return err
	}

	var js interface{}
	if err := json.Unmarshal(data, &js); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// ValidateParams validates a capability call's parameter map before
// dispatch: serialized size and nesting depth.
func ValidateParams(params map[string]interface{}) error {
	if params == nil {
		return nil
	}

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	if err := NewJSONSizeValidator(MaxParamsSize).ValidateSize(data); err != nil {
		return fmt.Errorf("params validation failed: %w", err)
	}

	if err := ValidateJSONDepth(params, MaxParamsDepth); err != nil {
		return fmt.Errorf("params validation failed: %w", err)
	}

	return nil
}

// ValidateNotation checks a notation source string against the size limit.
func ValidateNotation(source string) error {
	if len(source) > MaxNotationSize {
		return fmt.Errorf("notation size %d bytes exceeds maximum %d bytes", len(source), MaxNotationSize)
	}
	return nil
}

// ValidateJSONDepth checks if JSON nesting depth is within limits
func ValidateJSONDepth(data interface{}, maxDepth int) error {
	return checkDepth(data, 0, maxDepth)
}

func checkDepth(data interface{}, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("JSON nesting depth %d exceeds maximum %d", currentDepth, maxDepth)
	}

	switch v := data.(type) {
	case map[string]interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}

	return nil
}
