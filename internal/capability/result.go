package capability

import "github.com/cantuslab/cantus/internal/types"

// Success builds a successful tool result.
func Success(data map[string]interface{}) *types.Result {
	return &types.Result{Success: true, Data: data}
}

// Failure builds a failed tool result with an error message.
func Failure(message string) *types.Result {
	return &types.Result{Success: false, Error: &message}
}
