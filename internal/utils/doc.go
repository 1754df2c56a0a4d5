// Package utils provides input validation helpers.
//
// Validation:
//   - JSON size and depth validation for capability call parameters
//   - Notation source size limits
//
// Features:
//   - Consistent error messages
//   - Configurable limits
package utils
