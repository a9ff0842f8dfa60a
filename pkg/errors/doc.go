// Package errors provides structured error types for better observability
// and programmatic error handling across the recipe tooling.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeBuildPhase,
//	    "configure failed",
//	    cause,
//	    map[string]any{
//	        "recipe": "sisl",
//	        "phase":  "configure",
//	    },
//	)
//
// Callers branch on the code with HasCode:
//
//	if errors.HasCode(err, errors.ErrCodeUndefinedOption) {
//	    // option was deleted for this compiler
//	}
package errors
