// Package errors provides structured, coded errors for catalog operations.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Blueprint registration faults
	CodeBlueprintMalformed         Code = "BLUEPRINT_MALFORMED"
	CodeBlueprintAmbiguousVariant  Code = "BLUEPRINT_AMBIGUOUS_VARIANT"
	CodeBlueprintRegistrationFault Code = "BLUEPRINT_REGISTRATION_FAULT"

	// Blueprint cache errors
	CodeCacheHookInvalid   Code = "CACHE_HOOK_INVALID"
	CodeCacheHookDuplicate Code = "CACHE_HOOK_DUPLICATE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Fault reports whether c belongs to the registration fault family that
// hook adapters recover from instead of propagating.
func (c Code) Fault() bool {
	switch c {
	case CodeBlueprintMalformed,
		CodeBlueprintAmbiguousVariant,
		CodeBlueprintRegistrationFault:
		return true
	default:
		return false
	}
}
