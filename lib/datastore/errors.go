package datastore

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCNaming:
		errorCode = "Naming"
	case RetCConfiguration:
		errorCode = "Configuration"
	case RetCSchemaLookup:
		errorCode = "SchemaLookup"
	case RetCKeyFormat:
		errorCode = "KeyFormat"
	case RetCExistence:
		errorCode = "ExistenceConflict"
	case RetCStorage:
		errorCode = "Storage"
	case RetCInternal:
		errorCode = "Internal"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("DatastoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new Error with the given code and formatted message.
func NewError(code RetCode, format string, args ...interface{}) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the RetCode from an error, or RetCUnknown if the error
// does not originate from this package.
func CodeOf(err error) RetCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return RetCUnknown
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCUnknown       RetCode = iota // 0: Not an error from this package.
	RetCNaming                       // 1: Unrecognized database or option name.
	RetCConfiguration                // 2: Schema or directory not set on the handle.
	RetCSchemaLookup                 // 3: Tree element has no corresponding schema node.
	RetCKeyFormat                    // 4: Malformed canonical key or query, missing key child.
	RetCExistence                    // 5: Create on existing key, delete on absent key.
	RetCStorage                      // 6: Underlying store failure.
	RetCInternal                     // 7: Invariant violation inside the engine.
)
