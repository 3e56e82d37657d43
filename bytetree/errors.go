// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package bytetree

import "fmt"

// FormatError reports malformed serialized input: a bad tag, a length field
// exceeding the remaining input, trailing garbage, or a decoded value
// outside its expected range. It is the recoverable error family; callers
// deserializing untrusted data are expected to handle it.
type FormatError struct {
	msg string
}

func (e *FormatError) Error() string {
	return e.msg
}

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

// NewFormatError returns a FormatError with the given message. It is used
// by packages layering their own validation on top of the codec.
func NewFormatError(format string, args ...any) *FormatError {
	return formatErrorf(format, args...)
}
