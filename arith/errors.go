// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"errors"
	"fmt"

	"github.com/consensys/bigmod/debug"
)

// ErrNonInvertible is returned by Int.ModInverse when the receiver shares a
// common factor with the modulus.
var ErrNonInvertible = errors.New("arith: element is not invertible")

// ArithmeticFault reports a violated caller contract: mismatched sequence
// lengths, a non-positive modulus, inversion of a non-invertible element in
// a batch operation, or corrupted backing storage. It is used as a panic
// value; callers are not expected to recover from it in normal flow.
type ArithmeticFault struct {
	msg string
}

func (f ArithmeticFault) Error() string {
	return "arith: " + f.msg
}

func arithmeticFaultf(format string, args ...any) ArithmeticFault {
	return ArithmeticFault{msg: faultMessage(format, args...)}
}

// BackendMismatchFault reports an operation combining values that live
// under different storage policies, such as applying a file-backed
// permutation to an in-memory sequence. It is used as a panic value.
type BackendMismatchFault struct {
	msg string
}

func (f BackendMismatchFault) Error() string {
	return "arith: " + f.msg
}

func backendMismatchFaultf(format string, args ...any) BackendMismatchFault {
	return BackendMismatchFault{msg: faultMessage(format, args...)}
}

func faultMessage(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if debug.Debug {
		msg += "\n" + debug.Stack()
	}
	return msg
}
