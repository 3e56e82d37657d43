// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package utils

import "golang.org/x/exp/constraints"

// ConvertSlice copies src into a freshly allocated slice of the target
// integer type. The caller guarantees the values fit.
func ConvertSlice[U, T constraints.Integer](src []T) []U {
	dst := make([]U, len(src))
	for i, v := range src {
		dst[i] = U(v)
	}
	return dst
}
