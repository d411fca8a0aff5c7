// const.go: package-level constants
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package concurrent

const (
	// Version of this module.
	Version = "v0.1.0-dev"
)
