//go:build tools

// Package tools tracks Go-based tool dependencies (mockgen) in go.mod.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
