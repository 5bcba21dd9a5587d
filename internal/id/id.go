// Package id generates the prefixed identifiers used for palette entries,
// stream clients and session tokens.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes in use across the application.
const (
	PrefixColor  = "color"
	PrefixClient = "client"
	PrefixToken  = "token"
)

// Generator produces a new unique identifier on every call.
type Generator func() (string, error)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "color-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}

// NanoID returns a Generator that calls Generate with prefix.
func NanoID(prefix string) Generator {
	return func() (string, error) {
		return Generate(prefix)
	}
}

// Sequential returns a Generator yielding prefix-1, prefix-2, ...
// Identifiers are monotonically increasing and safe for concurrent use.
func Sequential(prefix string) Generator {
	var n atomic.Uint64
	return func() (string, error) {
		return prefix + "-" + strconv.FormatUint(n.Add(1), 10), nil
	}
}

// HasPrefix reports whether v looks like an identifier generated with prefix.
func HasPrefix(v, prefix string) bool {
	rest, ok := strings.CutPrefix(v, prefix+"-")
	return ok && rest != ""
}
