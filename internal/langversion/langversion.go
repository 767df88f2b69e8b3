// Package langversion implements the optional "#lang" pragma spec.md
// §4.7 adds: a source file's first line may pin the compiler version
// range it was written against, checked with a real semver library
// the way a multi-version toolchain would.
package langversion

import (
	"fmt"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// CompilerVersion is this build's own version, checked against a
// source file's #lang constraint.
var CompilerVersion = semver.MustParse("1.0.0")

// pragmaPrefix is the literal the first line of a source file must
// start with to carry a language-version pragma.
const pragmaPrefix = `#lang "`

// Extract reports whether content's first line is a #lang pragma,
// returning the constraint text found between the quotes.
func Extract(content string) (constraint string, ok bool) {
	firstLine, _, _ := strings.Cut(content, "\n")
	firstLine = strings.TrimSpace(firstLine)
	if !strings.HasPrefix(firstLine, pragmaPrefix) {
		return "", false
	}
	rest := firstLine[len(pragmaPrefix):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// Check parses constraint and verifies CompilerVersion satisfies it,
// returning a human-readable error if not.
func Check(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid #lang constraint %q: %w", constraint, err)
	}
	if !c.Check(CompilerVersion) {
		return fmt.Errorf("this source requires a compiler matching %q, but this build is %s", constraint, CompilerVersion)
	}
	return nil
}
