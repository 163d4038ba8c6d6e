// Package pathmatch implements the path pattern language: normalization,
// literal/wildcard/glob segment matching, and named-variable extraction.
package pathmatch

import "errors"

// ErrNormalizationFailed is the error kind for a path that cannot be
// canonicalized. Normalize itself never returns it (Normalize has no error
// result); it exists so callers have a distinct error kind to propagate
// per the core's error handling design.
var ErrNormalizationFailed = errors.New("pathmatch: normalization failed")

// Normalize canonicalizes a path string:
//  1. empty input becomes "/"
//  2. runs of consecutive '/' collapse to one
//  3. a missing leading '/' is added
//  4. a trailing '/' is stripped, unless the result would become empty
//
// Normalize is byte-oriented and infallible on any Go string; the
// ErrNormalizationFailed sentinel exists for callers further up the stack
// (e.g. a repository adapter rejecting a non-UTF-8 document) to report the
// same failure kind defined by the core's error handling design.
func Normalize(p string) string {
	if p == "" {
		return "/"
	}

	out := make([]byte, 0, len(p)+1)
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		out = append(out, c)
	}

	if len(out) == 0 || out[0] != '/' {
		out = append([]byte{'/'}, out...)
	}

	if len(out) > 1 && out[len(out)-1] == '/' {
		out = out[:len(out)-1]
	}

	return string(out)
}

// segments splits an already-normalized path into its non-empty segments.
// The root path "/" has zero segments.
func segments(normalized string) []string {
	if normalized == "/" {
		return nil
	}
	return splitSegments(normalized[1:])
}

func splitSegments(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
