package pathmatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var varToken = regexp.MustCompile(`\$\{([^}]+)\}`)

// Match reports whether pattern matches path under ctx. Variables of the
// form ${name} are substituted with the stringified context value when
// present, left verbatim otherwise, before normalization and segment
// matching take place. See the package doc and spec §4.2 for the segment
// language (literal, "*", "**").
func Match(pattern, path string, ctx map[string]any) bool {
	substituted := substituteVars(pattern, ctx)
	patSegs := segments(Normalize(substituted))
	valSegs := segments(Normalize(path))
	return matchSegments(patSegs, valSegs)
}

// Extract returns the named captures a concrete path yields against a
// pattern containing ${name} placeholders, or an empty map if the pattern
// does not match the path. Captures never cross a '/' separator: each
// ${name} resolves within the single path segment it appears in.
func Extract(pattern, path string) map[string]string {
	patSegs := segments(Normalize(pattern))
	valSegs := segments(Normalize(path))

	ok, caps := extractSegments(patSegs, valSegs)
	if !ok {
		return map[string]string{}
	}
	return caps
}

func substituteVars(pattern string, ctx map[string]any) string {
	if !strings.Contains(pattern, "${") {
		return pattern
	}
	return varToken.ReplaceAllStringFunc(pattern, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := ctx[name]; ok {
			return stringifyValue(v)
		}
		return match
	})
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// matchSegments walks pattern segments against value segments, anchored at
// both ends, backtracking on "**" (which may match zero or more whole
// segments and collapses with any immediately following "**").
func matchSegments(pat, val []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := skipStars(pat[1:])
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(val); i++ {
				if matchSegments(rest, val[i:]) {
					return true
				}
			}
			return false
		}
		if len(val) == 0 {
			return false
		}
		if !matchLiteralSegment(pat[0], val[0]) {
			return false
		}
		pat = pat[1:]
		val = val[1:]
	}
	return len(val) == 0
}

func matchLiteralSegment(pat, val string) bool {
	if pat == "*" {
		return val != ""
	}
	return pat == val
}

func skipStars(pat []string) []string {
	for len(pat) > 0 && pat[0] == "**" {
		pat = pat[1:]
	}
	return pat
}

// extractSegments mirrors matchSegments but also accumulates named
// variable captures from segments containing ${name} tokens.
func extractSegments(pat, val []string) (bool, map[string]string) {
	if len(pat) > 0 && pat[0] == "**" {
		rest := skipStars(pat[1:])
		if len(rest) == 0 {
			return true, map[string]string{}
		}
		for i := 0; i <= len(val); i++ {
			if ok, caps := extractSegments(rest, val[i:]); ok {
				return true, caps
			}
		}
		return false, nil
	}

	if len(pat) == 0 {
		if len(val) == 0 {
			return true, map[string]string{}
		}
		return false, nil
	}

	if len(val) == 0 {
		return false, nil
	}

	segCaps, ok := matchVarSegment(pat[0], val[0])
	if !ok {
		return false, nil
	}

	okRest, caps := extractSegments(pat[1:], val[1:])
	if !okRest {
		return false, nil
	}
	for name, value := range segCaps {
		caps[name] = value
	}
	return true, caps
}

// matchVarSegment matches one pattern segment against one path segment. A
// segment with no ${name} tokens is matched literally or as a wildcard;
// otherwise it is compiled into an anchored regex with one capture group
// per variable and evaluated against the path segment.
func matchVarSegment(pat, val string) (map[string]string, bool) {
	names := variableNames(pat)
	if len(names) == 0 {
		return nil, matchLiteralSegment(pat, val)
	}

	re := compileVarSegment(pat)
	m := re.FindStringSubmatch(val)
	if m == nil {
		return nil, false
	}

	caps := make(map[string]string, len(names))
	for i, name := range names {
		caps[name] = m[i+1]
	}
	return caps, true
}

func variableNames(segment string) []string {
	matches := varToken.FindAllStringSubmatch(segment, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

func compileVarSegment(segment string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, loc := range varToken.FindAllStringIndex(segment, -1) {
		b.WriteString(regexp.QuoteMeta(segment[last:loc[0]]))
		b.WriteString("(.+)")
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(segment[last:]))
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
