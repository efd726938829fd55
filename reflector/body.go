package reflector

import (
	"regexp"

	"github.com/gaborage/slimgen/internal/scan"
)

var (
	dtoFilteredRe = regexp.MustCompile(`\$dto\s*=\s*array_filter\(\s*\[`)
	dtoLiteralRe  = regexp.MustCompile(`\$dto\s*=\s*\[`)
	dtoHelperRe   = regexp.MustCompile(`\$dto\s*=\s*[\w$:\\>-]+\(\s*\$\w+\s*,\s*\[([^\]]*)\]`)
	arrayKeyRe    = regexp.MustCompile(`(?m)^\s*['"]([^'"]+)['"]\s*=>`)
	quotedRe      = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

// BodyFields lists the request body fields an action copies into $dto.
func (r *Reflector) BodyFields(controller, action string) []string {
	body, _, found := function(r.ControllerPath(controller), action)
	if !found {
		return nil
	}
	return ExtractBodyFields(body)
}

// ExtractBodyFields tries, in order: $dto = array_filter([...]), a bare
// $dto = [...] literal, and a helper call $dto = fn($input, ['a', 'b']).
// The first strategy yielding fields wins.
func ExtractBodyFields(body string) []string {
	for _, strategy := range []func(string) []string{
		func(s string) []string { return literalKeys(s, dtoFilteredRe) },
		func(s string) []string { return literalKeys(s, dtoLiteralRe) },
		helperFields,
	} {
		if fields := strategy(body); len(fields) > 0 {
			return fields
		}
	}
	return nil
}

// literalKeys reads the keys of the array literal opened by re's match.
func literalKeys(body string, re *regexp.Regexp) []string {
	loc := re.FindStringIndex(body)
	if loc == nil {
		return nil
	}
	inner, ok := scan.Body(body, loc[1]-1, scan.Brackets)
	if !ok {
		return nil
	}
	return unique(arrayKeyRe.FindAllStringSubmatch(inner, -1))
}

func helperFields(body string) []string {
	m := dtoHelperRe.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	return unique(quotedRe.FindAllStringSubmatch(m[1], -1))
}

func unique(matches [][]string) []string {
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}
