package generator

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Registry files relative to the project root.
const (
	RoutesFile   = "src/App/Routes.php"
	ServicesFile = "src/App/Services.php"

	returnApp = "return $app;"
)

// insertRouteGroup places block before the last `return $app;` of src, or
// at the end when there is none. It reports false when a group for prefix
// is already registered.
func insertRouteGroup(src, prefix, block string) (string, bool) {
	groupRe := regexp.MustCompile(`\$\w+->group\(\s*['"]` + regexp.QuoteMeta(prefix) + `['"]`)
	if groupRe.MatchString(src) {
		return src, false
	}

	block = strings.TrimRight(block, "\n")
	idx := strings.LastIndex(src, returnApp)
	if idx < 0 {
		return strings.TrimRight(src, "\n") + "\n\n" + block + "\n", true
	}
	lineStart := strings.LastIndex(src[:idx], "\n") + 1
	before := strings.TrimRight(src[:lineStart], "\n")
	return before + "\n\n" + block + "\n\n" + src[lineStart:], true
}

// appendService adds entry to src unless its container key is present.
func appendService(src, key, entry string) (string, bool) {
	if strings.Contains(src, "$container['"+key+"']") {
		return src, false
	}
	return strings.TrimRight(src, "\n") + "\n" + strings.TrimRight(entry, "\n") + "\n", true
}

// updateFile rewrites path through fn. It returns whether fn changed it.
func updateFile(path string, fn func(string) (string, bool)) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out, changed := fn(string(data))
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
