// Package reflector reads generated controller and service sources to learn
// what a route accepts and returns. Every lookup is best effort: a missing
// file, function or pattern yields an empty result, never an error.
package reflector

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gaborage/slimgen/internal/inflect"
	"github.com/gaborage/slimgen/internal/scan"
)

// Project directory layout.
const (
	ControllerDir = "src/Controller"
	ServiceDir    = "src/Service"
)

// Reflector resolves controller and service files under a project root.
type Reflector struct {
	root string
}

// New returns a Reflector for the project at root.
func New(root string) *Reflector {
	return &Reflector{root: root}
}

// baseName strips the .php extension and the Controller suffix:
// UsersController.php becomes Users.
func baseName(controller string) string {
	return strings.TrimSuffix(strings.TrimSuffix(controller, ".php"), "Controller")
}

// ControllerPath returns the file for a controller reference. The exact
// file name wins; otherwise the classified <Name>Controller.php is used.
func (r *Reflector) ControllerPath(controller string) string {
	if controller == "" {
		return ""
	}
	name := controller
	if !strings.HasSuffix(name, ".php") {
		name += ".php"
	}
	exact := filepath.Join(r.root, ControllerDir, name)
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return exact
	}
	return filepath.Join(r.root, ControllerDir, inflect.Classify(baseName(controller))+"Controller.php")
}

// ServicePath returns the service file paired with a controller.
func (r *Reflector) ServicePath(controller string) string {
	if controller == "" {
		return ""
	}
	return filepath.Join(r.root, ServiceDir, inflect.Classify(baseName(controller))+"Service.php")
}

// function reads path and returns the source of the named public method,
// signature included. read reports whether the file could be read.
func function(path, name string) (body string, read, found bool) {
	if path == "" || name == "" {
		return "", false, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, false
	}
	body, found = FunctionSource(string(data), name)
	return body, true, found
}

// FunctionSource locates `public function name(` in src and returns the whole
// method. Braces are counted without regard to string literals.
func FunctionSource(src, name string) (string, bool) {
	re, err := regexp.Compile(`(?i)public\s+function\s+` + regexp.QuoteMeta(name) + `\s*\(`)
	if err != nil {
		return "", false
	}
	loc := re.FindStringIndex(src)
	if loc == nil {
		return "", false
	}
	open := scan.IndexOpen(src, loc[1], scan.Braces)
	if open < 0 {
		return "", false
	}
	end, ok := scan.MatchPlain(src, open, scan.Braces)
	if !ok {
		return "", false
	}
	return src[loc[0] : end+1], true
}
