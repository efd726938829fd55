package generator

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	controllerTemplate = "controller.php.tmpl"
	serviceTemplate    = "service.php.tmpl"
	routesTemplate     = "routes.php.tmpl"
	servicesTemplate   = "services.php.tmpl"
)

// values holds the placeholder substitutions for one resource.
type values map[string]string

// render expands every {{name}} placeholder of the named template.
// Unknown placeholders are left as they are.
func render(name string, v values) (string, error) {
	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	pairs := make([]string, 0, len(v)*2)
	for k, val := range v {
		pairs = append(pairs, "{{"+k+"}}", val)
	}
	return strings.NewReplacer(pairs...).Replace(string(data)), nil
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
