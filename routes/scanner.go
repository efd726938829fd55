// Package routes recovers route registrations from a Slim Routes.php file.
//
// The scanner recognises the statements slimgen writes:
//
//	$app->group('/users', function ($app) {
//	  $users = 'App\Controller\UsersController:';
//	  $app->get('/{id}', "{$users}getOne");
//	})->add($authMiddleware);
//
// as well as direct handler references such as 'UsersController:getAll'.
// Statements that do not fit are skipped.
package routes

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gaborage/slimgen/internal/inflect"
	"github.com/gaborage/slimgen/internal/scan"
)

// Route is one registration found in the routes file.
type Route struct {
	// Method is the lowercase HTTP verb.
	Method string
	// Path is the route's own path fragment.
	Path string
	// GroupPrefix is the concatenated prefix of every enclosing group.
	GroupPrefix string
	// FinalPath is the full path as served.
	FinalPath string
	// Tag identifies the controller: the handler variable name or the
	// lower-first class name without the Controller suffix.
	Tag string
	// Controller is the controller file name, e.g. UsersController.php.
	// Empty when the handler variable is never assigned.
	Controller string
	Action     string
	// Offset is the byte offset of the statement in the source.
	Offset int
}

// Grouped reports whether the route is registered inside a group.
func (r Route) Grouped() bool {
	return r.GroupPrefix != ""
}

var (
	// routeRe accepts chained calls such as ->add(new Auth()) or
	// ->setName('x') after the route, with one level of nested parentheses.
	routeRe = regexp.MustCompile(
		`\$\w+->((?i:get|post|put|patch|delete|options|head))\(\s*['"]([^'"]*)['"]\s*,\s*['"]([^'"]*)['"]\s*\)(?:\s*->\w+\((?:[^()]|\([^()]*\))*\))*\s*;`)
	groupRe    = regexp.MustCompile(`\$\w+->group\(\s*['"]([^'"]+)['"]\s*,`)
	varRefRe   = regexp.MustCompile(`^\{\$(\w+)\}(\w+)$`)
	directRe   = regexp.MustCompile(`^([\w\\]+):(\w+)$`)
	pathParmRe = regexp.MustCompile(`\{(\w+)(?::[^}]*)?\}`)
)

// reserved are framework endpoints, never resource routes.
var reserved = map[string]struct{}{
	"/":           {},
	"/api":        {},
	"/status":     {},
	"/swagger":    {},
	"/swagger-ui": {},
}

// IsReserved reports whether path is a framework endpoint.
func IsReserved(path string) bool {
	_, ok := reserved[path]
	return ok
}

type group struct {
	prefix      string
	start, open int
	close       int
}

// Scan returns the routes registered in src in source order.
func Scan(src string) []Route {
	groups := findGroups(src)
	assignments := make(map[string]string)

	var out []Route
	for _, m := range routeRe.FindAllStringSubmatchIndex(src, -1) {
		offset := m[0]
		method := strings.ToLower(src[m[2]:m[3]])
		path := src[m[4]:m[5]]
		ref := src[m[6]:m[7]]

		tag, controller, action, ok := parseHandler(src, ref, assignments)
		if !ok {
			continue
		}

		prefix := enclosingPrefix(groups, offset)
		prefixed := prefix + path
		if IsReserved(prefixed) {
			continue
		}

		final := prefixed
		if prefix == "" {
			final = "/" + TagToSlug(tag) + path
		}
		if IsReserved(final) {
			continue
		}

		out = append(out, Route{
			Method:      method,
			Path:        path,
			GroupPrefix: prefix,
			FinalPath:   final,
			Tag:         tag,
			Controller:  controller,
			Action:      action,
			Offset:      offset,
		})
	}
	return out
}

func findGroups(src string) []group {
	var groups []group
	for _, m := range groupRe.FindAllStringSubmatchIndex(src, -1) {
		open := scan.IndexOpen(src, m[1], scan.Braces)
		if open < 0 {
			continue
		}
		end, ok := scan.MatchQuoted(src, open, scan.Braces)
		if !ok {
			end = len(src)
		}
		groups = append(groups, group{prefix: src[m[2]:m[3]], start: m[0], open: open, close: end})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].start < groups[j].start })
	return groups
}

// enclosingPrefix joins the prefixes of every group whose body contains
// offset, outermost first.
func enclosingPrefix(groups []group, offset int) string {
	var b strings.Builder
	for _, g := range groups {
		if offset > g.open && offset < g.close {
			b.WriteString(g.prefix)
		}
	}
	return b.String()
}

// parseHandler splits a handler reference into tag, controller file and
// action.
func parseHandler(src, ref string, assignments map[string]string) (tag, controller, action string, ok bool) {
	if m := varRefRe.FindStringSubmatch(ref); m != nil {
		tag, action = m[1], m[2]
		class, found := assignments[tag]
		if !found {
			class = lookupAssignment(src, tag)
			assignments[tag] = class
		}
		if class != "" {
			controller = class + ".php"
		}
		return tag, controller, action, true
	}
	if m := directRe.FindStringSubmatch(ref); m != nil {
		class := stripNamespace(m[1])
		tag = inflect.LowerFirst(strings.TrimSuffix(class, "Controller"))
		if tag == "" {
			return "", "", "", false
		}
		return tag, class + ".php", m[2], true
	}
	return "", "", "", false
}

// lookupAssignment finds `$tag = 'App\Controller\Class:'` and returns
// Class.
func lookupAssignment(src, tag string) string {
	re := regexp.MustCompile(`\$` + regexp.QuoteMeta(tag) + `\s*=\s*['"]([^'"]+)['"]`)
	m := re.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return stripNamespace(strings.TrimSuffix(m[1], ":"))
}

func stripNamespace(class string) string {
	if i := strings.LastIndexByte(class, '\\'); i >= 0 {
		return class[i+1:]
	}
	return class
}

// NormalizePath drops route-pattern constraints: /users/{id:[0-9]+}
// becomes /users/{id}.
func NormalizePath(path string) string {
	return pathParmRe.ReplaceAllString(path, "{$1}")
}

// PathParams returns the placeholder names of path in order.
func PathParams(path string) []string {
	matches := pathParmRe.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
