package reflector

import (
	"regexp"
	"strings"
)

// Shape classifies the payload a service method returns.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeObject
	ShapeArray
)

// Response descriptions.
const (
	DescSingle       = "Single object response"
	DescArray        = "Array of objects response"
	DescNoSQL        = "No SQL queries found"
	DescNoSelect     = "No SELECT statement found"
	DescReadError    = "Read the service file error"
	DescExtractError = "Extract the function content error"
)

// singleRowCalls mark a query fetching one row.
var singleRowCalls = []string{"fetchAssociative", "fetchOne", "fetchAssoc"}

var (
	heredocRe = regexp.MustCompile(`(?s)<<<['"]?SQL['"]?\s*\n(.*?)\n\s*SQL\s*;`)
	selectRe  = regexp.MustCompile(`(?is)SELECT\s+(.*?)\s+FROM`)
	aliasRe   = regexp.MustCompile("(?i)AS\\s+[`\"]?(\\w+)[`\"]?$")
)

// Response is the approximate shape of a 200 response. Columns are
// string-typed; no type is inferred from SQL.
type Response struct {
	Description string
	Shape       Shape
	Columns     []string
}

// Response describes what the service method paired with controller and
// action returns.
func (r *Reflector) Response(controller, action string) Response {
	body, read, found := function(r.ServicePath(controller), action)
	switch {
	case !read:
		return Response{Description: DescReadError}
	case !found:
		return Response{Description: DescExtractError}
	}
	return ExtractResponse(body)
}

// ExtractResponse reads the first heredoc SQL block of a method body.
func ExtractResponse(body string) Response {
	m := heredocRe.FindStringSubmatch(body)
	if m == nil {
		return Response{Description: DescNoSQL}
	}
	sel := selectRe.FindStringSubmatch(m[1])
	if sel == nil || strings.TrimSpace(sel[1]) == "" {
		return Response{Description: DescNoSelect}
	}

	var cols []string
	for _, part := range strings.Split(sel[1], ",") {
		if col := columnName(part); col != "" {
			cols = append(cols, col)
		}
	}

	if isSingleRow(body) {
		return Response{Description: DescSingle, Shape: ShapeObject, Columns: cols}
	}
	return Response{Description: DescArray, Shape: ShapeArray, Columns: cols}
}

// columnName resolves `expr AS alias` to alias and strips quoting and
// table qualifiers from plain columns.
func columnName(part string) string {
	part = strings.TrimSpace(part)
	if m := aliasRe.FindStringSubmatch(part); m != nil {
		return m[1]
	}
	part = strings.NewReplacer("`", "", `"`, "").Replace(part)
	if i := strings.LastIndexByte(part, '.'); i >= 0 && i < len(part)-1 {
		part = part[i+1:]
	}
	if part == "*" {
		return ""
	}
	return part
}

func isSingleRow(body string) bool {
	for _, call := range singleRowCalls {
		if strings.Contains(body, call) {
			return true
		}
	}
	return false
}
