package reflector

import "regexp"

var queryParamRes = []*regexp.Regexp{
	regexp.MustCompile(`\$request->getQueryParams\(\)\[['"](\w+)['"]\]`),
	regexp.MustCompile(`\$params\[['"](\w+)['"]\]`),
}

// QueryParam is an optional string query parameter read by an action.
type QueryParam struct {
	Name string
}

// QueryParams lists the query parameters the action reads, in first-seen
// order per access pattern.
func (r *Reflector) QueryParams(controller, action string) []QueryParam {
	body, _, found := function(r.ControllerPath(controller), action)
	if !found {
		return nil
	}
	return ExtractQueryParams(body)
}

// ExtractQueryParams scans a method body for query parameter accesses.
func ExtractQueryParams(body string) []QueryParam {
	seen := make(map[string]struct{})
	var params []QueryParam
	for _, re := range queryParamRes {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			if _, dup := seen[m[1]]; dup {
				continue
			}
			seen[m[1]] = struct{}{}
			params = append(params, QueryParam{Name: m[1]})
		}
	}
	return params
}
