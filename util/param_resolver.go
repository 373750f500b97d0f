package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var tokenPattern = regexp.MustCompile("{(.*?)}")

// ResolveInputParams copies params, replacing every {$.json.path} token found in a
// string value with the value the path selects in data. A string made of a single
// token keeps the type of the selected value.
func ResolveInputParams(data map[string]any, params map[string]any) map[string]any {
	output := make(map[string]any, len(params))
	for k, v := range params {
		output[k] = resolveValue(data, v)
	}
	return output
}

func resolveValue(data map[string]any, value any) any {
	switch v := value.(type) {
	case map[string]any:
		return ResolveInputParams(data, v)
	case []any:
		out := make([]any, 0, len(v))
		for _, e := range v {
			out = append(out, resolveValue(data, e))
		}
		return out
	case string:
		return resolveString(data, v)
	default:
		return v
	}
}

func resolveString(data map[string]any, str string) any {
	tokens := tokenPattern.FindAllString(str, -1)
	if len(tokens) == 1 && tokens[0] == str {
		if value, ok := lookup(data, str); ok {
			return value
		}
		return nil
	}
	for _, token := range tokens {
		if value, ok := lookup(data, token); ok {
			str = strings.ReplaceAll(str, token, fmt.Sprintf("%v", value))
		}
	}
	return str
}

func lookup(data map[string]any, token string) (any, bool) {
	path := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
	if !strings.HasPrefix(path, "$") {
		return nil, false
	}
	value, err := jsonpath.JsonPathLookup(data, path)
	if err != nil {
		return nil, false
	}
	return value, true
}

// ValidateInputParams checks that every {$...} token in params is a valid json path.
func ValidateInputParams(params map[string]any) error {
	for k, v := range params {
		if err := validateValue(v); err != nil {
			return fmt.Errorf("input param %s %w", k, err)
		}
	}
	return nil
}

func validateValue(value any) error {
	switch v := value.(type) {
	case map[string]any:
		return ValidateInputParams(v)
	case []any:
		for _, e := range v {
			if err := validateValue(e); err != nil {
				return err
			}
		}
	case string:
		for _, token := range tokenPattern.FindAllString(v, -1) {
			path := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
			if !strings.HasPrefix(path, "$") {
				continue
			}
			if _, err := jsonpath.Compile(path); err != nil {
				return fmt.Errorf("invalid json path %s", path)
			}
		}
	}
	return nil
}
