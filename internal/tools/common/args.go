package common

import (
	"fmt"
	"strconv"
	"strings"
)

// StringArg returns the trimmed string argument name, or "" when it is absent
// or not a string.
func StringArg(args map[string]interface{}, name string) string {
	v, _ := args[name].(string)
	return strings.TrimSpace(v)
}

// RequiredStringArg is StringArg that fails on an empty value.
func RequiredStringArg(args map[string]interface{}, name string) (string, error) {
	v := StringArg(args, name)
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

// NumberArg returns the numeric argument name. JSON numbers arrive as
// float64; numeric strings are accepted too.
func NumberArg(args map[string]interface{}, name string) (float64, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a number, got %q", name, v)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number", name)
	}
}

// BoolArg returns the boolean argument name, false when absent.
func BoolArg(args map[string]interface{}, name string) bool {
	v, _ := args[name].(bool)
	return v
}
