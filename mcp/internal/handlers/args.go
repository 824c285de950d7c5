package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg reads a numeric argument. JSON transports deliver float64;
// in-process callers may pass int or a numeric string.
func intArg(req mcp.CallToolRequest, key string, def int) (int, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(i), nil
	case string:
		if strings.TrimSpace(n) == "" {
			return def, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%s must be an integer", key)
}

func boolArg(req mcp.CallToolRequest, key string, def bool) (bool, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if b == "" {
			return def, nil
		}
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("%s must be a boolean", key)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("%s must be a boolean", key)
}

func stringArg(req mcp.CallToolRequest, key string) string {
	s, _ := req.GetArguments()[key].(string)
	return strings.TrimSpace(s)
}

// stringsArg accepts a JSON array of strings or a comma separated string.
func stringsArg(req mcp.CallToolRequest, key string) []string {
	var out []string
	switch v := req.GetArguments()[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case string:
		out = strings.Split(v, ",")
	}
	cleaned := out[:0]
	for _, s := range out {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
