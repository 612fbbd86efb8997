package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/dtimer/internal/ir"
)

// marshalErrors converts failure messages to canonical JSON TEXT.
func marshalErrors(errs []string) (string, error) {
	arr := make(ir.IRArray, len(errs))
	for i, e := range errs {
		arr[i] = ir.IRString(e)
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal errors: %w", err)
	}
	return string(data), nil
}

// unmarshalErrors parses the errors column. An empty array yields nil.
func unmarshalErrors(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var errs []string
	if err := json.Unmarshal([]byte(data), &errs); err != nil {
		return nil, fmt.Errorf("unmarshal errors: %w", err)
	}
	return errs, nil
}

// formatUint renders an unsigned count for a TEXT column.
func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// parseUint reads an unsigned count from a TEXT column.
func parseUint(column, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}
