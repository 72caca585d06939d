// Package sysmod contains post-build system modifiers: transforms that
// rewrite an already-built component graph, such as splitting aggregated
// generators into unit-sized pieces.
package sysmod

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
)

// coercePath validates that v is a path to an existing regular file.
func coercePath(v any) result.Result[string] {
	path, ok := v.(string)
	if !ok {
		return result.Err[string](errors.Newf(errors.ErrorTypeType,
			"expected a path-like object, got %T", v))
	}
	info, err := os.Stat(path)
	if err != nil {
		return result.Err[string](errors.Newf(errors.ErrorTypeFile,
			"reference file %s not found", path))
	}
	if info.IsDir() {
		return result.Err[string](errors.Newf(errors.ErrorTypeFile,
			"Expected a file path, got directory: %s", path))
	}
	return result.Ok(path)
}

// deduplicateRecords keeps the first record per key value, preserving order.
// Non-mapping records are skipped with a warning; records missing the key
// are kept as-is since they cannot collide.
func deduplicateRecords(records []any, key string) []map[string]any {
	if len(records) == 0 {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(records))
	seen := make(map[string]bool)
	duplicates := 0
	for _, raw := range records {
		rec, ok := raw.(map[string]any)
		if !ok {
			logger.Warn("skipping non-mapping record", zap.Any("record", raw))
			continue
		}
		keyValue, hasKey := rec[key]
		if !hasKey || keyValue == nil {
			out = append(out, rec)
			continue
		}
		id := fmt.Sprintf("%v", keyValue)
		if seen[id] {
			duplicates++
			continue
		}
		seen[id] = true
		out = append(out, rec)
	}
	if duplicates > 0 {
		logger.Warn(fmt.Sprintf("Duplicate entries found for key '%s'", key),
			zap.Int("duplicates", duplicates))
	}
	return out
}
