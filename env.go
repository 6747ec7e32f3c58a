package runcap

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateEnv checks environment overrides for values that cannot be
// represented in a process environment: empty keys, keys containing
// '=' or null bytes, and values containing null bytes.
func ValidateEnv(env map[string]string) error {
	for k, v := range env {
		if k == "" {
			return fmt.Errorf("env: empty variable name")
		}
		if strings.ContainsRune(k, '=') {
			return fmt.Errorf("env: variable name %q contains '='", k)
		}
		if strings.ContainsRune(k, '\x00') || strings.ContainsRune(v, '\x00') {
			return fmt.Errorf("env: variable %q contains null bytes", k)
		}
	}
	return nil
}

// MergeEnv overlays overrides onto base (a KEY=VALUE list, typically
// os.Environ). An override replaces every inherited entry of the same
// name. Overrides are appended in sorted key order so the result is
// deterministic. A nil overrides map returns base unchanged.
func MergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	merged := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[name]; ok {
			continue
		}
		merged = append(merged, kv)
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+overrides[k])
	}
	return merged
}
