package secrets

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Overlay replaces each target with the secret stored under its key.
// Missing secrets leave the target untouched; any other failure aborts.
// It returns the keys that were applied.
func Overlay(ctx context.Context, m Manager, targets map[string]*string) ([]string, error) {
	keys := make([]string, 0, len(targets))
	for key := range targets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var applied []string
	for _, key := range keys {
		value, err := m.GetSecret(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return applied, fmt.Errorf("load secret %s: %w", key, err)
		}
		*targets[key] = value
		applied = append(applied, key)
	}
	return applied, nil
}
