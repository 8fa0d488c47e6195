package sarif

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// NotificationFixer is the default Patcher. It removes duplicate locations
// from every tool execution notification.
type NotificationFixer struct {
	Logger *slog.Logger
}

var _ Patcher = NotificationFixer{}

// Patch implements Patcher.
func (f NotificationFixer) Patch(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read SARIF file: %w", err)
	}

	fixed, removed, err := FixInvalidNotifications(data)
	if err != nil {
		return fmt.Errorf("parse SARIF file %s: %w", src, err)
	}

	if removed > 0 && f.Logger != nil {
		f.Logger.Info("Removed duplicate locations from SARIF notifications", "count", removed)
	}

	if err := os.WriteFile(dst, fixed, 0o644); err != nil {
		return fmt.Errorf("write SARIF file: %w", err)
	}

	return nil
}

type object = map[string]json.RawMessage

// FixInvalidNotifications removes duplicate entries from the locations of
// runs[].invocations[].toolExecutionNotifications[]. Everything else is
// passed through. The input is returned unchanged when nothing was removed.
func FixInvalidNotifications(data []byte) ([]byte, int, error) {
	var sarifLog object

	if err := json.Unmarshal(data, &sarifLog); err != nil {
		return nil, 0, err
	}

	removed := 0

	err := editArray(sarifLog, "runs", func(run object) (bool, error) {
		return editArrayChanged(run, "invocations", func(invocation object) (bool, error) {
			return editArrayChanged(invocation, "toolExecutionNotifications", dedupeLocations(&removed))
		})
	})
	if err != nil {
		return nil, 0, err
	}

	if removed == 0 {
		return data, 0, nil
	}

	fixed, err := json.Marshal(sarifLog)
	if err != nil {
		return nil, 0, err
	}

	return fixed, removed, nil
}

func dedupeLocations(removed *int) func(object) (bool, error) {
	return func(notification object) (bool, error) {
		raw, ok := notification["locations"]
		if !ok {
			return false, nil
		}

		var locations []json.RawMessage
		if err := json.Unmarshal(raw, &locations); err != nil {
			return false, err
		}

		seen := make(map[string]struct{}, len(locations))
		unique := make([]json.RawMessage, 0, len(locations))

		for _, location := range locations {
			var key bytes.Buffer
			if err := json.Compact(&key, location); err != nil {
				return false, err
			}

			if _, dup := seen[key.String()]; dup {
				*removed++

				continue
			}

			seen[key.String()] = struct{}{}
			unique = append(unique, location)
		}

		if len(unique) == len(locations) {
			return false, nil
		}

		encoded, err := json.Marshal(unique)
		if err != nil {
			return false, err
		}

		notification["locations"] = encoded

		return true, nil
	}
}

func editArray(parent object, key string, edit func(object) (bool, error)) error {
	_, err := editArrayChanged(parent, key, edit)

	return err
}

// editArrayChanged applies edit to each object of parent[key] and re-encodes
// the array when any element changed.
func editArrayChanged(parent object, key string, edit func(object) (bool, error)) (bool, error) {
	raw, ok := parent[key]
	if !ok {
		return false, nil
	}

	var items []object
	if err := json.Unmarshal(raw, &items); err != nil {
		return false, err
	}

	changed := false

	for _, item := range items {
		itemChanged, err := edit(item)
		if err != nil {
			return false, err
		}

		changed = changed || itemChanged
	}

	if !changed {
		return false, nil
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return false, err
	}

	parent[key] = encoded

	return true, nil
}
