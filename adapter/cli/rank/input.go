package rank

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Batch is a task batch read from a file or stdin.
type Batch struct {
	Tasks    []any
	Strategy string
}

// ErrNoInput is returned when the input holds no document.
var ErrNoInput = errors.New("no task input")

// openInput opens path, or returns stdin for "" and "-".
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open task file: %w", err)
	}
	return f, nil
}

// isYAML reports whether path has a YAML extension.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// ReadBatch reads a JSON or YAML document holding either a list of tasks or
// an object with "tasks" and an optional "strategy".
func ReadBatch(r io.Reader, yamlInput bool) (Batch, error) {
	var doc any
	if yamlInput {
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return Batch{}, ErrNoInput
			}
			return Batch{}, fmt.Errorf("invalid YAML input: %w", err)
		}
	} else {
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return Batch{}, ErrNoInput
			}
			return Batch{}, fmt.Errorf("invalid JSON input: %w", err)
		}
	}

	switch v := doc.(type) {
	case []any:
		return Batch{Tasks: v}, nil
	case map[string]any:
		return batchFromObject(v)
	case nil:
		return Batch{}, ErrNoInput
	default:
		return Batch{}, fmt.Errorf("expected a list of tasks or an object with \"tasks\", got %T", doc)
	}
}

func batchFromObject(obj map[string]any) (Batch, error) {
	var batch Batch

	if raw, ok := obj["tasks"]; ok && raw != nil {
		tasks, ok := raw.([]any)
		if !ok {
			return Batch{}, errors.New(`"tasks" must be a list`)
		}
		batch.Tasks = tasks
	}

	if raw, ok := obj["strategy"]; ok && raw != nil {
		strategy, ok := raw.(string)
		if !ok {
			return Batch{}, errors.New(`"strategy" must be a string`)
		}
		batch.Strategy = strategy
	}

	return batch, nil
}
