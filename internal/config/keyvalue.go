package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// parseKeyValue reads the cfg.txt format: one key=value per line, blank
// lines and lines starting with '#' ignored, only the first '=' splits.
// Dotted keys become nested maps so viper resolves them like any other
// nested key.
func parseKeyValue(r io.Reader) (map[string]any, error) {
	values := make(map[string]any)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			// Notepad writes a UTF-8 BOM
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}
		setNested(values, strings.Split(key, "."), strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

func setNested(m map[string]any, path []string, value string) {
	for _, part := range path[:len(path)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
