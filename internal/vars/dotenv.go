package vars

import (
	"bufio"
	"os"
	"strings"

	"github.com/avask/termapi/internal/errdef"
)

// LoadDotenv parses a .env style file into a MapProvider labeled "dotenv".
// Supported syntax: KEY=value pairs, optional "export " prefix, single or
// double quoted values, and # comments. Lines that do not parse are skipped.
func LoadDotenv(path string) (Provider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "open dotenv %s", path)
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseDotenvLine(scanner.Text())
		if !ok {
			continue
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "read dotenv %s", path)
	}
	return NewMapProvider("dotenv", values), nil
}

func parseDotenvLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	trimmed = strings.TrimPrefix(trimmed, "export ")

	key, value, ok := strings.Cut(trimmed, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	switch {
	case len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"':
		value = value[1 : len(value)-1]
	case len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'':
		value = value[1 : len(value)-1]
	default:
		// Unquoted values may carry trailing comments.
		if idx := strings.Index(value, " #"); idx >= 0 {
			value = strings.TrimSpace(value[:idx])
		}
	}
	return key, value, true
}
