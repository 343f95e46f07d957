// Package seed provides the pre-generated access-code pool loaded into the
// database on first boot.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed codes.txt
var defaultPool string

// LoadCodes returns the access-code pool, one code per line. A non-empty
// path overrides the embedded default list.
func LoadCodes(path string) ([]string, error) {
	raw := defaultPool
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read access code file: %w", err)
		}
		raw = string(data)
	}

	var codes []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		codes = append(codes, line)
	}

	return codes, nil
}
