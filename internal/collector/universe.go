package collector

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadUniverse reads one ticker per line. Blank lines are ignored and
// surrounding whitespace is trimmed; file order is kept.
func LoadUniverse(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe: %w", err)
	}
	defer f.Close()

	var universe []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			universe = append(universe, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	return universe, nil
}
