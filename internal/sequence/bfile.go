package sequence

import (
	"bufio"
	"fmt"
	"math/big"
	"strings"
)

// ParseBFile parses OEIS b-file text. Each data line is "n a(n)"; comment
// lines start with '#'. Only the second column is kept. Terms can exceed any
// fixed-width integer, so values parse directly into big.Int.
func ParseBFile(text string) (Sequence, error) {
	var terms []*big.Int

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		v, ok := new(big.Int).SetString(parts[1], 10)
		if !ok {
			// Malformed value column; skip the line like the rest.
			continue
		}
		terms = append(terms, v)
	}
	if err := sc.Err(); err != nil {
		return Sequence{}, fmt.Errorf("scan b-file: %w", err)
	}
	if len(terms) == 0 {
		return Sequence{}, fmt.Errorf("b-file empty or unparseable")
	}
	return Sequence{Terms: terms}, nil
}
