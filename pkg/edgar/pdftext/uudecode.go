package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// PDF payloads inside a submission arrive uuencoded: a "begin" line,
// data lines whose first character encodes the byte count, and a
// terminating backtick or "end" line.

var errNoBeginLine = errors.New("uudecode: no begin line found")

func uudecode(encoded string) ([]byte, error) {
	lines := strings.Split(encoded, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "begin ") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, errNoBeginLine
	}

	var out bytes.Buffer
	for _, line := range lines[start+1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line == "`" || strings.HasPrefix(line, "end") {
			break
		}
		n := int(line[0]-' ') & 63
		if n == 0 {
			break
		}
		decoded, err := decodeLine(line[1:], n)
		if err != nil {
			return nil, err
		}
		out.Write(decoded)
	}
	return out.Bytes(), nil
}

// decodeLine expands groups of four 6-bit characters into three bytes
// each, keeping the first n bytes.
func decodeLine(data string, n int) ([]byte, error) {
	decoded := make([]byte, 0, n+2)
	for i := 0; i+4 <= len(data) && len(decoded) < n; i += 4 {
		var c [4]byte
		for j := 0; j < 4; j++ {
			c[j] = (data[i+j] - ' ') & 63
		}
		decoded = append(decoded,
			c[0]<<2|c[1]>>4,
			c[1]<<4|c[2]>>2,
			c[2]<<6|c[3])
	}
	if len(decoded) < n {
		return nil, fmt.Errorf("uudecode: short line, want %d bytes, got %d", n, len(decoded))
	}
	return decoded[:n], nil
}
