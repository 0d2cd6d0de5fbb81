package base

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseLCOV extracts (covered, total) line counts from an lcov tracefile.
// Per-record LH:/LF: summaries are summed when present; tracefiles written
// without them fall back to counting DA: entries, where a line is covered
// when its execution count is non-zero.
func ParseLCOV(data []byte) (covered, total int64, err error) {
	var lh, lf int64
	var daCovered, daTotal int64

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "LH:"):
			if n, err := strconv.ParseInt(line[3:], 10, 64); err == nil {
				lh += n
			}
		case strings.HasPrefix(line, "LF:"):
			if n, err := strconv.ParseInt(line[3:], 10, 64); err == nil {
				lf += n
			}
		case strings.HasPrefix(line, "DA:"):
			fields := strings.Split(line[3:], ",")
			if len(fields) < 2 {
				continue
			}
			count, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
			if err != nil {
				continue
			}
			daTotal++
			if count > 0 {
				daCovered++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("reading lcov tracefile: %w", err)
	}

	if lf > 0 {
		return lh, lf, nil
	}
	if daTotal > 0 {
		return daCovered, daTotal, nil
	}
	return 0, 0, fmt.Errorf("lcov tracefile carries no line records: %w", ErrNoCoverageData)
}
