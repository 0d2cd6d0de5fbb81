package base

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/tools/cover"
)

// goProfileLineRe matches one coverprofile block line:
// name.go:startLine.startCol,endLine.endCol numStmts count
var goProfileLineRe = regexp.MustCompile(`^\S+:\d+\.\d+,\d+\.\d+ (\d+) (\d+)$`)

// ParseGoProfile extracts (covered, total) statement counts from a Go
// coverprofile. The x/tools parser is the strict path; profiles it rejects
// go through a line-pattern fallback so a truncated profile still yields
// the blocks it does carry.
func ParseGoProfile(path string) (covered, total int64, err error) {
	profiles, err := cover.ParseProfiles(path)
	if err == nil {
		for _, p := range profiles {
			for _, b := range p.Blocks {
				total += int64(b.NumStmt)
				if b.Count > 0 {
					covered += int64(b.NumStmt)
				}
			}
		}
		if total == 0 {
			return 0, 0, fmt.Errorf("go coverprofile %s carries no statements: %w", path, ErrNoCoverageData)
		}
		return covered, total, nil
	}
	return parseGoProfileLoose(path)
}

// ParseGoProfileData is the pattern-extraction strategy over raw profile
// text, shared with the loose file path.
func ParseGoProfileData(data []byte) (covered, total int64, err error) {
	for _, line := range strings.Split(string(data), "\n") {
		m := goProfileLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		stmts, err1 := strconv.ParseInt(m[1], 10, 64)
		count, err2 := strconv.ParseInt(m[2], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		total += stmts
		if count > 0 {
			covered += stmts
		}
	}
	if total == 0 {
		return 0, 0, fmt.Errorf("go coverprofile carries no statements: %w", ErrNoCoverageData)
	}
	return covered, total, nil
}

func parseGoProfileLoose(path string) (int64, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading go coverprofile: %w", err)
	}
	return ParseGoProfileData(data)
}
