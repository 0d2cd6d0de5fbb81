package base

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
)

// coberturaDocument is the subset of the cobertura schema the adapters
// need: the root element's aggregate line counters.
type coberturaDocument struct {
	XMLName      xml.Name `xml:"coverage"`
	LinesCovered int64    `xml:"lines-covered,attr"`
	LinesValid   int64    `xml:"lines-valid,attr"`
}

var (
	coberturaCoveredRe = regexp.MustCompile(`lines-covered="(\d+)"`)
	coberturaValidRe   = regexp.MustCompile(`lines-valid="(\d+)"`)
	coberturaHitsRe    = regexp.MustCompile(`\bhits="(\d+)"`)
)

// ParseCobertura extracts (covered, total) line counts from a cobertura
// XML document. The structured parse of the root counters is preferred;
// when the document does not unmarshal or carries no totals, two pattern
// fallbacks apply in order: the same root attributes by regex, then a
// count of per-line hits entries. Both strategies implement the same
// contract and are tested against the same fixed sample documents.
func ParseCobertura(data []byte) (covered, total int64, err error) {
	var doc coberturaDocument
	if err := xml.Unmarshal(data, &doc); err == nil && doc.LinesValid > 0 {
		return doc.LinesCovered, doc.LinesValid, nil
	}

	if covered, total, ok := coberturaByAttr(data); ok {
		return covered, total, nil
	}
	if covered, total, ok := coberturaByHits(data); ok {
		return covered, total, nil
	}
	return 0, 0, fmt.Errorf("cobertura document carries no line totals: %w", ErrNoCoverageData)
}

func coberturaByAttr(data []byte) (int64, int64, bool) {
	cm := coberturaCoveredRe.FindSubmatch(data)
	vm := coberturaValidRe.FindSubmatch(data)
	if cm == nil || vm == nil {
		return 0, 0, false
	}
	covered, err1 := strconv.ParseInt(string(cm[1]), 10, 64)
	total, err2 := strconv.ParseInt(string(vm[1]), 10, 64)
	if err1 != nil || err2 != nil || total == 0 {
		return 0, 0, false
	}
	return covered, total, true
}

func coberturaByHits(data []byte) (int64, int64, bool) {
	var covered, total int64
	for _, m := range coberturaHitsRe.FindAllSubmatch(data, -1) {
		hits, err := strconv.ParseInt(string(m[1]), 10, 64)
		if err != nil {
			continue
		}
		total++
		if hits > 0 {
			covered++
		}
	}
	if total == 0 {
		return 0, 0, false
	}
	return covered, total, true
}
