// Package report renders innerscan measurements into the text posted to chat.
package report

import (
	"fmt"
	"slices"
	"strings"
	"healthplanet-notify/internal/scrapers/healthplanet"
)

type Variant string

const (
	// VariantGrouped emits a date header followed by the weight and body fat lines of that date.
	VariantGrouped Variant = "grouped"
	// VariantWeight emits one line per weight measurement.
	VariantWeight Variant = "weight"
)

// ParseVariant defaults to VariantGrouped on an empty string.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantGrouped:
		return VariantGrouped, nil
	case VariantWeight:
		return VariantWeight, nil
	}
	return "", fmt.Errorf("unknown report variant %q (expected %q or %q)", s, VariantGrouped, VariantWeight)
}

type Report struct {
	Lines []string
}

func (r Report) String() string {
	return strings.Join(r.Lines, "\n")
}

func (r Report) Empty() bool {
	return len(r.Lines) == 0
}

func Format(variant Variant, measurements []healthplanet.Measurement) Report {
	if variant == VariantWeight {
		return WeightOnly(measurements)
	}
	return Grouped(measurements)
}

// Grouped stable sorts measurements by date, then for every distinct date emits a header line,
// the weight lines and finally the body fat lines, each in input order.
func Grouped(measurements []healthplanet.Measurement) Report {
	sorted := slices.Clone(measurements)
	slices.SortStableFunc(sorted, func(a, b healthplanet.Measurement) int {
		return strings.Compare(a.Date, b.Date)
	})

	var lines []string
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].Date == sorted[start].Date {
			end++
		}
		lines = append(lines, groupLines(sorted[start].Date, sorted[start:end])...)
		start = end
	}
	return Report{Lines: lines}
}

func groupLines(date string, group []healthplanet.Measurement) []string {
	lines := []string{fmt.Sprintf("日時: %s", date)}
	for _, m := range group {
		if m.Tag == healthplanet.TagWeight {
			lines = append(lines, fmt.Sprintf("%s: %s", healthplanet.TagWeight.Label(), m.Keydata))
		}
	}
	for _, m := range group {
		if m.Tag == healthplanet.TagFatPercentage {
			lines = append(lines, fmt.Sprintf("%s: %s", healthplanet.TagFatPercentage.Label(), m.Keydata))
		}
	}
	return lines
}

// WeightOnly emits `日時:<date> 体重: <value>` for every weight measurement in input order.
func WeightOnly(measurements []healthplanet.Measurement) Report {
	var lines []string
	for _, m := range measurements {
		if m.Tag != healthplanet.TagWeight {
			continue
		}
		lines = append(lines, fmt.Sprintf("日時:%s %s: %s", m.Date, healthplanet.TagWeight.Label(), m.Keydata))
	}
	return Report{Lines: lines}
}
