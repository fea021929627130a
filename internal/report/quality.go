// Package report composes data quality diagnostics over the cleaned
// dataset.
package report

import (
	"encoding/json"
	"sort"

	"fiscalcli/internal/dataset"
)

const duplicateSampleSize = 20

// DuplicateSample summarizes duplicate rows for one country/indicator pair.
type DuplicateSample struct {
	Country        string `json:"country"`
	Indicator      string `json:"indicator"`
	DuplicateCount int    `json:"duplicate_count"`
}

// QualityReport carries the diagnostics written alongside the cleaned
// export.
type QualityReport struct {
	Rows                     int                `json:"rows"`
	Countries                int                `json:"countries"`
	Indicators               int                `json:"indicators"`
	YearMin                  *int               `json:"year_min"`
	YearMax                  *int               `json:"year_max"`
	UnitCategoryDistribution map[string]int     `json:"unit_category_distribution"`
	MissingValueShare        map[string]float64 `json:"missing_value_share"`
	DuplicateRecordsFlagged  int                `json:"duplicate_records_flagged"`
	DuplicateSample          []DuplicateSample  `json:"duplicate_sample"`
	DuplicateGroupsResolved  int                `json:"duplicate_groups_auto_resolved"`
	DuplicateGroupsEscalated int                `json:"duplicate_groups_manual_review"`
	ValidationIssueCount     int                `json:"validation_issue_count"`
	Notes                    []string           `json:"notes"`
}

// Build composes a quality report over the cleaned observations.
func Build(observations []dataset.Observation) QualityReport {
	countries := make(map[string]bool)
	indicators := make(map[string]bool)
	unitMix := make(map[string]int)
	dupCounts := make(map[[2]string]int)

	var yearMin, yearMax *int
	var duplicates int
	missingAmount := 0
	missingStandardised := 0
	missingAligned := 0

	for _, obs := range observations {
		countries[obs.Country] = true
		indicators[obs.Indicator] = true
		unitMix[obs.UnitCategory.String()]++

		if obs.Year != 0 {
			y := obs.Year
			if yearMin == nil || y < *yearMin {
				v := y
				yearMin = &v
			}
			if yearMax == nil || y > *yearMax {
				v := y
				yearMax = &v
			}
		}
		if obs.AmountNumeric == nil {
			missingAmount++
		}
		if obs.AmountStandardised == nil {
			missingStandardised++
		}
		if obs.TimeAligned.IsZero() {
			missingAligned++
		}
		if obs.IsDuplicate {
			duplicates++
			dupCounts[[2]string{obs.Country, obs.Indicator}]++
		}
	}

	missing := map[string]float64{}
	if n := len(observations); n > 0 {
		missing["amount_numeric"] = round4(float64(missingAmount) / float64(n))
		missing["amount_standardised"] = round4(float64(missingStandardised) / float64(n))
		missing["time_aligned"] = round4(float64(missingAligned) / float64(n))
	}

	sample := make([]DuplicateSample, 0, len(dupCounts))
	for key, count := range dupCounts {
		sample = append(sample, DuplicateSample{Country: key[0], Indicator: key[1], DuplicateCount: count})
	}
	sort.Slice(sample, func(i, j int) bool {
		if sample[i].DuplicateCount != sample[j].DuplicateCount {
			return sample[i].DuplicateCount > sample[j].DuplicateCount
		}
		if sample[i].Country != sample[j].Country {
			return sample[i].Country < sample[j].Country
		}
		return sample[i].Indicator < sample[j].Indicator
	})
	if len(sample) > duplicateSampleSize {
		sample = sample[:duplicateSampleSize]
	}

	return QualityReport{
		Rows:                     len(observations),
		Countries:                len(countries),
		Indicators:               len(indicators),
		YearMin:                  yearMin,
		YearMax:                  yearMax,
		UnitCategoryDistribution: unitMix,
		MissingValueShare:        missing,
		DuplicateRecordsFlagged:  duplicates,
		DuplicateSample:          sample,
		Notes: []string{
			"Standardised amounts express currency values in billions of local currency.",
			"Fractional amounts provide decimal form for percentage indicators.",
			"Rows flagged as duplicates share the same country, indicator, frequency, and aligned timestamp.",
		},
	}
}

// Marshal renders the report as indented JSON.
func (r QualityReport) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func round4(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}
