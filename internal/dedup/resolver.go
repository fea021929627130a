package dedup

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"fiscalcli/internal/cleaning"
	"fiscalcli/internal/dataset"
)

// DefaultTolerance is the relative spread under which duplicate values are
// treated as effectively equal and merged automatically.
const DefaultTolerance = 0.01

// Issue types recorded in the audit trail.
const (
	IssueDuplicateFrequency = "duplicate_frequency"
	IssueDuplicateSameFreq  = "duplicate_same_frequency"
	IssueDuplicateConflict  = "duplicate_conflict"
	IssueAllValuesNull      = "all_values_null"
)

// AuditEntry is one decision in the duplicate resolution trail. Every
// resolution, automatic or escalated, produces exactly one entry; the trail
// is a correctness requirement, not informational logging.
type AuditEntry struct {
	ID           string
	Date         time.Time
	Country      string
	Indicator    string
	Time         time.Time
	IssueType    string
	Action       string
	KeptRowID    int
	KeptAmount   *float64
	DroppedRows  int
	RelativeDiff float64
	Notes        string
}

// ManualReview is an unresolved duplicate group escalated for a human
// decision, carrying every candidate value and row identifier.
type ManualReview struct {
	Country      string
	Indicator    string
	Frequency    string
	Time         time.Time
	Issue        string
	RelativeDiff float64
	Values       []float64
	RowIDs       []int
	KeptRowID    int
}

// Result bundles the deduplicated table with its audit artifacts.
type Result struct {
	Observations []dataset.Observation
	Audit        []AuditEntry
	ManualReview []ManualReview
}

// Resolver collapses duplicate (country, indicator, time) observations.
// Policy: frequency priority first (Monthly > Quarterly > Yearly), then a
// relative-spread tolerance among same-frequency candidates. Merging only
// ever happens inside the tolerance; any larger spread keeps a provisional
// max-absolute-value row and escalates the group for manual review.
type Resolver struct {
	tolerance float64
	now       func() time.Time
}

// NewResolver returns a resolver with the given tolerance; zero or negative
// falls back to the 1% default.
func NewResolver(tolerance float64) *Resolver {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Resolver{tolerance: tolerance, now: time.Now}
}

// Resolve applies the duplicate policy over cleaned observations.
// Group iteration is sorted by (country, indicator, time) so the audit
// trail is deterministic regardless of input order.
func (r *Resolver) Resolve(ctx context.Context, observations []dataset.Observation) Result {
	logger := slog.Default()

	groups := make(map[dataset.DuplicateKey][]dataset.Observation)
	var keys []dataset.DuplicateKey
	for _, obs := range observations {
		key := obs.Key()
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], obs)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Indicator != b.Indicator {
			return a.Indicator < b.Indicator
		}
		return a.Time.Before(b.Time)
	})

	result := Result{}
	for _, key := range keys {
		group := groups[key]
		if len(group) == 1 {
			result.Observations = append(result.Observations, group[0])
			continue
		}
		r.resolveGroup(key, group, &result)
	}

	cleaning.FlagDuplicates(result.Observations)

	logger.InfoContext(ctx, "duplicate resolution completed",
		"rows_in", len(observations),
		"rows_out", len(result.Observations),
		"audit_entries", len(result.Audit),
		"manual_review_groups", len(result.ManualReview),
	)

	return result
}

func (r *Resolver) resolveGroup(key dataset.DuplicateKey, group []dataset.Observation, result *Result) {
	bestRank := math.MaxInt
	for _, obs := range group {
		if rank := dataset.FrequencyRank(obs.Frequency); rank < bestRank {
			bestRank = rank
		}
	}

	var candidates []dataset.Observation
	for _, obs := range group {
		if dataset.FrequencyRank(obs.Frequency) == bestRank {
			candidates = append(candidates, obs)
		}
	}
	droppedLowerFreq := len(group) - len(candidates)

	if len(candidates) == 1 {
		chosen := candidates[0]
		result.Observations = append(result.Observations, chosen)
		result.Audit = append(result.Audit, r.entry(key, AuditEntry{
			IssueType:   IssueDuplicateFrequency,
			Action:      "kept higher-frequency observation; removed lower-priority frequencies",
			KeptRowID:   chosen.RowID,
			KeptAmount:  chosen.AmountNumeric,
			DroppedRows: droppedLowerFreq,
		}))
		return
	}

	var nonNull []dataset.Observation
	for _, obs := range candidates {
		if obs.AmountNumeric != nil {
			nonNull = append(nonNull, obs)
		}
	}

	if len(nonNull) == 0 {
		// Nothing to compare: keep the first candidate as a placeholder and
		// escalate the whole group.
		chosen := candidates[0]
		result.Observations = append(result.Observations, chosen)
		result.Audit = append(result.Audit, r.entry(key, AuditEntry{
			IssueType:   IssueAllValuesNull,
			Action:      "all candidate amounts null; escalated for manual review",
			KeptRowID:   chosen.RowID,
			DroppedRows: len(group) - 1,
		}))
		result.ManualReview = append(result.ManualReview, ManualReview{
			Country:   key.Country,
			Indicator: key.Indicator,
			Frequency: chosen.Frequency,
			Time:      key.Time,
			Issue:     IssueAllValuesNull,
			RowIDs:    rowIDs(group),
			KeptRowID: chosen.RowID,
		})
		return
	}

	// Deterministic tie-break: maximum absolute value, earliest row on ties.
	chosen := nonNull[0]
	maxAbs, minAbs := math.Abs(*chosen.AmountNumeric), math.Abs(*chosen.AmountNumeric)
	for _, obs := range nonNull[1:] {
		abs := math.Abs(*obs.AmountNumeric)
		if abs > maxAbs {
			maxAbs = abs
			chosen = obs
		}
		if abs < minAbs {
			minAbs = abs
		}
	}

	relativeDiff := 0.0
	if maxAbs > 0 {
		relativeDiff = (maxAbs - minAbs) / maxAbs
	}

	result.Observations = append(result.Observations, chosen)

	if relativeDiff <= r.tolerance {
		result.Audit = append(result.Audit, r.entry(key, AuditEntry{
			IssueType:    IssueDuplicateSameFreq,
			Action:       "values within tolerance; retained maximum absolute amount as representative",
			KeptRowID:    chosen.RowID,
			KeptAmount:   chosen.AmountNumeric,
			DroppedRows:  len(group) - 1,
			RelativeDiff: relativeDiff,
		}))
		return
	}

	result.Audit = append(result.Audit, r.entry(key, AuditEntry{
		IssueType:    IssueDuplicateConflict,
		Action:       "retained maximum absolute value for provisional dataset; escalated for manual review",
		KeptRowID:    chosen.RowID,
		KeptAmount:   chosen.AmountNumeric,
		DroppedRows:  len(group) - 1,
		RelativeDiff: relativeDiff,
	}))
	result.ManualReview = append(result.ManualReview, ManualReview{
		Country:      key.Country,
		Indicator:    key.Indicator,
		Frequency:    chosen.Frequency,
		Time:         key.Time,
		Issue:        "spread_exceeds_tolerance",
		RelativeDiff: relativeDiff,
		Values:       sortedValues(nonNull),
		RowIDs:       rowIDs(group),
		KeptRowID:    chosen.RowID,
	})
}

func (r *Resolver) entry(key dataset.DuplicateKey, e AuditEntry) AuditEntry {
	e.ID = uuid.NewString()
	e.Date = r.now().UTC()
	e.Country = key.Country
	e.Indicator = key.Indicator
	e.Time = key.Time
	return e
}

func rowIDs(group []dataset.Observation) []int {
	ids := make([]int, 0, len(group))
	for _, obs := range group {
		ids = append(ids, obs.RowID)
	}
	sort.Ints(ids)
	return ids
}

func sortedValues(group []dataset.Observation) []float64 {
	values := make([]float64, 0, len(group))
	for _, obs := range group {
		values = append(values, *obs.AmountNumeric)
	}
	sort.Float64s(values)
	return values
}
