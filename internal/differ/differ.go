// =============================================================================
// Wage Determination Diff - Variant Differ
// =============================================================================
//
// Diff performs a full outer join of two record tables on (Job, Job_Subclass)
// and reports what changed between the old and the new revision.
//
// JOIN RULES:
//   - key only in old table   -> one "Removed" row per old record
//   - key only in new table   -> one "Added" row per new record
//   - key in both tables      -> every old record is paired with every new
//                                record for that key (Cartesian product);
//                                a pair becomes "Modified" when Rate or
//                                Fringe differ as strings, and is dropped
//                                otherwise
//
// ORDERING:
//   Keys come out in first-seen order, scanning the old table and then the
//   new one. All rows for a key are contiguous.
//
// =============================================================================

package differ

import (
	"github.com/ginjaninja78/wagediff/internal/types"
)

// keyGroups is an insertion-ordered grouping of records by join key.
type keyGroups struct {
	order []types.RecordKey
	rows  map[types.RecordKey][]types.WageRecord
}

func newKeyGroups() *keyGroups {
	return &keyGroups{rows: make(map[types.RecordKey][]types.WageRecord)}
}

func (g *keyGroups) add(r types.WageRecord) {
	key := r.Key()
	if _, exists := g.rows[key]; !exists {
		g.order = append(g.order, key)
	}
	g.rows[key] = append(g.rows[key], r)
}

func groupByKey(table *types.RecordTable) *keyGroups {
	groups := newKeyGroups()
	if table == nil {
		return groups
	}
	for _, r := range table.Records {
		groups.add(r)
	}
	return groups
}

// Diff compares the old table against the new one. Labels name the
// revision-suffixed Rate_/Fringe_ columns of the result.
func Diff(oldTable, newTable *types.RecordTable, oldLabel, newLabel string) *types.ChangeTable {
	result := &types.ChangeTable{
		OldLabel: oldLabel,
		NewLabel: newLabel,
		Changes:  []types.ChangeRecord{},
	}

	oldGroups := groupByKey(oldTable)
	newGroups := groupByKey(newTable)

	keys := make([]types.RecordKey, 0, len(oldGroups.order)+len(newGroups.order))
	keys = append(keys, oldGroups.order...)
	for _, key := range newGroups.order {
		if _, seen := oldGroups.rows[key]; !seen {
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		oldRows := oldGroups.rows[key]
		newRows := newGroups.rows[key]

		switch {
		case len(newRows) == 0:
			for _, o := range oldRows {
				result.Changes = append(result.Changes, removed(o))
			}
		case len(oldRows) == 0:
			for _, n := range newRows {
				result.Changes = append(result.Changes, added(n))
			}
		default:
			for _, o := range oldRows {
				for _, n := range newRows {
					if o.Rate != n.Rate || o.Fringe != n.Fringe {
						result.Changes = append(result.Changes, modified(o, n))
					}
				}
			}
		}
	}

	return result
}

func removed(o types.WageRecord) types.ChangeRecord {
	return types.ChangeRecord{
		Job:         o.Job,
		JobSubclass: o.JobSubclass,
		ChangeType:  types.ChangeRemoved,
		OldRate:     o.Rate,
		OldFringe:   o.Fringe,
	}
}

func added(n types.WageRecord) types.ChangeRecord {
	return types.ChangeRecord{
		Job:         n.Job,
		JobSubclass: n.JobSubclass,
		ChangeType:  types.ChangeAdded,
		NewRate:     n.Rate,
		NewFringe:   n.Fringe,
	}
}

func modified(o, n types.WageRecord) types.ChangeRecord {
	return types.ChangeRecord{
		Job:         o.Job,
		JobSubclass: o.JobSubclass,
		ChangeType:  types.ChangeModified,
		OldRate:     o.Rate,
		NewRate:     n.Rate,
		OldFringe:   o.Fringe,
		NewFringe:   n.Fringe,
	}
}
