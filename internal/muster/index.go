package muster

import (
	"github.com/username/attendance-muster/pkg/dateutil"
)

type recordKey struct {
	employeeID int64
	date       dateutil.Date
}

// Rejection describes a raw row the index could not use
type Rejection struct {
	Row        int        `json:"row"` // position in the input collection
	EmployeeID FlexibleID `json:"employee_id"`
	Date       string     `json:"date"`
	Reason     string     `json:"reason"`
}

// Index maps (employee, date) to its attendance record
type Index struct {
	records    map[recordKey]Record
	duplicates int
	rejected   []Rejection
}

// BuildIndex normalizes identifiers and dates of the raw rows and keys them.
// For duplicate keys the later row wins. Rows that do not normalize are
// reported through Rejected rather than dropped silently.
func BuildIndex(rows []RawRecord) *Index {
	ix := &Index{records: make(map[recordKey]Record, len(rows))}

	for i, raw := range rows {
		rec, err := raw.Normalize()
		if err != nil {
			ix.rejected = append(ix.rejected, Rejection{
				Row:        i,
				EmployeeID: raw.EmployeeID,
				Date:       raw.Date,
				Reason:     err.Error(),
			})
			continue
		}

		key := recordKey{employeeID: rec.EmployeeID, date: rec.Date}
		if _, exists := ix.records[key]; exists {
			ix.duplicates++
		}
		ix.records[key] = rec
	}

	return ix
}

// Lookup returns the record for (employeeID, date)
func (ix *Index) Lookup(employeeID int64, date dateutil.Date) (Record, bool) {
	rec, ok := ix.records[recordKey{employeeID: employeeID, date: date}]
	return rec, ok
}

// Len returns the number of distinct keys
func (ix *Index) Len() int {
	return len(ix.records)
}

// Duplicates returns how many rows replaced an earlier row with the same key
func (ix *Index) Duplicates() int {
	return ix.duplicates
}

// Rejected returns rows that could not be normalized
func (ix *Index) Rejected() []Rejection {
	return ix.rejected
}
