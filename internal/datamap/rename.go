package datamap

import "sort"

// RawRecord is a decoded JSON object as returned by the runtime API.
type RawRecord = map[string]any

// FieldMap overrides automatic normalization for selected keys.
type FieldMap map[string]string

// jobsLimitFields renames the camelCase fields of the jobs limit response.
var jobsLimitFields = FieldMap{
	"maximumJobs": "maximum_jobs",
	"runningJobs": "running_jobs",
}

// RenameKeys renames the keys of record in place. A key found in fieldMap is
// renamed to the mapped value; any other key is passed through
// NormalizeIdentifier. Values are left untouched.
//
// Keys are visited in sorted order. When two source keys end up with the same
// destination the value of the later key wins, so the outcome does not depend on
// map iteration order. The record must not be shared with other goroutines while
// it is being renamed.
func RenameKeys(record RawRecord, fieldMap FieldMap) {
	if len(record) == 0 {
		return
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make([]any, len(keys))
	for i, key := range keys {
		values[i] = record[key]
		delete(record, key)
	}

	for i, key := range keys {
		newKey, ok := fieldMap[key]
		if !ok {
			newKey = NormalizeIdentifier(key)
		}
		record[newKey] = values[i]
	}
}

// MapJobsLimitResponse renames the fields of a backend jobs limit response and
// returns the same record.
func MapJobsLimitResponse(record RawRecord) RawRecord {
	RenameKeys(record, jobsLimitFields)
	return record
}
