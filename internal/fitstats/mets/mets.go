package mets

import (
	"fmt"
	"math"
)

// ActivityMets is a MET reference document: one activity with its sub-activity options.
// Pointer fields stay nil when absent in the stored document.
type ActivityMets struct {
	Activity           *string             `json:"activity" bson:"activity"`
	DropdownLabel      string              `json:"dropdown_label,omitempty" bson:"dropdown_label,omitempty"`
	SubActivityOptions []SubActivityOption `json:"sub_activity_options" bson:"sub_activity_options"`
}

type SubActivityOption struct {
	Name        *string  `json:"name" bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	MET         *float64 `json:"met" bson:"met"`
}

// Key identifies a MET entry: exercise type (activity) and sub-activity name.
type Key struct {
	Activity    string
	SubActivity string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Activity, k.SubActivity)
}

// Table maps (activity, sub-activity) pairs to MET values.
type Table map[Key]float64

// Lookup returns the MET for the given exercise type and sub-activity.
// A nil sub-activity never matches.
func (t Table) Lookup(exerciseType string, subActivity *string) (float64, bool) {
	if subActivity == nil {
		return 0, false
	}
	met, ok := t[Key{Activity: exerciseType, SubActivity: *subActivity}]
	return met, ok
}

// BuildTable flattens reference documents into a Table. Documents are applied in order,
// so for duplicate keys the last one wins. Malformed documents and options are skipped
// and reported through onMalformed.
func BuildTable(docs []ActivityMets, onMalformed func(docIdx int, reason string)) Table {
	if onMalformed == nil {
		onMalformed = func(int, string) {}
	}

	table := make(Table)
	for i, doc := range docs {
		if doc.Activity == nil || *doc.Activity == "" {
			onMalformed(i, "missing activity name")
			continue
		}
		if doc.SubActivityOptions == nil {
			onMalformed(i, fmt.Sprintf("activity [%s]: missing sub-activity options", *doc.Activity))
			continue
		}

		for _, opt := range doc.SubActivityOptions {
			if opt.Name == nil || *opt.Name == "" {
				onMalformed(i, fmt.Sprintf("activity [%s]: sub-activity option without name", *doc.Activity))
				continue
			}
			if !validMET(opt.MET) {
				onMalformed(i, fmt.Sprintf("activity [%s], option [%s]: missing or invalid met", *doc.Activity, *opt.Name))
				continue
			}
			table[Key{Activity: *doc.Activity, SubActivity: *opt.Name}] = *opt.MET
		}
	}

	return table
}

func validMET(met *float64) bool {
	if met == nil {
		return false
	}
	return *met > 0 && !math.IsNaN(*met) && !math.IsInf(*met, 0)
}
