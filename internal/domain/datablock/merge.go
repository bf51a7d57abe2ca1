package datablock

import (
	"reflect"
	"time"
)

// MergeOptions controls edit recording for Merge
type MergeOptions struct {
	// RecordEdit appends one edit_history entry per changed field
	RecordEdit bool
	// EditedBy attributes the recorded edits, falling back to the source and
	// then the destination contributor
	EditedBy *string
	// Now stamps the recorded edits, defaults to time.Now
	Now func() time.Time
}

// Merge folds src into dst without removing anything dst already has and
// returns the result together with the field changes it applied. Neither
// input is modified.
//
// Fields of dst keep their position, fields new in src are appended in src
// order. A src field whose serialized value equals the one in dst is a no-op,
// so repeating a merge with the same src records nothing new.
func Merge(dst, src *DataBlock, opts MergeOptions) (*DataBlock, []Change) {
	d := Canonical(dst)
	s := Canonical(src)

	merged := make([]Field, 0, len(d.ModelData)+len(s.ModelData))
	index := make(map[string]int, len(d.ModelData))
	for _, f := range d.ModelData {
		index[f.Field] = len(merged)
		merged = append(merged, f)
	}

	changes := []Change{}
	for _, f := range s.ModelData {
		i, exists := index[f.Field]
		if exists && sameValue(merged[i].Value, f.Value) {
			continue
		}

		var old any
		if exists {
			old = merged[i].Value
			merged[i].Value = f.Value
		} else {
			index[f.Field] = len(merged)
			merged = append(merged, f)
		}
		changes = append(changes, Change{Field: f.Field, OldValue: old, NewValue: f.Value})
	}

	out := &DataBlock{
		ModelData: merged,
		// FIXME: forms are concatenated without dedup, so merging the same
		// source twice duplicates its submissions. Existing documents depend on
		// this; fixing it needs a content key per submission.
		Forms:       append(append(make([]any, 0, len(d.Forms)+len(s.Forms)), d.Forms...), s.Forms...),
		UserID:      firstNonNil(s.UserID, d.UserID),
		EditHistory: d.EditHistory,
	}

	if opts.RecordEdit && len(changes) > 0 {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		editedAt := now().UTC()
		editor := firstNonNil(opts.EditedBy, s.UserID, d.UserID)
		for _, c := range changes {
			out.EditHistory = append(out.EditHistory, EditEntry{
				EditedAt: editedAt,
				UserID:   editor,
				Changes:  c,
			})
		}
	}

	return out, changes
}

// ChangedFields returns the names of the changed fields in order
func ChangedFields(changes []Change) []string {
	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.Field)
	}
	return names
}

// sameValue compares the serialized form so that key order inside objects
// and int/float representation do not count as a change
func sameValue(a, b any) bool {
	left, errA := json.Marshal(a)
	right, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return string(left) == string(right)
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			out := *v
			return &out
		}
	}
	return nil
}
