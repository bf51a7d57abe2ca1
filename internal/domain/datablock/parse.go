package datablock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Parse turns any block-like JSON document into the canonical shape.
// Blocks reach us from forms, imports and older documents, so it is
// deliberately forgiving:
//   - model_data may be a list of {field, value} objects, a list of
//     [field, value] pairs or a plain object
//   - field names that are not strings are stringified
//   - a forms value that is not a list becomes a one-element list
//   - a numeric user_id is stringified
//   - anything malformed yields an empty block
func Parse(raw []byte) *DataBlock {
	block := New()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return block
	}

	var doc map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return block
	}

	if data, ok := pick(doc, "model_data", "modelData"); ok {
		block.ModelData = parseModelData(data)
	}
	if data, ok := pick(doc, "forms"); ok {
		block.Forms = parseForms(data)
	}
	if data, ok := pick(doc, "user_id", "userId"); ok {
		block.UserID = parseUserID(data)
	}
	if data, ok := pick(doc, "edit_history", "editHistory"); ok {
		block.EditHistory = parseEditHistory(data)
	}
	return Canonical(block)
}

// Canonical returns a copy of b with nil lists replaced by empty ones and
// duplicate field names collapsed. The last value of a field wins and keeps
// the position of its first occurrence.
func Canonical(b *DataBlock) *DataBlock {
	out := New()
	if b == nil {
		return out
	}

	index := make(map[string]int, len(b.ModelData))
	for _, f := range b.ModelData {
		name := strings.TrimSpace(f.Field)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			out.ModelData[i].Value = f.Value
			continue
		}
		index[name] = len(out.ModelData)
		out.ModelData = append(out.ModelData, Field{Field: name, Value: f.Value})
	}

	out.Forms = append(out.Forms, b.Forms...)
	out.EditHistory = append(out.EditHistory, b.EditHistory...)
	if b.UserID != nil && *b.UserID != "" {
		userID := *b.UserID
		out.UserID = &userID
	}
	return out
}

func pick(doc map[string]jsoniter.RawMessage, keys ...string) (jsoniter.RawMessage, bool) {
	for _, key := range keys {
		if data, ok := doc[key]; ok && !isNull(data) {
			return data, true
		}
	}
	return nil, false
}

func isNull(data []byte) bool {
	s := strings.TrimSpace(string(data))
	return s == "" || s == "null"
}

func parseModelData(data []byte) []Field {
	fields := []Field{}

	switch json.Get(data).ValueType() {
	case jsoniter.ArrayValue:
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return fields
		}
		for _, item := range items {
			if f, ok := fieldFromItem(item); ok {
				fields = append(fields, f)
			}
		}
	case jsoniter.ObjectValue:
		// walk the object with an iterator so the document order survives
		iter := json.BorrowIterator(data)
		defer json.ReturnIterator(iter)
		iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
			fields = append(fields, Field{Field: key, Value: it.Read()})
			return it.Error == nil
		})
		if iter.Error != nil {
			return []Field{}
		}
	}
	return fields
}

func fieldFromItem(item any) (Field, bool) {
	switch t := item.(type) {
	case map[string]any:
		name, ok := t["field"]
		if !ok || name == nil {
			return Field{}, false
		}
		return Field{Field: stringify(name), Value: t["value"]}, true
	case []any:
		if len(t) == 0 || t[0] == nil {
			return Field{}, false
		}
		var value any
		if len(t) > 1 {
			value = t[1]
		}
		return Field{Field: stringify(t[0]), Value: value}, true
	}
	return Field{}, false
}

func parseForms(data []byte) []any {
	var forms []any
	if json.Get(data).ValueType() == jsoniter.ArrayValue {
		if err := json.Unmarshal(data, &forms); err != nil {
			return []any{}
		}
		return forms
	}
	var single any
	if err := json.Unmarshal(data, &single); err != nil {
		return []any{}
	}
	return []any{single}
}

func parseUserID(data []byte) *string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil || v == nil {
		return nil
	}
	s := stringify(v)
	if s == "" {
		return nil
	}
	return &s
}

func parseEditHistory(data []byte) []EditEntry {
	entries := []EditEntry{}
	var items []jsoniter.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return entries
	}
	for _, item := range items {
		var raw struct {
			EditedAt string              `json:"edited_at"`
			UserID   jsoniter.RawMessage `json:"user_id"`
			Changes  Change              `json:"changes"`
		}
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		entry := EditEntry{Changes: raw.Changes}
		if at, err := time.Parse(time.RFC3339Nano, raw.EditedAt); err == nil {
			entry.EditedAt = at
		}
		if !isNull(raw.UserID) {
			entry.UserID = parseUserID(raw.UserID)
		}
		entries = append(entries, entry)
	}
	return entries
}

// stringify renders scalars without the float artifacts of %v
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case nil:
		return ""
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
	return fmt.Sprint(v)
}
