package datablock

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantData  []Field
		wantForms []any
		wantUser  *string
	}{
		{
			name:      "empty input",
			raw:       "",
			wantData:  []Field{},
			wantForms: []any{},
		},
		{
			name:      "malformed json",
			raw:       `{"model_data": [`,
			wantData:  []Field{},
			wantForms: []any{},
		},
		{
			name:      "not an object",
			raw:       `[1, 2, 3]`,
			wantData:  []Field{},
			wantForms: []any{},
		},
		{
			name:      "canonical list",
			raw:       `{"model_data":[{"field":"phone","value":"1"},{"field":"fio","value":"Anna"}],"forms":[{"q":"a"}],"user_id":"u1"}`,
			wantData:  []Field{{Field: "phone", Value: "1"}, {Field: "fio", Value: "Anna"}},
			wantForms: []any{map[string]any{"q": "a"}},
			wantUser:  strPtr("u1"),
		},
		{
			name:      "object model_data keeps document order",
			raw:       `{"model_data":{"tg":"@a","phone":"2","age":30}}`,
			wantData:  []Field{{Field: "tg", Value: "@a"}, {Field: "phone", Value: "2"}, {Field: "age", Value: 30.0}},
			wantForms: []any{},
		},
		{
			name:      "pairs and non-string field names",
			raw:       `{"model_data":[["phone","3"],{"field":7,"value":"seven"},{"value":"orphan"},"junk"]}`,
			wantData:  []Field{{Field: "phone", Value: "3"}, {Field: "7", Value: "seven"}},
			wantForms: []any{},
		},
		{
			name:      "duplicate fields collapse, last value wins",
			raw:       `{"model_data":[{"field":"phone","value":"1"},{"field":"tg","value":"@a"},{"field":"phone","value":"2"}]}`,
			wantData:  []Field{{Field: "phone", Value: "2"}, {Field: "tg", Value: "@a"}},
			wantForms: []any{},
		},
		{
			name:      "single form is wrapped",
			raw:       `{"forms":{"q":"a"}}`,
			wantData:  []Field{},
			wantForms: []any{map[string]any{"q": "a"}},
		},
		{
			name:      "numeric user id",
			raw:       `{"user_id":42}`,
			wantData:  []Field{},
			wantForms: []any{},
			wantUser:  strPtr("42"),
		},
		{
			name:      "camel case keys",
			raw:       `{"modelData":[{"field":"phone","value":"1"}],"userId":"u9"}`,
			wantData:  []Field{{Field: "phone", Value: "1"}},
			wantForms: []any{},
			wantUser:  strPtr("u9"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.raw))
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.wantData, got.ModelData); diff != "" {
				t.Errorf("model_data mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantForms, got.Forms); diff != "" {
				t.Errorf("forms mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantUser, got.UserID)
			assert.NotNil(t, got.EditHistory)
		})
	}
}

func TestRoundTripKeepsEditHistory(t *testing.T) {
	dst := block(nil, Field{Field: "phone", Value: "1"})
	src := block(strPtr("u1"), Field{Field: "phone", Value: "2"})
	merged, _ := Merge(dst, src, MergeOptions{RecordEdit: true, Now: fixedNow})

	raw, err := json.Marshal(merged)
	require.NoError(t, err)

	var decoded DataBlock
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, merged.Equal(&decoded))
	require.Len(t, decoded.EditHistory, 1)
	assert.Equal(t, fixedNow(), decoded.EditHistory[0].EditedAt)
}

func TestMarshalEmitsLists(t *testing.T) {
	raw, err := json.Marshal(DataBlock{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"model_data":[],"forms":[],"user_id":null,"edit_history":[]}`, string(raw))
}

func strPtr(s string) *string {
	return &s
}
