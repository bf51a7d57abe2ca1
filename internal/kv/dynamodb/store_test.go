package dynamodb

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
)

// fakeAPI emulates a table keyed by "pk" and serves scans in pages of two
type fakeAPI struct {
	mu    sync.Mutex
	items map[string]map[string]ddbtypes.AttributeValue
	scans int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: map[string]map[string]ddbtypes.AttributeValue{}}
}

func pkOf(item map[string]ddbtypes.AttributeValue) string {
	return item["pk"].(*ddbtypes.AttributeValueMemberS).Value
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[pkOf(in.Key)]}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[pkOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, pkOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++

	prefix := ""
	if v, ok := in.ExpressionAttributeValues[":prefix"]; ok {
		prefix = v.(*ddbtypes.AttributeValueMemberS).Value
	}
	start := ""
	if in.ExclusiveStartKey != nil {
		start = pkOf(in.ExclusiveStartKey)
	}

	var keys []string
	for key := range f.items {
		if key > start {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := &dynamodb.ScanOutput{}
	for i, key := range keys {
		if i == 2 {
			out.LastEvaluatedKey = map[string]ddbtypes.AttributeValue{"pk": &ddbtypes.AttributeValueMemberS{Value: keys[1]}}
			break
		}
		if strings.HasPrefix(key, prefix) {
			out.Items = append(out.Items, f.items[key])
		}
	}
	return out, nil
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewStore(api, "documents", logger.NewNopLogger())

	_, err := s.Get(ctx, "model:1")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))

	require.NoError(t, s.Put(ctx, "model:1", []byte(`{"id":"1"}`)))
	value, err := s.Get(ctx, "model:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(value))

	require.NoError(t, s.Delete(ctx, "model:1"))
	_, err = s.Get(ctx, "model:1")
	assert.True(t, ierr.IsNotFound(err))
}

func TestStoreListFollowsPages(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewStore(api, "documents", logger.NewNopLogger())

	for _, key := range []string{"model:a", "slot:2024-05-01:a", "slot:2024-05-01:b", "slot:2024-05-01:c", "slot:2024-05-02:a"} {
		require.NoError(t, s.Put(ctx, key, []byte(`{}`)))
	}

	entries, err := s.List(ctx, "slot:2024-05-01:")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "slot:2024-05-01:a", entries[0].Key)
	assert.Equal(t, "slot:2024-05-01:c", entries[2].Key)
	assert.Greater(t, api.scans, 1)
}
