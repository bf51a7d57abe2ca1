package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/logger"
	"go.uber.org/zap"
)

// document is the item layout, keyed by pk
type document struct {
	PK        string `dynamodbav:"pk"`
	Value     string `dynamodbav:"value"`
	UpdatedAt int64  `dynamodbav:"updated_at"`
}

// Store keeps one item per document in a table whose partition key is the
// string attribute "pk"
type Store struct {
	client    API
	tableName string
	logger    *logger.Logger
}

func NewStore(client API, tableName string, logger *logger.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func keyOf(key string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"pk": &ddbtypes.AttributeValueMemberS{Value: key},
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            keyOf(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, kv.NewStoreError(err, "get", key)
	}
	if len(out.Item) == 0 {
		return nil, kv.NewNotFoundError(key)
	}

	var doc document
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, kv.NewStoreError(err, "get", key)
	}
	return []byte(doc.Value), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(&document{
		PK:        key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	s.logger.With(
		zap.String("key", key),
		zap.String("table", s.tableName),
	).Debug("putting document to dynamodb")

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return kv.NewStoreError(err, "put", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       keyOf(key),
	}); err != nil {
		return kv.NewStoreError(err, "delete", key)
	}
	return nil
}

// List scans the table. The partition key cannot be range-queried, which is
// acceptable for the small per-day and per-model prefixes we list.
func (s *Store) List(ctx context.Context, prefix string) ([]kv.Entry, error) {
	input := &dynamodb.ScanInput{
		TableName:      aws.String(s.tableName),
		ConsistentRead: aws.Bool(true),
	}
	if prefix != "" {
		input.FilterExpression = aws.String("begins_with(pk, :prefix)")
		input.ExpressionAttributeValues = map[string]ddbtypes.AttributeValue{
			":prefix": &ddbtypes.AttributeValueMemberS{Value: prefix},
		}
	}

	entries := make([]kv.Entry, 0)
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, kv.NewStoreError(err, "list", prefix)
		}
		var docs []document
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &docs); err != nil {
			return nil, kv.NewStoreError(err, "list", prefix)
		}
		for _, doc := range docs {
			entries = append(entries, kv.Entry{Key: doc.PK, Value: []byte(doc.Value)})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

func (s *Store) Close() error {
	return nil
}
