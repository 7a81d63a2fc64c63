package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore keeps the snapshot as a binary attribute on a single item
// keyed by PK = ledger key.
type DynamoStore struct {
	client DynamoAPI
	table  string
	key    string
}

func NewDynamoStore(client DynamoAPI, table, key string) *DynamoStore {
	return &DynamoStore{client: client, table: table, key: key}
}

// NewDynamoClient builds a client for region. A non-empty endpoint targets a
// local DynamoDB with static dummy credentials.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithClientLogMode(aws.LogRetries),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if endpoint == "" {
		return dynamodb.NewFromConfig(cfg), nil
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.Credentials = credentials.NewStaticCredentialsProvider("local", "local", "")
	}), nil
}

func (s *DynamoStore) Load(ctx context.Context) (Snapshot, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: s.key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Snapshot{}, err
	}
	if out == nil || len(out.Item) == 0 {
		return Snapshot{}, ErrNoSnapshot
	}
	attr, ok := out.Item["snapshot"].(*types.AttributeValueMemberB)
	if !ok {
		return Snapshot{}, fmt.Errorf("decode snapshot: item %s has no binary snapshot attribute", s.key)
	}
	return Decode(attr.Value)
}

func (s *DynamoStore) Save(ctx context.Context, snap Snapshot) error {
	snap = stamp(snap, "dynamodb")
	payload, err := Encode(snap, false)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"PK":         &types.AttributeValueMemberS{Value: s.key},
			"snapshot":   &types.AttributeValueMemberB{Value: payload},
			"version":    &types.AttributeValueMemberN{Value: strconv.Itoa(SnapshotVersion)},
			"updated_at": &types.AttributeValueMemberS{Value: snap.Meta.Timestamp.Format(time.RFC3339Nano)},
		},
	})
	return err
}
