package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestDynamoStoreSaveThenLoad(t *testing.T) {
	var saved map[string]types.AttributeValue
	client := stubDynamo{
		putItemFn: func(_ context.Context, params *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			if *params.TableName != "ledger" {
				t.Fatalf("unexpected table: %s", *params.TableName)
			}
			saved = params.Item
			return &dynamodb.PutItemOutput{}, nil
		},
		getItemFn: func(_ context.Context, params *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			pk, ok := params.Key["PK"].(*types.AttributeValueMemberS)
			if !ok || pk.Value != "main" {
				t.Fatalf("unexpected key: %#v", params.Key)
			}
			return &dynamodb.GetItemOutput{Item: saved}, nil
		},
	}
	s := NewDynamoStore(client, "ledger", "main")
	if err := s.Save(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	if v, ok := saved["version"].(*types.AttributeValueMemberN); !ok || v.Value != "1" {
		t.Fatalf("unexpected version attribute: %#v", saved["version"])
	}
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if snap.Meta.Storage != "dynamodb" || len(snap.Accounts) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestDynamoStoreMissingItem(t *testing.T) {
	s := NewDynamoStore(stubDynamo{
		getItemFn: func(context.Context, *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}, "ledger", "main")
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestDynamoStoreMalformedItem(t *testing.T) {
	s := NewDynamoStore(stubDynamo{
		getItemFn: func(context.Context, *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
				"PK":       &types.AttributeValueMemberS{Value: "main"},
				"snapshot": &types.AttributeValueMemberS{Value: "oops"},
			}}, nil
		},
	}, "ledger", "main")
	_, err := s.Load(context.Background())
	if err == nil || errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
