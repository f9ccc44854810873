// Package dynamotest provides a scriptable stand-in for the DynamoDB client.
package dynamotest

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Fake implements dynamo.API. Each call is recorded; a nil hook returns an
// empty output.
type Fake struct {
	mu sync.Mutex

	GetItemFn       func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	PutItemFn       func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	UpdateItemFn    func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	QueryFn         func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	ScanFn          func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
	DescribeTableFn func(*dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error)

	Gets    []*dynamodb.GetItemInput
	Puts    []*dynamodb.PutItemInput
	Updates []*dynamodb.UpdateItemInput
	Queries []*dynamodb.QueryInput
	Scans   []*dynamodb.ScanInput
}

// ConditionFailed is the error DynamoDB returns when a ConditionExpression
// does not hold.
func ConditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: stringPtr("The conditional request failed")}
}

func stringPtr(s string) *string { return &s }

func (f *Fake) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	f.Gets = append(f.Gets, in)
	f.mu.Unlock()
	if f.GetItemFn == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.GetItemFn(in)
}

func (f *Fake) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	f.Puts = append(f.Puts, in)
	f.mu.Unlock()
	if f.PutItemFn == nil {
		return &dynamodb.PutItemOutput{}, nil
	}
	return f.PutItemFn(in)
}

func (f *Fake) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	f.Updates = append(f.Updates, in)
	f.mu.Unlock()
	if f.UpdateItemFn == nil {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return f.UpdateItemFn(in)
}

func (f *Fake) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	f.Queries = append(f.Queries, in)
	f.mu.Unlock()
	if f.QueryFn == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return f.QueryFn(in)
}

func (f *Fake) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	f.Scans = append(f.Scans, in)
	f.mu.Unlock()
	if f.ScanFn == nil {
		return &dynamodb.ScanOutput{}, nil
	}
	return f.ScanFn(in)
}

func (f *Fake) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.DescribeTableFn == nil {
		return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: types.TableStatusActive}}, nil
	}
	return f.DescribeTableFn(in)
}
