package dynamo

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type apiCall[T, U any] func(context.Context, *T, ...func(*dynamodb.Options)) (*U, error)

// mockClient is an expectation-based stand-in for the DynamoDB client.
// Unset calls fail the test.
type mockClient struct {
	PutFunc   apiCall[dynamodb.PutItemInput, dynamodb.PutItemOutput]
	GetFunc   apiCall[dynamodb.GetItemInput, dynamodb.GetItemOutput]
	QueryFunc apiCall[dynamodb.QueryInput, dynamodb.QueryOutput]
}

var _ API = (*mockClient)(nil)

func newMockClient(t *testing.T) *mockClient {
	return &mockClient{
		PutFunc:   unexpected[dynamodb.PutItemInput, dynamodb.PutItemOutput](t),
		GetFunc:   unexpected[dynamodb.GetItemInput, dynamodb.GetItemOutput](t),
		QueryFunc: unexpected[dynamodb.QueryInput, dynamodb.QueryOutput](t),
	}
}

func unexpected[T, U any](t *testing.T) apiCall[T, U] {
	return func(ctx context.Context, params *T, optFns ...func(*dynamodb.Options)) (*U, error) {
		t.Fatal("unexpected call")
		return nil, nil
	}
}

func (m *mockClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return m.PutFunc(ctx, params, optFns...)
}

func (m *mockClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetFunc(ctx, params, optFns...)
}

func (m *mockClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return m.QueryFunc(ctx, params, optFns...)
}
