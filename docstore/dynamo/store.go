// Package dynamo implements docstore.DocStore on a single DynamoDB table.
//
// Every document lives in one partition (_pk = Config.Partition) with the
// document id as range key, so an id range maps directly onto a Query key
// condition. Document fields are stored as top-level attributes next to the
// reserved _pk, _id and _rev attributes.
//
// Table layout:
//
//	| _pk  | _id                 | _rev    | name        | genre |
//	| ==== | =================== | ======= | =========== | ===== |
//	| docs | band_punk_bad-brains| 1-9f... | Bad Brains  | punk  |
//	| docs | band_rock_q-and-... | 3-0c... | Q And Not U | rock  |
//
// Views are global secondary indexes hashed on _pk with a document attribute
// as range key, declared in [Config.Views].
//
// Removed documents are replaced by tombstones (_deleted = true) that carry a
// _ttl attribute so DynamoDB TTL eventually reclaims them.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/tote/docstore"
	"github.com/jacentio/tote/internal/revision"
)

const (
	// AttrPartition is the table hash key.
	AttrPartition = "_pk"

	// AttrTTL is the expiry attribute set on tombstones.
	AttrTTL = "_ttl"
)

// API is the subset of the DynamoDB client used by the Store.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store is a DynamoDB-backed document store.
type Store struct {
	client API
	config Config
	now    func() time.Time
}

var _ docstore.DocStore = (*Store)(nil)

// New creates a new Store instance.
func New(client API, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
		now:    time.Now,
	}
}

// Open loads the default AWS configuration and creates a Store on it.
func Open(ctx context.Context, config Config, optFns ...func(*awsconfig.LoadOptions) error) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(dynamodb.NewFromConfig(cfg), config), nil
}

// Config returns the effective configuration.
func (s *Store) Config() Config {
	return s.config
}

// Put writes doc under id. Without a _rev the write only succeeds if no live
// document exists; with a _rev it must match the stored revision.
func (s *Store) Put(ctx context.Context, doc docstore.Doc, id string) (*docstore.PutResult, error) {
	if doc == nil {
		return nil, docstore.ErrNotObject
	}
	if id == "" {
		id = doc.ID()
	}
	if id == "" {
		return nil, docstore.ErrMissingID
	}

	// A recreate over a tombstone starts a fresh history: the tombstone's
	// revision is not read back.
	rev := doc.Rev()
	next := revision.Next(rev)

	item, err := s.marshalDoc(doc, id, next)
	if err != nil {
		return nil, err
	}

	var cond expression.ConditionBuilder
	if rev == "" {
		cond = expression.AttributeNotExists(expression.Name(docstore.FieldID)).
			Or(expression.Name(docstore.FieldDeleted).Equal(expression.Value(true)))
	} else {
		cond = expression.Name(docstore.FieldRev).Equal(expression.Value(rev)).
			And(liveFilter())
	}

	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("build condition: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.config.TableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, docstore.ErrConflict
		}
		return nil, err
	}

	return &docstore.PutResult{OK: true, ID: id, Rev: next}, nil
}

// Get retrieves a document by id, returning docstore.ErrNotFound if it is
// missing or removed.
func (s *Store) Get(ctx context.Context, id string) (docstore.Doc, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.TableName),
		Key:            s.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil || IsDeleted(result.Item) {
		return nil, docstore.ErrNotFound
	}
	return unmarshalDoc(result.Item)
}

// AllDocs returns live documents ordered by id.
func (s *Store) AllDocs(ctx context.Context, opts docstore.QueryOptions) ([]docstore.Row, error) {
	return s.rangeQuery(ctx, "", docstore.FieldID, opts)
}

// Query returns rows of a view declared in Config.Views.
func (s *Store) Query(ctx context.Context, view string, opts docstore.QueryOptions) ([]docstore.Row, error) {
	v, ok := s.config.Views[view]
	if !ok {
		return nil, fmt.Errorf("%w: %s", docstore.ErrUnknownView, view)
	}
	return s.rangeQuery(ctx, v.IndexName, v.KeyAttr, opts)
}

// Remove replaces the document with a tombstone. The revision must match.
func (s *Store) Remove(ctx context.Context, id, rev string) (*docstore.PutResult, error) {
	next := revision.Next(rev)

	cond := expression.Name(docstore.FieldRev).Equal(expression.Value(rev)).And(liveFilter())
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("build condition: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                           aws.String(s.config.TableName),
		Item:                                tombstone(s.config.Partition, id, next, s.config.TombstoneTTL, s.now()),
		ConditionExpression:                 expr.Condition(),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			if condErr.Item == nil || IsDeleted(condErr.Item) {
				return nil, docstore.ErrNotFound
			}
			return nil, docstore.ErrConflict
		}
		return nil, err
	}

	return &docstore.PutResult{OK: true, ID: id, Rev: next}, nil
}

// rangeQuery reads the partition (or a GSI of it) between the option bounds.
// Limit is applied after tombstones are filtered, so it is enforced here
// rather than through the request Limit.
func (s *Store) rangeQuery(ctx context.Context, indexName, keyAttr string, opts docstore.QueryOptions) ([]docstore.Row, error) {
	rows := []docstore.Row{}
	if opts.Empty() {
		return rows, nil
	}

	keyCond := expression.Key(AttrPartition).Equal(expression.Value(s.config.Partition))
	lo, hi := opts.Bounds()
	switch {
	case lo != "" && hi != "":
		keyCond = keyCond.And(expression.Key(keyAttr).Between(expression.Value(lo), expression.Value(hi)))
	case lo != "":
		keyCond = keyCond.And(expression.Key(keyAttr).GreaterThanEqual(expression.Value(lo)))
	case hi != "":
		keyCond = keyCond.And(expression.Key(keyAttr).LessThanEqual(expression.Value(hi)))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(liveFilter())
	if !opts.WantDocs() {
		proj := expression.NamesList(expression.Name(docstore.FieldID), expression.Name(docstore.FieldRev))
		if keyAttr != docstore.FieldID {
			proj = proj.AddNames(expression.Name(keyAttr))
		}
		builder = builder.WithProjection(proj)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!opts.Descending),
	}
	if indexName != "" {
		input.IndexName = aws.String(indexName)
	}

	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			row, err := unmarshalRow(raw, keyAttr, opts.WantDocs())
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
			if opts.Limit > 0 && len(rows) >= opts.Limit {
				return rows, nil
			}
		}
	}

	return rows, nil
}

func (s *Store) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPartition:    &types.AttributeValueMemberS{Value: s.config.Partition},
		docstore.FieldID: &types.AttributeValueMemberS{Value: id},
	}
}
