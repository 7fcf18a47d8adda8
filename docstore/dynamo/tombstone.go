package dynamo

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/tote/docstore"
)

// IsDeleted reports whether an item is a tombstone.
func IsDeleted(item map[string]types.AttributeValue) bool {
	v, ok := item[docstore.FieldDeleted].(*types.AttributeValueMemberBOOL)
	return ok && v.Value
}

// liveFilter excludes tombstones from range reads.
func liveFilter() expression.ConditionBuilder {
	return expression.AttributeNotExists(expression.Name(docstore.FieldDeleted))
}

// tombstone builds the item that replaces a removed document.
func tombstone(partition, id, rev string, ttl time.Duration, now time.Time) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPartition:         &types.AttributeValueMemberS{Value: partition},
		docstore.FieldID:      &types.AttributeValueMemberS{Value: id},
		docstore.FieldRev:     &types.AttributeValueMemberS{Value: rev},
		docstore.FieldDeleted: &types.AttributeValueMemberBOOL{Value: true},
		AttrTTL: &types.AttributeValueMemberN{
			Value: strconv.FormatInt(now.Add(ttl).Unix(), 10),
		},
	}
}
