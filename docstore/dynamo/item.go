package dynamo

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/tote/docstore"
)

// marshalDoc converts a document into a table item. Store-managed attributes
// on the document are ignored.
func (s *Store) marshalDoc(doc docstore.Doc, id, rev string) (map[string]types.AttributeValue, error) {
	body := make(map[string]any, len(doc))
	for k, v := range doc {
		switch k {
		case AttrPartition, AttrTTL, docstore.FieldDeleted, docstore.FieldID, docstore.FieldRev:
			continue
		}
		body[k] = v
	}

	item, err := attributevalue.MarshalMap(body)
	if err != nil {
		return nil, fmt.Errorf("marshal document %s: %w", id, err)
	}

	item[AttrPartition] = &types.AttributeValueMemberS{Value: s.config.Partition}
	item[docstore.FieldID] = &types.AttributeValueMemberS{Value: id}
	item[docstore.FieldRev] = &types.AttributeValueMemberS{Value: rev}
	return item, nil
}

// unmarshalDoc converts a table item into a document.
func unmarshalDoc(item map[string]types.AttributeValue) (docstore.Doc, error) {
	var doc map[string]any
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	delete(doc, AttrPartition)
	delete(doc, AttrTTL)
	return docstore.Doc(doc), nil
}

// unmarshalRow converts a range read item into a row keyed by keyAttr.
func unmarshalRow(item map[string]types.AttributeValue, keyAttr string, withDoc bool) (docstore.Row, error) {
	row := docstore.Row{
		ID:  stringAttr(item, docstore.FieldID),
		Rev: stringAttr(item, docstore.FieldRev),
		Key: stringAttr(item, keyAttr),
	}
	if withDoc {
		doc, err := unmarshalDoc(item)
		if err != nil {
			return docstore.Row{}, err
		}
		row.Doc = doc
	}
	return row, nil
}

// stringAttr returns a string or number attribute as a string.
func stringAttr(item map[string]types.AttributeValue, key string) string {
	switch v := item[key].(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}
