// Package stream provides a DynamoDB Streams handler that routes document
// changes to the models that own them.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/tote/docstore"
	"github.com/jacentio/tote/docstore/dynamo"
	"github.com/jacentio/tote/model"
)

// Stream event names.
const (
	EventInsert = "INSERT"
	EventModify = "MODIFY"
	EventRemove = "REMOVE"
)

// Handler processes DynamoDB stream events for a document table.
type Handler struct {
	registry *model.Registry
	logger   *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(r *model.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry: r,
		logger:   logger,
	}
}

// HandleChanges delivers each record of event to the change hook of the
// owning model. It stops at the first hook error so Lambda retries the batch.
func (h *Handler) HandleChanges(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err
		}
	}
	return nil
}

func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	var image map[string]events.DynamoDBAttributeValue
	switch record.EventName {
	case EventInsert, EventModify:
		image = record.Change.NewImage
	case EventRemove:
		image = record.Change.OldImage
		// TTL reclaiming a tombstone; the deletion was delivered when the
		// tombstone was written.
		if getBoolAttr(image, docstore.FieldDeleted) {
			return nil
		}
	default:
		return nil
	}

	id := getStringAttr(record.Change.Keys, docstore.FieldID)
	if id == "" {
		id = getStringAttr(image, docstore.FieldID)
	}
	if id == "" || h.registry == nil {
		return nil
	}

	m, ok := h.registry.Resolve(id)
	if !ok || !m.Watches() {
		h.logger.Debug("skipping change", "id", id, "event", record.EventName)
		return nil
	}

	change := model.Change{
		ID:      id,
		Rev:     getStringAttr(image, docstore.FieldRev),
		Deleted: record.EventName == EventRemove || getBoolAttr(image, docstore.FieldDeleted),
	}
	if change.Deleted {
		h.logger.Debug("document deleted",
			"model", m.Name(),
			"id", id,
			"ttl", getNumberAttr(image, dynamo.AttrTTL),
		)
	} else {
		doc, err := ImageToDoc(image)
		if err != nil {
			return fmt.Errorf("decode %s: %w", id, err)
		}
		change.Doc = doc
	}

	if err := m.Notify(ctx, change); err != nil {
		return fmt.Errorf("notify %s: %w", m.Name(), err)
	}
	return nil
}

// ImageToDoc decodes a stream image into a document, dropping the table's
// bookkeeping attributes.
func ImageToDoc(image map[string]events.DynamoDBAttributeValue) (docstore.Doc, error) {
	item := ConvertImage(image)
	delete(item, dynamo.AttrPartition)
	delete(item, dynamo.AttrTTL)
	delete(item, docstore.FieldDeleted)

	var doc map[string]any
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return docstore.Doc(doc), nil
}

// ConvertImage converts a DynamoDB stream image (or key) to SDK attribute
// values.
func ConvertImage(image map[string]events.DynamoDBAttributeValue) map[string]types.AttributeValue {
	result := make(map[string]types.AttributeValue, len(image))
	for k, v := range image {
		if av := convertValue(v); av != nil {
			result[k] = av
		}
	}
	return result
}

func convertValue(v events.DynamoDBAttributeValue) types.AttributeValue {
	switch v.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: v.String()}
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: v.Number()}
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: v.Binary()}
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: v.Boolean()}
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: true}
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: v.StringSet()}
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: v.NumberSet()}
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: v.BinarySet()}
	case events.DataTypeList:
		list := make([]types.AttributeValue, 0, len(v.List()))
		for _, item := range v.List() {
			if av := convertValue(item); av != nil {
				list = append(list, av)
			}
		}
		return &types.AttributeValueMemberL{Value: list}
	case events.DataTypeMap:
		return &types.AttributeValueMemberM{Value: ConvertImage(v.Map())}
	}
	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// getBoolAttr extracts a boolean attribute from a DynamoDB stream image.
func getBoolAttr(image map[string]events.DynamoDBAttributeValue, key string) bool {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeBoolean {
		return v.Boolean()
	}
	return false
}

// getNumberAttr extracts a number attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeNumber {
			n, _ := strconv.ParseInt(v.Number(), 10, 64)
			return n
		}
	}
	return 0
}
