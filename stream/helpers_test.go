package stream

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

// --- getStringAttr Tests ---

func TestGetStringAttr(t *testing.T) {
	tests := []struct {
		name  string
		image map[string]events.DynamoDBAttributeValue
		want  string
	}{
		{"existing", map[string]events.DynamoDBAttributeValue{"_id": events.NewStringAttribute("band_1")}, "band_1"},
		{"missing key", map[string]events.DynamoDBAttributeValue{"other": events.NewStringAttribute("x")}, ""},
		{"empty image", map[string]events.DynamoDBAttributeValue{}, ""},
		{"nil image", nil, ""},
		{"empty value", map[string]events.DynamoDBAttributeValue{"_id": events.NewStringAttribute("")}, ""},
		{"unicode", map[string]events.DynamoDBAttributeValue{"_id": events.NewStringAttribute("日本語テスト")}, "日本語テスト"},
		{"number attribute", map[string]events.DynamoDBAttributeValue{"_id": events.NewNumberAttribute("42")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getStringAttr(tt.image, "_id"); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// --- getBoolAttr Tests ---

func TestGetBoolAttr(t *testing.T) {
	tests := []struct {
		name  string
		image map[string]events.DynamoDBAttributeValue
		want  bool
	}{
		{"true", map[string]events.DynamoDBAttributeValue{"_deleted": events.NewBooleanAttribute(true)}, true},
		{"false", map[string]events.DynamoDBAttributeValue{"_deleted": events.NewBooleanAttribute(false)}, false},
		{"missing", map[string]events.DynamoDBAttributeValue{}, false},
		{"nil image", nil, false},
		{"string attribute", map[string]events.DynamoDBAttributeValue{"_deleted": events.NewStringAttribute("true")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getBoolAttr(tt.image, "_deleted"); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// --- getNumberAttr Tests ---

func TestGetNumberAttr(t *testing.T) {
	tests := []struct {
		name  string
		image map[string]events.DynamoDBAttributeValue
		want  int64
	}{
		{"valid", map[string]events.DynamoDBAttributeValue{"_ttl": events.NewNumberAttribute("1700000000")}, 1700000000},
		{"zero", map[string]events.DynamoDBAttributeValue{"_ttl": events.NewNumberAttribute("0")}, 0},
		{"negative", map[string]events.DynamoDBAttributeValue{"_ttl": events.NewNumberAttribute("-5")}, -5},
		{"missing", map[string]events.DynamoDBAttributeValue{}, 0},
		{"nil image", nil, 0},
		{"string attribute", map[string]events.DynamoDBAttributeValue{"_ttl": events.NewStringAttribute("12")}, 0},
		{"decimal", map[string]events.DynamoDBAttributeValue{"_ttl": events.NewNumberAttribute("1.5")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getNumberAttr(tt.image, "_ttl"); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

// --- processRecord Tests ---

func TestProcessRecord_NilRegistry(t *testing.T) {
	h := NewHandler(nil, nil)

	for _, name := range []string{EventInsert, EventModify, EventRemove, "UNKNOWN"} {
		t.Run(name, func(t *testing.T) {
			record := events.DynamoDBEventRecord{
				EventName: name,
				Change: events.DynamoDBStreamRecord{
					Keys: map[string]events.DynamoDBAttributeValue{
						"_id": events.NewStringAttribute("band_1"),
					},
				},
			}
			if err := h.processRecord(context.Background(), record); err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
		})
	}
}
