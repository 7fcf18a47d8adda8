package docstore

import (
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// ToDoc converts an object-like value into a Doc.
//
// Doc and map[string]any values are returned as-is, so writes to the result
// are visible to the caller. Structs, pointers to structs and string-keyed
// maps are converted through their json field tags. Every other value,
// including nil, yields ErrNotObject.
func ToDoc(v any) (Doc, error) {
	switch t := v.(type) {
	case Doc:
		if t == nil {
			return nil, ErrNotObject
		}
		return t, nil
	case map[string]any:
		if t == nil {
			return nil, ErrNotObject
		}
		return Doc(t), nil
	}

	if !isObject(v) {
		return nil, fmt.Errorf("%w: %T", ErrNotObject, v)
	}

	av, err := attributevalue.MarshalMapWithOptions(v, func(o *attributevalue.EncoderOptions) {
		o.TagKey = "json"
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}

	var doc map[string]any
	if err := attributevalue.UnmarshalMapWithOptions(av, &doc, func(o *attributevalue.DecoderOptions) {
		o.TagKey = "json"
	}); err != nil {
		return nil, fmt.Errorf("unmarshal %T: %w", v, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return Doc(doc), nil
}

func isObject(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return true
	case reflect.Map:
		return !rv.IsNil() && rv.Type().Key().Kind() == reflect.String
	}
	return false
}
