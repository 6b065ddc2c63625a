package analyzer

import (
	"reflect"
	"strings"
)

// ResultSchema returns the JSON schema the model's answer must satisfy.
// Fields tagged validate:"required" are required; untagged pointer fields
// may be null.
func ResultSchema() map[string]interface{} {
	schema, _ := typeToJSONSchema(reflect.TypeOf(wireAnalysis{}))
	return schema
}

func typeToJSONSchema(t reflect.Type) (map[string]interface{}, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		props := map[string]interface{}{}
		var requiredFields []string

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}

			jsonName := jsonFieldName(f)
			if jsonName == "" {
				continue
			}

			fieldSchema, err := typeToJSONSchema(f.Type)
			if err != nil {
				return nil, err
			}
			if desc := f.Tag.Get("desc"); desc != "" {
				fieldSchema["description"] = desc
			}
			if f.Type.Kind() == reflect.Ptr && f.Tag.Get("validate") == "" {
				fieldSchema["type"] = []interface{}{fieldSchema["type"], "null"}
			}
			props[jsonName] = fieldSchema

			if strings.Contains(f.Tag.Get("validate"), "required") {
				requiredFields = append(requiredFields, jsonName)
			}
		}

		objSchema := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(requiredFields) > 0 {
			objSchema["required"] = requiredFields
		}
		return objSchema, nil

	case reflect.String:
		return map[string]interface{}{"type": "string"}, nil
	case reflect.Int, reflect.Int64, reflect.Int32:
		return map[string]interface{}{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]interface{}{"type": "number"}, nil
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}, nil
	case reflect.Slice, reflect.Array:
		elemSchema, err := typeToJSONSchema(t.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"type":  "array",
			"items": elemSchema,
		}, nil
	default:
		return map[string]interface{}{"type": "string"}, nil
	}
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	parts := strings.Split(tag, ",")
	return parts[0]
}
