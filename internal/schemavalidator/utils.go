package schemavalidator

import (
	"reflect"
	"strings"
)

// GetJSONTag returns the JSON name of a field, or the field name if it has none.
func GetJSONTag(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" || jsonTag == "-" {
		return field.Name
	}
	name := strings.Split(jsonTag, ",")[0]
	if name == "" {
		return field.Name
	}
	return name
}

// GetJSONFieldPath returns the dotted JSON path of the field called fieldName
// inside structType. Embedded structs are flattened the way encoding/json
// flattens them. Returns "" when there is no such field.
func GetJSONFieldPath(structType reflect.Type, fieldName string) string {
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return ""
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Name == fieldName && !field.Anonymous {
			return GetJSONTag(field)
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct {
			continue
		}
		nestedPath := GetJSONFieldPath(ft, fieldName)
		if nestedPath == "" {
			continue
		}
		if field.Anonymous && field.Tag.Get("json") == "" {
			return nestedPath
		}
		return GetJSONTag(field) + "." + nestedPath
	}
	return ""
}
