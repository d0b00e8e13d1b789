package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type FieldType string

const (
	STRING          FieldType = "string"
	NUMBER          FieldType = "number"
	BOOLEAN         FieldType = "boolean"
	TIMESTAMP       FieldType = "timestamp"
	GEOPOINT        FieldType = "geopoint"
	REFERENCE       FieldType = "reference"
	NULL            FieldType = "null"
	MAP             FieldType = "map"
	ARRAY           FieldType = "array"
	STRINGIFIED_MAP FieldType = "stringified_map"
)

var FieldTypes = []FieldType{
	STRING, NUMBER, BOOLEAN, TIMESTAMP, GEOPOINT,
	REFERENCE, NULL, MAP, ARRAY, STRINGIFIED_MAP,
}

func (ft FieldType) String() string {
	return string(ft)
}

func (ft FieldType) IsValid() bool {
	for _, validType := range FieldTypes {
		if ft == validType {
			return true
		}
	}
	return false
}

// IsScalar reports whether the type resolves to a column directly. MAP and
// ARRAY are structural: they recurse or split off a child schema instead.
func (ft FieldType) IsScalar() bool {
	return ft.IsValid() && ft != MAP && ft != ARRAY
}

// Field is one declared field of a document. MAP fields carry their children
// in Fields; ARRAY fields carry the element shape in Element. The tree is
// acyclic by construction since it is decoded from a finite JSON document.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Description string    `json:"description,omitempty"`
	Fields      []Field   `json:"fields,omitempty"`
	Element     *Field    `json:"element,omitempty"`
}

// FirestoreSchema describes the shape of documents in one collection. Field
// order is significant: it fixes the column order of the generated views.
type FirestoreSchema struct {
	Fields []Field `json:"fields"`
}

// ValidationError reports a malformed field tree. Path locates the offending
// declaration as a dotted field path from the schema root.
type ValidationError struct {
	Schema  string
	Path    string
	Message string
}

func (ve *ValidationError) Error() string {
	if ve.Path == "" {
		return fmt.Sprintf("schema %q: %s", ve.Schema, ve.Message)
	}
	return fmt.Sprintf("schema %q: field %q: %s", ve.Schema, ve.Path, ve.Message)
}

// Parse decodes a schema definition from its JSON form and validates it.
func Parse(schemaName string, raw []byte) (*FirestoreSchema, error) {
	var parsed FirestoreSchema
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode schema %q: %v", schemaName, err)
	}

	if err := Validate(schemaName, &parsed); err != nil {
		return nil, err
	}

	return &parsed, nil
}

// Validate checks the structural invariants of a schema: every field is
// named, types are known, sibling names are unique, MAP fields carry a field
// list (possibly empty) and ARRAY fields carry exactly one element shape.
func Validate(schemaName string, parsed *FirestoreSchema) error {
	return validateFields(schemaName, parsed.Fields, "")
}

func validateFields(schemaName string, fields []Field, pathPrefix string) error {
	seen := make(map[string]bool, len(fields))

	for _, f := range fields {
		path := joinPath(pathPrefix, f.Name)

		if f.Name == "" {
			return &ValidationError{Schema: schemaName, Path: pathPrefix, Message: "field with empty name"}
		}
		if seen[f.Name] {
			return &ValidationError{Schema: schemaName, Path: path, Message: "duplicate sibling field name"}
		}
		seen[f.Name] = true

		if !f.Type.IsValid() {
			return &ValidationError{Schema: schemaName, Path: path, Message: fmt.Sprintf("unknown field type %q", f.Type)}
		}

		switch f.Type {
		case MAP:
			if f.Fields == nil {
				return &ValidationError{Schema: schemaName, Path: path, Message: "map field without a fields list"}
			}
			if err := validateFields(schemaName, f.Fields, path); err != nil {
				return err
			}
		case ARRAY:
			if f.Element == nil {
				return &ValidationError{Schema: schemaName, Path: path, Message: "array field without an element shape"}
			}
			if err := validateElement(schemaName, f.Element, path); err != nil {
				return err
			}
		default:
			if len(f.Fields) > 0 {
				return &ValidationError{Schema: schemaName, Path: path, Message: fmt.Sprintf("%s field must not declare nested fields", f.Type)}
			}
			if f.Element != nil {
				return &ValidationError{Schema: schemaName, Path: path, Message: fmt.Sprintf("%s field must not declare an element shape", f.Type)}
			}
		}
	}

	return nil
}

func validateElement(schemaName string, element *Field, path string) error {
	if !element.Type.IsValid() {
		return &ValidationError{Schema: schemaName, Path: path, Message: fmt.Sprintf("unknown array element type %q", element.Type)}
	}

	switch element.Type {
	case MAP:
		if element.Fields == nil {
			return &ValidationError{Schema: schemaName, Path: path, Message: "array of maps without a fields list"}
		}
		return validateFields(schemaName, element.Fields, path)
	case ARRAY:
		// Firestore itself rejects directly nested arrays.
		return &ValidationError{Schema: schemaName, Path: path, Message: "arrays of arrays are not supported"}
	default:
		return nil
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
