// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// CodeInvalidPayload marks a request payload that fails its schema.
const CodeInvalidPayload = "VERIFY_PAYLOAD_INVALID"

const schemaBaseURL = "https://personalwings.dev/schemas/"

var (
	schemaMu    sync.Mutex
	schemaCache = map[reflect.Type]*jschema.Schema{}
)

// GenerateSchema reflects a JSON Schema from the struct type of v.
func GenerateSchema(v any) ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(v)
	schema.ID = jsonschema.ID(SchemaID(v))

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("VERIFY_SCHEMA_FAILED").With("type", typeName(v)).Wrapf(err, "marshal schema")
	}
	return data, nil
}

// SchemaID returns the $id used for the schema of v.
func SchemaID(v any) string {
	return schemaBaseURL + strings.ToLower(typeName(v)) + ".schema.json"
}

// ValidatePayload checks v against the schema reflected from its own type.
func ValidatePayload(v any) error {
	sch, err := compiledSchema(v)
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return oops.Code(CodeInvalidPayload).With("type", typeName(v)).Wrap(err)
	}
	inst, err := jschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return oops.Code(CodeInvalidPayload).With("type", typeName(v)).Wrap(err)
	}
	if err := sch.Validate(inst); err != nil {
		return oops.Code(CodeInvalidPayload).With("type", typeName(v)).Wrapf(err, "schema validation failed")
	}
	return nil
}

func compiledSchema(v any) (*jschema.Schema, error) {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()
	if sch, ok := schemaCache[t]; ok {
		return sch, nil
	}

	schemaBytes, err := GenerateSchema(v)
	if err != nil {
		return nil, err
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, oops.Code("VERIFY_SCHEMA_FAILED").With("type", t.Name()).Wrapf(err, "parse schema JSON")
	}

	id := SchemaID(v)
	c := jschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(id, doc); err != nil {
		return nil, oops.Code("VERIFY_SCHEMA_FAILED").With("type", t.Name()).Wrapf(err, "add schema resource")
	}
	sch, err := c.Compile(id)
	if err != nil {
		return nil, oops.Code("VERIFY_SCHEMA_FAILED").With("type", t.Name()).Wrapf(err, "compile schema")
	}

	schemaCache[t] = sch
	return sch, nil
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "nil"
	}
	return t.Name()
}
