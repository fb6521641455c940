package natsrpc

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"taiyaku/internal/dispatch"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type schemaSet map[string]*gojsonschema.Schema

func loadSchemas() (schemaSet, error) {
	set := make(schemaSet)
	for _, op := range dispatch.Operations() {
		data, err := schemaFS.ReadFile("schemas/" + op + ".json")
		if err != nil {
			return nil, fmt.Errorf("read schema for %s: %w", op, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", op, err)
		}
		set[op] = schema
	}
	return set, nil
}

// check validates payload for op. An empty payload is treated as {}.
func (s schemaSet) check(op string, payload []byte) error {
	schema, ok := s[op]
	if !ok {
		return nil
	}
	if len(strings.TrimSpace(string(payload))) == 0 {
		payload = []byte("{}")
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &dispatch.Failure{Kind: dispatch.KindValidation, Message: fmt.Sprintf("malformed payload: %v", err)}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return &dispatch.Failure{Kind: dispatch.KindValidation, Message: strings.Join(problems, "; ")}
}
