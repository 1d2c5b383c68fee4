package sdk

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const storySchemaJSON = `{
	"type": "object",
	"required": ["id", "title"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"title": {"type": "string"},
		"userStory": {"type": "string"},
		"acceptanceCriteria": {"type": ["array", "null"], "items": {"type": "string"}},
		"storyPoints": {"type": "integer"},
		"priority": {"type": "string"},
		"tags": {"type": ["array", "null"], "items": {"type": "string"}},
		"status": {"enum": ["New", "Approved", "Rejected", "Published", "", null]},
		"publishedId": {"type": "string"},
		"publishedUrl": {"type": "string"},
		"version": {"type": "integer", "minimum": 0}
	}
}`

var (
	storySchemaLoader   = gojsonschema.NewStringLoader(storySchemaJSON)
	storiesSchemaLoader = gojsonschema.NewStringLoader(`{"type": "array", "items": ` + storySchemaJSON + `}`)
)

// checkSchema validates a response body before it is decoded, so a
// malformed payload is reported with the offending fields.
func checkSchema(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
