package ner

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema constrains the inference payload: an object whose entities
// member maps arbitrary labels to arrays of strings. Anything else is
// rejected before it can reach the entity merge.
const responseSchema = `{
	"type": "object",
	"required": ["entities"],
	"properties": {
		"entities": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {"type": "string"}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("ner-response.json", responseSchema)

func validateResponse(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return compiledSchema.Validate(doc)
}
