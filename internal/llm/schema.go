package llm

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// schemaFor reflects a JSON schema from the output value's type, inlined
// (no $ref) since chat-completions providers reject referenced schemas.
func schemaFor(out any) (json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(out)
	schema.Version = "" // providers reject the $schema field
	return json.Marshal(schema)
}
