package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"Emberveil/internal/game"
)

//go:embed world.schema.json
var worldSchemaJSON string

var worldSchema = jsonschema.MustCompileString("world.schema.json", worldSchemaJSON)

// LoadContent reads and validates a world content file. Validation happens in
// two layers: structural checks against the embedded JSON Schema here, then
// semantic checks (dangling references, reachability, damage ranges) inside
// game.LoadWorld.
func LoadContent(path string) (game.WorldContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.WorldContent{}, fmt.Errorf("read world content: %w", err)
	}
	return ParseContent(data)
}

// ParseContent validates raw world content bytes and decodes them.
func ParseContent(data []byte) (game.WorldContent, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return game.WorldContent{}, fmt.Errorf("parse world content: %w", err)
	}
	if err := worldSchema.Validate(raw); err != nil {
		return game.WorldContent{}, fmt.Errorf("world content rejected: %w", err)
	}

	var content game.WorldContent
	if err := json.Unmarshal(data, &content); err != nil {
		return game.WorldContent{}, fmt.Errorf("decode world content: %w", err)
	}
	return content, nil
}
