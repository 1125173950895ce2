package normalize

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
)

//go:embed schema/bets.schema.json
var betsSchema []byte

const betsSchemaURL = "https://betsbrasileiras.local/schema/bets.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(betsSchemaURL, bytes.NewReader(betsSchema)); err != nil {
		return nil, fmt.Errorf("bets schema load failed: %w", err)
	}
	return c.Compile(betsSchemaURL)
})

// ParseJSON validates a snapshot feed against the bets schema and decodes
// it into canonical records.
func ParseJSON(data []byte) ([]bet.Bet, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("snapshot schema validation failed: %w", err)
	}
	var out []bet.Bet
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return out, nil
}
