package client

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const outboundSchemaURL = "outbound.schema.json"

//go:embed schema/outbound.schema.json
var outboundSchema string

// Validator checks outbound packets against the response schema
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded outbound packet schema
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(outboundSchemaURL, strings.NewReader(outboundSchema)); err != nil {
		return nil, fmt.Errorf("load outbound schema: %w", err)
	}
	s, err := c.Compile(outboundSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile outbound schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate reports whether data is a well-formed outbound packet
func (v *Validator) Validate(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("outbound packet: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("outbound packet: %w", err)
	}
	return nil
}
