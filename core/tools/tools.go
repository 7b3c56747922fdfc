// Package tools defines the action vocabulary the voice agent exposes to the
// realtime model: per-action parameter schemas, confirmation policy, and
// human-readable previews for gated actions.
package tools

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Mode classifies how an action request is allowed to execute.
type Mode string

const (
	// AutoExecute actions run immediately without user involvement.
	AutoExecute Mode = "auto_execute"
	// RequiresConfirmation actions wait for explicit user approval.
	RequiresConfirmation Mode = "requires_confirmation"
)

// Reserved action names routed to the confirmation gate instead of the
// external executor. They must never themselves require confirmation.
const (
	NameConfirmAction = "confirm_action"
	NameCancelAction  = "cancel_action"
)

// Spec describes one action: its schema, how it executes, and how a gated
// request is previewed to the user.
type Spec struct {
	Name        string
	Description string
	// Parameters is a struct value whose JSON schema becomes the tool's
	// parameter definition. Nil means the action takes no parameters.
	Parameters any
	Mode       Mode
	// Preview renders the raw JSON arguments into text shown to the user
	// before a gated action runs. Only consulted for RequiresConfirmation.
	Preview func(arguments string) string
}

// Definition is the wire shape of a tool entry in the session configuration.
type Definition struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Definition reflects the spec's parameter struct into a wire tool
// definition.
func (s Spec) Definition() (Definition, error) {
	definition := Definition{
		Type:        "function",
		Name:        s.Name,
		Description: s.Description,
	}

	if s.Parameters == nil {
		return definition, nil
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	var schema *jsonschema.Schema
	if reflect.TypeOf(s.Parameters).Kind() == reflect.Ptr {
		schema = reflector.ReflectFromType(reflect.TypeOf(s.Parameters).Elem())
	} else {
		schema = reflector.Reflect(s.Parameters)
	}

	schemaBytes, err := schema.MarshalJSON()
	if err != nil {
		return Definition{}, fmt.Errorf("failed to marshal schema for tool %q: %w", s.Name, err)
	}

	definition.Parameters = schemaBytes
	return definition, nil
}

// PreviewText renders the preview for the given raw arguments, falling back
// to the action name when no preview builder is configured.
func (s Spec) PreviewText(arguments string) string {
	if s.Preview == nil {
		return s.Name
	}
	return s.Preview(arguments)
}

// Registry holds the action table and answers classification lookups.
type Registry struct {
	specs  []Spec
	byName map[string]Spec
}

// NewRegistry builds a registry from the given specs plus the reserved
// confirm/cancel actions.
func NewRegistry(specs ...Spec) *Registry {
	all := make([]Spec, 0, len(specs)+2)
	all = append(all, specs...)
	all = append(all, reservedSpecs()...)

	byName := make(map[string]Spec, len(all))
	for _, spec := range all {
		byName[spec.Name] = spec
	}

	return &Registry{specs: all, byName: byName}
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r.byName[name]
	return spec, ok
}

// IsReserved reports whether name is one of the confirmation-gate control
// actions.
func (r *Registry) IsReserved(name string) bool {
	return name == NameConfirmAction || name == NameCancelAction
}

// Definitions returns the wire tool definitions for the whole table.
func (r *Registry) Definitions() ([]Definition, error) {
	definitions := make([]Definition, 0, len(r.specs))
	for _, spec := range r.specs {
		definition, err := spec.Definition()
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, definition)
	}
	return definitions, nil
}

type confirmActionArgs struct {
	CallID string `json:"call_id,omitempty" jsonschema:"description=Identifier of the pending action to confirm"`
}

type cancelActionArgs struct {
	CallID string `json:"call_id,omitempty" jsonschema:"description=Identifier of the pending action to cancel"`
}

// reservedSpecs are always AutoExecute so confirming an action can never
// itself deadlock behind a confirmation.
func reservedSpecs() []Spec {
	return []Spec{
		{
			Name:        NameConfirmAction,
			Description: "Confirm the action that is currently waiting for user approval",
			Parameters:  confirmActionArgs{},
			Mode:        AutoExecute,
		},
		{
			Name:        NameCancelAction,
			Description: "Cancel the action that is currently waiting for user approval",
			Parameters:  cancelActionArgs{},
			Mode:        AutoExecute,
		},
	}
}
