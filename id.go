package jsonschema

import "net/url"

// evaluateID checks if the `$id` attribute in the schema conforms to URI standards and JSON Schema Draft 2020-12 specifications.
// According to the JSON Schema Draft 2020-12:
//   - `$id` is a URI that uniquely identifies the schema.
//   - It must be an absolute URI without a fragment.
//   - This URI serves both as an identifier and as a base URI for resolving relative references.
//
// This function ensures that the `$id` value is a well-formed URI and adheres to these requirements.
// If the `$id` value does not conform, it returns a EvaluationError detailing the specific issues.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-the-id-keyword
func evaluateID(schema *Schema) *EvaluationError {
	if schema.ID == "" {
		return nil // No ID specified, nothing to validate
	}

	id := schema.uri
	if id == "" {
		id = schema.ID
	}

	uri, err := url.Parse(id)
	if err != nil {
		// Invalid URI format
		return NewEvaluationError("$id", "id_invalid", "Invalid `$id` URI: {error}", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if !uri.IsAbs() && schema.parent == nil {
		// A root schema's `$id` must resolve to an absolute URI; nested
		// schemas may carry a relative `$id` resolved against the parent.
		return NewEvaluationError("$id", "id_not_absolute", "`$id` must be an absolute URI without a fragment.")
	}

	if uri.Fragment != "" {
		// `$id` should not contain a fragment
		return NewEvaluationError("$id", "id_contains_fragment", "`$id` must not contain a fragment.")
	}

	return nil
}

// validateIdentity runs evaluateID across the schema tree, collecting the
// first failure. It is invoked once per Compile after initializeSchema has
// resolved every `$id` into a base URI.
func (s *Schema) validateIdentity() *EvaluationError {
	if s.Boolean != nil {
		return nil
	}

	if err := evaluateID(s); err != nil {
		return err
	}

	for _, child := range s.childSchemas() {
		if err := child.validateIdentity(); err != nil {
			return err
		}
	}

	return nil
}

// childSchemas enumerates every immediately nested *Schema, mirroring the
// traversal initializeNestedSchemasCore uses to initialize them.
func (s *Schema) childSchemas() []*Schema {
	var out []*Schema
	add := func(child *Schema) {
		if child != nil {
			out = append(out, child)
		}
	}

	for _, def := range s.Defs {
		add(def)
	}
	for _, schema := range s.AllOf {
		add(schema)
	}
	for _, schema := range s.AnyOf {
		add(schema)
	}
	for _, schema := range s.OneOf {
		add(schema)
	}
	add(s.Not)
	add(s.If)
	add(s.Then)
	add(s.Else)
	for _, depSchema := range s.DependentSchemas {
		add(depSchema)
	}
	for _, item := range s.PrefixItems {
		add(item)
	}
	add(s.Items)
	add(s.Contains)
	add(s.AdditionalProperties)
	if s.Properties != nil {
		for _, prop := range *s.Properties {
			add(prop)
		}
	}
	if s.PatternProperties != nil {
		for _, prop := range *s.PatternProperties {
			add(prop)
		}
	}
	add(s.UnevaluatedProperties)
	add(s.UnevaluatedItems)
	add(s.ContentSchema)
	add(s.PropertyNames)

	return out
}
