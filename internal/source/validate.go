package source

import (
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/yetics/armkit/internal/schema"
)

// draft04URL is the meta-schema Azure resource schemas declare in "$schema".
const draft04URL = "http://json-schema.org/draft-04/schema#"

var (
	metaOnce   sync.Once
	metaSchema *jsonschema.Schema
	metaErr    error
)

func draft04() (*jsonschema.Schema, error) {
	metaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft4
		metaSchema, metaErr = compiler.Compile(draft04URL)
	})
	return metaSchema, metaErr
}

// ValidateMetaSchema checks that root is itself a valid draft-04 schema.
// Violations are reported as a *schema.MalformedInputError.
func ValidateMetaSchema(root *schema.Node) error {
	meta, err := draft04()
	if err != nil {
		return fmt.Errorf("failed to load draft-04 meta-schema: %w", err)
	}

	if err := meta.Validate(root.Interface()); err != nil {
		pointer := ""
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			pointer = firstLeaf(verr).InstanceLocation
		}
		return &schema.MalformedInputError{Pointer: pointer, Reason: fmt.Sprintf("not a valid JSON schema: %v", err)}
	}
	return nil
}

// firstLeaf walks to the most specific cause of a validation error.
func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
