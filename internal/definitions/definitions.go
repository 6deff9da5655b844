// Package definitions lists the resource types a schema document declares.
package definitions

import "github.com/yetics/armkit/internal/schema"

// UndefinedNamespace is the namespace given to definitions of an untitled
// document. Downstream consumers key on this exact string.
const UndefinedNamespace = "undefined"

// Record is one resource definition ready for construct generation.
type Record struct {
	Namespace string
	Name      string
	Schema    *schema.Node
}

// FQN returns the construct identifier "{namespace}.{name}". Dots inside
// either part are not escaped.
func (r Record) FQN() string {
	return r.Namespace + "." + r.Name
}

// Find returns one record per entry of the document's resourceDefinitions,
// in declaration order. Definition schemas are passed through unchecked.
func Find(doc *schema.Document) []Record {
	if doc == nil || len(doc.ResourceDefinitions) == 0 {
		return []Record{}
	}

	namespace := doc.Title
	if namespace == "" {
		namespace = UndefinedNamespace
	}

	records := make([]Record, 0, len(doc.ResourceDefinitions))
	for _, def := range doc.ResourceDefinitions {
		records = append(records, Record{
			Namespace: namespace,
			Name:      def.Key,
			Schema:    def.Value,
		})
	}
	return records
}
