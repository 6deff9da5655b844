package schema

// Document keys read when building a Document
const (
	KeywordTitle               = "title"
	KeywordResourceDefinitions = "resourceDefinitions"
)

// Document is a top-level schema with the fields the importer reads.
type Document struct {
	Root *Node

	// Title is empty when the document has no title.
	Title string

	// ResourceDefinitions is nil when the document declares none.
	ResourceDefinitions []Member
}

// NewDocument checks the root's shape and lifts out the title and the
// resource definitions.
func NewDocument(root *Node) (*Document, error) {
	if !root.IsObject() {
		return nil, malformed("", "document root must be an object")
	}

	doc := &Document{Root: root}

	if title := root.Get(KeywordTitle); title != nil && !title.IsNull() {
		s, ok := title.AsString()
		if !ok {
			return nil, malformed(ChildPointer("", KeywordTitle), "title must be a string")
		}
		doc.Title = s
	}

	if defs := root.Get(KeywordResourceDefinitions); defs != nil && !defs.IsNull() {
		if !defs.IsObject() {
			return nil, malformed(ChildPointer("", KeywordResourceDefinitions), "resourceDefinitions must be an object")
		}
		doc.ResourceDefinitions = defs.Members
	}

	return doc, nil
}

// ParseDocument parses data and builds a Document from it.
func ParseDocument(data []byte, opts ...ParseOption) (*Document, error) {
	root, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	return NewDocument(root)
}
