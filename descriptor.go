package native

// ColumnDescriptor is the per-leaf metadata computed by walking the schema:
// its path from the schema root, its own (leaf) DataType, the top-level
// field's (base) DataType, and the two Dremel level bounds.
type ColumnDescriptor struct {
	Path               []string
	Type               DataType
	Base               DataType
	MaxDefinitionLevel int16
	MaxRepetitionLevel int16
}

// Descriptors returns the ColumnDescriptor for every leaf of field, in DFS
// order, as produced by walking from a schema root with no ancestors. It is
// the ColumnDescriptor half of LeafDescriptors, which also computes the
// NestedShape path the shredder and column iterator engine need.
func Descriptors(field Field) []ColumnDescriptor {
	leaves := LeafDescriptors(field)
	out := make([]ColumnDescriptor, len(leaves))
	for i, l := range leaves {
		out[i] = l.ColumnDescriptor
	}
	return out
}

// SchemaDescriptors returns the concatenation of Descriptors(field) for
// every top-level field of schema, in schema order — the same order pages
// are laid out on disk and ColumnMetas are written to the footer.
func SchemaDescriptors(schema *Schema) []ColumnDescriptor {
	var out []ColumnDescriptor
	for _, f := range schema.Fields {
		out = append(out, Descriptors(f)...)
	}
	return out
}
