package native

// NestedKind tags one wrapper in a leaf's nested path, from schema root to
// the primitive leaf.
type NestedKind uint8

const (
	NestedStruct NestedKind = iota
	NestedList
	NestedLargeList
	NestedFixedSizeList
	NestedPrimitive
)

// NestedShape is the data-independent half of a Nested path entry: which
// kind of wrapper this is and whether it (not its child) is itself
// nullable. It is computed once from the Schema and shared by both the
// shredder (write side, where it is paired with the wrapper's actual
// offsets/validity data) and the column iterator engine (read side, where
// it is paired with a decoded NestedState).
type NestedShape struct {
	Kind       NestedKind
	IsOptional bool
	// FixedSize is the FixedSizeList element multiplier; unused otherwise.
	FixedSize int
}

// LeafDescriptor bundles a leaf's ColumnDescriptor with the NestedShape
// path leading to it, both computed by the same schema walk.
type LeafDescriptor struct {
	ColumnDescriptor
	Shape []NestedShape
}

// LeafDescriptors returns, for every leaf of field in DFS order, its
// ColumnDescriptor and NestedShape path. When the returned Shape has length
// 1 (just the NestedPrimitive terminator), the leaf is used with the
// simple (non-nested) page encoding; otherwise it uses the nested page
// encoding.
func LeafDescriptors(field Field) []LeafDescriptor {
	var out []LeafDescriptor
	defLevel := int16(0)
	if field.Nullable {
		defLevel = 1
	}
	walkLeaves(field, field.Type, []string{field.Name}, defLevel, 0, nil, field.Nullable, &out)
	return out
}

// SchemaLeafDescriptors concatenates LeafDescriptors for every top-level
// field of schema, in schema order.
func SchemaLeafDescriptors(schema *Schema) []LeafDescriptor {
	var out []LeafDescriptor
	for _, f := range schema.Fields {
		out = append(out, LeafDescriptors(f)...)
	}
	return out
}

func walkLeaves(base Field, nodeType DataType, path []string, defLevel, repLevel int16, shape []NestedShape, nodeOptional bool, out *[]LeafDescriptor) {
	switch nodeType.ID {
	case Struct:
		nextShape := append(append([]NestedShape{}, shape...), NestedShape{Kind: NestedStruct, IsOptional: nodeOptional})
		for _, child := range nodeType.Fields {
			childDef := defLevel
			if child.Nullable {
				childDef++
			}
			childPath := append(append([]string{}, path...), child.Name)
			walkLeaves(base, child.Type, childPath, childDef, repLevel, nextShape, child.Nullable, out)
		}

	case List, LargeList:
		kind := NestedList
		if nodeType.ID == LargeList {
			kind = NestedLargeList
		}
		nextShape := append(append([]NestedShape{}, shape...), NestedShape{Kind: kind, IsOptional: nodeOptional})

		def := defLevel + 1
		rep := repLevel + 1
		elem := *nodeType.Elem
		if elem.Nullable {
			def++
		}
		elemPath := append(append([]string{}, path...), elem.Name)
		walkLeaves(base, elem.Type, elemPath, def, rep, nextShape, elem.Nullable, out)

	case FixedSizeList:
		nextShape := append(append([]NestedShape{}, shape...), NestedShape{
			Kind: NestedFixedSizeList, IsOptional: nodeOptional, FixedSize: nodeType.FixedSizeListLen,
		})

		elem := *nodeType.Elem
		def := defLevel
		if elem.Nullable {
			def++
		}
		elemPath := append(append([]string{}, path...), elem.Name)
		walkLeaves(base, elem.Type, elemPath, def, repLevel, nextShape, elem.Nullable, out)

	default:
		nextShape := append(append([]NestedShape{}, shape...), NestedShape{Kind: NestedPrimitive, IsOptional: nodeOptional})
		*out = append(*out, LeafDescriptor{
			ColumnDescriptor: ColumnDescriptor{
				Path:               path,
				Type:               nodeType,
				Base:               base.Type,
				MaxDefinitionLevel: defLevel,
				MaxRepetitionLevel: repLevel,
			},
			Shape: nextShape,
		})
	}
}

// cumLevels precomputes, for each depth 0..len(shape), the cumulative
// definition and repetition level contributed by all ancestors strictly
// before that depth — the "cum_sum"/"cum_rep" tables from spec.md §4.5,
// computed once per page rather than once per level row.
func cumLevels(shape []NestedShape) (cumSum, cumRep []int16) {
	cumSum = make([]int16, len(shape)+1)
	cumRep = make([]int16, len(shape)+1)
	for d, s := range shape {
		defContrib, repContrib := int16(0), int16(0)
		if s.IsOptional {
			defContrib++
		}
		switch s.Kind {
		case NestedList, NestedLargeList:
			defContrib++
			repContrib++
		}
		cumSum[d+1] = cumSum[d] + defContrib
		cumRep[d+1] = cumRep[d] + repContrib
	}
	return cumSum, cumRep
}
