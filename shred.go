package native

import (
	"fmt"

	"github.com/colnative/native/array"
)

// LeafChunk is one leaf column's contribution after shredding a field's
// array: the flattened, fully-defined values plus the parallel definition
// and (when the leaf has a repeated ancestor) repetition level streams.
// DefLevels is nil when MaxDefinitionLevel == 0 and RepLevels is nil when
// MaxRepetitionLevel == 0 — both are then implicit (always the zero
// value) and carry no bytes on disk, per the simple page layout.
type LeafChunk struct {
	Leaf      LeafDescriptor
	Values    array.Array
	DefLevels []int32
	RepLevels []int32
}

type leafAccum struct {
	desc    LeafDescriptor
	builder *leafBuilder
	def     []int32
	rep     []int32
}

// ShredField walks field's array row by row, producing one LeafChunk per
// leaf of field in the same DFS order as LeafDescriptors(field). This is
// the write-side counterpart of the recursive assembly the column iterator
// engine performs on read.
func ShredField(field Field, arr array.Array) ([]LeafChunk, error) {
	leaves := LeafDescriptors(field)
	accums := make([]*leafAccum, len(leaves))
	for i, l := range leaves {
		accums[i] = &leafAccum{desc: l, builder: newLeafBuilder(l.Type.ID)}
	}

	n := arr.Len()
	for row := 0; row < n; row++ {
		if err := shredRow(field.Type, field.Nullable, arr, row, accums, 0, 0, 0); err != nil {
			return nil, err
		}
	}

	chunks := make([]LeafChunk, len(accums))
	for i, a := range accums {
		chunks[i] = LeafChunk{Leaf: a.desc, Values: a.builder.build()}
		if a.desc.MaxDefinitionLevel > 0 {
			chunks[i].DefLevels = a.def
		}
		if a.desc.MaxRepetitionLevel > 0 {
			chunks[i].RepLevels = a.rep
		}
	}
	return chunks, nil
}

// shredRow emits one logical position's worth of (rep, def, value) entries
// across every leaf reachable from nodeType, recursing through Struct/
// List/LargeList/FixedSizeList wrappers exactly as LeafDescriptors walked
// the schema that produced accums. isOptional is nodeType's own
// nullability, applied here rather than by the caller. curDef is the
// definition level contributed by strict ancestors.
//
// Repetition threads through two separate quantities, because they answer
// different questions:
//
//   - repDepth is the structural count of repeated (List/LargeList)
//     ancestors strictly above this node — it increases by exactly one for
//     every repeated ancestor, for every element, unconditionally. It never
//     appears on disk; it only tells a List/LargeList node what value to
//     assign if an element here actually starts a new repetition.
//   - recordedRep is the repetition level that gets written to a leaf's
//     rep-level stream if reached from here without any further repeated
//     ancestor restarting. The first element of a repeated field always
//     inherits recordedRep unchanged (nothing restarted yet, relative to
//     the previous entry); every later element overrides it to this
//     field's own repDepth (the shallowest field that restarted wins).
func shredRow(nodeType DataType, isOptional bool, arr array.Array, idx int, accums []*leafAccum, repDepth, recordedRep, curDef int16) error {
	switch nodeType.ID {
	case Struct:
		sa, ok := arr.(*array.StructArray)
		if !ok {
			return fmt.Errorf("native: shred: expected *array.StructArray, got %T", arr)
		}
		valid := !isOptional || sa.Validity.IsValid(idx)
		def := curDef
		if isOptional && valid {
			def++
		}
		if isOptional && !valid {
			emitAbsent(accums, recordedRep, curDef)
			return nil
		}
		cursor := 0
		for i, child := range nodeType.Fields {
			nl := NLeaves(child)
			sub := accums[cursor : cursor+nl]
			if i >= len(sa.Fields) {
				return fmt.Errorf("native: shred: struct array missing field %d (%s)", i, child.Name)
			}
			if err := shredRow(child.Type, child.Nullable, sa.Fields[i], idx, sub, repDepth, recordedRep, def); err != nil {
				return err
			}
			cursor += nl
		}
		return nil

	case List:
		la, ok := arr.(*array.ListArray)
		if !ok {
			return fmt.Errorf("native: shred: expected *array.ListArray, got %T", arr)
		}
		isNull := isOptional && !la.Validity.IsValid(idx)
		return shredListLike(nodeType, isOptional, int(la.Offsets[idx]), int(la.Offsets[idx+1]), la.Values, accums, repDepth, recordedRep, curDef, isNull)

	case LargeList:
		la, ok := arr.(*array.LargeListArray)
		if !ok {
			return fmt.Errorf("native: shred: expected *array.LargeListArray, got %T", arr)
		}
		isNull := isOptional && !la.Validity.IsValid(idx)
		return shredListLike(nodeType, isOptional, int(la.Offsets[idx]), int(la.Offsets[idx+1]), la.Values, accums, repDepth, recordedRep, curDef, isNull)

	case FixedSizeList:
		fa, ok := arr.(*array.FixedSizeListArray)
		if !ok {
			return fmt.Errorf("native: shred: expected *array.FixedSizeListArray, got %T", arr)
		}
		valid := !isOptional || fa.Validity.IsValid(idx)
		def := curDef
		if isOptional && valid {
			def++
		}
		if isOptional && !valid {
			emitAbsent(accums, recordedRep, curDef)
			return nil
		}
		elem := *nodeType.Elem
		base := idx * fa.N
		for k := 0; k < fa.N; k++ {
			// Fixed cardinality needs no repetition marker: repDepth and
			// recordedRep both pass through unchanged, exactly like a
			// struct child that isn't itself repeated.
			if err := shredRow(elem.Type, elem.Nullable, fa.Values, base+k, accums, repDepth, recordedRep, def); err != nil {
				return err
			}
		}
		return nil

	default:
		if len(accums) != 1 {
			return fmt.Errorf("native: shred: primitive node resolved to %d leaves, want 1", len(accums))
		}
		acc := accums[0]
		valid := !isOptional || leafValidity(arr, idx)
		def := curDef
		if isOptional && valid {
			def++
		}
		if acc.desc.MaxDefinitionLevel > 0 {
			acc.def = append(acc.def, int32(def))
		}
		if acc.desc.MaxRepetitionLevel > 0 {
			acc.rep = append(acc.rep, int32(recordedRep))
		}
		if valid {
			acc.builder.appendValid(arr, idx)
		}
		return nil
	}
}

// shredListLike implements the List/LargeList case once for both the
// int32- and int64-offset array flavors.
func shredListLike(nodeType DataType, isOptional bool, start, end int, values array.Array, accums []*leafAccum, repDepth, recordedRep, curDef int16, isNull bool) error {
	if isNull {
		emitAbsent(accums, recordedRep, curDef)
		return nil
	}
	// presentDef reflects only "this list itself is not null"; the
	// repetition's own contribution is applied per element below (an
	// empty list never applies it, same as a struct child's definition
	// bump only applying when the caller actually recurses into that
	// child).
	presentDef := curDef
	if isOptional {
		presentDef++
	}
	if start == end {
		emitAbsent(accums, recordedRep, presentDef)
		return nil
	}
	newRepDepth := repDepth + 1
	elem := *nodeType.Elem
	for i := start; i < end; i++ {
		childRecordedRep := recordedRep
		if i > start {
			// A later element means this list itself is what restarted,
			// relative to the previous entry: the shallowest field that
			// restarted wins, overriding whatever recordedRep inherited.
			childRecordedRep = newRepDepth
		}
		if err := shredRow(elem.Type, elem.Nullable, values, i, accums, newRepDepth, childRecordedRep, presentDef+1); err != nil {
			return err
		}
	}
	return nil
}

// emitAbsent records a null or empty-list marker across every leaf
// currently in scope: the position exists in the level streams but
// contributes no value, because some ancestor between here and those
// leaves was null (or, for lists, present-but-empty).
func emitAbsent(accums []*leafAccum, rep, def int16) {
	for _, a := range accums {
		if a.desc.MaxDefinitionLevel > 0 {
			a.def = append(a.def, int32(def))
		}
		if a.desc.MaxRepetitionLevel > 0 {
			a.rep = append(a.rep, int32(rep))
		}
	}
}
