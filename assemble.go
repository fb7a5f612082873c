package native

import (
	"fmt"

	"github.com/colnative/native/array"
)

// leafCursor walks one leaf's decoded definition/repetition level streams
// alongside its defined-only value stream, for a single page's worth of
// rows. It is the read-side counterpart of leafAccum.
type leafCursor struct {
	desc   LeafDescriptor
	def    []int32
	rep    []int32
	values array.Array
	n      int
	pos    int
	vpos   int
}

func newLeafCursor(desc LeafDescriptor, page *DecodedPage) *leafCursor {
	n := page.NumRows
	switch {
	case page.DefLevels != nil:
		n = len(page.DefLevels)
	case page.RepLevels != nil:
		n = len(page.RepLevels)
	}
	return &leafCursor{desc: desc, def: page.DefLevels, rep: page.RepLevels, values: page.Values, n: n}
}

func (c *leafCursor) done() bool { return c.pos >= c.n }

func (c *leafCursor) peekDef() int16 {
	if c.def == nil {
		return c.desc.MaxDefinitionLevel
	}
	return int16(c.def[c.pos])
}

func (c *leafCursor) peekRep() int16 {
	if c.rep == nil {
		return 0
	}
	return int16(c.rep[c.pos])
}

// advance consumes one level-stream entry, reporting whether it carried a
// value and, if so, that value's index into c.values.
func (c *leafCursor) advance() (valid bool, valueIdx int) {
	valid = c.peekDef() == c.desc.MaxDefinitionLevel
	if valid {
		valueIdx = c.vpos
		c.vpos++
	}
	c.pos++
	return valid, valueIdx
}

// AssembleField reconstructs field's array from one page-aligned row batch
// of leaf cursors — every leaf of field, in the same DFS order
// LeafDescriptors(field) produced, each holding exactly numRows logical
// rows' worth of level/value entries (a single page from every leaf, or
// any other row-aligned concatenation across pages).
func AssembleField(field Field, cursors []*leafCursor, numRows int) (array.Array, error) {
	builder := newNodeBuilder(field.Type, field.Nullable)
	for row := 0; row < numRows; row++ {
		if err := assembleRow(field.Type, field.Nullable, cursors, builder, 0, 0); err != nil {
			return nil, err
		}
	}
	for _, c := range cursors {
		if !c.done() {
			return nil, fmt.Errorf("native: assemble: leaf %v has %d unconsumed level entries: %w", c.desc.Path, c.n-c.pos, ErrCorrupted)
		}
	}
	return builder.build(), nil
}

// assembleRow reconstructs one logical position's worth of content across
// builder and its descendants, consuming exactly one level-stream entry
// per leaf in cursors — the exact inverse of shredRow. Unlike the write
// side, a single repDepth suffices here: every decision (is this node
// present, how many elements does this list have) is read directly off
// the cursors' actual def/rep values rather than computed ahead of time,
// so there is no separate "value to record" quantity to track.
func assembleRow(nodeType DataType, isOptional bool, cursors []*leafCursor, builder nodeBuilder, repDepth, curDef int16) error {
	switch nodeType.ID {
	case Struct:
		sb, ok := builder.(*structBuilder)
		if !ok {
			return fmt.Errorf("native: assemble: expected *structBuilder, got %T", builder)
		}
		presentDef := curDef
		if isOptional {
			presentDef++
		}
		valid := true
		if isOptional {
			valid = cursors[0].peekDef() >= presentDef
		}
		if !valid {
			consumeOne(cursors)
			padAbsent(nodeType, sb)
			return nil
		}
		sb.appendValid()
		cursor := 0
		for i, child := range nodeType.Fields {
			nl := NLeaves(child)
			sub := cursors[cursor : cursor+nl]
			if err := assembleRow(child.Type, child.Nullable, sub, sb.children[i], repDepth, presentDef); err != nil {
				return err
			}
			cursor += nl
		}
		return nil

	case List, LargeList:
		lb, ok := builder.(*listBuilder)
		if !ok {
			return fmt.Errorf("native: assemble: expected *listBuilder, got %T", builder)
		}
		return assembleList(nodeType, isOptional, cursors, lb, repDepth, curDef)

	case FixedSizeList:
		fb, ok := builder.(*fixedSizeListBuilder)
		if !ok {
			return fmt.Errorf("native: assemble: expected *fixedSizeListBuilder, got %T", builder)
		}
		presentDef := curDef
		if isOptional {
			presentDef++
		}
		valid := true
		if isOptional {
			valid = cursors[0].peekDef() >= presentDef
		}
		if !valid {
			consumeOne(cursors)
			fb.appendRow(false)
			elem := *nodeType.Elem
			for k := 0; k < fb.n; k++ {
				padAbsent(elem.Type, fb.elem)
			}
			return nil
		}
		fb.appendRow(true)
		elem := *nodeType.Elem
		for k := 0; k < fb.n; k++ {
			if err := assembleRow(elem.Type, elem.Nullable, cursors, fb.elem, repDepth, presentDef); err != nil {
				return err
			}
		}
		return nil

	default:
		pb, ok := builder.(*primitiveBuilder)
		if !ok {
			return fmt.Errorf("native: assemble: expected *primitiveBuilder, got %T", builder)
		}
		c := cursors[0]
		valid, vi := c.advance()
		if valid {
			pb.appendValid(c.values, vi)
		} else {
			pb.appendNull()
		}
		return nil
	}
}

// assembleList reconstructs one row of a List/LargeList node: null, empty,
// or an element sequence whose length is discovered by repetition levels
// rather than read up front, mirroring shredListLike in reverse.
func assembleList(nodeType DataType, isOptional bool, cursors []*leafCursor, lb *listBuilder, repDepth, curDef int16) error {
	c0 := cursors[0]
	presentDef := curDef
	if isOptional {
		presentDef++
	}
	def0 := c0.peekDef()

	if isOptional && def0 == curDef {
		consumeOne(cursors)
		lb.appendLen(0, false)
		return nil
	}
	if def0 == presentDef {
		consumeOne(cursors)
		lb.appendLen(0, true)
		return nil
	}

	newRepDepth := repDepth + 1
	elem := *nodeType.Elem
	count := 0
	for {
		if err := assembleRow(elem.Type, elem.Nullable, cursors, lb.elem, newRepDepth, presentDef+1); err != nil {
			return err
		}
		count++
		if c0.done() || c0.peekRep() != newRepDepth {
			break
		}
	}
	lb.appendLen(count, true)
	return nil
}

// consumeOne advances every cursor in scope by exactly one level-stream
// entry, discarding any value (there should never be one: an absent
// marker never reaches MaxDefinitionLevel).
func consumeOne(cursors []*leafCursor) {
	for _, c := range cursors {
		c.advance()
	}
}

// padAbsent fills in builder and all of its descendants for one absent
// (null or empty) occurrence of nodeType, without consuming any cursor
// entries — the single entry per leaf was already consumed by the caller
// via consumeOne. This is the builder-side counterpart of emitAbsent,
// which writes directly to the flat leaf accumulators instead.
func padAbsent(nodeType DataType, builder nodeBuilder) {
	switch nodeType.ID {
	case Struct:
		sb := builder.(*structBuilder)
		sb.appendNull()
		for i, child := range nodeType.Fields {
			padAbsent(child.Type, sb.children[i])
		}
	case List, LargeList:
		lb := builder.(*listBuilder)
		lb.appendLen(0, false)
	case FixedSizeList:
		fb := builder.(*fixedSizeListBuilder)
		fb.appendRow(false)
		elem := *nodeType.Elem
		for k := 0; k < fb.n; k++ {
			padAbsent(elem.Type, fb.elem)
		}
	default:
		pb := builder.(*primitiveBuilder)
		pb.appendAbsent()
	}
}
