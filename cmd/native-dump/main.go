// Command native-dump prints the footer, schema, and per-column page
// metadata of a file written by this module. It never decodes a page's
// values; it only reports what the footer says is on disk, the same scope
// as the teacher's parquet-tools re-implementation but aimed at metadata
// rather than row content.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/colnative/native"
)

func main() {
	pages := flag.Bool("pages", false, "also list each column's individual pages")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: native-dump [-pages] FILE\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *pages); err != nil {
		fmt.Fprintf(os.Stderr, "native-dump: %s\n", err)
		os.Exit(1)
	}
}

func run(path string, showPages bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	metas, schema, err := native.ReadMeta(f, info.Size())
	if err != nil {
		return fmt.Errorf("reading footer: %w", err)
	}

	fmt.Printf("%s (%d bytes, %d leaf columns)\n\n", path, info.Size(), len(metas))
	printSchema(schema)
	fmt.Println()
	printColumns(schema, metas, showPages)
	return nil
}

// printSchema renders the field tree one line per node, indented by depth,
// in the same DFS order the footer's column metas were written in.
func printSchema(schema *native.Schema) {
	fmt.Println("schema:")
	for _, f := range schema.Fields {
		printField(f, 1)
	}
}

func printField(f native.Field, depth int) {
	indent := strings.Repeat("  ", depth)
	null := "required"
	if f.Nullable {
		null = "optional"
	}
	switch f.Type.ID {
	case native.Struct:
		fmt.Printf("%s%s: %s (%s)\n", indent, f.Name, f.Type.ID, null)
		for _, child := range f.Type.Fields {
			printField(child, depth+1)
		}
	case native.List, native.LargeList:
		fmt.Printf("%s%s: %s (%s)\n", indent, f.Name, f.Type.ID, null)
		printField(*f.Type.Elem, depth+1)
	case native.FixedSizeList:
		fmt.Printf("%s%s: %s[%d] (%s)\n", indent, f.Name, f.Type.ID, f.Type.FixedSizeListLen, null)
		printField(*f.Type.Elem, depth+1)
	default:
		fmt.Printf("%s%s: %s (%s)\n", indent, f.Name, f.Type.ID, null)
	}
}

// printColumns renders one table row per leaf column, in the same order
// ColumnMeta entries appear in the footer, alongside the descriptor that
// walking the schema recomputes for it.
func printColumns(schema *native.Schema, metas []native.ColumnMeta, showPages bool) {
	descs := native.SchemaDescriptors(schema)
	if len(descs) != len(metas) {
		fmt.Fprintf(os.Stderr, "native-dump: warning: %d descriptors but %d column metas\n", len(descs), len(metas))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"path", "type", "max def", "max rep", "pages", "values", "offset"})
	for i, m := range metas {
		path := strconv.Itoa(i)
		typ := "?"
		maxDef, maxRep := "-", "-"
		if i < len(descs) {
			d := descs[i]
			path = strings.Join(d.Path, ".")
			typ = d.Type.ID.String()
			maxDef = strconv.Itoa(int(d.MaxDefinitionLevel))
			maxRep = strconv.Itoa(int(d.MaxRepetitionLevel))
		}
		values := 0
		for _, p := range m.Pages {
			values += p.NumValues
		}
		table.Append([]string{
			path, typ, maxDef, maxRep,
			strconv.Itoa(len(m.Pages)), strconv.Itoa(values), strconv.FormatInt(m.Offset, 10),
		})
	}
	table.Render()

	if !showPages {
		return
	}
	fmt.Println()
	fmt.Println("pages:")
	for i, m := range metas {
		path := strconv.Itoa(i)
		if i < len(descs) {
			path = strings.Join(descs[i].Path, ".")
		}
		pt := tablewriter.NewWriter(os.Stdout)
		pt.SetHeader([]string{"#", "length", "num values"})
		for j, p := range m.Pages {
			pt.Append([]string{strconv.Itoa(j), strconv.FormatInt(p.Length, 10), strconv.Itoa(p.NumValues)})
		}
		fmt.Printf("%s:\n", path)
		pt.Render()
	}
}
