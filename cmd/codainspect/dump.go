package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/cursor"
)

var dumpDepth int

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpDepth, "depth", 6, "maximum tree depth to descend")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Recursively print a product's tree from the root",
		Long: `dump opens file and walks its whole tree depth-first, printing each
record field, array element, and leaf scalar it finds, down to --depth levels.

Example:
  codainspect dump granule.bin
  codainspect dump granule.bin --depth 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

func runDump(path string) error {
	p, err := openProduct(path)
	if err != nil {
		return err
	}
	defer p.Close()

	c, err := p.NewCursor()
	if err != nil {
		return fmt.Errorf("codainspect: %w", err)
	}

	return dumpNode(c, "", 0)
}

func dumpNode(c *cursor.Cursor, label string, depth int) error {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	switch t := c.GetType().(type) {
	case *typemodel.Record:
		printInfo("%s%s (record, %d fields)\n", indent, label, t.FieldCount())
		if depth >= dumpDepth {
			return nil
		}
		if t.FieldCount() == 0 {
			return nil
		}
		if err := c.GotoFirstRecordField(); err != nil {
			return nil
		}
		for k := 0; k < t.FieldCount(); k++ {
			field, err := t.FieldByIndex(k)
			if err != nil {
				return err
			}
			if k > 0 {
				if err := c.GotoNextRecordField(); err != nil {
					break
				}
			}
			if err := dumpNode(c, field.Name, depth+1); err != nil {
				return err
			}
		}
		return c.GotoParent()

	case *typemodel.Array:
		n, err := c.GetNumElements()
		if err != nil {
			return err
		}
		printInfo("%s%s (array, %d elements)\n", indent, label, n)
		if depth >= dumpDepth || n == 0 {
			return nil
		}
		if err := c.GotoFirstArrayElement(); err != nil {
			return err
		}
		for i := int64(0); i < n; i++ {
			if i > 0 {
				if err := c.GotoNextArrayElement(); err != nil {
					break
				}
			}
			if err := dumpNode(c, "["+strconv.FormatInt(i, 10)+"]", depth+1); err != nil {
				return err
			}
		}
		return c.GotoParent()

	default:
		v, err := c.ReadAny()
		if err != nil {
			printInfo("%s%s = <unreadable: %v>\n", indent, label, err)
			return nil
		}
		printInfo("%s%s = %s\n", indent, label, formatValue(v))
		return nil
	}
}
