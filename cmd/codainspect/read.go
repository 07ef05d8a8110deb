package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/expr"
)

func init() {
	rootCmd.AddCommand(newReadCmd())
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <file> <path>",
		Short: "Navigate a path and print the scalar or array value there",
		Long: `read opens file, walks path (a "/"-delimited sequence of field names
and array indices), and prints whatever value sits there: a scalar, or every
element of an array in file order.

Example:
  codainspect read granule.bin mph/product
  codainspect read granule.bin sensing_data/0/latitude`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(args[0], args[1])
		},
	}
}

func runRead(path, fieldPath string) error {
	p, err := openProduct(path)
	if err != nil {
		return err
	}
	defer p.Close()

	c, err := p.NewCursor()
	if err != nil {
		return fmt.Errorf("codainspect: %w", err)
	}

	if err := gotoPath(c, fieldPath); err != nil {
		return fmt.Errorf("codainspect: %w", err)
	}

	if _, ok := c.GetType().(*typemodel.Array); ok {
		raws, err := c.ReadArrayRaw()
		if err != nil {
			return fmt.Errorf("codainspect: %w", err)
		}
		if jsonOut {
			vals := make([]string, len(raws))
			for i, r := range raws {
				vals[i] = fmt.Sprint(r)
			}
			return printJSON(vals)
		}
		for i, r := range raws {
			printInfo("[%d] %v\n", i, r)
		}
		return nil
	}

	v, err := c.ReadAny()
	if err != nil {
		return fmt.Errorf("codainspect: %w", err)
	}
	if jsonOut {
		return printJSON(v)
	}
	printInfo("%s\n", formatValue(v))
	return nil
}

func formatValue(v expr.Value) string {
	switch v.Kind {
	case expr.KindBool:
		return fmt.Sprint(v.Bool)
	case expr.KindInt:
		return fmt.Sprint(v.Int)
	case expr.KindFloat:
		return fmt.Sprint(v.Float)
	case expr.KindString:
		return v.Str
	default:
		return fmt.Sprintf("%v", v)
	}
}
