package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print a product's class, type, version, format and size",
		Long: `info opens file (an XML document, or any other file treated as a flat
byte array) and reports the product metadata a CODA-style definition would
expose, without walking its tree.

Example:
  codainspect info profile.xml
  codainspect info granule.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func runInfo(path string) error {
	printVerbose("opening %s\n", path)
	p, err := openProduct(path)
	if err != nil {
		return err
	}
	defer p.Close()

	size, err := p.FileSize()
	if err != nil {
		return fmt.Errorf("codainspect: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"file":    p.FileName(),
			"class":   p.ProductClass(),
			"type":    p.ProductType(),
			"version": p.ProductVersion(),
			"format":  p.ProductFormat(),
			"size":    size,
		})
	}

	printInfo("File:    %s\n", p.FileName())
	printInfo("Class:   %s\n", p.ProductClass())
	printInfo("Type:    %s\n", p.ProductType())
	printInfo("Version: %d\n", p.ProductVersion())
	printInfo("Format:  %s\n", p.ProductFormat())
	printInfo("Size:    %d bytes\n", size)
	return nil
}
