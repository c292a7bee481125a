package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jchantrell/bnltool/internal/bnl"
	"github.com/spf13/cobra"
)

var (
	patchResource   string
	patchDescriptor string
	patchOutput     string
)

var patchCmd = &cobra.Command{
	Use:   "patch <file.bnl> <name>",
	Short: "Replace an asset's resource or descriptor and write a new BNL file",
	Long: `Patch overwrites the resource and/or descriptor of one asset in place.

Resources are written back over the asset's existing slices, so the new
resource must be exactly as long as the old one. Descriptors may shrink but
not grow.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if patchResource == "" && patchDescriptor == "" {
			return fmt.Errorf("nothing to patch, pass --resource and/or --descriptor")
		}

		container, err := loadContainer(args[0])
		if err != nil {
			return err
		}

		name := args[1]
		rec, ok := container.Record(name)
		if !ok {
			return fmt.Errorf("%w: %q", bnl.ErrNotFound, name)
		}

		var resource []byte
		if patchResource != "" {
			resource, err = os.ReadFile(patchResource)
			if err != nil {
				return fmt.Errorf("reading resource: %w", err)
			}
			// nil means untouched to UpdateDescriptor; an empty file is a real, empty resource
			if resource == nil {
				resource = []byte{}
			}
		}

		if patchDescriptor != "" {
			data, err := os.ReadFile(patchDescriptor)
			if err != nil {
				return fmt.Errorf("reading descriptor: %w", err)
			}

			desc := bnl.OpaqueDescriptor{Type: rec.Type, Data: data}
			if err := container.UpdateDescriptor(name, desc, resource); err != nil {
				return err
			}
		} else {
			if err := container.UpdateResource(name, rec.Type, resource); err != nil {
				return err
			}
		}

		n, err := writeContainer(container, patchOutput)
		if err != nil {
			return err
		}

		slog.Info("Patched asset",
			"name", name,
			"type", rec.Type,
			"resource", patchResource != "",
			"descriptor", patchDescriptor != "",
			"output", patchOutput,
			"size", n)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)
	patchCmd.Flags().StringVar(&patchResource, "resource", "", "file holding the replacement resource")
	patchCmd.Flags().StringVar(&patchDescriptor, "descriptor", "", "file holding the replacement descriptor")
	patchCmd.Flags().StringVarP(&patchOutput, "output", "o", "", "path of the patched BNL file")
	patchCmd.MarkFlagRequired("output")
}
