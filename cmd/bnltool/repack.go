package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/jchantrell/bnltool/internal/bnl"
	"github.com/jchantrell/bnltool/internal/utils"
	"github.com/spf13/cobra"
)

var repackOutput string

var repackCmd = &cobra.Command{
	Use:   "repack <file.bnl>",
	Short: "Re-serialize a BNL file and verify the result",
	Long: `Repack loads a BNL file, serializes it again at the configured compression
level and checks that the output parses back to the same records and
sections.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		container, err := loadContainer(args[0])
		if err != nil {
			return err
		}

		n, err := writeContainer(container, repackOutput)
		if err != nil {
			return err
		}

		again, err := loadContainer(repackOutput)
		if err != nil {
			return fmt.Errorf("verifying repacked file: %w", err)
		}

		if err := sameStructure(container, again); err != nil {
			return fmt.Errorf("verifying repacked file: %w", err)
		}

		slog.Info("Repacked",
			"input", args[0],
			"output", repackOutput,
			"input_size", utils.Bytes(info.Size()),
			"output_size", utils.Bytes(int64(n)),
			"records", len(again.Records()))

		return nil
	},
}

// sameStructure reports the first difference between two containers' parsed
// structure
func sameStructure(a, b *bnl.Container) error {
	ha, hb := a.Header(), b.Header()
	if ha.FileCount != hb.FileCount || ha.Flags != hb.Flags || ha.Reserved != hb.Reserved {
		return fmt.Errorf("header fields differ")
	}

	if !slices.Equal(a.Records(), b.Records()) {
		return fmt.Errorf("record tables differ")
	}

	for _, s := range []bnl.Section{bnl.SectionRecords, bnl.SectionViewLists, bnl.SectionResources, bnl.SectionDescriptors} {
		if !bytes.Equal(a.SectionBytes(s), b.SectionBytes(s)) {
			return fmt.Errorf("%s section differs", s)
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(repackCmd)
	repackCmd.Flags().StringVarP(&repackOutput, "output", "o", "", "path of the repacked BNL file")
	repackCmd.MarkFlagRequired("output")
}
