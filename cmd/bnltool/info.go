package main

import (
	"fmt"

	"github.com/jchantrell/bnltool/internal/bnl"
	"github.com/jchantrell/bnltool/internal/utils"
	"github.com/spf13/cobra"
)

var infoOccupants bool

var infoCmd = &cobra.Command{
	Use:   "info <file.bnl> [name]",
	Short: "Show header details, or the details of one asset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := loadContainer(args[0])
		if err != nil {
			return err
		}

		if len(args) == 1 {
			printHeader(container)
			return nil
		}

		name := args[1]
		rec, ok := container.Record(name)
		if !ok {
			return fmt.Errorf("%w: %q", bnl.ErrNotFound, name)
		}

		fmt.Printf("Name:            %s\n", rec.Name())
		fmt.Printf("Index:           %d\n", rec.Index)
		fmt.Printf("Type:            %s (%d)\n", rec.Type, uint32(rec.Type))
		fmt.Printf("Unknown A/B:     %#08x %#08x\n", rec.UnknownA, rec.UnknownB)
		fmt.Printf("Chunk count:     %d\n", rec.ChunkCount)
		fmt.Printf("Descriptor:      [%d, %d) %s\n", rec.DescriptorPtr, rec.DescriptorView().End(), utils.Bytes(int64(rec.DescriptorSize)))
		fmt.Printf("Resource size:   %s\n", utils.Bytes(int64(rec.ResourceSize)))

		if rec.HasResource() {
			fmt.Printf("View list:       at %d\n", rec.ViewListPtr)

			vl, err := container.ViewList(rec)
			if err != nil {
				fmt.Printf("  unresolvable: %v\n", err)
			} else {
				for i, v := range vl.Views {
					fmt.Printf("  %3d  [%d, %d)  %d bytes\n", i, v.Offset, v.End(), v.Size)
				}
				if vl.Len() != int(rec.ResourceSize) {
					fmt.Printf("  views total %d bytes, record declares %d\n", vl.Len(), rec.ResourceSize)
				}
			}
		}

		raw, err := container.Raw(name)
		if err == nil && raw.Len() > 0 {
			fmt.Printf("Resource hash:   %016x\n", raw.Checksum())
		}

		if infoOccupants {
			end := uint32(rec.DescriptorView().End())
			occupants := container.DescriptorRangeOccupants(rec.DescriptorPtr, end)
			fmt.Printf("Descriptor range occupants: %d\n", len(occupants))
			for _, o := range occupants {
				marker := ""
				if o.Index == rec.Index {
					marker = " (self)"
				}
				fmt.Printf("  %d  %s  [%d, %d)%s\n", o.Index, o.Name(), o.DescriptorPtr, o.DescriptorView().End(), marker)
			}
		}

		return nil
	},
}

func printHeader(container *bnl.Container) {
	h := container.Header()

	fmt.Printf("File count:      %d\n", h.FileCount)
	fmt.Printf("Flags:           %#02x\n", h.Flags)
	fmt.Printf("Records:         %d\n", len(container.Records()))
	fmt.Println("Sections:")
	for _, s := range []bnl.Section{bnl.SectionRecords, bnl.SectionViewLists, bnl.SectionResources, bnl.SectionDescriptors} {
		v := h.View(s)
		fmt.Printf("  %-18s [%d, %d)  %s\n", s, v.Offset, v.End(), utils.Bytes(int64(v.Size)))
	}

	counts := make(map[bnl.AssetType]int)
	for _, rec := range container.Records() {
		counts[rec.Type]++
	}
	fmt.Println("Asset types:")
	for _, t := range bnl.AssetTypes() {
		if counts[t] > 0 {
			fmt.Printf("  %-18s %d\n", t, counts[t])
		}
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoOccupants, "occupants", false, "list records whose descriptors overlap this asset's descriptor range")
}
