package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jchantrell/bnltool/internal/bnl"
	"github.com/spf13/cobra"
)

var (
	listType string
	listHash bool
)

var listCmd = &cobra.Command{
	Use:   "list <file.bnl>",
	Short: "List the asset records of a BNL file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := loadContainer(args[0])
		if err != nil {
			return err
		}

		var filter bnl.AssetType
		if listType != "" {
			filter, err = bnl.ParseAssetTypeName(listType)
			if err != nil {
				return err
			}
		}

		var hashes map[int]uint64
		if listHash {
			assets, diags := container.RawAll()
			logDiagnostics(diags)

			hashes = make(map[int]uint64, len(assets))
			for _, a := range assets {
				hashes[a.Index] = a.Checksum()
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		header := "INDEX\tTYPE\tNAME\tDESCRIPTOR\tRESOURCE\tVIEWS"
		if listHash {
			header += "\tXXHASH"
		}
		fmt.Fprintln(w, header)

		for _, rec := range container.Records() {
			if filter != 0 && rec.Type != filter {
				continue
			}

			views := "-"
			if rec.HasResource() {
				if vl, err := container.ViewList(rec); err == nil {
					views = fmt.Sprint(vl.Count())
				} else {
					views = "?"
				}
			}

			fmt.Fprintf(w, "%d\t%s\t%s\t[%d, %d)\t%d\t%s",
				rec.Index, rec.Type, rec.Name(),
				rec.DescriptorPtr, rec.DescriptorView().End(),
				rec.ResourceSize, views)

			if listHash {
				if h, ok := hashes[rec.Index]; ok {
					fmt.Fprintf(w, "\t%016x", h)
				} else {
					fmt.Fprint(w, "\t-")
				}
			}
			fmt.Fprintln(w)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listType, "type", "", "only list records of this asset type (e.g. texture, ResScript)")
	listCmd.Flags().BoolVar(&listHash, "hash", false, "show the xxhash64 of each resource")
}
