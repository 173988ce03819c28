package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-rawnand/flash"
	"github.com/moffa90/go-rawnand/flash/flashsim"
)

func newImageCmd() *cobra.Command {
	imageCmd := &cobra.Command{
		Use:   "image",
		Short: "Create and inspect flash images.",
	}

	imageCmd.AddCommand(newImageCreateCmd())
	imageCmd.AddCommand(newImageInfoCmd())
	imageCmd.AddCommand(newImageMarkBadCmd())

	return imageCmd
}

func newImageCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create PATH",
		Short: "Create an erased flash image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			geo := flash.Geometry{}
			geo.PageSize, _ = flags.GetInt("page-size")
			geo.OOBSize, _ = flags.GetInt("oob-size")
			geo.EraseSize, _ = flags.GetInt("erase-size")
			geo.TotalSize, _ = flags.GetInt64("size")
			geo.Base, _ = flags.GetInt64("base")
			bad, _ := flags.GetInt64Slice("bad")

			for _, b := range bad {
				if b < 0 || (geo.EraseSize > 0 && b >= geo.TotalSize/int64(geo.EraseSize)) {
					return fmt.Errorf("bad block %d outside image", b)
				}
			}

			img, err := flashsim.CreateImage(args[0], geo)
			if err != nil {
				return err
			}
			for _, b := range bad {
				img.SetBad(b)
			}
			if err := img.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %d blocks of %d bytes, page %d+%d\n",
				args[0], geo.BlockCount(), geo.EraseSize, geo.PageSize, geo.OOBSize)
			return nil
		},
	}

	createCmd.Flags().Int("page-size", flash.LargePageSize, "Page data size in bytes")
	createCmd.Flags().Int("oob-size", flash.LargePageOOBSize, "Spare bytes per page")
	createCmd.Flags().Int("erase-size", flash.LargePageEraseSize, "Erase block size in bytes")
	createCmd.Flags().Int64("size", 128*flash.LargePageEraseSize, "Data size of the image in bytes")
	createCmd.Flags().Int64("base", 0, "Address of the image within its device")
	createCmd.Flags().Int64Slice("bad", nil, "Blocks to mark bad from the start")

	return createCmd
}

func newImageInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info PATH",
		Short: "Print the geometry, bad blocks and ECC counters of an image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := flashsim.OpenImage(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			geo := img.Geometry()
			stats, err := img.ECCStats()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Image:       %s\n", img.Path())
			fmt.Fprintf(w, "Page size:   %d\n", geo.PageSize)
			fmt.Fprintf(w, "OOB size:    %d\n", geo.OOBSize)
			fmt.Fprintf(w, "Erase size:  %d (%d pages)\n", geo.EraseSize, geo.PagesPerBlock())
			fmt.Fprintf(w, "Size:        %d (%d blocks)\n", geo.TotalSize, geo.BlockCount())
			fmt.Fprintf(w, "Base:        0x%08x\n", geo.Base)
			fmt.Fprintf(w, "Bad blocks:  %v\n", img.BadBlocks())
			fmt.Fprintf(w, "ECC:         %d corrected, %d failed\n", stats.Corrected, stats.Failed)
			return nil
		},
	}
}

func newImageMarkBadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markbad PATH BLOCK",
		Short: "Mark an erase block of an image bad.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			block, err := strconv.ParseInt(args[1], 0, 64)
			if err != nil {
				return fmt.Errorf("block %q: %w", args[1], err)
			}

			img, err := flashsim.OpenImage(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			geo := img.Geometry()
			if block < 0 || block >= geo.BlockCount() {
				return fmt.Errorf("block %d outside image of %d blocks", block, geo.BlockCount())
			}
			if err := img.MarkBad(geo.BlockAddr(block)); err != nil {
				return err
			}
			return img.Close()
		},
	}
}
