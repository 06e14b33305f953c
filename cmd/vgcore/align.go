package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shilpagarg/vg/align"
	"github.com/shilpagarg/vg/scoring"
)

var alignFlags struct {
	graphPath       string
	read            string
	mode            string
	pinLeft         bool
	maxAlt          int
	fullLengthBonus int32
	match           int32
	mismatch        int32
	gapOpen         int32
	gapExtend       int32
	bandPadding     int
	permissive      bool
}

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align a read against a graph",
	RunE:  runAlign,
}

func init() {
	alignCmd.Flags().StringVar(&alignFlags.graphPath, "graph", "-", "path to a graph JSON literal, or - for stdin")
	alignCmd.Flags().StringVar(&alignFlags.read, "read", "", "read sequence to align")
	alignCmd.Flags().StringVar(&alignFlags.mode, "mode", "local", "local|pinned|pinned-multi|banded")
	alignCmd.Flags().BoolVar(&alignFlags.pinLeft, "pin-left", false, "pin the left end instead of the right")
	alignCmd.Flags().IntVar(&alignFlags.maxAlt, "max-alt", 1, "alignments to report for a multi mode, primary included")
	alignCmd.Flags().Int32Var(&alignFlags.fullLengthBonus, "full-length-bonus", 0, "score bonus for a full-length alignment")
	alignCmd.Flags().Int32Var(&alignFlags.match, "match", 1, "match score")
	alignCmd.Flags().Int32Var(&alignFlags.mismatch, "mismatch", 4, "mismatch penalty")
	alignCmd.Flags().Int32Var(&alignFlags.gapOpen, "gap-open", 6, "gap open penalty")
	alignCmd.Flags().Int32Var(&alignFlags.gapExtend, "gap-extend", 1, "gap extend penalty")
	alignCmd.Flags().IntVar(&alignFlags.bandPadding, "band-padding", 10, "band padding for banded mode")
	alignCmd.Flags().BoolVar(&alignFlags.permissive, "permissive", true, "widen the band on clipped banded alignment")

	rootCmd.AddCommand(alignCmd)
}

func runAlign(cmd *cobra.Command, args []string) error {
	doc, err := readGraphDoc(alignFlags.graphPath)
	if err != nil {
		return err
	}
	g := doc.toVariationGraph()

	// The penalty flags are given as positive magnitudes; the model adds
	// its mismatch and gap scores, so they enter it negated.
	model := scoring.NewModel(alignFlags.match, -alignFlags.mismatch, -alignFlags.gapOpen, -alignFlags.gapExtend)
	aligner := align.NewAligner(model)
	read := []byte(alignFlags.read)

	switch alignFlags.mode {
	case "local":
		return writeJSON(aligner.Align(read, g))
	case "pinned":
		return writeJSON(aligner.AlignPinned(read, g, alignFlags.pinLeft, alignFlags.fullLengthBonus))
	case "pinned-multi":
		primary, alternates := aligner.AlignPinnedMulti(read, g, alignFlags.pinLeft, alignFlags.maxAlt, alignFlags.fullLengthBonus)
		return writeJSON(struct {
			Primary    interface{} `json:"primary"`
			Alternates interface{} `json:"alternates"`
		}{primary, alternates})
	case "banded":
		return writeJSON(aligner.AlignGlobalBanded(read, g, alignFlags.bandPadding, alignFlags.permissive))
	default:
		return fmt.Errorf("vgcore: unrecognized align mode %q", alignFlags.mode)
	}
}
