package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/nao1215/passprivacy/internal/digest"
	"github.com/nao1215/passprivacy/internal/report"
)

// digestInfo describes one registry digest for the digests command.
type digestInfo struct {
	Name      string `json:"name"`
	HexLength int    `json:"hex_length"`
	Bits      int    `json:"bits"`
}

// NewDigestsCmd creates the digests command.
func NewDigestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digests",
		Short: "List the supported digest algorithms",
		Long: `Digests lists every algorithm accepted by --for-digest, in the order in
which they are compared. The hex length is the largest usable
--first-bits value for the digest.

Examples:
  # Show the registry as a table
  passprivacy digests

  # Show the registry as JSON
  passprivacy digests --json`,
		Args: cobra.NoArgs,
		RunE: runDigestsCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output the registry in JSON format")

	return cmd
}

// runDigestsCmd executes the digests command.
func runDigestsCmd(cmd *cobra.Command, _ []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	infos := lo.Map(digest.Algorithms(), func(a digest.Algorithm, _ int) digestInfo {
		return digestInfo{Name: a.String(), HexLength: a.HexLen(), Bits: a.HexLen() * 4}
	})

	if jsonOutput {
		_, err := report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint()).WriteValue(infos)
		return err
	}
	printDigests(cmd.OutOrStdout(), infos)
	return nil
}

// printDigests writes infos as a table.
func printDigests(w io.Writer, infos []digestInfo) {
	headerfmt := color.New(color.FgGreen, color.Underline).SprintFunc()

	table := uitable.New()
	table.AddRow(headerfmt("DIGEST"), headerfmt("HEX LENGTH"), headerfmt("BITS"))
	for _, info := range infos {
		table.AddRow(info.Name, strconv.Itoa(info.HexLength), strconv.Itoa(info.Bits))
	}
	fmt.Fprintln(w, table)
}
