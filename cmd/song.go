package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var songCmd = &cobra.Command{
	Use:   "song <name...>",
	Short: "Show the audio features of a song",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		name := strings.Join(args, " ")

		m := newEngine(store).Lookup(name)
		out := cmd.OutOrStdout()
		if !m.Found() {
			fmt.Fprintln(out, "Sorry, the song is not found!")
			return nil
		}

		d := m.Song.Details()
		fmt.Fprintf(out, "%s (%s, score %d)\n", d.Name, strings.ToLower(m.Status), m.Score)
		fmt.Fprintf(out, "  artists:      %s\n", m.Song.Artists)
		fmt.Fprintf(out, "  valence:      %.3f\n", d.Valence)
		fmt.Fprintf(out, "  danceability: %.3f\n", d.Danceability)
		fmt.Fprintf(out, "  energy:       %.3f\n", d.Energy)
		fmt.Fprintf(out, "  tempo:        %.1f\n", d.Tempo)
		fmt.Fprintf(out, "  cluster:      %d\n", d.Cluster)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(songCmd)
}
