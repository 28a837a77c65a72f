package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tunematch/internal/features"
	"tunematch/internal/models"
)

var (
	recommendCount int
	recommendFrom  []string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <name...>",
	Short: "Recommend songs similar to a song, or to several with --from",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && len(recommendFrom) == 0 {
			return errors.New("give a song name or at least one --from")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if recommendCount < 1 {
			return fmt.Errorf("-n must be positive, got %d", recommendCount)
		}
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		engine := newEngine(store)
		n := min(recommendCount, cfg.MaxRecommendations)

		var (
			query string
			recs  []models.Recommendation
		)
		if len(recommendFrom) > 0 {
			query = strings.Join(recommendFrom, ", ")
			recs, err = engine.RecommendFromSongs(cmd.Context(), recommendFrom, n)
		} else {
			query = strings.Join(args, " ")
			recs, err = engine.Recommend(cmd.Context(), query, n)
		}
		out := cmd.OutOrStdout()
		if errors.Is(err, features.ErrEmptyInput) {
			fmt.Fprintln(out, "Sorry, the song is not found!")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Songs similar to %s:\n", query)
		writeRecommendations(out, recs)
		return nil
	},
}

func writeRecommendations(out io.Writer, recs []models.Recommendation) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tARTISTS\tVALENCE\tDANCE\tENERGY\tTEMPO\tDISTANCE")
	for i, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\t%.3f\t%.3f\t%.1f\t%.4f\n",
			i+1, r.Name, r.Artists, r.Valence, r.Danceability, r.Energy, r.Tempo, r.Distance)
	}
	_ = tw.Flush()
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendCount, "count", "n", 5, "number of recommendations")
	recommendCmd.Flags().StringArrayVar(&recommendFrom, "from", nil, "recommend from the centroid of these songs (repeatable)")
	rootCmd.AddCommand(recommendCmd)
}
