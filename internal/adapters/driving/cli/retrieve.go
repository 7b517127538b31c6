package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	retrieveTopK int
	retrieveJSON bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Retrieve manual fragments for a query",
	Long: `Embeds the query and returns the most similar chunks of the
conversation's manual, best match first.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 0, "maximum number of fragments (0 = configured default)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output fragments as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	owner, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	fragments, err := retrievalService.Retrieve(cmd.Context(), owner, args[0], retrieveTopK)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		if fragments == nil {
			fragments = []string{}
		}
		return printJSON(cmd, fragments)
	}

	if len(fragments) == 0 {
		cmd.Println("No fragments found.")
		return nil
	}
	for i, f := range fragments {
		cmd.Printf("[%d] %s\n\n", i+1, f)
	}
	return nil
}
