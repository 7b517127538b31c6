package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/extract"
	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

var (
	ingestInstruction string
	ingestMode        string
	ingestRatio       float64
	manualJSON        bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Add files or an instruction to a manual",
	Long: `Extracts the given files, merges them with the owner's existing sources
and rebuilds the manual.

With --mode replace the new sources replace every existing one.`,
	RunE: runIngest,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the manual of a conversation",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var removeSourceCmd = &cobra.Command{
	Use:   "remove-source [source-id]",
	Short: "Remove one source and rebuild the manual",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemoveSource,
}

var deleteOwnerCmd = &cobra.Command{
	Use:   "delete-owner [project|conversation|guest] [id]",
	Short: "Delete an owner's manual and vectors",
	Long: `Deletes the manual of an owner directly, without resolving a conversation.
Call this when a project, conversation or guest session is removed.`,
	Args: cobra.ExactArgs(2),
	RunE: runDeleteOwner,
}

var ownersCmd = &cobra.Command{
	Use:   "owners",
	Short: "List owners that have a manual",
	Args:  cobra.NoArgs,
	RunE:  runOwners,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestInstruction, "instruction", "i", "", "free-text instruction to store as a source")
	ingestCmd.Flags().StringVarP(&ingestMode, "mode", "m", string(domain.MergeAppend), "append or replace")
	ingestCmd.Flags().Float64VarP(&ingestRatio, "ratio", "r", 0, "fraction of chunks to embed (0 = configured default)")
	ingestCmd.Flags().BoolVar(&manualJSON, "json", false, "output as JSON")
	statusCmd.Flags().BoolVar(&manualJSON, "json", false, "output as JSON")
	removeSourceCmd.Flags().BoolVar(&manualJSON, "json", false, "output as JSON")
	ownersCmd.Flags().BoolVar(&manualJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(removeSourceCmd)
	rootCmd.AddCommand(deleteOwnerCmd)
	rootCmd.AddCommand(ownersCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if manualService == nil {
		return errors.New("manual service not configured")
	}
	if len(args) > 0 && fileExtractor == nil {
		return errors.New("file extractor not configured")
	}

	ctx := cmd.Context()
	owner, err := resolveOwner(ctx)
	if err != nil {
		return err
	}

	files := make([]domain.FileInput, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		name := filepath.Base(path)
		file, err := fileExtractor.Extract(ctx, name, extract.MIMETypeFor(name), content)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}
		files = append(files, file)
	}

	summary, err := manualService.Ingest(ctx, owner, domain.IngestRequest{
		EmbedRatio:  ingestRatio,
		Mode:        ingestMode,
		Instruction: ingestInstruction,
		Files:       files,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if manualJSON {
		return printJSON(cmd, summary)
	}
	cmd.Printf("Manual rebuilt for %s\n", owner)
	printSummary(cmd, summary)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if manualService == nil {
		return errors.New("manual service not configured")
	}

	owner, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	status, err := manualService.Status(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}
	return outputStatus(cmd, owner, status)
}

func runRemoveSource(cmd *cobra.Command, args []string) error {
	if manualService == nil {
		return errors.New("manual service not configured")
	}

	owner, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	status, err := manualService.RemoveSource(cmd.Context(), owner, args[0])
	if err != nil {
		return fmt.Errorf("remove source failed: %w", err)
	}
	if !manualJSON {
		cmd.Printf("Removed source %s\n", args[0])
	}
	return outputStatus(cmd, owner, status)
}

func runDeleteOwner(cmd *cobra.Command, args []string) error {
	if manualService == nil {
		return errors.New("manual service not configured")
	}

	ownerType, err := domain.ParseOwnerType(args[0])
	if err != nil {
		return err
	}
	owner := domain.Owner{ID: args[1], Type: ownerType}

	if err := manualService.DeleteOwner(cmd.Context(), owner); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted manual of %s\n", owner)
	return nil
}

func runOwners(cmd *cobra.Command, _ []string) error {
	if manualService == nil {
		return errors.New("manual service not configured")
	}

	owners, err := manualService.Owners(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing owners failed: %w", err)
	}
	keys := make([]string, len(owners))
	for i, o := range owners {
		keys[i] = o.String()
	}
	if manualJSON {
		return printJSON(cmd, keys)
	}
	if len(keys) == 0 {
		cmd.Println("No manuals stored")
		return nil
	}
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

func outputStatus(cmd *cobra.Command, owner domain.Owner, status domain.ManualStatus) error {
	if manualJSON {
		return printJSON(cmd, status)
	}
	if !status.HasManual || status.Stats == nil {
		cmd.Printf("No manual for %s\n", owner)
		return nil
	}
	cmd.Printf("Manual for %s\n", owner)
	printSummary(cmd, status.Stats)
	return nil
}

func printSummary(cmd *cobra.Command, s *domain.ManualSummary) {
	cmd.Printf("  Files: %d\n", s.FileCount)
	cmd.Printf("  Chunks: %d (%d embedded, ratio %.2f)\n", s.ChunkCount, s.EmbeddedChunks, s.EmbedRatio)
	cmd.Printf("  Updated: %s\n", s.UpdatedAt.Local().Format(time.DateTime))
	if len(s.Sources) == 0 {
		return
	}
	cmd.Println("  Sources:")
	for _, src := range s.Sources {
		cmd.Printf("    %s  [%s] %s\n", src.ID, src.Kind, src.Label)
		if src.Preview != "" {
			cmd.Printf("      %s\n", src.Preview)
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
