package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"foodgram/db"
	"foodgram/logger"
	"foodgram/repository"
	"foodgram/service"
)

var (
	exportUserID int64
	exportFormat string
	exportOutput string

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write a user's shopping list to a file",
		Long: `export aggregates the ingredients of every recipe in the user's cart and
writes the shopping list in the requested format.

Examples:
  foodgram export --user 3                        # shopping_list.pdf in the current directory
  foodgram export --user 3 --format html -o -     # HTML to stdout`,
		RunE: runExport,
	}
)

func init() {
	exportCmd.Flags().Int64Var(&exportUserID, "user", 0, "user whose cart is exported (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "document format: pdf, html, txt")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, - for stdout (default shopping_list.<format>)")
	_ = exportCmd.MarkFlagRequired("user")
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := service.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	conn, err := db.Open(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer conn.Close()

	htmlRenderer := service.NewHTMLRenderer(cfg.FontPath)
	svc := service.NewShoppingListService(repository.NewShoppingCartRepository(conn), nil,
		service.NewPDFRenderer(htmlRenderer, cfg.ChromePath, cfg.PDFTimeout),
		htmlRenderer,
		service.NewTextRenderer(),
	)

	doc, err := svc.Export(cmd.Context(), exportUserID, format)
	if err != nil {
		return err
	}

	if exportOutput == "-" {
		_, err := cmd.OutOrStdout().Write(doc.Data)
		return err
	}

	path := exportOutput
	if path == "" {
		path = doc.Filename
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info().Str("path", path).Int("bytes", len(doc.Data)).Msg("✅ Shopping list written")
	return nil
}
