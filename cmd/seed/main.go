package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/freshcart-backend/config"
	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/internal/app/repository"
	"github.com/ikkim/freshcart-backend/internal/app/service"
	"github.com/ikkim/freshcart-backend/internal/storage"
	"github.com/ikkim/freshcart-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Columns recognised in the header row; missing headers fall back to this order
var defaultColumns = []string{"name", "price", "category", "image"}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [--yes]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && (os.Args[2] == "--yes" || os.Args[2] == "-y")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "warn", Format: "console"})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	drafts, skipped, err := readDraftsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped empty rows: %d)\n", len(drafts), skipped)
	if len(drafts) == 0 {
		return
	}

	if !assumeYes {
		fmt.Printf("Import into the %s store? (yes/no): ", cfg.Store.Driver)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer store.Close()

	catalog := service.NewCatalogService(repository.NewProductRepository(store), cfg.Store.WriteTimeout)
	catalog.Load(ctx)

	imported, rejected, err := importDrafts(ctx, catalog, drafts)
	for _, msg := range rejected {
		fmt.Println("  -", msg)
	}
	if err != nil {
		log.Fatalf("Import of %d products was not saved: %v", imported, err)
	}

	fmt.Println("Import completed!")
	fmt.Printf("Imported: %d, rejected: %d, catalog size: %d\n", imported, len(rejected), len(catalog.Products()))
}

// importDrafts adds every valid draft, then saves the catalog once more.
// Add only logs a failed write; the error from Save is returned.
func importDrafts(ctx context.Context, catalog service.CatalogService, drafts []model.ProductDraft) (int, []string, error) {
	imported := 0
	var rejected []string
	for i, draft := range drafts {
		if _, err := catalog.Add(ctx, draft); err != nil {
			rejected = append(rejected, fmt.Sprintf("row %d (%s): %v", i+2, draft.Name, err))
			continue
		}
		imported++
	}
	if imported == 0 {
		return 0, rejected, nil
	}
	if err := catalog.Save(ctx); err != nil {
		return imported, rejected, fmt.Errorf("failed to save catalog: %w", err)
	}
	return imported, rejected, nil
}

func readDraftsFromXLSX(filePath string) ([]model.ProductDraft, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	columns := columnIndex(rows[0])

	var drafts []model.ProductDraft
	skipped := 0
	for _, row := range rows[1:] {
		draft := model.ProductDraft{
			Name:     cell(row, columns["name"]),
			Price:    cell(row, columns["price"]),
			Category: cell(row, columns["category"]),
			Image:    cell(row, columns["image"]),
		}
		if draft.Name == "" && draft.Price == "" {
			skipped++
			continue
		}
		drafts = append(drafts, draft)
	}

	return drafts, skipped, nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(defaultColumns))
	for i, name := range defaultColumns {
		index[name] = i
	}

	found := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		for _, name := range defaultColumns {
			if key == name {
				found[name] = i
			}
		}
	}
	if len(found) > 0 {
		for name := range index {
			if i, ok := found[name]; ok {
				index[name] = i
			} else {
				index[name] = -1
			}
		}
	}
	return index
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
