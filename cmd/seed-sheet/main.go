package main

import (
	"context"
	"log"

	"quest-fees/app/config"
	"quest-fees/app/storage"
)

func main() {
	cfg := config.Load()
	cfg.StoreDriver = "sheets"

	ctx := context.Background()
	store, closeStore := config.InitStore(ctx, cfg)
	defer closeStore()

	sheet, ok := store.(*storage.GoogleSheet)
	if !ok {
		log.Fatal("seed-sheet only works with the sheets store")
	}

	written, err := sheet.EnsureHeader(ctx)
	if err != nil {
		log.Fatal("Failed to write header row: ", err)
	}
	if written {
		log.Printf("Header row written to %s", cfg.Sheets.SheetName)
	} else {
		log.Printf("%s already has a header row, nothing to do", cfg.Sheets.SheetName)
	}
}
