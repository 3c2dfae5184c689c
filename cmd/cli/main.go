package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/config"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
)

const usage = "expected 'import', 'export' or 'migrate' subcommands"

// cardRecord is the interchange shape of a card; unlike the API shape it carries raw image ids.
type cardRecord struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	FrameType string  `json:"frame_type"`
	Desc      string  `json:"desc"`
	Atk       *int64  `json:"atk,omitempty"`
	Def       *int64  `json:"def,omitempty"`
	Level     *int64  `json:"level,omitempty"`
	Scale     *int64  `json:"scale,omitempty"`
	LinkVal   *int64  `json:"linkval,omitempty"`
	Race      string  `json:"race"`
	Attribute string  `json:"attribute,omitempty"`
	Archetype string  `json:"archetype,omitempty"`
	ImageIDs  []int64 `json:"image_ids"`
}

func toRecord(c domain.Card) cardRecord {
	return cardRecord{
		ID: c.ID, Name: c.Name, Type: c.Type, FrameType: c.FrameType, Desc: c.Desc,
		Atk: c.Atk, Def: c.Def, Level: c.Level, Scale: c.Scale, LinkVal: c.LinkVal,
		Race: c.Race, Attribute: c.Attribute, Archetype: c.Archetype, ImageIDs: c.ImageIDs,
	}
}

func (r cardRecord) card() domain.Card {
	return domain.Card{
		ID: r.ID, Name: r.Name, Type: r.Type, FrameType: r.FrameType, Desc: r.Desc,
		Atk: r.Atk, Def: r.Def, Level: r.Level, Scale: r.Scale, LinkVal: r.LinkVal,
		Race: r.Race, Attribute: r.Attribute, Archetype: r.Archetype, ImageIDs: r.ImageIDs,
	}
}

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportFile := exportCmd.String("file", "", "write to file instead of stdout")
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	store, err := sqlstore.Open(cfg.DatabaseURL, cfg.DBPoolSize)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		err = doExport(ctx, store, *exportFile)
	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		err = doImport(ctx, store, *importFile)
	case "migrate":
		_ = migrateCmd.Parse(os.Args[2:])
		err = store.Migrate(ctx)
		if err == nil {
			log.Println("Schema is up to date")
		}
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func doExport(ctx context.Context, store *sqlstore.Store, filename string) error {
	cards, err := store.DumpCards(ctx)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if filename != "" {
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	records := make([]cardRecord, 0, len(cards))
	for _, c := range cards {
		records = append(records, toRecord(c))
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func doImport(ctx context.Context, store *sqlstore.Store, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var records []cardRecord
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}

	cards := make([]domain.Card, 0, len(records))
	for _, r := range records {
		if r.ID <= 0 || r.Name == "" {
			log.Printf("Skipping card without id or name: %+v", r)
			continue
		}
		cards = append(cards, r.card())
	}

	// Migrate first so a fresh database can be loaded in one step
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	n, err := store.ImportCards(ctx, cards)
	if err != nil {
		return err
	}
	log.Printf("Imported %d cards", n)
	return nil
}
