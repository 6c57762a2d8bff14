// cmd/admin/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/storeops/replenish-backend/internal/config"
	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/repository/mysql"
	"github.com/storeops/replenish-backend/internal/service"
	"github.com/storeops/replenish-backend/internal/sheet"
	"github.com/urfave/cli/v2"
)

func openDB() (*mysql.DB, error) {
	cfg := config.Load()
	return mysql.NewDB(&cfg.Database)
}

func migrate(c *cli.Context) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(c.Context); err != nil {
		return err
	}
	fmt.Println("schema applied")
	return nil
}

func createUser(c *cli.Context) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	cfg := config.Load()
	auth := service.NewAuthService(mysql.NewUserRepository(db), cfg.Auth.Secret)

	user := &domain.User{
		ID:        c.String("id"),
		Name:      c.String("name"),
		Location:  c.String("location"),
		Privilege: c.String("privilege"),
	}
	if err := auth.SignUp(c.Context, user, c.String("password")); err != nil {
		return err
	}
	fmt.Printf("created user %s\n", user.ID)
	return nil
}

func importSnapshot(c *cli.Context) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	items, err := sheet.ParseSnapshot(f, time.Now())
	if err != nil {
		return err
	}

	inventory := service.NewInventoryService(mysql.NewItemRepository(db), nil)
	result, err := inventory.UpsertSnapshot(c.Context, items)
	if err != nil {
		return err
	}
	fmt.Printf("upserted %d rows (%d affected)\n", len(items), result.Affected)
	return nil
}

func importSaleTags(c *cli.Context) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := sheet.ParseWorkbook(f)
	if err != nil {
		return err
	}

	tagRepo := mysql.NewTagRepository(db)
	reconcile := service.NewReconcileService(tagRepo, tagRepo, service.NewTagMissDiagnostics(tagRepo))
	result, err := reconcile.ReconcileSaleTags(c.Context, rows, c.String("end-date"), c.Bool("all"), 0)
	if err != nil {
		return err
	}

	fmt.Printf("updated %d tags, %d rows unmatched, %d rows skipped\n",
		result.UpdatedCount, len(result.Unmatched), result.SkippedRows)
	if result.Warning != "" {
		fmt.Printf("warning: %s\n", result.Warning)
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "admin",
		Usage: "Operational tasks for the replenish backend",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the database schema",
				Action: migrate,
			},
			{
				Name:  "create-user",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Login handle", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Initial password", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name"},
					&cli.StringFlag{Name: "location", Usage: "Store location"},
					&cli.StringFlag{Name: "privilege", Usage: "Privilege level", Value: "staff"},
				},
				Action: createUser,
			},
			{
				Name:  "import-snapshot",
				Usage: "Upsert an inventory snapshot workbook from disk",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Path to the xlsx file", Required: true},
				},
				Action: importSnapshot,
			},
			{
				Name:  "import-sale-tags",
				Usage: "Reconcile a sale tag workbook from disk",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Path to the xlsx file", Required: true},
					&cli.StringFlag{Name: "end-date", Usage: "Sale end date applied to every row"},
					&cli.BoolFlag{Name: "all", Usage: "Update every matching tag instead of the first"},
				},
				Action: importSaleTags,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
