package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"
)

// SeedProduct is one row of the warehouse manifest spreadsheet
type SeedProduct struct {
	ID          uuid.UUID
	SKU         string
	Barcode     string
	Name        string
	Description string
	Category    string
	Location    string
	UnitPrice   decimal.Decimal
	CostPrice   decimal.Decimal
	Threshold   int
	OpeningQty  int
}

// CategoryClassifier guesses a product category from its name when the
// manifest leaves the category column blank.
type CategoryClassifier struct {
	keywords map[string][]string
}

func NewCategoryClassifier() *CategoryClassifier {
	return &CategoryClassifier{
		keywords: map[string][]string{
			"apparel": {"shirt", "pants", "jacket", "hoodie", "dress", "sock",
				"glove", "hat", "scarf", "vest", "uniform"},
			"footwear": {"shoe", "boot", "sneaker", "sandal", "slipper", "heel"},
			"accessories": {"belt", "bag", "wallet", "watch", "sunglasses",
				"backpack", "strap", "lanyard"},
			"electronics": {"cable", "charger", "battery", "scanner", "printer",
				"headset", "monitor", "keyboard", "adapter", "radio", "tablet"},
			"household": {"towel", "sheet", "pillow", "lamp", "cleaner", "mop",
				"bucket", "detergent", "soap", "broom"},
			"food": {"snack", "cereal", "pasta", "rice", "canned", "sauce",
				"flour", "sugar", "chocolate"},
			"beverages": {"water", "juice", "soda", "coffee", "tea", "drink",
				"energy"},
			"tools": {"drill", "hammer", "wrench", "screwdriver", "saw", "pliers",
				"tape measure", "level", "clamp"},
			"packaging": {"box", "carton", "bubble wrap", "tape", "label", "pallet",
				"envelope", "mailer", "stretch film"},
		},
	}
}

func (c *CategoryClassifier) Classify(text string) string {
	textLower := strings.ToLower(text)

	best := "other"
	maxScore := 0
	for category, keywords := range c.keywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(textLower, kw) {
				score++
			}
		}
		if score > maxScore {
			best = category
			maxScore = score
		}
	}

	return best
}

// ManifestLoader reads seed products from an Excel manifest
type ManifestLoader struct {
	classifier *CategoryClassifier
	logger     *slog.Logger
}

func NewManifestLoader(logger *slog.Logger) *ManifestLoader {
	return &ManifestLoader{
		classifier: NewCategoryClassifier(),
		logger:     logger,
	}
}

// Load parses the manifest. Expected columns:
// sku, barcode, name, description, category, location, unit_price,
// cost_price, low_stock_threshold, opening_quantity
func (l *ManifestLoader) Load(path string) ([]SeedProduct, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in manifest")
	}
	sheet := file.Sheets[0]

	var products []SeedProduct
	rowIdx := 0
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		// Skip header
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}

		sku := get(0)
		name := get(2)
		if sku == "" || name == "" {
			return nil
		}

		category := strings.ToLower(get(4))
		if category == "" {
			category = l.classifier.Classify(name + " " + get(3))
		}

		unitPrice, err := decimal.NewFromString(get(6))
		if err != nil {
			unitPrice = decimal.Zero
		}
		costPrice, err := decimal.NewFromString(get(7))
		if err != nil {
			costPrice = decimal.Zero
		}

		threshold, _ := strconv.Atoi(get(8))
		if threshold <= 0 {
			threshold = 10
		}
		openingQty, _ := strconv.Atoi(get(9))

		products = append(products, SeedProduct{
			ID:          uuid.New(),
			SKU:         sku,
			Barcode:     get(1),
			Name:        name,
			Description: get(3),
			Category:    category,
			Location:    get(5),
			UnitPrice:   unitPrice,
			CostPrice:   costPrice,
			Threshold:   threshold,
			OpeningQty:  openingQty,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	l.logger.Info("Loaded manifest", slog.Int("products", len(products)))
	return products, nil
}

// Seeder persists manifest products and their opening stock movements
type Seeder struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewSeeder(db *pgxpool.Pool, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// SaveProducts inserts products, skipping SKUs that already exist
func (s *Seeder) SaveProducts(ctx context.Context, products []SeedProduct) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (
				id, sku, barcode, name, description, category, location,
				unit_price, cost_price, low_stock_threshold, quantity
			) VALUES (
				$1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), $8, $9, $10, 0
			) ON CONFLICT (sku) WHERE deleted_at IS NULL DO NOTHING`,
			p.ID, p.SKU, p.Barcode, p.Name, p.Description, p.Category,
			p.Location, p.UnitPrice, p.CostPrice, p.Threshold,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range products {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Saved products", slog.Int("count", len(products)))
	return nil
}

// SeedOpeningStock records an opening stock_in movement per product and
// sets the cached quantity to match, one transaction per product so a
// partial run leaves consistent rows behind.
func (s *Seeder) SeedOpeningStock(ctx context.Context, products []SeedProduct) (int, error) {
	seeded := 0
	for _, p := range products {
		if p.OpeningQty <= 0 {
			continue
		}

		tx, err := s.db.Begin(ctx)
		if err != nil {
			return seeded, fmt.Errorf("failed to begin transaction: %w", err)
		}

		// Resolve the product id by SKU: the insert may have been skipped
		// for an existing row.
		var productID uuid.UUID
		var existing int
		err = tx.QueryRow(ctx,
			`SELECT id, quantity FROM products WHERE sku = $1 AND deleted_at IS NULL`,
			p.SKU).Scan(&productID, &existing)
		if err != nil {
			tx.Rollback(ctx)
			return seeded, fmt.Errorf("failed to look up product %s: %w", p.SKU, err)
		}

		if existing > 0 {
			// Already stocked; leave the ledger alone
			tx.Rollback(ctx)
			continue
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO stock_movements (product_id, type, delta, reason, actor, sequence)
			VALUES ($1, 'stock_in', $2, 'opening stock', 'seeder',
				COALESCE((SELECT MAX(sequence) FROM stock_movements WHERE product_id = $1), 0) + 1)`,
			productID, p.OpeningQty)
		if err != nil {
			tx.Rollback(ctx)
			return seeded, fmt.Errorf("failed to insert opening movement for %s: %w", p.SKU, err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE products SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1`,
			productID, p.OpeningQty)
		if err != nil {
			tx.Rollback(ctx)
			return seeded, fmt.Errorf("failed to project opening stock for %s: %w", p.SKU, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return seeded, fmt.Errorf("failed to commit opening stock for %s: %w", p.SKU, err)
		}
		seeded++
	}

	s.logger.Info("Seeded opening stock", slog.Int("count", seeded))
	return seeded, nil
}

// SeederState tracks which manifests were already applied
type SeederState struct {
	ProcessedManifests []string  `json:"processed_manifests"`
	LastUpdate         time.Time `json:"last_update"`
}

func main() {
	var (
		manifestFile = flag.String("manifest", "./products.xlsx", "Excel manifest of products to seed")
		stateFile    = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun       = flag.Bool("dry-run", false, "Preview changes without modifying database")
		force        = flag.Bool("force", false, "Reapply manifests already recorded in the state file")
		skipStock    = flag.Bool("skip-stock", false, "Seed products only, without opening movements")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "ledger"),
		getEnv("DB_PASSWORD", "ledger_dev_2026"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "stock_ledger"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	var db *pgxpool.Pool
	var err error

	if !*dryRun {
		db, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
	}

	loader := NewManifestLoader(logger)
	products, err := loader.Load(*manifestFile)
	if err != nil {
		logger.Error("Failed to load manifest", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(products) == 0 {
		logger.Warn("Manifest contained no products, nothing to do")
		return
	}

	var state SeederState
	if !*force {
		if stateData, err := os.ReadFile(*stateFile); err == nil {
			json.Unmarshal(stateData, &state)
		}
		for _, m := range state.ProcessedManifests {
			if m == *manifestFile {
				logger.Info("Manifest already applied, use -force to reapply",
					slog.String("manifest", *manifestFile))
				return
			}
		}
	}

	if *dryRun {
		fmt.Printf("[DRY RUN] Would seed %d products from %s\n", len(products), *manifestFile)
		for _, p := range products {
			fmt.Printf("  - %s %q category=%s opening=%d\n", p.SKU, p.Name, p.Category, p.OpeningQty)
		}
		return
	}

	seeder := NewSeeder(db, logger)
	if err := seeder.SaveProducts(ctx, products); err != nil {
		logger.Error("Failed to save products", slog.String("error", err.Error()))
		os.Exit(1)
	}

	stocked := 0
	if !*skipStock {
		stocked, err = seeder.SeedOpeningStock(ctx, products)
		if err != nil {
			logger.Error("Failed to seed opening stock", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	state.ProcessedManifests = append(state.ProcessedManifests, *manifestFile)
	state.LastUpdate = time.Now()
	if stateData, err := json.MarshalIndent(state, "", "  "); err == nil {
		os.WriteFile(*stateFile, stateData, 0644)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Products in manifest: %d\n", len(products))
	fmt.Printf("Opening movements:    %d\n", stocked)

	logger.Info("Seed operation completed",
		slog.Int("products", len(products)),
		slog.Int("opening_movements", stocked))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
