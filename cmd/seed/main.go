// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev API user (dev@example.com) already exists.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"business-analytics-server/internal/config"
	"business-analytics-server/internal/db"
	"business-analytics-server/internal/security"
)

const (
	devUserEmail = "dev@example.com"
	devPassword  = "password123"
	devUserID    = "dev-user-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	var exists bool
	err = conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM api_users WHERE email = $1)`, devUserEmail).Scan(&exists)
	if err != nil {
		log.Fatalf("seed: check dev user: %v", err)
	}
	if exists {
		fmt.Println("seed: dev user already present, nothing to do")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		log.Fatalf("seed: begin: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := seedAll(ctx, tx, hash); err != nil {
		log.Fatalf("seed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("seed: commit: %v", err)
	}
	fmt.Printf("seed: done; login with %s / %s\n", devUserEmail, devPassword)
}

func seedAll(ctx context.Context, tx *sql.Tx, passwordHash string) error {
	now := time.Now().UTC()
	month := func(n int) time.Time { return now.AddDate(0, -n, 0) }

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}

	if err := exec(`
		INSERT INTO api_users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, 'analyst', $4)`,
		devUserID, devUserEmail, passwordHash, now); err != nil {
		return fmt.Errorf("api_users: %w", err)
	}

	// Three customers spending 10k + 30k + 48k = 88k total.
	customers := []struct {
		id, name, email, company, industry, location, tier, status string
		spent                                                      float64
		acquired, lastOrder                                        time.Time
	}{
		{"cust-001", "Ada Ray", "ada@initech.example", "Initech", "technology", "north", "silver", "active", 10000, month(14), month(4)},
		{"cust-002", "Grace Wu", "grace@globex.example", "Globex", "manufacturing", "south", "gold", "active", 30000, month(10), month(1)},
		{"cust-003", "Leo Park", "leo@acme.example", "Acme", "technology", "north", "platinum", "active", 48000, month(24), month(0)},
	}
	for _, c := range customers {
		if err := exec(`
			INSERT INTO customers (id, name, email, company, industry, location,
				customer_tier, acquisition_date, total_spent, last_order_date, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			c.id, c.name, c.email, c.company, c.industry, c.location,
			c.tier, c.acquired, c.spent, c.lastOrder, c.status); err != nil {
			return fmt.Errorf("customers: %w", err)
		}
	}

	products := []struct {
		id, name, category, sku string
		price, cost             float64
	}{
		{"prod-001", "Router X200", "networking", "SKU-X200", 1200, 700},
		{"prod-002", "Switch S48", "networking", "SKU-S48", 2400, 1500},
		{"prod-003", "Sensor Kit", "iot", "SKU-SENS", 300, 120},
	}
	for _, p := range products {
		if err := exec(`
			INSERT INTO products (id, name, category, subcategory, price, cost, sku, brand, status)
			VALUES ($1, $2, $3, '', $4, $5, $6, 'Vertex', 'active')`,
			p.id, p.name, p.category, p.price, p.cost, p.sku); err != nil {
			return fmt.Errorf("products: %w", err)
		}
	}

	reps := []struct {
		id, name, region string
		score            float64
	}{
		{"rep-001", "Sam North", "north", 92.5},
		{"rep-002", "Ria South", "south", 88.0},
	}
	for _, r := range reps {
		if err := exec(`
			INSERT INTO sales_reps (id, name, region, performance_score)
			VALUES ($1, $2, $3, $4)`,
			r.id, r.name, r.region, r.score); err != nil {
			return fmt.Errorf("sales_reps: %w", err)
		}
	}

	orders := []struct {
		id, customer, status, payment, rep, region string
		amount                                     float64
		date                                       time.Time
	}{
		{"ord-001", "cust-001", "delivered", "card", "rep-001", "north", 10000, month(4)},
		{"ord-002", "cust-002", "delivered", "invoice", "rep-002", "south", 18000, month(3)},
		{"ord-003", "cust-002", "delivered", "invoice", "rep-002", "south", 12000, month(1)},
		{"ord-004", "cust-003", "delivered", "card", "rep-001", "north", 28000, month(2)},
		{"ord-005", "cust-003", "shipped", "card", "rep-001", "north", 20000, month(0)},
		{"ord-006", "cust-001", "cancelled", "card", "rep-001", "north", 5000, month(5)},
	}
	for _, o := range orders {
		if err := exec(`
			INSERT INTO orders (id, customer_id, order_date, status, total_amount,
				payment_method, sales_rep_id, region)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.id, o.customer, o.date, o.status, o.amount, o.payment, o.rep, o.region); err != nil {
			return fmt.Errorf("orders: %w", err)
		}
	}

	items := []struct {
		id, order, product string
		qty                int
		unit               float64
	}{
		{"item-001", "ord-001", "prod-001", 5, 1200},
		{"item-002", "ord-001", "prod-003", 10, 300},
		{"item-003", "ord-002", "prod-002", 6, 2400},
		{"item-004", "ord-003", "prod-001", 10, 1200},
		{"item-005", "ord-004", "prod-002", 10, 2400},
		{"item-006", "ord-005", "prod-001", 15, 1200},
	}
	for _, it := range items {
		if err := exec(`
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.id, it.order, it.product, it.qty, it.unit, float64(it.qty)*it.unit); err != nil {
			return fmt.Errorf("order_items: %w", err)
		}
	}

	stock := []struct {
		product, warehouse string
		qty, reorder       int
	}{
		{"prod-001", "north", 40, 20},
		{"prod-001", "south", 8, 10},
		{"prod-002", "north", 25, 10},
		{"prod-003", "south", 200, 50},
	}
	for _, s := range stock {
		if err := exec(`
			INSERT INTO inventory (product_id, warehouse, quantity, reorder_level, last_updated)
			VALUES ($1, $2, $3, $4, $5)`,
			s.product, s.warehouse, s.qty, s.reorder, now); err != nil {
			return fmt.Errorf("inventory: %w", err)
		}
	}

	return nil
}
