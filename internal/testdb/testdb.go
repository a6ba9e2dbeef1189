// Package testdb opens throwaway SQLite databases carrying the storefront schema.
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// schema mirrors pkg/migrate/migrations in SQLite syntax. Timestamp columns are
// declared datetime so the driver decodes them into time.Time.
var schema = []string{
	`CREATE TABLE users (
		id text PRIMARY KEY,
		email text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		first_name text NOT NULL,
		last_name text NOT NULL,
		phone text,
		role text NOT NULL DEFAULT 'customer',
		is_active boolean NOT NULL DEFAULT true,
		shopify_customer_id integer,
		last_login_at datetime,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE cart_sessions (
		id text PRIMARY KEY,
		session_token text NOT NULL UNIQUE,
		state text NOT NULL DEFAULT 'anonymous',
		user_id text REFERENCES users(id),
		checkout_id text,
		checkout_token text,
		checkout_url text,
		subtotal numeric NOT NULL DEFAULT 0,
		tax_amount numeric NOT NULL DEFAULT 0,
		shipping_amount numeric NOT NULL DEFAULT 0,
		discount_amount numeric NOT NULL DEFAULT 0,
		total_amount numeric NOT NULL DEFAULT 0,
		discount_codes text NOT NULL DEFAULT '[]',
		is_active boolean NOT NULL DEFAULT true,
		expires_at datetime NOT NULL,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE cart_line_items (
		id text PRIMARY KEY,
		cart_id text NOT NULL REFERENCES cart_sessions(id) ON DELETE CASCADE,
		shopify_product_id integer NOT NULL,
		shopify_variant_id integer NOT NULL,
		product_title text NOT NULL,
		variant_title text,
		sku text,
		quantity integer NOT NULL CHECK (quantity > 0),
		price numeric NOT NULL,
		line_total numeric NOT NULL,
		image_url text,
		properties text,
		created_at datetime,
		updated_at datetime,
		UNIQUE (cart_id, shopify_variant_id)
	)`,
	`CREATE TABLE webhook_events (
		id text PRIMARY KEY,
		source text NOT NULL,
		event_type text NOT NULL,
		event_id text NOT NULL UNIQUE,
		payload text NOT NULL,
		headers text,
		processed boolean NOT NULL DEFAULT false,
		processed_at datetime,
		error_message text,
		retry_count integer NOT NULL DEFAULT 0,
		created_at datetime
	)`,
	`CREATE TABLE contact_inquiries (
		id text PRIMARY KEY,
		name text NOT NULL,
		email text NOT NULL,
		phone text,
		subject text NOT NULL,
		message text NOT NULL,
		inquiry_type text NOT NULL DEFAULT 'general',
		order_number text,
		is_resolved boolean NOT NULL DEFAULT false,
		resolved_at datetime,
		resolved_by text,
		admin_notes text,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE business_info (
		id text PRIMARY KEY,
		company_name text NOT NULL,
		address text NOT NULL,
		phone text NOT NULL,
		email text NOT NULL,
		hours text,
		will_call_location text,
		will_call_hours text,
		certifications text NOT NULL DEFAULT '[]',
		about_us text,
		story text,
		mission text,
		company_values text NOT NULL DEFAULT '[]',
		founded_year integer,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE social_media_links (
		id text PRIMARY KEY,
		platform text NOT NULL,
		url text NOT NULL,
		username text,
		is_active boolean NOT NULL DEFAULT true,
		display_order integer NOT NULL DEFAULT 0,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE product_attributes (
		id text PRIMARY KEY,
		shopify_product_id integer NOT NULL UNIQUE,
		flavor text,
		pack_sizes text NOT NULL DEFAULT '[]',
		is_bestseller boolean NOT NULL DEFAULT false,
		is_award_winning boolean NOT NULL DEFAULT false,
		nutrition text,
		created_at datetime,
		updated_at datetime
	)`,
}

// Open returns an in-memory database private to t with every table created.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return conn
}
