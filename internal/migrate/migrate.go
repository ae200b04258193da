package migrate

import (
	"context"

	"farmmarket/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, uuid-ossp, pg_trgm
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK через SQL (поверх GORM-constraint)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateMarketDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных маркетплейса")

	// Расширения
	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			log.Error("Не удалось включить расширение uuid-ossp", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
			log.Error("Не удалось включить расширение pg_trgm", zap.Error(err))
			return err
		}
		log.Info("Расширения PostgreSQL успешно созданы")
	}

	// Таблицы
	log.Info("Создание таблиц маркетплейса")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Consumer{},
		&models.Farmer{},
		&models.ProductCategory{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.FarmerRevenue{},
		&models.CustomerAnalytics{},
		&models.CustomerPreferredFarmer{},
		&models.ProductAnalytics{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	// Триггер updated_at для orders
	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггера updated_at для orders")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("Не удалось создать триггер updated_at", zap.Error(err))
			return err
		}
		log.Info("Триггер updated_at успешно создан")
	}

	// CHECK-constraint
	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Типы пользователей (так как храним TEXT)
		if err := db.Exec(`
ALTER TABLE users
  DROP CONSTRAINT IF EXISTS chk_users_type_allowed;
ALTER TABLE users
  ADD CONSTRAINT chk_users_type_allowed
  CHECK (user_type IN ('consumer','farmer'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для users.user_type", zap.Error(err))
			return err
		}

		// Статусы заказов
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','processing','completed','cancelled'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для статусов", zap.Error(err))
			return err
		}

		// Остаток не уходит ниже нуля ни при каких условиях
		if err := db.Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative;
ALTER TABLE products
  ADD CONSTRAINT chk_products_stock_non_negative
  CHECK (stock >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для products.stock", zap.Error(err))
			return err
		}

		// Количество > 0
		if err := db.Exec(`
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS chk_cart_items_quantity_gt_zero;
ALTER TABLE cart_items
  ADD CONSTRAINT chk_cart_items_quantity_gt_zero
  CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для cart_items.quantity", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для order_items.quantity", zap.Error(err))
			return err
		}

		// Цены и суммы неотрицательные
		if err := db.Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_price_non_negative;
ALTER TABLE products
  ADD CONSTRAINT chk_products_price_non_negative
  CHECK (price_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для products.price_cents", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_price_non_negative;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_price_non_negative
  CHECK (price_per_unit_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для order_items.price_per_unit_cents", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_total_non_negative
  CHECK (total_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для orders.total_cents", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE farmer_revenue
  DROP CONSTRAINT IF EXISTS chk_farmer_revenue_amount_non_negative;
ALTER TABLE farmer_revenue
  ADD CONSTRAINT chk_farmer_revenue_amount_non_negative
  CHECK (amount_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для farmer_revenue.amount_cents", zap.Error(err))
			return err
		}

		log.Info("CHECK-ограничения успешно созданы")
	}

	// Индексы
	if opt.CreateIndexes {
		log.Info("Создание индексов")

		// Одна строка корзины на (user, product) — на случай если тегами не создался
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_items_user_product
ON cart_items (user_id, product_id);
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс ux_cart_items_user_product", zap.Error(err))
			return err
		}

		// Для выборок: заказы пользователя по дате
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_user_created
ON orders (user_id, created_at DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_orders_user_created", zap.Error(err))
			return err
		}

		// Для ленты заказов фермера
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_order_items_farmer_created
ON order_items (farmer_id, created_at DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_order_items_farmer_created", zap.Error(err))
			return err
		}

		// Для агрегатов выручки по дням
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_farmer_revenue_farmer_date
ON farmer_revenue (farmer_id, date DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_farmer_revenue_farmer_date", zap.Error(err))
			return err
		}

		// Поиск товаров по названию (trigram)
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_products_name_trgm
ON products USING gin (name gin_trgm_ops);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_products_name_trgm", zap.Error(err))
			return err
		}

		log.Info("Индексы успешно созданы")
	}

	// Внешние ключи
	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")

		// consumers.id -> users.id (CASCADE)
		if err := db.Exec(`
ALTER TABLE consumers
  DROP CONSTRAINT IF EXISTS fk_consumers_user,
  ADD CONSTRAINT fk_consumers_user
    FOREIGN KEY (id) REFERENCES users(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK consumers.id -> users.id", zap.Error(err))
			return err
		}

		// farmers.id -> users.id (CASCADE)
		if err := db.Exec(`
ALTER TABLE farmers
  DROP CONSTRAINT IF EXISTS fk_farmers_user,
  ADD CONSTRAINT fk_farmers_user
    FOREIGN KEY (id) REFERENCES users(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK farmers.id -> users.id", zap.Error(err))
			return err
		}

		// products.farmer_id -> farmers.id (CASCADE)
		if err := db.Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS fk_products_farmer,
  ADD CONSTRAINT fk_products_farmer
    FOREIGN KEY (farmer_id) REFERENCES farmers(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK products.farmer_id -> farmers.id", zap.Error(err))
			return err
		}

		// products.category_id -> product_categories.id (SET NULL)
		if err := db.Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS fk_products_category,
  ADD CONSTRAINT fk_products_category
    FOREIGN KEY (category_id) REFERENCES product_categories(id) ON DELETE SET NULL;
`).Error; err != nil {
			log.Error("Не удалось создать FK products.category_id -> product_categories.id", zap.Error(err))
			return err
		}

		// cart_items: пользователь и товар (CASCADE)
		if err := db.Exec(`
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_user,
  ADD CONSTRAINT fk_cart_items_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_product,
  ADD CONSTRAINT fk_cart_items_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK для cart_items", zap.Error(err))
			return err
		}

		// orders.user_id -> users.id (CASCADE)
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_user,
  ADD CONSTRAINT fk_orders_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK orders.user_id -> users.id", zap.Error(err))
			return err
		}

		// order_items.order_id -> orders.id (CASCADE)
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK order_items.order_id -> orders.id", zap.Error(err))
			return err
		}

		// customer_preferred_farmers.analytics_id -> customer_analytics.id (CASCADE)
		if err := db.Exec(`
ALTER TABLE customer_preferred_farmers
  DROP CONSTRAINT IF EXISTS fk_preferred_farmers_analytics,
  ADD CONSTRAINT fk_preferred_farmers_analytics
    FOREIGN KEY (analytics_id) REFERENCES customer_analytics(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK customer_preferred_farmers.analytics_id -> customer_analytics.id", zap.Error(err))
			return err
		}

		log.Info("Внешние ключи успешно созданы")
	}

	log.Info("Миграция базы данных маркетплейса успешно завершена")
	return nil
}
