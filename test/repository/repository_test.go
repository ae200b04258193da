package repository_test

import (
	"context"
	"testing"
	"time"

	"farmmarket/internal/migrate"
	"farmmarket/internal/models"
	"farmmarket/internal/repository"
	"farmmarket/pkg/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateMarketDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createConsumer(t *testing.T, repo *repository.Repository, email string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Consumer",
		UserType:     models.UserTypeConsumer,
	}
	if err := repo.Users.Create(ctx, u); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	if err := repo.Users.CreateConsumer(ctx, &models.Consumer{ID: u.ID}); err != nil {
		t.Fatalf("CreateConsumer: %v", err)
	}
	return u.ID
}

func createFarmer(t *testing.T, repo *repository.Repository, email, farmName string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Farmer",
		UserType:     models.UserTypeFarmer,
	}
	if err := repo.Users.Create(ctx, u); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	f := &models.Farmer{
		ID:          u.ID,
		FarmName:    farmName,
		FarmAddress: "1 Farm Rd",
		City:        "Springfield",
		State:       "IL",
		PostalCode:  "62701",
		PhoneNumber: "555-0100",
	}
	if err := repo.Users.CreateFarmer(ctx, f); err != nil {
		t.Fatalf("CreateFarmer: %v", err)
	}
	return u.ID
}

func createProduct(t *testing.T, repo *repository.Repository, farmerID uuid.UUID, name string, priceCents int64, stock int32) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: "test product",
		PriceCents:  priceCents,
		Unit:        "lb",
		Stock:       stock,
		FarmerID:    farmerID,
	}
	if err := repo.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("Create product: %v", err)
	}
	return p
}

func TestUserRepo_CreateAccountsAtomic(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	u := &models.User{
		Email:        "atomic@test.local",
		PasswordHash: "hash",
		FirstName:    "Ann",
		LastName:     "Atomic",
		UserType:     models.UserTypeConsumer,
	}
	c := &models.Consumer{City: "Springfield"}
	if err := repo.Users.CreateConsumerAccount(ctx, u, c); err != nil {
		t.Fatalf("CreateConsumerAccount: %v", err)
	}
	if c.ID != u.ID {
		t.Fatalf("consumer profile must share the user id: %s vs %s", c.ID, u.ID)
	}
	got, err := repo.Users.GetConsumer(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetConsumer: %v", err)
	}
	if got == nil || got.City != "Springfield" {
		t.Fatalf("consumer profile mismatch: %+v", got)
	}

	// Повтор email: транзакция откатывается целиком, сиротских строк нет
	dup := &models.User{
		Email:        "atomic@test.local",
		PasswordHash: "hash",
		FirstName:    "Bob",
		LastName:     "Dup",
		UserType:     models.UserTypeFarmer,
	}
	err = repo.Users.CreateFarmerAccount(ctx, dup, &models.Farmer{FarmName: "Dup Farm"})
	if err == nil {
		t.Fatal("expected unique violation for duplicate email")
	}

	var userCount int64
	if err := db.Model(&models.User{}).Where("email = ?", "atomic@test.local").Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 1 {
		t.Fatalf("expected 1 user row, got %d", userCount)
	}
	var farmerCount int64
	if err := db.Model(&models.Farmer{}).Count(&farmerCount).Error; err != nil {
		t.Fatalf("count farmers: %v", err)
	}
	if farmerCount != 0 {
		t.Fatalf("expected no farmer rows, got %d", farmerCount)
	}
}

func TestCartRepo_Lifecycle(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := createConsumer(t, repo, "cart@test.local")
	farmerID := createFarmer(t, repo, "cartfarm@test.local", "Cart Farm")
	product := createProduct(t, repo, farmerID, "Tomatoes", 350, 20)

	// Create
	item := &models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 2}
	if err := repo.Carts.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// GetByUserAndProduct
	got, err := repo.Carts.GetByUserAndProduct(ctx, userID, product.ID)
	if err != nil {
		t.Fatalf("GetByUserAndProduct: %v", err)
	}
	if got == nil || got.Quantity != 2 {
		t.Fatalf("GetByUserAndProduct mismatch: %+v", got)
	}

	// UpdateQuantity
	if err := repo.Carts.UpdateQuantity(ctx, item.ID, 5); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	got, _ = repo.Carts.GetByUserAndProduct(ctx, userID, product.ID)
	if got.Quantity != 5 {
		t.Fatalf("expected quantity=5, got %d", got.Quantity)
	}

	// CountByUser суммирует количества, а не строки
	count, err := repo.Carts.CountByUser(ctx, userID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected count=5, got %d", count)
	}

	// ListDetailedByUser подтягивает товар и ферму
	lines, err := repo.Carts.ListDetailedByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListDetailedByUser: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	l := lines[0]
	if l.ProductName != "Tomatoes" || l.PriceCents != 350 || l.Stock != 20 || l.FarmName != "Cart Farm" {
		t.Fatalf("ListDetailedByUser mismatch: %+v", l)
	}

	// Delete чужой записи не проходит
	otherUser := createConsumer(t, repo, "other@test.local")
	okDel, err := repo.Carts.Delete(ctx, item.ID, otherUser)
	if err != nil {
		t.Fatalf("Delete other user: %v", err)
	}
	if okDel {
		t.Fatal("expected delete=false for foreign user")
	}

	// ClearByUser
	removed, err := repo.Carts.ClearByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ClearByUser: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected removed=1, got %d", removed)
	}

	count, _ = repo.Carts.CountByUser(ctx, userID)
	if count != 0 {
		t.Fatalf("expected count=0 after clear, got %d", count)
	}
}

func TestCartRepo_UniqueUserProduct(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := createConsumer(t, repo, "unique@test.local")
	farmerID := createFarmer(t, repo, "uniquefarm@test.local", "Unique Farm")
	product := createProduct(t, repo, farmerID, "Eggs", 499, 50)

	if err := repo.Carts.Create(ctx, &models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	// Вторая строка на ту же пару (user, product) должна нарушить UNIQUE
	err := repo.Carts.Create(ctx, &models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 1})
	if err == nil {
		t.Fatal("expected unique violation for duplicate (user, product)")
	}
}

func TestProductRepo_List(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	farmerA := createFarmer(t, repo, "farmerA@test.local", "Farm A")
	farmerB := createFarmer(t, repo, "farmerB@test.local", "Farm B")

	createProduct(t, repo, farmerA, "Heirloom Tomatoes", 450, 10)
	createProduct(t, repo, farmerA, "Sweet Corn", 200, 0)
	createProduct(t, repo, farmerB, "Raw Honey", 1200, 5)

	// По фермеру
	list, total, err := repo.Products.List(ctx, repository.ProductListFilter{FarmerID: &farmerA, Limit: 10})
	if err != nil {
		t.Fatalf("List by farmer: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 products for farmer A, got total=%d len=%d", total, len(list))
	}

	// Поиск по названию
	list, total, err = repo.Products.List(ctx, repository.ProductListFilter{Query: "honey", Limit: 10})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if total != 1 || list[0].Name != "Raw Honey" {
		t.Fatalf("expected 1 honey product, got total=%d", total)
	}

	// Только в наличии
	list, total, err = repo.Products.List(ctx, repository.ProductListFilter{InStockOnly: true, Limit: 10})
	if err != nil {
		t.Fatalf("List in stock: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 in-stock products, got %d", total)
	}
	for _, p := range list {
		if p.Stock <= 0 {
			t.Fatalf("expected only in-stock products, got %+v", p)
		}
	}

	// Пагинация
	list, total, err = repo.Products.List(ctx, repository.ProductListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List page: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Fatalf("expected total=3 len=2, got total=%d len=%d", total, len(list))
	}
}

func TestProductRepo_DecrementStock(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	farmerID := createFarmer(t, repo, "stock@test.local", "Stock Farm")
	product := createProduct(t, repo, farmerID, "Carrots", 150, 10)

	// Успешное списание
	ok, err := repo.Products.DecrementStock(ctx, product.ID, 7)
	if err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}

	got, _ := repo.Products.GetByID(ctx, product.ID)
	if got.Stock != 3 {
		t.Fatalf("expected stock=3, got %d", got.Stock)
	}

	// Попытка списать больше остатка — false и без изменений
	ok, err = repo.Products.DecrementStock(ctx, product.ID, 5)
	if err != nil {
		t.Fatalf("DecrementStock overflow: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for overflow")
	}

	got, _ = repo.Products.GetByID(ctx, product.ID)
	if got.Stock != 3 {
		t.Fatalf("expected stock=3 unchanged, got %d", got.Stock)
	}

	// Точное списание до нуля допустимо
	ok, err = repo.Products.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("DecrementStock to zero: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true for exact stock")
	}

	got, _ = repo.Products.GetByID(ctx, product.ID)
	if got.Stock != 0 {
		t.Fatalf("expected stock=0, got %d", got.Stock)
	}
}

func TestProductRepo_AdjustStock(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	farmerID := createFarmer(t, repo, "adjust@test.local", "Adjust Farm")
	product := createProduct(t, repo, farmerID, "Beets", 180, 5)

	// Пополнение
	ok, err := repo.Products.AdjustStock(ctx, product.ID, 10)
	if err != nil {
		t.Fatalf("AdjustStock +10: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}

	// Попытка уйти в минус — false и без изменений
	ok, err = repo.Products.AdjustStock(ctx, product.ID, -20)
	if err != nil {
		t.Fatalf("AdjustStock -20: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for negative result")
	}

	got, _ := repo.Products.GetByID(ctx, product.ID)
	if got.Stock != 15 {
		t.Fatalf("expected stock=15, got %d", got.Stock)
	}
}

func TestOrderRepo_CreateAndFetch(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := createConsumer(t, repo, "orders@test.local")
	farmerID := createFarmer(t, repo, "orderfarm@test.local", "Order Farm")
	product := createProduct(t, repo, farmerID, "Potatoes", 250, 100)

	order := &models.Order{
		UserID:          userID,
		TotalCents:      750,
		Status:          models.OrderStatusProcessing,
		ShippingAddress: "12 Main St",
		ShippingCity:    "Springfield",
	}
	if err := repo.Orders.Create(ctx, order); err != nil {
		t.Fatalf("Create order: %v", err)
	}

	items := []*models.OrderItem{{
		OrderID:           order.ID,
		ProductID:         product.ID,
		FarmerID:          farmerID,
		Quantity:          3,
		PricePerUnitCents: 250,
		ProductName:       "Potatoes",
	}}
	if err := repo.OrderItems.BulkCreate(ctx, items); err != nil {
		t.Fatalf("BulkCreate items: %v", err)
	}

	// GetByIDForUser владельцем
	got, err := repo.Orders.GetByIDForUser(ctx, order.ID, userID)
	if err != nil {
		t.Fatalf("GetByIDForUser: %v", err)
	}
	if got == nil || len(got.Items) != 1 || got.Items[0].ProductName != "Potatoes" {
		t.Fatalf("GetByIDForUser mismatch: %+v", got)
	}

	// Чужой пользователь заказ не видит
	otherID := createConsumer(t, repo, "stranger@test.local")
	got, err = repo.Orders.GetByIDForUser(ctx, order.ID, otherID)
	if err != nil {
		t.Fatalf("GetByIDForUser foreign: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for foreign user")
	}

	// ListByUser
	list, total, err := repo.Orders.ListByUser(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("expected 1 order, got total=%d len=%d", total, len(list))
	}

	// Лента фермера
	lines, lineTotal, err := repo.Orders.ListFarmerLines(ctx, farmerID, 10, 0)
	if err != nil {
		t.Fatalf("ListFarmerLines: %v", err)
	}
	if lineTotal != 1 || len(lines) != 1 {
		t.Fatalf("expected 1 farmer line, got total=%d len=%d", lineTotal, len(lines))
	}
	if lines[0].Quantity != 3 || lines[0].OrderStatus != models.OrderStatusProcessing {
		t.Fatalf("farmer line mismatch: %+v", lines[0])
	}
}

func TestRevenueRepo_Summary(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	farmerID := createFarmer(t, repo, "revenue@test.local", "Revenue Farm")

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	rows := []*models.FarmerRevenue{
		{FarmerID: farmerID, OrderID: uuid.New(), AmountCents: 1000, Date: day1},
		{FarmerID: farmerID, OrderID: uuid.New(), AmountCents: 2500, Date: day2},
		{FarmerID: farmerID, OrderID: uuid.New(), AmountCents: 500, Date: day2},
	}
	if err := repo.Revenue.BulkCreate(ctx, rows); err != nil {
		t.Fatalf("BulkCreate: %v", err)
	}

	sum, err := repo.Revenue.SummaryByFarmer(ctx, farmerID, day1, day2)
	if err != nil {
		t.Fatalf("SummaryByFarmer: %v", err)
	}
	if sum.TotalCents != 4000 || sum.OrderCount != 3 {
		t.Fatalf("expected total=4000 orders=3, got %+v", sum)
	}

	// Сужение периода
	sum, err = repo.Revenue.SummaryByFarmer(ctx, farmerID, day2, day2)
	if err != nil {
		t.Fatalf("SummaryByFarmer day2: %v", err)
	}
	if sum.TotalCents != 3000 || sum.OrderCount != 2 {
		t.Fatalf("expected total=3000 orders=2, got %+v", sum)
	}

	daily, err := repo.Revenue.DailyByFarmer(ctx, farmerID, day1, day2)
	if err != nil {
		t.Fatalf("DailyByFarmer: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("expected 2 daily points, got %d", len(daily))
	}
	if daily[0].TotalCents != 1000 || daily[1].TotalCents != 3000 {
		t.Fatalf("daily mismatch: %+v", daily)
	}
}

func TestAnalyticsRepo_CustomerAccumulate(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := createConsumer(t, repo, "analytics@test.local")

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	ca := &models.CustomerAnalytics{
		UserID:          userID,
		TotalOrders:     1,
		TotalSpentCents: 1497,
		FirstOrderDate:  day1,
		LastOrderDate:   day1,
	}
	if err := repo.Analytics.CreateCustomer(ctx, ca); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	if err := repo.Analytics.AccumulateCustomer(ctx, ca.ID, 1, 2000, day2); err != nil {
		t.Fatalf("AccumulateCustomer: %v", err)
	}

	got, err := repo.Analytics.GetCustomerByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetCustomerByUserID: %v", err)
	}
	if got.TotalOrders != 2 || got.TotalSpentCents != 3497 {
		t.Fatalf("expected orders=2 spent=3497, got %+v", got)
	}
	if !got.LastOrderDate.Equal(day2) {
		t.Fatalf("expected last order date %v, got %v", day2, got.LastOrderDate)
	}
	// Дата первого заказа не трогается
	if !got.FirstOrderDate.Equal(day1) {
		t.Fatalf("expected first order date %v, got %v", day1, got.FirstOrderDate)
	}
}

func TestAnalyticsRepo_PreferredFarmersDedupe(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	userID := createConsumer(t, repo, "preferred@test.local")
	farmerA := createFarmer(t, repo, "prefA@test.local", "Pref A")
	farmerB := createFarmer(t, repo, "prefB@test.local", "Pref B")

	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ca := &models.CustomerAnalytics{UserID: userID, FirstOrderDate: today, LastOrderDate: today}
	if err := repo.Analytics.CreateCustomer(ctx, ca); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	if err := repo.Analytics.AddPreferredFarmers(ctx, ca.ID, []uuid.UUID{farmerA}); err != nil {
		t.Fatalf("AddPreferredFarmers first: %v", err)
	}
	// Повтор того же фермера плюс новый — дубликат молча пропускается
	if err := repo.Analytics.AddPreferredFarmers(ctx, ca.ID, []uuid.UUID{farmerA, farmerB}); err != nil {
		t.Fatalf("AddPreferredFarmers second: %v", err)
	}

	ids, err := repo.Analytics.ListPreferredFarmers(ctx, ca.ID)
	if err != nil {
		t.Fatalf("ListPreferredFarmers: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 preferred farmers, got %d", len(ids))
	}
}

func TestAnalyticsRepo_ProductAccumulate(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	farmerID := createFarmer(t, repo, "prodstats@test.local", "Stats Farm")
	product := createProduct(t, repo, farmerID, "Basil", 300, 40)

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	pa := &models.ProductAnalytics{
		ProductID:         product.ID,
		TotalSold:         2,
		TotalRevenueCents: 600,
		LastSoldDate:      day1,
	}
	if err := repo.Analytics.CreateProduct(ctx, pa); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if err := repo.Analytics.AccumulateProduct(ctx, pa.ID, 3, 900, day2); err != nil {
		t.Fatalf("AccumulateProduct: %v", err)
	}

	got, err := repo.Analytics.GetProductByProductID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProductByProductID: %v", err)
	}
	if got.TotalSold != 5 || got.TotalRevenueCents != 1500 {
		t.Fatalf("expected sold=5 revenue=1500, got %+v", got)
	}

	top, err := repo.Analytics.TopProductsByFarmer(ctx, farmerID, 5)
	if err != nil {
		t.Fatalf("TopProductsByFarmer: %v", err)
	}
	if len(top) != 1 || top[0].ProductName != "Basil" || top[0].TotalSold != 5 {
		t.Fatalf("top products mismatch: %+v", top)
	}
}

func TestRepository_WithTx_Rollback(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	farmerID := createFarmer(t, repo, "tx@test.local", "Tx Farm")
	product := createProduct(t, repo, farmerID, "Kale", 200, 30)

	err := repo.WithTx(func(tx *repository.Repository) error {
		ok, err := tx.Products.DecrementStock(ctx, product.ID, 10)
		if err != nil {
			return err
		}
		if !ok {
			t.Fatal("DecrementStock failed in tx")
		}
		// Возвращаем ошибку для отката
		return gorm.ErrInvalidTransaction
	})
	if err == nil {
		t.Fatal("expected error from WithTx")
	}

	got, _ := repo.Products.GetByID(ctx, product.ID)
	if got.Stock != 30 {
		t.Fatalf("expected rollback: stock=30, got %d", got.Stock)
	}
}
