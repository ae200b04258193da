package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"farmmarket/internal/migrate"
	"farmmarket/internal/models"
	"farmmarket/internal/repository"
	"farmmarket/internal/service"
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

func seedConsumer(t *testing.T, repo *repository.Repository, email string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Shopper",
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

func seedFarmer(t *testing.T, repo *repository.Repository, email, farmName string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Bob",
		LastName:     "Grower",
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

func seedProduct(t *testing.T, repo *repository.Repository, farmerID uuid.UUID, name string, priceCents int64, stock int32) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:       name,
		PriceCents: priceCents,
		Unit:       "lb",
		Stock:      stock,
		FarmerID:   farmerID,
	}
	if err := repo.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("Create product: %v", err)
	}
	return p
}

func addToCart(t *testing.T, repo *repository.Repository, userID, productID uuid.UUID, qty int32) {
	t.Helper()
	if err := repo.Carts.Create(context.Background(), &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
}

func shipping() service.ShippingInfo {
	return service.ShippingInfo{
		Address:    "12 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
	}
}

func TestCheckout_Success(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	svc := service.NewCheckoutService(repo, nil, nil)
	ctx := context.Background()

	userID := seedConsumer(t, repo, "buyer@test.local")
	farmerID := seedFarmer(t, repo, "farm@test.local", "Green Farm")
	product := seedProduct(t, repo, farmerID, "Tomatoes", 499, 50)
	addToCart(t, repo, userID, product.ID, 3)

	res, err := svc.Checkout(ctx, service.CheckoutInput{UserID: userID, Shipping: shipping()})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.TotalCents != 1497 {
		t.Fatalf("expected total=1497, got %d", res.TotalCents)
	}
	if res.Status != string(models.OrderStatusProcessing) {
		t.Fatalf("expected status=processing, got %s", res.Status)
	}

	// Заказ сохранён со снапшотом цены и названия
	order, err := repo.Orders.GetByIDForUser(ctx, res.OrderID, userID)
	if err != nil {
		t.Fatalf("GetByIDForUser: %v", err)
	}
	if order == nil || len(order.Items) != 1 {
		t.Fatalf("order mismatch: %+v", order)
	}
	item := order.Items[0]
	if item.ProductName != "Tomatoes" || item.PricePerUnitCents != 499 || item.Quantity != 3 {
		t.Fatalf("item snapshot mismatch: %+v", item)
	}

	// Остаток списан
	p, _ := repo.Products.GetByID(ctx, product.ID)
	if p.Stock != 47 {
		t.Fatalf("expected stock=47, got %d", p.Stock)
	}

	// Корзина пуста
	count, _ := repo.Carts.CountByUser(ctx, userID)
	if count != 0 {
		t.Fatalf("expected empty cart, got %d", count)
	}

	// Выручка фермера
	lines, lineTotal, err := repo.Orders.ListFarmerLines(ctx, farmerID, 10, 0)
	if err != nil {
		t.Fatalf("ListFarmerLines: %v", err)
	}
	if lineTotal != 1 || lines[0].Quantity != 3 {
		t.Fatalf("farmer lines mismatch: total=%d", lineTotal)
	}

	// Аналитика покупателя
	ca, err := repo.Analytics.GetCustomerByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetCustomerByUserID: %v", err)
	}
	if ca == nil || ca.TotalOrders != 1 || ca.TotalSpentCents != 1497 {
		t.Fatalf("customer analytics mismatch: %+v", ca)
	}

	preferred, _ := repo.Analytics.ListPreferredFarmers(ctx, ca.ID)
	if len(preferred) != 1 || preferred[0] != farmerID {
		t.Fatalf("preferred farmers mismatch: %v", preferred)
	}

	// Аналитика товара
	pa, err := repo.Analytics.GetProductByProductID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProductByProductID: %v", err)
	}
	if pa == nil || pa.TotalSold != 3 || pa.TotalRevenueCents != 1497 {
		t.Fatalf("product analytics mismatch: %+v", pa)
	}
}

func TestCheckout_MultiFarmerRevenueSplit(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	svc := service.NewCheckoutService(repo, nil, nil)
	ctx := context.Background()

	userID := seedConsumer(t, repo, "split@test.local")
	farmerA := seedFarmer(t, repo, "splitA@test.local", "Farm A")
	farmerB := seedFarmer(t, repo, "splitB@test.local", "Farm B")

	pa := seedProduct(t, repo, farmerA, "Apples", 300, 20)
	pb1 := seedProduct(t, repo, farmerB, "Honey", 1000, 10)
	pb2 := seedProduct(t, repo, farmerB, "Eggs", 500, 10)

	addToCart(t, repo, userID, pa.ID, 2)  // 600 фермеру A
	addToCart(t, repo, userID, pb1.ID, 1) // 1000 + 500 фермеру B
	addToCart(t, repo, userID, pb2.ID, 1)

	res, err := svc.Checkout(ctx, service.CheckoutInput{UserID: userID, Shipping: shipping()})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.TotalCents != 2100 {
		t.Fatalf("expected total=2100, got %d", res.TotalCents)
	}

	var rows []models.FarmerRevenue
	if err := db.Where("order_id = ?", res.OrderID).Find(&rows).Error; err != nil {
		t.Fatalf("load revenue rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 revenue rows, got %d", len(rows))
	}
	byFarmer := map[uuid.UUID]int64{}
	for _, r := range rows {
		byFarmer[r.FarmerID] = r.AmountCents
	}
	if byFarmer[farmerA] != 600 || byFarmer[farmerB] != 1500 {
		t.Fatalf("revenue split mismatch: %v", byFarmer)
	}

	ca, _ := repo.Analytics.GetCustomerByUserID(ctx, userID)
	preferred, _ := repo.Analytics.ListPreferredFarmers(ctx, ca.ID)
	if len(preferred) != 2 {
		t.Fatalf("expected 2 preferred farmers, got %d", len(preferred))
	}
}

func TestCheckout_InsufficientStockListsAllViolators(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	svc := service.NewCheckoutService(repo, nil, nil)
	ctx := context.Background()

	userID := seedConsumer(t, repo, "short@test.local")
	farmerID := seedFarmer(t, repo, "shortfarm@test.local", "Short Farm")

	p1 := seedProduct(t, repo, farmerID, "Milk", 400, 1)
	p2 := seedProduct(t, repo, farmerID, "Butter", 600, 0)
	p3 := seedProduct(t, repo, farmerID, "Cheese", 900, 10)

	addToCart(t, repo, userID, p1.ID, 5)
	addToCart(t, repo, userID, p2.ID, 2)
	addToCart(t, repo, userID, p3.ID, 1)

	_, err := svc.Checkout(ctx, service.CheckoutInput{UserID: userID, Shipping: shipping()})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}

	var stockErr *service.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %T: %v", err, err)
	}
	// В ошибке ВСЕ проблемные позиции, не только первая
	if len(stockErr.Items) != 2 {
		t.Fatalf("expected 2 violators, got %d", len(stockErr.Items))
	}

	// Ничего не изменилось: остатки, корзина, заказы
	got, _ := repo.Products.GetByID(ctx, p3.ID)
	if got.Stock != 10 {
		t.Fatalf("expected untouched stock=10, got %d", got.Stock)
	}
	count, _ := repo.Carts.CountByUser(ctx, userID)
	if count != 8 {
		t.Fatalf("expected cart intact (8 items), got %d", count)
	}
	_, total, _ := repo.Orders.ListByUser(ctx, userID, 10, 0)
	if total != 0 {
		t.Fatalf("expected no orders, got %d", total)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	svc := service.NewCheckoutService(repo, nil, nil)
	ctx := context.Background()

	userID := seedConsumer(t, repo, "empty@test.local")

	_, err := svc.Checkout(ctx, service.CheckoutInput{UserID: userID, Shipping: shipping()})
	if !errors.Is(err, service.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_EmptyShippingAccepted(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	svc := service.NewCheckoutService(repo, nil, nil)
	ctx := context.Background()

	userID := seedConsumer(t, repo, "noship@test.local")
	farmerID := seedFarmer(t, repo, "noshipfarm@test.local", "No Ship Farm")
	product := seedProduct(t, repo, farmerID, "Onions", 120, 10)
	addToCart(t, repo, userID, product.ID, 2)

	// Поля адреса косметические: пустые значения сохраняются как есть
	res, err := svc.Checkout(ctx, service.CheckoutInput{UserID: userID})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	order, err := repo.Orders.GetByIDForUser(ctx, res.OrderID, userID)
	if err != nil {
		t.Fatalf("GetByIDForUser: %v", err)
	}
	if order == nil || order.ShippingAddress != "" || order.ShippingCity != "" {
		t.Fatalf("expected order with empty shipping fields, got %+v", order)
	}
	if order.TotalCents != 240 {
		t.Fatalf("expected total=240, got %d", order.TotalCents)
	}
}

func TestCheckout_NoOversellOnRepeat(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	svc := service.NewCheckoutService(repo, nil, nil)
	ctx := context.Background()

	farmerID := seedFarmer(t, repo, "race@test.local", "Race Farm")
	product := seedProduct(t, repo, farmerID, "Strawberries", 700, 5)

	buyer1 := seedConsumer(t, repo, "race1@test.local")
	buyer2 := seedConsumer(t, repo, "race2@test.local")
	addToCart(t, repo, buyer1, product.ID, 4)
	addToCart(t, repo, buyer2, product.ID, 4)

	if _, err := svc.Checkout(ctx, service.CheckoutInput{UserID: buyer1, Shipping: shipping()}); err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	// Второму покупателю остатка уже не хватает
	_, err := svc.Checkout(ctx, service.CheckoutInput{UserID: buyer2, Shipping: shipping()})
	var stockErr *service.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Items[0].AvailableStock != 1 {
		t.Fatalf("expected available=1, got %d", stockErr.Items[0].AvailableStock)
	}

	got, _ := repo.Products.GetByID(ctx, product.ID)
	if got.Stock != 1 {
		t.Fatalf("expected stock=1, got %d", got.Stock)
	}
}

func TestCheckout_ConcurrentSettlementLoserLeavesNoResidue(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	svc := service.NewCheckoutService(repo, nil, nil)
	ctx := context.Background()

	farmerID := seedFarmer(t, repo, "parallel@test.local", "Parallel Farm")
	product := seedProduct(t, repo, farmerID, "Blueberries", 800, 5)

	buyers := []uuid.UUID{
		seedConsumer(t, repo, "parallel1@test.local"),
		seedConsumer(t, repo, "parallel2@test.local"),
	}
	addToCart(t, repo, buyers[0], product.ID, 4)
	addToCart(t, repo, buyers[1], product.ID, 4)

	// Два оформления одновременно: защищённое списание внутри транзакции
	// пропускает ровно одно, проигравшее откатывается целиком
	start := make(chan struct{})
	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i := range buyers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Checkout(ctx, service.CheckoutInput{UserID: buyers[i], Shipping: shipping()})
		}(i)
	}
	close(start)
	wg.Wait()

	var winner, loser uuid.UUID
	var loserErr error
	switch {
	case errs[0] == nil && errs[1] != nil:
		winner, loser, loserErr = buyers[0], buyers[1], errs[1]
	case errs[1] == nil && errs[0] != nil:
		winner, loser, loserErr = buyers[1], buyers[0], errs[0]
	default:
		t.Fatalf("expected exactly one success, got %v / %v", errs[0], errs[1])
	}

	var stockErr *service.InsufficientStockError
	if !errors.As(loserErr, &stockErr) {
		t.Fatalf("expected InsufficientStockError for loser, got %v", loserErr)
	}

	got, _ := repo.Products.GetByID(ctx, product.ID)
	if got.Stock != 1 {
		t.Fatalf("expected stock=1, got %d", got.Stock)
	}

	// Проигравший не оставил следов: ни заказа, ни выручки, ни аналитики,
	// корзина нетронута
	_, loserOrders, err := repo.Orders.ListByUser(ctx, loser, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser loser: %v", err)
	}
	if loserOrders != 0 {
		t.Fatalf("expected no orders for loser, got %d", loserOrders)
	}
	count, _ := repo.Carts.CountByUser(ctx, loser)
	if count != 4 {
		t.Fatalf("expected loser cart intact (4), got %d", count)
	}
	ca, err := repo.Analytics.GetCustomerByUserID(ctx, loser)
	if err != nil {
		t.Fatalf("GetCustomerByUserID loser: %v", err)
	}
	if ca != nil {
		t.Fatalf("expected no analytics for loser, got %+v", ca)
	}

	var revCount int64
	if err := db.Model(&models.FarmerRevenue{}).Count(&revCount).Error; err != nil {
		t.Fatalf("count revenue rows: %v", err)
	}
	if revCount != 1 {
		t.Fatalf("expected 1 revenue row, got %d", revCount)
	}

	// Победитель оформлен полностью
	_, winnerOrders, _ := repo.Orders.ListByUser(ctx, winner, 10, 0)
	if winnerOrders != 1 {
		t.Fatalf("expected 1 order for winner, got %d", winnerOrders)
	}
	count, _ = repo.Carts.CountByUser(ctx, winner)
	if count != 0 {
		t.Fatalf("expected winner cart cleared, got %d", count)
	}
}

func TestCheckout_AnalyticsAccumulateAcrossOrders(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	svc := service.NewCheckoutService(repo, nil, nil)
	ctx := context.Background()

	userID := seedConsumer(t, repo, "repeat@test.local")
	farmerID := seedFarmer(t, repo, "repeatfarm@test.local", "Repeat Farm")
	product := seedProduct(t, repo, farmerID, "Garlic", 250, 100)

	addToCart(t, repo, userID, product.ID, 2)
	if _, err := svc.Checkout(ctx, service.CheckoutInput{UserID: userID, Shipping: shipping()}); err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	addToCart(t, repo, userID, product.ID, 3)
	if _, err := svc.Checkout(ctx, service.CheckoutInput{UserID: userID, Shipping: shipping()}); err != nil {
		t.Fatalf("second checkout: %v", err)
	}

	ca, _ := repo.Analytics.GetCustomerByUserID(ctx, userID)
	if ca.TotalOrders != 2 || ca.TotalSpentCents != 1250 {
		t.Fatalf("expected orders=2 spent=1250, got %+v", ca)
	}

	// Фермер не дублируется в предпочтениях
	preferred, _ := repo.Analytics.ListPreferredFarmers(ctx, ca.ID)
	if len(preferred) != 1 {
		t.Fatalf("expected 1 preferred farmer, got %d", len(preferred))
	}

	pa, _ := repo.Analytics.GetProductByProductID(ctx, product.ID)
	if pa.TotalSold != 5 || pa.TotalRevenueCents != 1250 {
		t.Fatalf("expected sold=5 revenue=1250, got %+v", pa)
	}
}
