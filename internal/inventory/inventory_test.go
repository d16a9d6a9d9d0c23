package inventory

import (
	"fmt"
	"strings"
	"testing"

	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Testler GORM'u in-memory SQLite üzerinde çalıştırır; şema production ile
// aynı Migrate çağrısından gelir.

type testEnv struct {
	db        *gorm.DB
	stores    Stores
	alerts    *AlertService
	stock     *StockService
	transfers *TransferService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Her test kendi adlandırılmış in-memory veritabanını alır; paylaşımlı
	// cache, pool'daki her bağlantının aynı veritabanını görmesi için şart.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrasyon başarısız: %v", err)
	}

	stores := NewStores(db)
	alerts := NewAlertService(stores.Alerts)
	return &testEnv{
		db:        db,
		stores:    stores,
		alerts:    alerts,
		stock:     NewStockService(stores.Products, stores.Branches, alerts),
		transfers: NewTransferService(stores.Products, stores.Transfers, stores.Branches, alerts),
	}
}

func (e *testEnv) seedBranch(t *testing.T, name string) models.Branch {
	t.Helper()
	b := models.Branch{Name: name}
	if err := e.db.Create(&b).Error; err != nil {
		t.Fatalf("şube oluşturulamadı: %v", err)
	}
	return b
}

func (e *testEnv) seedProduct(t *testing.T, name string, stockMinimum int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Unit: "adet", StockMinimum: stockMinimum}
	if err := e.db.Create(&p).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}
	return p
}

func (e *testEnv) seedStock(t *testing.T, p models.Product, b models.Branch, qty, minThreshold int) {
	t.Helper()
	bs := models.BranchStock{
		ProductID:    p.ID,
		BranchID:     b.ID,
		BranchName:   b.Name,
		Quantity:     qty,
		MinThreshold: minThreshold,
	}
	if err := e.db.Create(&bs).Error; err != nil {
		t.Fatalf("şube stoğu oluşturulamadı: %v", err)
	}
	if err := e.db.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("stock_total", gorm.Expr("stock_total + ?", qty)).Error; err != nil {
		t.Fatalf("toplam güncellenemedi: %v", err)
	}
}

func (e *testEnv) reloadProduct(t *testing.T, id uint) *models.Product {
	t.Helper()
	p, err := e.stores.Products.FindByID(id)
	if err != nil {
		t.Fatalf("ürün yüklenemedi: %v", err)
	}
	return p
}

// assertTotalInvariant: stock_total == Σ şube miktarları.
func (e *testEnv) assertTotalInvariant(t *testing.T, productID uint) {
	t.Helper()
	p := e.reloadProduct(t, productID)
	sum := 0
	for i := range p.BranchStocks {
		sum += p.BranchStocks[i].Quantity
	}
	if p.StockTotal != sum {
		t.Errorf("%s: stock_total=%d ama şube toplamı %d", p.Name, p.StockTotal, sum)
	}
}

func (e *testEnv) pendingAlerts(t *testing.T, productID, branchID uint) []models.Alert {
	t.Helper()
	var list []models.Alert
	if err := e.db.
		Where("product_id = ? AND branch_id = ? AND state = ?", productID, branchID, models.AlertPending).
		Find(&list).Error; err != nil {
		t.Fatalf("uyarılar sorgulanamadı: %v", err)
	}
	return list
}
