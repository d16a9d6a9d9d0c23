package inventory

import (
	"errors"
	"testing"

	"market-backend/internal/apperr"
	"market-backend/internal/models"
)

func TestMoveStockScenario(t *testing.T) {
	// A şubesinde 20 adet (eşik 10), B şubesinin kaydı yok. 14 adet taşınır:
	// A 6'ya düşer, B kaydı 14 ile açılır, toplam 20 kalır ve A için low
	// uyarısı doğar (6 <= 10). Tam yarı sınırı ayrı testte.
	env := newTestEnv(t)
	a := env.seedBranch(t, "A Şubesi")
	b := env.seedBranch(t, "B Şubesi")
	p := env.seedProduct(t, "Süt", 10)
	env.seedStock(t, p, a, 20, 10)

	got, err := env.stock.MoveStock(MoveStockInput{
		ProductID:      p.ID,
		OriginBranchID: a.ID,
		DestBranchID:   b.ID,
		Quantity:       14,
		DestBranchName: b.Name,
	})
	if err != nil {
		t.Fatalf("taşıma başarısız: %v", err)
	}

	if q := got.BranchQuantity(a.ID); q != 6 {
		t.Errorf("A şubesi 6 olmalı, %d döndü", q)
	}
	if q := got.BranchQuantity(b.ID); q != 14 {
		t.Errorf("B şubesi 14 olmalı, %d döndü", q)
	}
	if got.StockTotal != 20 {
		t.Errorf("toplam 20 kalmalı, %d döndü", got.StockTotal)
	}
	env.assertTotalInvariant(t, p.ID)

	// Yeni B kaydı eşiği ürünün genel minimumundan devralır
	if bs := got.BranchStockFor(b.ID); bs == nil || bs.MinThreshold != 10 {
		t.Errorf("B kaydının eşiği 10 olmalı: %+v", bs)
	}

	alerts := env.pendingAlerts(t, p.ID, a.ID)
	if len(alerts) != 1 || alerts[0].Type != models.AlertLow {
		t.Fatalf("A için tek low uyarısı beklenirdi: %+v", alerts)
	}
	if len(env.pendingAlerts(t, p.ID, b.ID)) != 0 {
		t.Error("B eşik üstünde, uyarı olmamalı")
	}
}

func TestMoveStockExactHalfIsCritical(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedBranch(t, "A Şubesi")
	b := env.seedBranch(t, "B Şubesi")
	p := env.seedProduct(t, "Süt", 10)
	env.seedStock(t, p, a, 20, 10)

	if _, err := env.stock.MoveStock(MoveStockInput{
		ProductID:      p.ID,
		OriginBranchID: a.ID,
		DestBranchID:   b.ID,
		Quantity:       15,
		DestBranchName: b.Name,
	}); err != nil {
		t.Fatalf("taşıma başarısız: %v", err)
	}

	// A=5, tam yarı: critical önce kontrol edildiği için low değil
	alerts := env.pendingAlerts(t, p.ID, a.ID)
	if len(alerts) != 1 || alerts[0].Type != models.AlertCritical {
		t.Fatalf("A için critical beklenirdi: %+v", alerts)
	}
}

func TestMoveStockValidation(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedBranch(t, "A Şubesi")
	b := env.seedBranch(t, "B Şubesi")
	p := env.seedProduct(t, "Süt", 10)
	env.seedStock(t, p, a, 20, 10)

	t.Run("miktar pozitif olmalı", func(t *testing.T) {
		_, err := env.stock.MoveStock(MoveStockInput{ProductID: p.ID, OriginBranchID: a.ID, DestBranchID: b.ID, Quantity: 0})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("validation beklenirdi, %v döndü", err)
		}
	})

	t.Run("aynı şube", func(t *testing.T) {
		_, err := env.stock.MoveStock(MoveStockInput{ProductID: p.ID, OriginBranchID: a.ID, DestBranchID: a.ID, Quantity: 5})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("validation beklenirdi, %v döndü", err)
		}
	})

	t.Run("ürün yok", func(t *testing.T) {
		_, err := env.stock.MoveStock(MoveStockInput{ProductID: 999, OriginBranchID: a.ID, DestBranchID: b.ID, Quantity: 5})
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("not_found beklenirdi, %v döndü", err)
		}
	})

	t.Run("kaynak şube kaydı yok", func(t *testing.T) {
		_, err := env.stock.MoveStock(MoveStockInput{ProductID: p.ID, OriginBranchID: b.ID, DestBranchID: a.ID, Quantity: 5})
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("not_found beklenirdi, %v döndü", err)
		}
	})

	t.Run("hedef adı eksik", func(t *testing.T) {
		_, err := env.stock.MoveStock(MoveStockInput{ProductID: p.ID, OriginBranchID: a.ID, DestBranchID: b.ID, Quantity: 5})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("validation (dest_branch_name) beklenirdi, %v döndü", err)
		}
		// Başarısız çağrı defteri değiştirmemeli
		if q := env.reloadProduct(t, p.ID).BranchQuantity(a.ID); q != 20 {
			t.Errorf("A şubesi 20 kalmalı, %d döndü", q)
		}
	})

	t.Run("stok yetersiz", func(t *testing.T) {
		_, err := env.stock.MoveStock(MoveStockInput{
			ProductID: p.ID, OriginBranchID: a.ID, DestBranchID: b.ID,
			Quantity: 50, DestBranchName: b.Name,
		})
		if !apperr.IsKind(err, apperr.KindInsufficientStock) {
			t.Fatalf("insufficient_stock beklenirdi, %v döndü", err)
		}
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || len(appErr.Items) != 1 {
			t.Fatalf("mevcut miktar detayı beklenirdi: %v", err)
		}
		if appErr.Items[0].Available != 20 || appErr.Items[0].Requested != 50 {
			t.Errorf("available=20 requested=50 beklenirdi: %+v", appErr.Items[0])
		}
	})
}

func TestReceiveStockCreatesEntry(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedBranch(t, "A Şubesi")
	p := env.seedProduct(t, "Süt", 10)

	got, err := env.stock.ReceiveStock(ReceiveStockInput{ProductID: p.ID, BranchID: a.ID, Quantity: 100})
	if err != nil {
		t.Fatalf("stok girişi başarısız: %v", err)
	}
	if q := got.BranchQuantity(a.ID); q != 100 {
		t.Errorf("miktar 100 olmalı, %d döndü", q)
	}
	if got.StockTotal != 100 {
		t.Errorf("toplam 100 olmalı, %d döndü", got.StockTotal)
	}
	env.assertTotalInvariant(t, p.ID)

	if bs := got.BranchStockFor(a.ID); bs == nil || bs.BranchName != "A Şubesi" {
		t.Errorf("şube adı dizinden çözülmeli: %+v", bs)
	}
	if len(env.pendingAlerts(t, p.ID, a.ID)) != 0 {
		t.Error("eşik üstü giriş uyarı üretmemeli")
	}
}

func TestReceiveStockBelowThresholdRaisesAlert(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedBranch(t, "A Şubesi")
	p := env.seedProduct(t, "Süt", 10)

	if _, err := env.stock.ReceiveStock(ReceiveStockInput{ProductID: p.ID, BranchID: a.ID, Quantity: 2}); err != nil {
		t.Fatalf("stok girişi başarısız: %v", err)
	}

	alerts := env.pendingAlerts(t, p.ID, a.ID)
	if len(alerts) != 1 || alerts[0].Type != models.AlertCritical {
		t.Fatalf("2 <= 10/2, critical beklenirdi: %+v", alerts)
	}
}

func TestReceiveStockUnknownBranch(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Süt", 10)

	_, err := env.stock.ReceiveStock(ReceiveStockInput{ProductID: p.ID, BranchID: 999, Quantity: 5})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("dizinde olmayan şube için not_found beklenirdi, %v döndü", err)
	}
}

func TestSaveWithStocksVersionConflict(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedBranch(t, "A Şubesi")
	p := env.seedProduct(t, "Süt", 10)
	env.seedStock(t, p, a, 20, 10)

	// İki istek aynı sürümü okur; ikincisinin yazımı conflict ile düşer
	first := env.reloadProduct(t, p.ID)
	second := env.reloadProduct(t, p.ID)

	if _, err := first.AdjustBranchQuantity(a.ID, a.Name, -5); err != nil {
		t.Fatalf("hazırlık: %v", err)
	}
	first.RecomputeTotal()
	if err := env.stores.Products.SaveWithStocks(first); err != nil {
		t.Fatalf("ilk yazım başarılı olmalıydı: %v", err)
	}

	if _, err := second.AdjustBranchQuantity(a.ID, a.Name, -3); err != nil {
		t.Fatalf("hazırlık: %v", err)
	}
	second.RecomputeTotal()
	err := env.stores.Products.SaveWithStocks(second)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("bayat sürüm için conflict beklenirdi, %v döndü", err)
	}

	// Kaybolan güncelleme yok: ilk yazımın sonucu duruyor
	if q := env.reloadProduct(t, p.ID).BranchQuantity(a.ID); q != 15 {
		t.Errorf("A şubesi 15 kalmalı, %d döndü", q)
	}
}
