package models

import (
	"time"

	"market-backend/internal/apperr"
)

// Product: stok defterinin kök kaydı. Şube bazlı miktarlar BranchStocks
// altında tutulur; toplam stok her mutasyondan sonra RecomputeTotal ile
// senkronlanır. Dışarıdan BranchStocks slice'ına doğrudan yazılmaz, tüm
// değişiklikler AdjustBranchQuantity üzerinden geçer.
type Product struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null;unique"`
	Unit         string `gorm:"size:20;not null"` // kg, adet, koli vs.
	StockCode    string `gorm:"size:50;index"`
	StockTotal   int    `gorm:"not null;default:0"` // = Σ BranchStocks.Quantity
	StockMinimum int    `gorm:"not null;default:0"` // şube eşiği tanımsızsa kullanılacak genel eşik
	Version      int64  `gorm:"not null;default:0"` // iyimser kilitleme sayacı
	CreatedAt    time.Time
	UpdatedAt    time.Time

	BranchStocks []BranchStock `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// BranchStock: bir ürünün tek bir şubedeki miktarı ve uyarı eşiği.
// (product_id, branch_id) ikilisi benzersizdir. Kayıt şubeye ilk stok
// girişinde tembel oluşturulur, silinmez, sadece sıfırlanır.
type BranchStock struct {
	ID           uint   `gorm:"primaryKey"`
	ProductID    uint   `gorm:"uniqueIndex:idx_branch_stock_pair;not null"`
	BranchID     uint   `gorm:"uniqueIndex:idx_branch_stock_pair;not null"`
	BranchName   string `gorm:"size:100;not null"` // şube adı önbelleği
	Quantity     int    `gorm:"not null;default:0"`
	MinThreshold int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BranchQuantity: şubedeki mevcut miktar, kayıt yoksa 0.
func (p *Product) BranchQuantity(branchID uint) int {
	for i := range p.BranchStocks {
		if p.BranchStocks[i].BranchID == branchID {
			return p.BranchStocks[i].Quantity
		}
	}
	return 0
}

// BranchStockFor: şube kaydına erişim (okuma amaçlı), yoksa nil.
func (p *Product) BranchStockFor(branchID uint) *BranchStock {
	for i := range p.BranchStocks {
		if p.BranchStocks[i].BranchID == branchID {
			return &p.BranchStocks[i]
		}
	}
	return nil
}

// AdjustBranchQuantity: şube miktarına delta uygular ve yeni miktarı döner.
// Kayıt varsa: sonuç negatif olamaz (yetersiz stok hatası).
// Kayıt yoksa ve delta > 0: kayıt oluşturulur, eşik ürünün genel
// StockMinimum değerinden devralınır. Kayıt yoksa ve delta <= 0: şube
// bulunamadı hatası.
func (p *Product) AdjustBranchQuantity(branchID uint, branchName string, delta int) (int, error) {
	for i := range p.BranchStocks {
		bs := &p.BranchStocks[i]
		if bs.BranchID != branchID {
			continue
		}
		next := bs.Quantity + delta
		if next < 0 {
			return bs.Quantity, apperr.InsufficientStock(bs.Quantity, -delta,
				"%s ürünü için %s şubesinde stok yetersiz: mevcut %d, istenen %d",
				p.Name, bs.BranchName, bs.Quantity, -delta)
		}
		bs.Quantity = next
		return next, nil
	}

	if delta <= 0 {
		return 0, apperr.NotFound("%s ürününün %d numaralı şubede stok kaydı yok", p.Name, branchID)
	}

	p.BranchStocks = append(p.BranchStocks, BranchStock{
		ProductID:    p.ID,
		BranchID:     branchID,
		BranchName:   branchName,
		Quantity:     delta,
		MinThreshold: p.StockMinimum,
	})
	return delta, nil
}

// RecomputeTotal: StockTotal = Σ şube miktarları. Her AdjustBranchQuantity
// sonrasında, kayıt veritabanına yazılmadan önce çağrılır.
func (p *Product) RecomputeTotal() {
	total := 0
	for i := range p.BranchStocks {
		total += p.BranchStocks[i].Quantity
	}
	p.StockTotal = total
}
