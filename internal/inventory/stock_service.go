package inventory

import (
	"market-backend/internal/apperr"
	"market-backend/internal/models"
)

// StockService: tek ürünlük doğrudan stok hareketleri (şubeler arası
// taşıma ve stok girişi). Her mutasyon defter toplamını yeniden hesaplar,
// kaydeder ve ardından etkilenen (ürün, şube) ikilileri için uyarı
// değerlendirmesi çalıştırır.
type StockService struct {
	products ProductStore
	branches BranchDirectory
	alerts   *AlertService
}

func NewStockService(products ProductStore, branches BranchDirectory, alerts *AlertService) *StockService {
	return &StockService{products: products, branches: branches, alerts: alerts}
}

type MoveStockInput struct {
	ProductID      uint
	OriginBranchID uint
	DestBranchID   uint
	Quantity       int
	// DestBranchName: hedef şubenin stok kaydı yoksa zorunlu; yeni kayıt
	// bu isimle açılır.
	DestBranchName string
}

// MoveStock: tek ürünü bir şubeden diğerine taşır.
func (s *StockService) MoveStock(in MoveStockInput) (*models.Product, error) {
	if in.Quantity <= 0 {
		return nil, apperr.Validation("Taşıma miktarı 0'dan büyük olmalı")
	}
	if in.OriginBranchID == in.DestBranchID {
		return nil, apperr.Validation("Kaynak ve hedef şube aynı olamaz")
	}

	p, err := s.products.FindByID(in.ProductID)
	if err != nil {
		return nil, err
	}

	origin := p.BranchStockFor(in.OriginBranchID)
	if origin == nil {
		return nil, apperr.NotFound("%s ürününün %d numaralı şubede stok kaydı yok", p.Name, in.OriginBranchID)
	}

	if p.BranchStockFor(in.DestBranchID) == nil && in.DestBranchName == "" {
		return nil, apperr.Validation("Hedef şubenin stok kaydı yok, dest_branch_name zorunlu")
	}

	if _, err := p.AdjustBranchQuantity(in.OriginBranchID, origin.BranchName, -in.Quantity); err != nil {
		return nil, err
	}
	if _, err := p.AdjustBranchQuantity(in.DestBranchID, in.DestBranchName, in.Quantity); err != nil {
		return nil, err
	}
	p.RecomputeTotal()

	if err := s.products.SaveWithStocks(p); err != nil {
		return nil, err
	}

	if err := s.evaluatePair(p, in.OriginBranchID); err != nil {
		return nil, err
	}
	if err := s.evaluatePair(p, in.DestBranchID); err != nil {
		return nil, err
	}

	return p, nil
}

type ReceiveStockInput struct {
	ProductID uint
	BranchID  uint
	Quantity  int
}

// ReceiveStock: şubeye stok girişi (ilk stoklama dahil). Şube adı dizinden
// çözülür; şube dizinde yoksa hata döner.
func (s *StockService) ReceiveStock(in ReceiveStockInput) (*models.Product, error) {
	if in.Quantity <= 0 {
		return nil, apperr.Validation("Giriş miktarı 0'dan büyük olmalı")
	}

	branchName, err := s.branches.BranchName(in.BranchID)
	if err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(in.ProductID)
	if err != nil {
		return nil, err
	}

	if _, err := p.AdjustBranchQuantity(in.BranchID, branchName, in.Quantity); err != nil {
		return nil, err
	}
	p.RecomputeTotal()

	if err := s.products.SaveWithStocks(p); err != nil {
		return nil, err
	}

	if err := s.evaluatePair(p, in.BranchID); err != nil {
		return nil, err
	}

	return p, nil
}

// evaluatePair: şube kaydı varsa uyarı motorunu çalıştırır.
func (s *StockService) evaluatePair(p *models.Product, branchID uint) error {
	bs := p.BranchStockFor(branchID)
	if bs == nil {
		return nil
	}
	_, err := s.alerts.Evaluate(StockSnapshot{
		ProductID:    p.ID,
		ProductName:  p.Name,
		BranchID:     bs.BranchID,
		BranchName:   bs.BranchName,
		CurrentStock: bs.Quantity,
		MinThreshold: bs.MinThreshold,
	})
	return err
}
