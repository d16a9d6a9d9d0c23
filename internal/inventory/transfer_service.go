package inventory

import (
	"strings"
	"time"

	"market-backend/internal/apperr"
	"market-backend/internal/models"
)

// TransferService: şubeler arası toplu transfer iş akışı.
//
// Doğrulama her zaman ya-hep-ya-hiç çalışır: tek kalem bile geçersizse
// istek, kalem bazlı hata listesiyle bütün olarak reddedilir ve defter
// değişmez. Uygulama aşaması ise ürün başına sıralı read-modify-write'tır;
// ürünler arası atomiklik yoktur. k. kalemin yazımı başarısız olursa
// 1..k-1 uygulanmış kalır, k..n uygulanmaz ve çağırana hata döner. Bu
// bilinen bir tutarlılık boşluğudur, geri alma yapılmaz.
type TransferService struct {
	products  ProductStore
	transfers TransferStore
	branches  BranchDirectory
	alerts    *AlertService
}

func NewTransferService(products ProductStore, transfers TransferStore, branches BranchDirectory, alerts *AlertService) *TransferService {
	return &TransferService{products: products, transfers: transfers, branches: branches, alerts: alerts}
}

type TransferItemInput struct {
	ProductID uint
	Quantity  int
}

type CreateTransferInput struct {
	OriginBranchID uint
	DestBranchID   uint
	Items          []TransferItemInput
	// Immediate: true ise transfer doğrudan completed olarak kaydedilir ve
	// defter mutasyonları oluşturma anında uygulanır. false ise pending
	// kaydedilir, miktar anlık görüntüleri hesaplanır ama uygulanmaz.
	Immediate bool
	Notes     string
	ActorID   uint
	ActorName string
}

// Create: transfer isteği oluşturur.
func (s *TransferService) Create(in CreateTransferInput) (*models.TransferRequest, error) {
	if in.OriginBranchID == in.DestBranchID {
		return nil, apperr.Validation("Kaynak ve hedef şube aynı olamaz")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validation("En az bir kalem gerekli")
	}

	originName, err := s.branches.BranchName(in.OriginBranchID)
	if err != nil {
		return nil, err
	}
	destName, err := s.branches.BranchName(in.DestBranchID)
	if err != nil {
		return nil, err
	}

	items, err := s.validateItems(in.OriginBranchID, in.DestBranchID, in.Items)
	if err != nil {
		return nil, err
	}

	transfer := &models.TransferRequest{
		OriginBranchID:   in.OriginBranchID,
		OriginBranchName: originName,
		DestBranchID:     in.DestBranchID,
		DestBranchName:   destName,
		State:            models.TransferPending,
		CreatedBy:        in.ActorID,
		CreatedByName:    in.ActorName,
		Notes:            in.Notes,
		Items:            items,
	}
	transfer.TotalItems = len(items)
	for i := range items {
		transfer.TotalQuantity += items[i].Quantity
	}

	if in.Immediate {
		// Önce uygula, sonra completed olarak kaydet. Anlık görüntüler
		// uygulama sırasında tazelenir.
		if err := s.applyItems(transfer); err != nil {
			return nil, err
		}
		now := time.Now()
		transfer.State = models.TransferCompleted
		transfer.ApprovedBy = &in.ActorID
		transfer.ApprovedByName = in.ActorName
		transfer.ApprovedAt = &now
	}

	if err := s.transfers.Create(transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// Approve: pending transferi onaylar ve defter mutasyonlarını uygular.
// Oluşturma ile onay arasında stok kaymış olabilir, bu yüzden aynı
// ya-hep-ya-hiç kuralıyla yeniden doğrulanır; doğrulama düşerse kayıt
// pending kalır ve çağıran artık yetersiz olan kalemlerin listesini alır.
func (s *TransferService) Approve(transferID, actorID uint, actorName string) (*models.TransferRequest, error) {
	transfer, err := s.transfers.FindByID(transferID)
	if err != nil {
		return nil, err
	}
	if transfer.State != models.TransferPending {
		return nil, apperr.InvalidTransition("Sadece bekleyen transfer onaylanabilir (durum: %s)", transfer.State)
	}

	inputs := make([]TransferItemInput, len(transfer.Items))
	for i := range transfer.Items {
		inputs[i] = TransferItemInput{ProductID: transfer.Items[i].ProductID, Quantity: transfer.Items[i].Quantity}
	}
	fresh, err := s.validateItems(transfer.OriginBranchID, transfer.DestBranchID, inputs)
	if err != nil {
		return nil, err
	}
	// Anlık görüntüleri yeniden doğrulama sonuçlarıyla tazele (ID'ler korunur)
	for i := range transfer.Items {
		transfer.Items[i].OriginQtyBefore = fresh[i].OriginQtyBefore
		transfer.Items[i].OriginQtyAfter = fresh[i].OriginQtyAfter
		transfer.Items[i].DestQtyBefore = fresh[i].DestQtyBefore
		transfer.Items[i].DestQtyAfter = fresh[i].DestQtyAfter
	}

	if err := s.applyItems(transfer); err != nil {
		return nil, err
	}

	now := time.Now()
	transfer.State = models.TransferCompleted
	transfer.ApprovedBy = &actorID
	transfer.ApprovedByName = actorName
	transfer.ApprovedAt = &now

	if err := s.transfers.Save(transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// Cancel: pending transferi iptal eder. Gerekçe zorunludur, defter değişmez.
func (s *TransferService) Cancel(transferID, actorID uint, actorName, reason string) (*models.TransferRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("İptal gerekçesi zorunlu")
	}

	transfer, err := s.transfers.FindByID(transferID)
	if err != nil {
		return nil, err
	}
	if transfer.State != models.TransferPending {
		return nil, apperr.InvalidTransition("Sadece bekleyen transfer iptal edilebilir (durum: %s)", transfer.State)
	}

	now := time.Now()
	transfer.State = models.TransferCancelled
	transfer.CancelReason = reason
	transfer.ApprovedBy = &actorID
	transfer.ApprovedByName = actorName
	transfer.ApprovedAt = &now

	if err := s.transfers.Save(transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

// Delete: pending ve cancelled silinebilir; completed kalıcı denetim kaydıdır.
func (s *TransferService) Delete(transferID uint) error {
	transfer, err := s.transfers.FindByID(transferID)
	if err != nil {
		return err
	}
	if transfer.State == models.TransferCompleted {
		return apperr.Validation("Tamamlanmış transfer silinemez")
	}
	return s.transfers.Delete(transfer)
}

func (s *TransferService) Get(transferID uint) (*models.TransferRequest, error) {
	return s.transfers.FindByID(transferID)
}

func (s *TransferService) List(f TransferFilter) ([]models.TransferRequest, error) {
	return s.transfers.List(f)
}

// validateItems: tüm kalemleri mevcut defter durumuna karşı doğrular ve
// anlık görüntülü kalem kayıtlarını üretir. Hatalar kalem bazında birikir;
// herhangi biri düşerse hiçbir mutasyon yapılmadan hata listesi döner.
func (s *TransferService) validateItems(originID, destID uint, inputs []TransferItemInput) ([]models.TransferItem, error) {
	items := make([]models.TransferItem, 0, len(inputs))
	var itemErrs []apperr.ItemError
	insufficient := false

	for idx, in := range inputs {
		if in.Quantity <= 0 {
			itemErrs = append(itemErrs, apperr.ItemError{
				Index:     idx,
				ProductID: in.ProductID,
				Message:   "Miktar 0'dan büyük olmalı",
			})
			continue
		}

		p, err := s.products.FindByID(in.ProductID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				itemErrs = append(itemErrs, apperr.ItemError{
					Index:     idx,
					ProductID: in.ProductID,
					Message:   "Ürün bulunamadı",
				})
				continue
			}
			return nil, err
		}

		origin := p.BranchStockFor(originID)
		if origin == nil {
			insufficient = true
			itemErrs = append(itemErrs, apperr.ItemError{
				Index:       idx,
				ProductID:   p.ID,
				ProductName: p.Name,
				BranchID:    originID,
				Requested:   in.Quantity,
				Available:   0,
				Message:     "Kaynak şubede stok kaydı yok",
			})
			continue
		}
		if origin.Quantity < in.Quantity {
			insufficient = true
			itemErrs = append(itemErrs, apperr.ItemError{
				Index:       idx,
				ProductID:   p.ID,
				ProductName: p.Name,
				BranchID:    originID,
				Requested:   in.Quantity,
				Available:   origin.Quantity,
				Message:     "Stok yetersiz",
			})
			continue
		}

		destQty := p.BranchQuantity(destID)
		items = append(items, models.TransferItem{
			ProductID:       p.ID,
			ProductName:     p.Name,
			Quantity:        in.Quantity,
			OriginQtyBefore: origin.Quantity,
			OriginQtyAfter:  origin.Quantity - in.Quantity,
			DestQtyBefore:   destQty,
			DestQtyAfter:    destQty + in.Quantity,
		})
	}

	if len(itemErrs) > 0 {
		if insufficient {
			return nil, apperr.InsufficientItems(itemErrs)
		}
		return nil, apperr.ValidationItems(itemErrs)
	}
	return items, nil
}

// applyItems: kalem mutasyonlarını sıralı, ürün başına bağımsız
// read-modify-write olarak uygular ve her kalemden sonra etkilenen
// ikililer için uyarı değerlendirmesi çalıştırır.
func (s *TransferService) applyItems(t *models.TransferRequest) error {
	for i := range t.Items {
		item := &t.Items[i]

		p, err := s.products.FindByID(item.ProductID)
		if err != nil {
			return err
		}

		originName := t.OriginBranchName
		if bs := p.BranchStockFor(t.OriginBranchID); bs != nil {
			originName = bs.BranchName
		}

		item.OriginQtyBefore = p.BranchQuantity(t.OriginBranchID)
		after, err := p.AdjustBranchQuantity(t.OriginBranchID, originName, -item.Quantity)
		if err != nil {
			return err
		}
		item.OriginQtyAfter = after

		item.DestQtyBefore = p.BranchQuantity(t.DestBranchID)
		destAfter, err := p.AdjustBranchQuantity(t.DestBranchID, t.DestBranchName, item.Quantity)
		if err != nil {
			return err
		}
		item.DestQtyAfter = destAfter

		p.RecomputeTotal()
		if err := s.products.SaveWithStocks(p); err != nil {
			return err
		}

		if err := s.evaluatePair(p, t.OriginBranchID); err != nil {
			return err
		}
		if err := s.evaluatePair(p, t.DestBranchID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransferService) evaluatePair(p *models.Product, branchID uint) error {
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
