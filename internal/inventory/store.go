package inventory

import (
	"errors"
	"time"

	"market-backend/internal/apperr"
	"market-backend/internal/models"

	"gorm.io/gorm"
)

// Store arayüzleri: servisler somut GORM tiplerine değil bu arayüzlere
// bağlanır, bağımlılıklar main'de kurulur.

type ProductStore interface {
	FindByID(id uint) (*models.Product, error)
	// SaveWithStocks: toplam + şube satırlarını tek veritabanı
	// transaction'ında yazar. Version alanı eşleşmezse kayıt başka bir
	// istek tarafından değiştirilmiş demektir; conflict hatası döner ve
	// hiçbir şey yazılmaz.
	SaveWithStocks(p *models.Product) error
}

type TransferStore interface {
	Create(t *models.TransferRequest) error
	FindByID(id uint) (*models.TransferRequest, error)
	Save(t *models.TransferRequest) error
	Delete(t *models.TransferRequest) error
	List(f TransferFilter) ([]models.TransferRequest, error)
}

type AlertStore interface {
	FindPendingForPair(productID, branchID uint) (*models.Alert, error) // yoksa nil
	Create(a *models.Alert) error
	FindByID(id uint) (*models.Alert, error)
	Save(a *models.Alert) error
	Delete(a *models.Alert) error
	List(f AlertFilter) ([]models.Alert, error)
}

// BranchDirectory: şube dizini (dış bileşen). Çekirdek sadece isim
// çözümlemesi için tüketir.
type BranchDirectory interface {
	BranchName(id uint) (string, error)
}

type TransferFilter struct {
	State    models.TransferState // boşsa hepsi
	BranchID uint                 // 0 değilse origin veya hedef eşleşmesi
	From     *time.Time
	To       *time.Time
	Limit    int
	Skip     int
}

type AlertFilter struct {
	State    models.AlertState
	Type     models.AlertType
	BranchID uint
}

type Stores struct {
	Products  ProductStore
	Transfers TransferStore
	Alerts    AlertStore
	Branches  BranchDirectory
}

func NewStores(db *gorm.DB) Stores {
	return Stores{
		Products:  &gormProductStore{db: db},
		Transfers: &gormTransferStore{db: db},
		Alerts:    &gormAlertStore{db: db},
		Branches:  &gormBranchDirectory{db: db},
	}
}

// ----------------------------------------
// GORM implementasyonları
// ----------------------------------------

type gormProductStore struct{ db *gorm.DB }

func (s *gormProductStore) FindByID(id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.Preload("BranchStocks").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Ürün bulunamadı (ID: %d)", id)
	}
	if err != nil {
		return nil, apperr.Persistence("Ürün yüklenemedi", err)
	}
	return &p, nil
}

func (s *gormProductStore) SaveWithStocks(p *models.Product) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND version = ?", p.ID, p.Version).
			Updates(map[string]any{
				"stock_total": p.StockTotal,
				"version":     p.Version + 1,
			})
		if res.Error != nil {
			return apperr.Persistence("Ürün kaydedilemedi", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("%s ürünü başka bir işlem tarafından değiştirildi, tekrar deneyin", p.Name)
		}

		for i := range p.BranchStocks {
			bs := &p.BranchStocks[i]
			bs.ProductID = p.ID
			if err := tx.Save(bs).Error; err != nil {
				return apperr.Persistence("Şube stoğu kaydedilemedi", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.Version++
	return nil
}

type gormTransferStore struct{ db *gorm.DB }

func (s *gormTransferStore) Create(t *models.TransferRequest) error {
	if err := s.db.Create(t).Error; err != nil {
		return apperr.Persistence("Transfer kaydedilemedi", err)
	}
	return nil
}

func (s *gormTransferStore) FindByID(id uint) (*models.TransferRequest, error) {
	var t models.TransferRequest
	err := s.db.Preload("Items").First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Transfer bulunamadı (ID: %d)", id)
	}
	if err != nil {
		return nil, apperr.Persistence("Transfer yüklenemedi", err)
	}
	return &t, nil
}

func (s *gormTransferStore) Save(t *models.TransferRequest) error {
	if err := s.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(t).Error; err != nil {
		return apperr.Persistence("Transfer güncellenemedi", err)
	}
	return nil
}

func (s *gormTransferStore) Delete(t *models.TransferRequest) error {
	if err := s.db.Select("Items").Delete(t).Error; err != nil {
		return apperr.Persistence("Transfer silinemedi", err)
	}
	return nil
}

func (s *gormTransferStore) List(f TransferFilter) ([]models.TransferRequest, error) {
	q := s.db.Model(&models.TransferRequest{}).Preload("Items")

	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if f.BranchID != 0 {
		q = q.Where("origin_branch_id = ? OR dest_branch_id = ?", f.BranchID, f.BranchID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Skip > 0 {
		q = q.Offset(f.Skip)
	}

	var list []models.TransferRequest
	if err := q.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, apperr.Persistence("Transferler listelenemedi", err)
	}
	return list, nil
}

type gormAlertStore struct{ db *gorm.DB }

func (s *gormAlertStore) FindPendingForPair(productID, branchID uint) (*models.Alert, error) {
	var a models.Alert
	err := s.db.
		Where("product_id = ? AND branch_id = ? AND state = ?", productID, branchID, models.AlertPending).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("Uyarı sorgulanamadı", err)
	}
	return &a, nil
}

func (s *gormAlertStore) Create(a *models.Alert) error {
	if err := s.db.Create(a).Error; err != nil {
		return apperr.Persistence("Uyarı kaydedilemedi", err)
	}
	return nil
}

func (s *gormAlertStore) FindByID(id uint) (*models.Alert, error) {
	var a models.Alert
	err := s.db.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Uyarı bulunamadı (ID: %d)", id)
	}
	if err != nil {
		return nil, apperr.Persistence("Uyarı yüklenemedi", err)
	}
	return &a, nil
}

func (s *gormAlertStore) Save(a *models.Alert) error {
	if err := s.db.Save(a).Error; err != nil {
		return apperr.Persistence("Uyarı güncellenemedi", err)
	}
	return nil
}

func (s *gormAlertStore) Delete(a *models.Alert) error {
	if err := s.db.Delete(a).Error; err != nil {
		return apperr.Persistence("Uyarı silinemedi", err)
	}
	return nil
}

func (s *gormAlertStore) List(f AlertFilter) ([]models.Alert, error) {
	q := s.db.Model(&models.Alert{})

	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.BranchID != 0 {
		q = q.Where("branch_id = ?", f.BranchID)
	}

	var list []models.Alert
	if err := q.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, apperr.Persistence("Uyarılar listelenemedi", err)
	}
	return list, nil
}

type gormBranchDirectory struct{ db *gorm.DB }

func (s *gormBranchDirectory) BranchName(id uint) (string, error) {
	var b models.Branch
	err := s.db.Select("id", "name").First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFound("Şube bulunamadı (ID: %d)", id)
	}
	if err != nil {
		return "", apperr.Persistence("Şube sorgulanamadı", err)
	}
	return b.Name, nil
}
