package inventory

import (
	"fmt"
	"time"

	"market-backend/internal/apperr"
	"market-backend/internal/models"
)

// AlertService: düşük stok uyarılarını sınıflandırır, tekilleştirir ve
// durum geçişlerini yönetir.
type AlertService struct {
	alerts AlertStore
}

func NewAlertService(alerts AlertStore) *AlertService {
	return &AlertService{alerts: alerts}
}

// StockSnapshot: bir (ürün, şube) ikilisinin değerlendirme anındaki durumu.
type StockSnapshot struct {
	ProductID    uint
	ProductName  string
	BranchID     uint
	BranchName   string
	CurrentStock int
	MinThreshold int
}

// ClassifyStock: uyarı türü sınıflandırması. Sıra önemli: önce tükenme,
// sonra kritik (eşiğin yarısı, kritik öncelikli), sonra düşük. Eşiğin tam
// yarısındaki stok kritik sayılır.
func ClassifyStock(current, minThreshold int) (models.AlertType, bool) {
	switch {
	case current == 0:
		return models.AlertOut, true
	case 2*current <= minThreshold:
		return models.AlertCritical, true
	case current <= minThreshold:
		return models.AlertLow, true
	default:
		return "", false
	}
}

// Evaluate: ikiliyi sınıflandırır ve gerekiyorsa uyarı açar ya da mevcut
// pending uyarıyı günceller. Eşik aşılmamışsa hiçbir şey yapmaz; var olan
// pending uyarı otomatik kapanmaz, kapatma manuel bir işlemdir.
// reviewed/resolved kayıtlar aynı ikili için yeni pending uyarıyı engellemez.
func (s *AlertService) Evaluate(snap StockSnapshot) (*models.Alert, error) {
	typ, ok := ClassifyStock(snap.CurrentStock, snap.MinThreshold)
	if !ok {
		return nil, nil
	}

	existing, err := s.alerts.FindPendingForPair(snap.ProductID, snap.BranchID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.CurrentStock = snap.CurrentStock
		existing.MinThreshold = snap.MinThreshold
		existing.Type = typ
		existing.Message = alertMessage(snap, typ)
		if err := s.alerts.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	alert := &models.Alert{
		ProductID:    snap.ProductID,
		ProductName:  snap.ProductName,
		BranchID:     snap.BranchID,
		BranchName:   snap.BranchName,
		CurrentStock: snap.CurrentStock,
		MinThreshold: snap.MinThreshold,
		Type:         typ,
		State:        models.AlertPending,
		Message:      alertMessage(snap, typ),
	}
	if err := s.alerts.Create(alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Transition: uyarı durum geçişi. İzinli geçişler:
// pending -> reviewed, pending -> resolved, reviewed -> resolved.
func (s *AlertService) Transition(alertID uint, newState models.AlertState, actorID uint, actorName string) (*models.Alert, error) {
	alert, err := s.alerts.FindByID(alertID)
	if err != nil {
		return nil, err
	}

	if !legalAlertTransition(alert.State, newState) {
		return nil, apperr.InvalidTransition("Uyarı %s durumundan %s durumuna geçirilemez", alert.State, newState)
	}

	alert.State = newState
	if newState == models.AlertResolved {
		now := time.Now()
		alert.ResolvedBy = &actorID
		alert.ResolvedByName = actorName
		alert.ResolvedAt = &now
	}

	if err := s.alerts.Save(alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func legalAlertTransition(from, to models.AlertState) bool {
	switch from {
	case models.AlertPending:
		return to == models.AlertReviewed || to == models.AlertResolved
	case models.AlertReviewed:
		return to == models.AlertResolved
	default:
		return false
	}
}

func (s *AlertService) List(f AlertFilter) ([]models.Alert, error) {
	return s.alerts.List(f)
}

func (s *AlertService) Get(alertID uint) (*models.Alert, error) {
	return s.alerts.FindByID(alertID)
}

// Delete: manuel silme, yalnızca yetkili rol için route seviyesinde açılır.
func (s *AlertService) Delete(alertID uint) error {
	alert, err := s.alerts.FindByID(alertID)
	if err != nil {
		return err
	}
	return s.alerts.Delete(alert)
}

func alertMessage(snap StockSnapshot, typ models.AlertType) string {
	switch typ {
	case models.AlertOut:
		return fmt.Sprintf("%s ürününün %s şubesindeki stoğu tükendi", snap.ProductName, snap.BranchName)
	case models.AlertCritical:
		return fmt.Sprintf("%s ürününün %s şubesindeki stoğu kritik seviyede: %d adet (minimum %d)",
			snap.ProductName, snap.BranchName, snap.CurrentStock, snap.MinThreshold)
	default:
		return fmt.Sprintf("%s ürününün %s şubesindeki stoğu azaldı: %d adet (minimum %d)",
			snap.ProductName, snap.BranchName, snap.CurrentStock, snap.MinThreshold)
	}
}
