package models

import "time"

type AlertType string

const (
	AlertLow      AlertType = "low"      // stok <= eşik
	AlertCritical AlertType = "critical" // stok <= eşiğin yarısı
	AlertOut      AlertType = "out"      // stok tükendi
)

type AlertState string

const (
	AlertPending  AlertState = "pending"
	AlertReviewed AlertState = "reviewed"
	AlertResolved AlertState = "resolved"
)

// Alert: bir (ürün, şube) ikilisi için düşük stok uyarısı. Aynı ikili için
// pending durumda en fazla bir kayıt bulunur; reviewed/resolved kayıtlar
// yeni bir pending kaydın açılmasını engellemez.
type Alert struct {
	ID             uint       `gorm:"primaryKey"`
	ProductID      uint       `gorm:"index:idx_alert_pair;not null"`
	ProductName    string     `gorm:"size:100;not null"`
	BranchID       uint       `gorm:"index:idx_alert_pair;not null"`
	BranchName     string     `gorm:"size:100;not null"`
	CurrentStock   int        `gorm:"not null"`
	MinThreshold   int        `gorm:"not null"`
	Type           AlertType  `gorm:"size:20;index;not null"`
	State          AlertState `gorm:"size:20;index;not null"`
	Message        string     `gorm:"size:255;not null"`
	ResolvedBy     *uint
	ResolvedByName string `gorm:"size:100"`
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
