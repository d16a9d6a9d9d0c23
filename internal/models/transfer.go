package models

import "time"

type TransferState string

const (
	TransferPending   TransferState = "pending"
	TransferCompleted TransferState = "completed"
	TransferCancelled TransferState = "cancelled"
)

// TransferRequest: şubeler arası stok transferi kaydı.
// pending -> completed (onay) veya pending -> cancelled (iptal); terminal
// durumdaki kayıt değişmez. completed kayıtlar denetim izi olarak kalıcıdır,
// sadece pending/cancelled silinebilir.
type TransferRequest struct {
	ID               uint          `gorm:"primaryKey"`
	OriginBranchID   uint          `gorm:"index;not null"`
	OriginBranchName string        `gorm:"size:100;not null"`
	DestBranchID     uint          `gorm:"index;not null"`
	DestBranchName   string        `gorm:"size:100;not null"`
	State            TransferState `gorm:"size:20;index;not null"`
	TotalItems       int           `gorm:"not null"` // kalem sayısı
	TotalQuantity    int           `gorm:"not null"` // kalem miktarları toplamı
	CreatedBy        uint          `gorm:"not null"`
	CreatedByName    string        `gorm:"size:100;not null"`
	ApprovedBy       *uint         // onay veya iptal eden kullanıcı
	ApprovedByName   string        `gorm:"size:100"`
	ApprovedAt       *time.Time
	Notes            string `gorm:"size:255"`
	CancelReason     string `gorm:"size:255"` // cancelled durumunda zorunlu
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items []TransferItem `gorm:"foreignKey:TransferRequestID;constraint:OnDelete:CASCADE"`
}

// TransferItem: transfer içindeki tek ürün kalemi. Before/After alanları
// doğrulama anındaki anlık görüntüdür; pending transferde deftere henüz
// uygulanmamıştır.
type TransferItem struct {
	ID                uint   `gorm:"primaryKey"`
	TransferRequestID uint   `gorm:"index;not null"`
	ProductID         uint   `gorm:"index;not null"`
	ProductName       string `gorm:"size:100;not null"`
	Quantity          int    `gorm:"not null"`
	OriginQtyBefore   int    `gorm:"not null"`
	OriginQtyAfter    int    `gorm:"not null"`
	DestQtyBefore     int    `gorm:"not null"`
	DestQtyAfter      int    `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Terminal: kayıt artık değiştirilemez durumda mı?
func (t *TransferRequest) Terminal() bool {
	return t.State == TransferCompleted || t.State == TransferCancelled
}
