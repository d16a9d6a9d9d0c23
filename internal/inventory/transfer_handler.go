package inventory

import (
	"time"

	"market-backend/internal/auth"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTransferRequest struct {
	OriginBranchID uint                      `json:"origin_branch_id"`
	DestBranchID   uint                      `json:"dest_branch_id"`
	Items          []CreateTransferItemInput `json:"items"`
	Immediate      bool                      `json:"immediate"` // true: anında uygula, false: onaya bırak
	Notes          string                    `json:"notes"`
}

type CreateTransferItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateTransferRequest struct {
	Action       string `json:"action"` // approve | cancel
	CancelReason string `json:"cancel_reason"`
}

type TransferItemResponse struct {
	ID              uint   `json:"id"`
	ProductID       uint   `json:"product_id"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
	OriginQtyBefore int    `json:"origin_qty_before"`
	OriginQtyAfter  int    `json:"origin_qty_after"`
	DestQtyBefore   int    `json:"dest_qty_before"`
	DestQtyAfter    int    `json:"dest_qty_after"`
}

type TransferResponse struct {
	ID               uint                   `json:"id"`
	OriginBranchID   uint                   `json:"origin_branch_id"`
	OriginBranchName string                 `json:"origin_branch_name"`
	DestBranchID     uint                   `json:"dest_branch_id"`
	DestBranchName   string                 `json:"dest_branch_name"`
	State            models.TransferState   `json:"state"`
	TotalItems       int                    `json:"total_items"`
	TotalQuantity    int                    `json:"total_quantity"`
	CreatedBy        uint                   `json:"created_by"`
	CreatedByName    string                 `json:"created_by_name"`
	ApprovedBy       *uint                  `json:"approved_by"`
	ApprovedByName   string                 `json:"approved_by_name,omitempty"`
	ApprovedAt       string                 `json:"approved_at,omitempty"`
	Notes            string                 `json:"notes,omitempty"`
	CancelReason     string                 `json:"cancel_reason,omitempty"`
	CreatedAt        string                 `json:"created_at"`
	Items            []TransferItemResponse `json:"items"`
}

func toTransferResponse(t *models.TransferRequest) TransferResponse {
	items := make([]TransferItemResponse, 0, len(t.Items))
	for i := range t.Items {
		it := &t.Items[i]
		items = append(items, TransferItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			OriginQtyBefore: it.OriginQtyBefore,
			OriginQtyAfter:  it.OriginQtyAfter,
			DestQtyBefore:   it.DestQtyBefore,
			DestQtyAfter:    it.DestQtyAfter,
		})
	}

	res := TransferResponse{
		ID:               t.ID,
		OriginBranchID:   t.OriginBranchID,
		OriginBranchName: t.OriginBranchName,
		DestBranchID:     t.DestBranchID,
		DestBranchName:   t.DestBranchName,
		State:            t.State,
		TotalItems:       t.TotalItems,
		TotalQuantity:    t.TotalQuantity,
		CreatedBy:        t.CreatedBy,
		CreatedByName:    t.CreatedByName,
		ApprovedBy:       t.ApprovedBy,
		ApprovedByName:   t.ApprovedByName,
		Notes:            t.Notes,
		CancelReason:     t.CancelReason,
		CreatedAt:        t.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:            items,
	}
	if t.ApprovedAt != nil {
		res.ApprovedAt = t.ApprovedAt.Format("2006-01-02 15:04:05")
	}
	return res
}

// POST /api/transfers
func CreateTransferHandler(svc *TransferService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actorID, actorName, err := auth.Actor(c)
		if err != nil {
			return err
		}

		items := make([]TransferItemInput, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, TransferItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		transfer, err := svc.Create(CreateTransferInput{
			OriginBranchID: body.OriginBranchID,
			DestBranchID:   body.DestBranchID,
			Items:          items,
			Immediate:      body.Immediate,
			Notes:          body.Notes,
			ActorID:        actorID,
			ActorName:      actorName,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toTransferResponse(transfer))
	}
}

// GET /api/transfers?state=&branch_id=&from=&to=&limit=&skip=
func ListTransfersHandler(svc *TransferService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := TransferFilter{
			State:    models.TransferState(c.Query("state")),
			BranchID: uint(c.QueryInt("branch_id")),
			Limit:    c.QueryInt("limit", 50),
			Skip:     c.QueryInt("skip"),
		}

		if fromStr := c.Query("from"); fromStr != "" {
			d, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from formatı 'YYYY-MM-DD' olmalı")
			}
			f.From = &d
		}
		if toStr := c.Query("to"); toStr != "" {
			d, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to formatı 'YYYY-MM-DD' olmalı")
			}
			// Bitiş günü dahil
			end := d.AddDate(0, 0, 1)
			f.To = &end
		}

		list, err := svc.List(f)
		if err != nil {
			return err
		}

		res := make([]TransferResponse, 0, len(list))
		for i := range list {
			res = append(res, toTransferResponse(&list[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/transfers/:id
func GetTransferHandler(svc *TransferService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz transfer ID")
		}

		transfer, err := svc.Get(uint(id))
		if err != nil {
			return err
		}
		return c.JSON(toTransferResponse(transfer))
	}
}

// PUT /api/transfers/:id  {action: approve|cancel}
func UpdateTransferHandler(svc *TransferService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz transfer ID")
		}

		var body UpdateTransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actorID, actorName, err := auth.Actor(c)
		if err != nil {
			return err
		}

		var transfer *models.TransferRequest
		switch body.Action {
		case "approve":
			transfer, err = svc.Approve(uint(id), actorID, actorName)
		case "cancel":
			transfer, err = svc.Cancel(uint(id), actorID, actorName, body.CancelReason)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "action 'approve' veya 'cancel' olmalı")
		}
		if err != nil {
			return err
		}

		return c.JSON(toTransferResponse(transfer))
	}
}

// DELETE /api/transfers/:id
func DeleteTransferHandler(svc *TransferService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz transfer ID")
		}

		if err := svc.Delete(uint(id)); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}
