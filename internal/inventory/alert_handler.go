package inventory

import (
	"market-backend/internal/auth"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UpdateAlertRequest struct {
	State models.AlertState `json:"state"` // reviewed | resolved
}

type AlertResponse struct {
	ID             uint              `json:"id"`
	ProductID      uint              `json:"product_id"`
	ProductName    string            `json:"product_name"`
	BranchID       uint              `json:"branch_id"`
	BranchName     string            `json:"branch_name"`
	CurrentStock   int               `json:"current_stock"`
	MinThreshold   int               `json:"min_threshold"`
	Type           models.AlertType  `json:"type"`
	State          models.AlertState `json:"state"`
	Message        string            `json:"message"`
	ResolvedBy     *uint             `json:"resolved_by,omitempty"`
	ResolvedByName string            `json:"resolved_by_name,omitempty"`
	ResolvedAt     string            `json:"resolved_at,omitempty"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

func toAlertResponse(a *models.Alert) AlertResponse {
	res := AlertResponse{
		ID:             a.ID,
		ProductID:      a.ProductID,
		ProductName:    a.ProductName,
		BranchID:       a.BranchID,
		BranchName:     a.BranchName,
		CurrentStock:   a.CurrentStock,
		MinThreshold:   a.MinThreshold,
		Type:           a.Type,
		State:          a.State,
		Message:        a.Message,
		ResolvedBy:     a.ResolvedBy,
		ResolvedByName: a.ResolvedByName,
		CreatedAt:      a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.ResolvedAt != nil {
		res.ResolvedAt = a.ResolvedAt.Format("2006-01-02 15:04:05")
	}
	return res
}

// GET /api/alerts?state=&type=&branch_id=
func ListAlertsHandler(svc *AlertService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(AlertFilter{
			State:    models.AlertState(c.Query("state")),
			Type:     models.AlertType(c.Query("type")),
			BranchID: uint(c.QueryInt("branch_id")),
		})
		if err != nil {
			return err
		}

		res := make([]AlertResponse, 0, len(list))
		for i := range list {
			res = append(res, toAlertResponse(&list[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/alerts/:id  {state}
func UpdateAlertHandler(svc *AlertService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz uyarı ID")
		}

		var body UpdateAlertRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.State == "" {
			return fiber.NewError(fiber.StatusBadRequest, "state zorunlu")
		}

		actorID, actorName, err := auth.Actor(c)
		if err != nil {
			return err
		}

		alert, err := svc.Transition(uint(id), body.State, actorID, actorName)
		if err != nil {
			return err
		}
		return c.JSON(toAlertResponse(alert))
	}
}

// DELETE /api/alerts/:id
func DeleteAlertHandler(svc *AlertService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz uyarı ID")
		}

		if err := svc.Delete(uint(id)); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}
