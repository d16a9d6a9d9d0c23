package inventory

import (
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MoveStockRequest struct {
	ProductID      uint   `json:"product_id"`
	OriginBranchID uint   `json:"origin_branch_id"`
	DestBranchID   uint   `json:"dest_branch_id"`
	Quantity       int    `json:"quantity"`
	DestBranchName string `json:"dest_branch_name"` // hedef şubenin stok kaydı yoksa zorunlu
}

type ReceiveStockRequest struct {
	BranchID uint `json:"branch_id"`
	Quantity int  `json:"quantity"`
}

type BranchStockResponse struct {
	BranchID     uint   `json:"branch_id"`
	BranchName   string `json:"branch_name"`
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"min_threshold"`
}

type ProductStockResponse struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Unit         string                `json:"unit"`
	StockCode    string                `json:"stock_code"`
	StockTotal   int                   `json:"stock_total"`
	StockMinimum int                   `json:"stock_minimum"`
	BranchStocks []BranchStockResponse `json:"branch_stocks"`
}

func toProductStockResponse(p *models.Product) ProductStockResponse {
	stocks := make([]BranchStockResponse, 0, len(p.BranchStocks))
	for i := range p.BranchStocks {
		bs := &p.BranchStocks[i]
		stocks = append(stocks, BranchStockResponse{
			BranchID:     bs.BranchID,
			BranchName:   bs.BranchName,
			Quantity:     bs.Quantity,
			MinThreshold: bs.MinThreshold,
		})
	}
	return ProductStockResponse{
		ID:           p.ID,
		Name:         p.Name,
		Unit:         p.Unit,
		StockCode:    p.StockCode,
		StockTotal:   p.StockTotal,
		StockMinimum: p.StockMinimum,
		BranchStocks: stocks,
	}
}

// POST /api/stock/move
func MoveStockHandler(svc *StockService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MoveStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		p, err := svc.MoveStock(MoveStockInput{
			ProductID:      body.ProductID,
			OriginBranchID: body.OriginBranchID,
			DestBranchID:   body.DestBranchID,
			Quantity:       body.Quantity,
			DestBranchName: body.DestBranchName,
		})
		if err != nil {
			return err
		}

		return c.JSON(toProductStockResponse(p))
	}
}

// POST /api/admin/products/:id/stock
func ReceiveStockHandler(svc *StockService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var body ReceiveStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		p, err := svc.ReceiveStock(ReceiveStockInput{
			ProductID: uint(productID),
			BranchID:  body.BranchID,
			Quantity:  body.Quantity,
		})
		if err != nil {
			return err
		}

		return c.JSON(toProductStockResponse(p))
	}
}
