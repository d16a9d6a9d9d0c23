package inventory

import (
	"strings"

	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Ürün kataloğu: çekirdeğin tükettiği dış yüzey. Sadece defterin ihtiyaç
// duyduğu stok alanlarını taşır, stok miktarları buradan değiştirilemez.

type CreateProductRequest struct {
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	StockCode    string `json:"stock_code"`    // Opsiyonel
	StockMinimum int    `json:"stock_minimum"` // Genel uyarı eşiği
}

type UpdateProductRequest struct {
	Name         *string `json:"name"`
	Unit         *string `json:"unit"`
	StockCode    *string `json:"stock_code"`
	StockMinimum *int    `json:"stock_minimum"`
}

// POST /api/admin/products
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim ve birim zorunlu")
		}
		if body.StockMinimum < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock_minimum negatif olamaz")
		}

		product := models.Product{
			Name:         body.Name,
			Unit:         body.Unit,
			StockCode:    body.StockCode,
			StockMinimum: body.StockMinimum,
		}

		if err := db.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductStockResponse(&product))
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := db.Preload("BranchStocks").First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			product.Name = name
		}
		if body.Unit != nil {
			product.Unit = *body.Unit
		}
		if body.StockCode != nil {
			product.StockCode = *body.StockCode
		}
		if body.StockMinimum != nil {
			if *body.StockMinimum < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "stock_minimum negatif olamaz")
			}
			product.StockMinimum = *body.StockMinimum
		}

		if err := db.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(toProductStockResponse(&product))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/products (tüm authenticated kullanıcılar görebilir)
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := db.Preload("BranchStocks").Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductStockResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductStockResponse(&products[i]))
		}
		return c.JSON(res)
	}
}
