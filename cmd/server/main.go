package main

import (
	"errors"
	"log"
	"strings"

	"market-backend/internal/admin"
	"market-backend/internal/apperr"
	"market-backend/internal/auth"
	"market-backend/internal/config"
	"market-backend/internal/database"
	"market-backend/internal/inventory"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// Store ve servis bağımlılıkları burada açıkça kurulur, global yok
	stores := inventory.NewStores(db)
	alertSvc := inventory.NewAlertService(stores.Alerts)
	stockSvc := inventory.NewStockService(stores.Products, stores.Branches, alertSvc)
	transferSvc := inventory.NewTransferService(stores.Products, stores.Transfers, stores.Branches, alertSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				body := fiber.Map{
					"error": appErr.Message,
					"kind":  appErr.Kind,
				}
				if len(appErr.Items) > 0 {
					body["items"] = appErr.Items
				}
				return c.Status(apperr.HTTPStatus(appErr.Kind)).JSON(body)
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Beklenmeyen hata:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg, db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Şube yönetimi
	adminRoutes.Post("/branches", admin.CreateBranchHandler(db))
	adminRoutes.Get("/branches", admin.ListBranchesHandler(db))
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler(db))
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler(db))
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler(db))
	adminRoutes.Post("/branches/:id/admin", admin.CreateBranchAdminHandler(db))
	adminRoutes.Get("/branches/:id/admins", admin.ListBranchAdminsHandler(db))

	// Ürün yönetimi ve stok girişi
	adminRoutes.Post("/products", inventory.CreateProductHandler(db))
	adminRoutes.Put("/products/:id", inventory.UpdateProductHandler(db))
	adminRoutes.Delete("/products/:id", inventory.DeleteProductHandler(db))
	adminRoutes.Post("/products/:id/stock", inventory.ReceiveStockHandler(stockSvc))

	// Ürün listesi
	protected.Get("/products", inventory.ListProductsHandler(db))

	// Doğrudan stok taşıma
	protected.Post("/stock/move", inventory.MoveStockHandler(stockSvc))

	// Transferler: oluşturma ve tam listeleme merkez (super admin) yetkisi,
	// onay/iptal ve görüntüleme şube personeline açık
	requireSuperAdmin := auth.RequireRole(models.RoleSuperAdmin)
	protected.Post("/transfers", requireSuperAdmin, inventory.CreateTransferHandler(transferSvc))
	protected.Get("/transfers", requireSuperAdmin, inventory.ListTransfersHandler(transferSvc))
	protected.Get("/transfers/:id", inventory.GetTransferHandler(transferSvc))
	protected.Put("/transfers/:id", inventory.UpdateTransferHandler(transferSvc))
	protected.Delete("/transfers/:id", inventory.DeleteTransferHandler(transferSvc))

	// Düşük stok uyarıları
	protected.Get("/alerts", inventory.ListAlertsHandler(alertSvc))
	protected.Put("/alerts/:id", inventory.UpdateAlertHandler(alertSvc))
	protected.Delete("/alerts/:id", requireSuperAdmin, inventory.DeleteAlertHandler(alertSvc))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
