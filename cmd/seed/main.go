package main

import (
	"fmt"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/config"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/logger"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// Categories
	categories := []models.Category{
		{Name: "Planters"},
		{Name: "Decor"},
		{Name: "Candles"},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Name, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Name)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Name)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("name IN ?", []string{"Planters", "Decor", "Candles"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Name] = cat.ID
	}

	// Products with a matching inventory record each
	type productPlan struct {
		Product models.Product
		Stock   int
	}
	plans := []productPlan{
		{
			Product: models.Product{
				ProductNo:   "PB-PL-0001",
				Name:        "Terracotta Planter, 8 inch",
				Description: "Classic unglazed terracotta with a drainage dish.",
				CategoryID:  categoryIDs["Planters"],
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(24.99)),
				Thumbnail:   "https://images.unsplash.com/photo-1485955900006-10f4d324d411?w=800",
				IsActive:    true,
			},
			Stock: 40,
		},
		{
			Product: models.Product{
				ProductNo:   "PB-PL-0002",
				Name:        "Ceramic Hanging Planter",
				Description: "Glazed white ceramic with a braided cotton hanger.",
				CategoryID:  categoryIDs["Planters"],
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(34.50)),
				Thumbnail:   "https://images.unsplash.com/photo-1463320726281-696a485928c7?w=800",
				IsActive:    true,
			},
			Stock: 25,
		},
		{
			Product: models.Product{
				ProductNo:   "PB-DC-0001",
				Name:        "Woven Seagrass Basket",
				Description: "Hand-woven storage basket with leather handles.",
				CategoryID:  categoryIDs["Decor"],
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(42.00)),
				Thumbnail:   "https://images.unsplash.com/photo-1519710164239-da123dc03ef4?w=800",
				IsActive:    true,
			},
			Stock: 18,
		},
		{
			Product: models.Product{
				ProductNo:   "PB-DC-0002",
				Name:        "Linen Table Runner",
				Description: "Stonewashed linen, 72 inch, natural flax.",
				CategoryID:  categoryIDs["Decor"],
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(28.00)),
				Thumbnail:   "https://images.unsplash.com/photo-1522771739844-6a9f6d5f14af?w=800",
				IsActive:    true,
			},
			Stock: 60,
		},
		{
			Product: models.Product{
				ProductNo:   "PB-CA-0001",
				Name:        "Peach Blossom Soy Candle",
				Description: "Signature scent, 40 hour burn, reusable jar.",
				CategoryID:  categoryIDs["Candles"],
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(18.50)),
				Thumbnail:   "https://images.unsplash.com/photo-1602874801007-bd458bb1b8b6?w=800",
				IsActive:    true,
			},
			Stock: 120,
		},
		{
			Product: models.Product{
				ProductNo:   "PB-CA-0002",
				Name:        "Cedar & Sage Candle",
				Description: "Small batch, low stock demo item.",
				CategoryID:  categoryIDs["Candles"],
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(22.00)),
				Thumbnail:   "https://images.unsplash.com/photo-1603006905003-be475563bc59?w=800",
				IsActive:    true,
			},
			Stock: 3,
		},
		{
			Product: models.Product{
				ProductNo:   "PB-CA-0003",
				Name:        "Discontinued Votive Set",
				Description: "Retired product, kept for order history.",
				CategoryID:  categoryIDs["Candles"],
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(12.00)),
				IsActive:    false,
			},
			Stock: 0,
		},
	}

	for _, plan := range plans {
		prod := plan.Product
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.ProductNo)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("product_no = ?", prod.ProductNo).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.ProductNo, err)
				continue
			}
			stdLog.Printf("Created product: %s", prod.ProductNo)
		} else {
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.CategoryID = prod.CategoryID
			existing.PriceAmount = prod.PriceAmount
			existing.Thumbnail = prod.Thumbnail
			existing.IsActive = prod.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.ProductNo, err)
				continue
			}
			stdLog.Printf("Updated product: %s", prod.ProductNo)
		}

		var record models.InventoryRecord
		if err := models.DB.Where("product_no = ?", prod.ProductNo).First(&record).Error; err != nil {
			record = models.InventoryRecord{ProductNo: prod.ProductNo, Stock: plan.Stock}
			if err := models.DB.Create(&record).Error; err != nil {
				stdLog.Printf("Failed to create inventory for %s: %v", prod.ProductNo, err)
			}
		} else {
			record.Stock = plan.Stock
			if err := models.DB.Save(&record).Error; err != nil {
				stdLog.Printf("Failed to update inventory for %s: %v", prod.ProductNo, err)
			}
		}
	}

	// Promotions: one product-scoped, one category-scoped, one expired
	now := time.Now()
	springStart := now.Add(-24 * time.Hour)
	springEnd := now.AddDate(0, 1, 0)
	lastYearStart := now.AddDate(-1, 0, 0)
	lastYearEnd := now.AddDate(-1, 1, 0)

	type promotionPlan struct {
		Promotion models.Promotion
		Scopes    []models.ProductPromotion
	}
	promotionPlans := []promotionPlan{
		{
			Promotion: models.Promotion{
				Name:         "Spring Candle Sale",
				DiscountType: constants.DiscountTypePercentage,
				Value:        models.NewMoneyFromDecimal(decimal.NewFromFloat(0.15)),
				StartsAt:     &springStart,
				EndsAt:       &springEnd,
				IsActive:     true,
			},
			Scopes: []models.ProductPromotion{
				{ScopeType: constants.ScopeTypeCategory, CategoryID: categoryIDs["Candles"]},
			},
		},
		{
			Promotion: models.Promotion{
				Name:         "Hanging Planter Intro Offer",
				DiscountType: constants.DiscountTypeFixed,
				Value:        models.NewMoneyFromDecimal(decimal.NewFromFloat(5.00)),
				StartsAt:     &springStart,
				EndsAt:       &springEnd,
				IsActive:     true,
			},
			Scopes: []models.ProductPromotion{
				{ScopeType: constants.ScopeTypeProduct, ProductNo: "PB-PL-0002"},
			},
		},
		{
			Promotion: models.Promotion{
				Name:         "Last Year Clearance",
				DiscountType: constants.DiscountTypePercentage,
				Value:        models.NewMoneyFromDecimal(decimal.NewFromFloat(0.30)),
				StartsAt:     &lastYearStart,
				EndsAt:       &lastYearEnd,
				IsActive:     true,
			},
			Scopes: []models.ProductPromotion{
				{ScopeType: constants.ScopeTypeCategory, CategoryID: categoryIDs["Decor"]},
			},
		},
	}

	for _, plan := range promotionPlans {
		promo := plan.Promotion
		var existing models.Promotion
		if err := models.DB.Where("name = ?", promo.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&promo).Error; err != nil {
				stdLog.Printf("Failed to create promotion %s: %v", promo.Name, err)
				continue
			}
			stdLog.Printf("Created promotion: %s", promo.Name)
		} else {
			promo.ID = existing.ID
			if err := models.DB.Save(&promo).Error; err != nil {
				stdLog.Printf("Failed to update promotion %s: %v", promo.Name, err)
				continue
			}
			stdLog.Printf("Updated promotion: %s", promo.Name)
		}
		for _, scope := range plan.Scopes {
			scope.PromotionID = promo.ID
			var existingScope models.ProductPromotion
			query := models.DB.Where("promotion_id = ? AND scope_type = ?", scope.PromotionID, scope.ScopeType)
			if scope.ScopeType == constants.ScopeTypeProduct {
				query = query.Where("product_no = ?", scope.ProductNo)
			} else {
				query = query.Where("category_id = ?", scope.CategoryID)
			}
			if err := query.First(&existingScope).Error; err != nil {
				if err := models.DB.Create(&scope).Error; err != nil {
					stdLog.Printf("Failed to create promotion scope for %s: %v", promo.Name, err)
				}
			}
		}
	}

	// Demo customer plus a token so the customer surface can be exercised
	// without the account service running.
	customer := models.Customer{Username: "demo-shopper", Email: "demo@peachblossom.shop"}
	var existingCustomer models.Customer
	if err := models.DB.Where("username = ?", customer.Username).First(&existingCustomer).Error; err != nil {
		if err := models.DB.Create(&customer).Error; err != nil {
			stdLog.Printf("Failed to create customer %s: %v", customer.Username, err)
		} else {
			stdLog.Printf("Created customer: %s", customer.Username)
			existingCustomer = customer
		}
	} else {
		stdLog.Printf("Customer already exists: %s", customer.Username)
	}
	if existingCustomer.ID != 0 && cfg.JWT.SecretKey != "" {
		token, expiresAt, err := service.GenerateCustomerJWT(&existingCustomer, cfg.JWT.SecretKey, cfg.JWT.ExpireHours)
		if err != nil {
			stdLog.Printf("Failed to sign demo token: %v", err)
		} else {
			fmt.Printf("\nDemo customer token (expires %s):\n%s\n", expiresAt.Format(time.RFC3339), token)
		}
	}

	fmt.Println("\nSeed data created successfully.")
	fmt.Println("Summary:")
	fmt.Println("- 3 categories")
	fmt.Println("- 7 products with inventory records")
	fmt.Println("- 3 promotions (one expired)")
	fmt.Println("- 1 demo customer")
}
