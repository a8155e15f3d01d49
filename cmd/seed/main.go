package main

import (
	"time"

	"github.com/niaga-next/internal/config"
	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/logger"
	"github.com/niaga-next/internal/models"
)

func main() {
	// 连接数据库
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

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "web-development", Name: "Web Development", SortOrder: 1},
		{Slug: "graphic-design", Name: "Graphic Design", SortOrder: 2},
		{Slug: "consulting", Name: "Consulting", SortOrder: 3},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"web-development", "graphic-design", "consulting"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加服务与套餐
	services := []models.Service{
		{
			CategoryID:  categoryIDs["web-development"],
			Slug:        "landing-page",
			Name:        "Landing Page",
			Description: "Single page site with responsive layout and contact form.",
			IsActive:    true,
			SortOrder:   1,
			Packages: []models.ServicePackage{
				{Name: "Basic", Price: models.NewMoneyFromFloat(750000), Description: "1 section revision, 5 business days", IsActive: true, SortOrder: 1},
				{Name: "Premium", Price: models.NewMoneyFromFloat(1500000), Description: "Unlimited revisions, 3 business days, SEO setup", IsActive: true, SortOrder: 2},
			},
		},
		{
			CategoryID:  categoryIDs["graphic-design"],
			Slug:        "logo-design",
			Name:        "Logo Design",
			Description: "Custom logo with brand color palette.",
			IsActive:    true,
			SortOrder:   2,
			Packages: []models.ServicePackage{
				{Name: "Standard", Price: models.NewMoneyFromFloat(350000), Description: "3 concepts, 2 revisions", IsActive: true, SortOrder: 1},
				{Name: "Full Branding", Price: models.NewMoneyFromFloat(1200000), Description: "Logo, stationery and brand guideline", IsActive: true, SortOrder: 2},
			},
		},
		{
			CategoryID:  categoryIDs["consulting"],
			Slug:        "seo-audit",
			Name:        "SEO Audit",
			Description: "Technical and content audit with action plan.",
			IsActive:    true,
			SortOrder:   3,
			Packages: []models.ServicePackage{
				{Name: "Audit Only", Price: models.NewMoneyFromFloat(500000), Description: "Report delivered in 7 days", IsActive: true, SortOrder: 1},
			},
		},
	}
	for _, svc := range services {
		var existing models.Service
		if err := models.DB.Where("slug = ?", svc.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&svc).Error; err != nil {
				stdLog.Printf("Failed to create service %s: %v", svc.Slug, err)
			} else {
				stdLog.Printf("Created service: %s", svc.Slug)
			}
		} else {
			stdLog.Printf("Service already exists: %s", svc.Slug)
		}
	}

	// 添加商店商品
	items := []models.StoreItem{
		{Slug: "icon-pack", Name: "Icon Pack", Description: "120 vector icons in SVG and PNG.", Price: models.NewMoneyFromFloat(15000), Stock: constants.StoreStockUnlimited, IsActive: true, SortOrder: 1},
		{Slug: "resume-template", Name: "Resume Template", Description: "Editable resume template for Figma.", Price: models.NewMoneyFromFloat(25000), Stock: 100, IsActive: true, SortOrder: 2},
		{Slug: "invoice-template", Name: "Invoice Template", Description: "Spreadsheet invoice template with tax formulas.", Price: models.NewMoneyFromFloat(20000), Stock: 50, IsActive: true, SortOrder: 3},
	}
	for _, item := range items {
		var existing models.StoreItem
		if err := models.DB.Where("slug = ?", item.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&item).Error; err != nil {
				stdLog.Printf("Failed to create store item %s: %v", item.Slug, err)
			} else {
				stdLog.Printf("Created store item: %s", item.Slug)
			}
		} else {
			stdLog.Printf("Store item already exists: %s", item.Slug)
		}
	}

	// 添加文章
	now := time.Now()
	posts := []models.Post{
		{
			Slug:        "welcome",
			Type:        constants.PostTypeBlog,
			Title:       "Welcome to Our New Site",
			Summary:     "We moved to a faster platform with online ordering.",
			Content:     "Our catalog, store and order tracking now live in one place. Browse the services, pick a package and pay by bank transfer.",
			IsPublished: true,
			PublishedAt: &now,
		},
		{
			Slug:        "payment-verification",
			Type:        constants.PostTypeNotice,
			Title:       "How Payment Verification Works",
			Summary:     "Payments are checked manually within one business day.",
			Content:     "After you transfer the invoice amount, our admin verifies the payment and you will receive a confirmation message.",
			IsPublished: true,
			PublishedAt: &now,
		},
	}
	for _, post := range posts {
		var existing models.Post
		if err := models.DB.Where("slug = ?", post.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&post).Error; err != nil {
				stdLog.Printf("Failed to create post %s: %v", post.Slug, err)
			} else {
				stdLog.Printf("Created post: %s", post.Slug)
			}
		} else {
			stdLog.Printf("Post already exists: %s", post.Slug)
		}
	}

	// 添加折扣
	ends := now.AddDate(0, 3, 0)
	discounts := []models.Discount{
		{
			Code:        "NAIA2024",
			Kind:        constants.DiscountKindCode,
			ValueType:   constants.DiscountValuePercentage,
			Value:       models.NewMoneyFromFloat(10),
			AppliesTo:   constants.DiscountAppliesAll,
			MinOrderAmt: models.NewMoneyFromFloat(100000),
			MaxDiscount: models.NewMoneyFromFloat(150000),
			UsageLimit:  200,
			StartsAt:    &now,
			EndsAt:      &ends,
			IsActive:    true,
		},
		{
			Code:      "LAUNCH",
			Kind:      constants.DiscountKindAuto,
			ValueType: constants.DiscountValueFixed,
			Value:     models.NewMoneyFromFloat(5000),
			AppliesTo: constants.DiscountAppliesStore,
			IsActive:  true,
		},
	}
	for _, discount := range discounts {
		var existing models.Discount
		if err := models.DB.Where("code = ?", discount.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&discount).Error; err != nil {
				stdLog.Printf("Failed to create discount %s: %v", discount.Code, err)
			} else {
				stdLog.Printf("Created discount: %s", discount.Code)
			}
		} else {
			stdLog.Printf("Discount already exists: %s", discount.Code)
		}
	}

	stdLog.Println("Seed finished")
}
