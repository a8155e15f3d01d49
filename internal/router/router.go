package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/niaga-next/internal/authz"
	"github.com/niaga-next/internal/cache"
	"github.com/niaga-next/internal/config"
	adminhandlers "github.com/niaga-next/internal/http/handlers/admin"
	publichandlers "github.com/niaga-next/internal/http/handlers/public"
	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/logger"
	"github.com/niaga-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ng"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/categories", publicHandler.GetPublicCategories)
			public.GET("/services", publicHandler.GetPublicServices)
			public.GET("/services/:slug", publicHandler.GetPublicService)
			public.GET("/store-items", publicHandler.GetPublicStoreItems)
			public.GET("/store-items/:slug", publicHandler.GetPublicStoreItem)
			public.GET("/posts", publicHandler.GetPublicPosts)
			public.GET("/posts/:slug", publicHandler.GetPublicPost)
		}

		// 游客下单接口
		guest := apiV1.Group("/guest")
		{
			guest.POST("/service-orders/quote", publicHandler.QuoteServiceOrder)
			guest.POST("/service-orders", RateLimitMiddleware(redisClient, checkoutRule, KeyByIPAndJSONField("customer_email")), publicHandler.CreateServiceOrder)
			guest.GET("/service-orders/lookup", publicHandler.LookupServiceOrder)
			guest.POST("/store-purchases/quote", publicHandler.QuoteStorePurchase)
			guest.POST("/store-purchases", RateLimitMiddleware(redisClient, checkoutRule, KeyByIPAndJSONField("customer_email")), publicHandler.CreateStorePurchase)
			guest.GET("/store-purchases/lookup", publicHandler.LookupStorePurchase)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/profile", adminHandler.GetAdminProfile)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 分类管理
				authorized.GET("/categories", adminHandler.GetAdminCategories)
				authorized.POST("/categories", adminHandler.CreateAdminCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateAdminCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteAdminCategory)

				// 服务与套餐管理
				authorized.GET("/services", adminHandler.GetAdminServices)
				authorized.GET("/services/:id", adminHandler.GetAdminService)
				authorized.POST("/services", adminHandler.CreateAdminService)
				authorized.PUT("/services/:id", adminHandler.UpdateAdminService)
				authorized.DELETE("/services/:id", adminHandler.DeleteAdminService)
				authorized.POST("/services/:id/packages", adminHandler.CreateAdminPackage)
				authorized.PUT("/packages/:id", adminHandler.UpdateAdminPackage)
				authorized.DELETE("/packages/:id", adminHandler.DeleteAdminPackage)

				// 商店商品管理
				authorized.GET("/store-items", adminHandler.GetAdminStoreItems)
				authorized.GET("/store-items/:id", adminHandler.GetAdminStoreItem)
				authorized.POST("/store-items", adminHandler.CreateAdminStoreItem)
				authorized.PUT("/store-items/:id", adminHandler.UpdateAdminStoreItem)
				authorized.DELETE("/store-items/:id", adminHandler.DeleteAdminStoreItem)

				// 文章管理
				authorized.GET("/posts", adminHandler.GetAdminPosts)
				authorized.GET("/posts/:id", adminHandler.GetAdminPost)
				authorized.POST("/posts", adminHandler.CreateAdminPost)
				authorized.PUT("/posts/:id", adminHandler.UpdateAdminPost)
				authorized.DELETE("/posts/:id", adminHandler.DeleteAdminPost)

				// 折扣管理
				authorized.GET("/discounts", adminHandler.GetAdminDiscounts)
				authorized.GET("/discounts/:id", adminHandler.GetAdminDiscount)
				authorized.POST("/discounts", adminHandler.CreateAdminDiscount)
				authorized.PUT("/discounts/:id", adminHandler.UpdateAdminDiscount)
				authorized.DELETE("/discounts/:id", adminHandler.DeleteAdminDiscount)
				authorized.POST("/discounts/generate-code", adminHandler.GenerateAdminDiscountCode)
				authorized.GET("/discounts/:id/usages", adminHandler.GetAdminDiscountUsages)

				// 服务订单管理
				authorized.GET("/service-orders", adminHandler.GetAdminServiceOrders)
				authorized.GET("/service-orders/:id", adminHandler.GetAdminServiceOrder)
				authorized.PATCH("/service-orders/:id/status", adminHandler.UpdateAdminServiceOrderStatus)
				authorized.PATCH("/service-orders/status", adminHandler.BulkUpdateAdminServiceOrderStatus)
				authorized.DELETE("/service-orders/:id", adminHandler.DeleteAdminServiceOrder)
				authorized.POST("/service-orders/batch-delete", adminHandler.BulkDeleteAdminServiceOrders)

				// 商店购买管理
				authorized.GET("/store-purchases", adminHandler.GetAdminStorePurchases)
				authorized.GET("/store-purchases/:id", adminHandler.GetAdminStorePurchase)
				authorized.PATCH("/store-purchases/:id/status", adminHandler.UpdateAdminStorePurchaseStatus)
				authorized.PATCH("/store-purchases/status", adminHandler.BulkUpdateAdminStorePurchaseStatus)
				authorized.DELETE("/store-purchases/:id", adminHandler.DeleteAdminStorePurchase)
				authorized.POST("/store-purchases/batch-delete", adminHandler.BulkDeleteAdminStorePurchases)

				// 权限管理
				authorized.GET("/authz/roles", adminHandler.GetAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzRolePolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzRolePolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAdminRoleBindings)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAdminRoleBindings)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
