package service

import (
	"strings"
	"time"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/logger"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/queue"
	"github.com/niaga-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxPurchaseQuantity = 99

// PurchaseService 商店购买业务服务
type PurchaseService struct {
	purchaseRepo    repository.StorePurchaseRepository
	itemRepo        repository.StoreItemRepository
	discountRepo    repository.DiscountRepository
	usageRepo       repository.DiscountUsageRepository
	discountService *DiscountService
	queueClient     *queue.Client
}

// NewPurchaseService 创建商店购买服务
func NewPurchaseService(purchaseRepo repository.StorePurchaseRepository, itemRepo repository.StoreItemRepository, discountRepo repository.DiscountRepository, usageRepo repository.DiscountUsageRepository, discountService *DiscountService, queueClient *queue.Client) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:    purchaseRepo,
		itemRepo:        itemRepo,
		discountRepo:    discountRepo,
		usageRepo:       usageRepo,
		discountService: discountService,
		queueClient:     queueClient,
	}
}

// CreateStorePurchaseInput 创建商店购买输入
type CreateStorePurchaseInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	StoreItemID   uint
	Quantity      int
	DiscountCode  string
	Note          string
}

// Create 创建商店购买。
// 库存扣减、折扣核销与订单落库在同一事务内，
// 库存不足或折扣超限时整体回滚。
func (s *PurchaseService) Create(input CreateStorePurchaseInput) (*models.StorePurchase, error) {
	name := strings.TrimSpace(input.CustomerName)
	email := strings.TrimSpace(input.CustomerEmail)
	if name == "" || email == "" {
		return nil, ErrOrderValidation
	}
	if input.Quantity < 1 || input.Quantity > maxPurchaseQuantity {
		return nil, ErrInvalidQuantity
	}

	item, err := s.resolveItem(input.StoreItemID)
	if err != nil {
		return nil, err
	}

	subtotal := models.NewMoneyFromDecimal(item.Price.Decimal.Mul(decimal.NewFromInt(int64(input.Quantity))))
	now := time.Now()
	target := DiscountTarget{OrderKind: constants.OrderKindStore}

	var discount *models.Discount
	discountAmount := models.Money{}
	if code := strings.TrimSpace(input.DiscountCode); code != "" {
		discountAmount, discount, err = s.discountService.EvaluateCode(code, subtotal, target, now)
		if err != nil {
			return nil, err
		}
	} else {
		discount, discountAmount, err = s.discountService.BestAuto(subtotal, target, now)
		if err != nil {
			return nil, err
		}
	}

	purchase := &models.StorePurchase{
		InvoiceNo:      generateInvoiceNo(constants.InvoicePrefixStorePurchase),
		CustomerName:   name,
		CustomerEmail:  email,
		CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
		StoreItemID:    item.ID,
		ItemName:       item.Name,
		UnitPrice:      item.Price,
		Quantity:       input.Quantity,
		OriginalAmount: subtotal,
		DiscountAmount: discountAmount,
		TotalAmount:    models.NewMoneyFromDecimal(subtotal.Decimal.Sub(discountAmount.Decimal)),
		PaymentStatus:  constants.PaymentStatusPending,
		Note:           input.Note,
	}
	if discount != nil {
		purchase.DiscountID = &discount.ID
		purchase.DiscountCode = discount.Code
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.itemRepo.WithTx(tx).DecrementStock(item.ID, input.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientStock
		}
		if err := s.purchaseRepo.WithTx(tx).Create(purchase); err != nil {
			return err
		}
		if discount != nil {
			affected, err := s.discountRepo.WithTx(tx).IncrementUsage(discount.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrDiscountExhausted
			}
			usage := &models.DiscountUsage{
				DiscountID:     discount.ID,
				OrderKind:      constants.OrderKindStore,
				OrderID:        purchase.ID,
				DiscountAmount: discountAmount,
			}
			if err := s.usageRepo.WithTx(tx).Create(usage); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreated(purchase.ID)
	return purchase, nil
}

// Quote 商店购买下单前试算
func (s *PurchaseService) Quote(itemID uint, quantity int, code string) (*DiscountQuote, error) {
	if quantity < 1 || quantity > maxPurchaseQuantity {
		return nil, ErrInvalidQuantity
	}
	item, err := s.resolveItem(itemID)
	if err != nil {
		return nil, err
	}
	subtotal := models.NewMoneyFromDecimal(item.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
	target := DiscountTarget{OrderKind: constants.OrderKindStore}
	return s.discountService.Quote(code, subtotal, target, time.Now())
}

// Get 获取购买订单
func (s *PurchaseService) Get(id uint) (*models.StorePurchase, error) {
	purchase, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrOrderNotFound
	}
	return purchase, nil
}

// GetByInvoice 客户自助查询，单号与邮箱需同时匹配
func (s *PurchaseService) GetByInvoice(invoiceNo, email string) (*models.StorePurchase, error) {
	purchase, err := s.purchaseRepo.GetByInvoiceNoAndEmail(strings.TrimSpace(invoiceNo), strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrOrderNotFound
	}
	return purchase, nil
}

// List 获取购买订单列表
func (s *PurchaseService) List(filter repository.OrderListFilter) ([]models.StorePurchase, int64, error) {
	return s.purchaseRepo.List(filter)
}

// UpdatePaymentStatus 流转购买订单支付状态
func (s *PurchaseService) UpdatePaymentStatus(id uint, target, adminName string) (*models.StorePurchase, error) {
	target = normalizePaymentStatus(target)
	purchase, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !isTransitionAllowed(purchase.PaymentStatus, target) {
		return nil, ErrOrderStatusInvalid
	}

	from := purchase.PaymentStatus
	now := time.Now()
	updates := paymentStatusUpdates(target, adminName, now)

	affected, err := s.purchaseRepo.BulkUpdatePaymentStatus([]uint{id}, from, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderStatusInvalid
	}

	s.notifyStatusChanged(id, from, target)
	return s.Get(id)
}

// BulkUpdatePaymentStatus 批量流转支付状态，整体成功或整体失败
func (s *PurchaseService) BulkUpdatePaymentStatus(ids []uint, target, adminName string) (int64, error) {
	target = normalizePaymentStatus(target)
	from, ok := transitionSource(target)
	if !ok {
		return 0, ErrOrderStatusInvalid
	}

	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return 0, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := paymentStatusUpdates(target, adminName, now)

	var affected int64
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		affected, err = s.purchaseRepo.WithTx(tx).BulkUpdatePaymentStatus(unique, from, updates)
		if err != nil {
			return err
		}
		if affected != int64(len(unique)) {
			return ErrOrderBatchConflict
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, id := range unique {
		s.notifyStatusChanged(id, from, target)
	}
	return affected, nil
}

// Delete 删除购买订单，任意状态均可删除。
// 未审核通过的订单删除时回补库存并回滚折扣核销；已通过的订单两者均保留。
func (s *PurchaseService) Delete(id uint) error {
	purchase, err := s.Get(id)
	if err != nil {
		return err
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.rollbackPurchase(tx, purchase); err != nil {
			return err
		}
		return s.purchaseRepo.WithTx(tx).Delete(purchase.ID)
	})
}

// BulkDelete 批量删除购买订单，整体成功或整体失败
func (s *PurchaseService) BulkDelete(ids []uint) error {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return ErrOrderNotFound
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		purchaseRepo := s.purchaseRepo.WithTx(tx)
		for _, id := range unique {
			purchase, err := purchaseRepo.GetByID(id)
			if err != nil {
				return err
			}
			if purchase == nil {
				return ErrOrderNotFound
			}
			if err := s.rollbackPurchase(tx, purchase); err != nil {
				return err
			}
			if err := purchaseRepo.Delete(purchase.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// rollbackPurchase 删除未审核通过的订单时回补库存并回滚折扣核销
func (s *PurchaseService) rollbackPurchase(tx *gorm.DB, purchase *models.StorePurchase) error {
	if purchase.PaymentStatus == constants.PaymentStatusVerified {
		return nil
	}
	if err := s.itemRepo.WithTx(tx).IncrementStock(purchase.StoreItemID, purchase.Quantity); err != nil {
		return err
	}
	if purchase.DiscountID != nil {
		if err := s.discountRepo.WithTx(tx).DecrementUsage(*purchase.DiscountID); err != nil {
			return err
		}
		if err := s.usageRepo.WithTx(tx).DeleteByOrder(constants.OrderKindStore, purchase.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PurchaseService) resolveItem(id uint) (*models.StoreItem, error) {
	item, err := s.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.IsActive {
		return nil, ErrStoreItemNotFound
	}
	return item, nil
}

func (s *PurchaseService) notifyCreated(purchaseID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueOrderNotify(queue.OrderNotifyPayload{
		OrderKind: constants.OrderKindStore,
		OrderID:   purchaseID,
	})
	if err != nil {
		logger.SW().Warnw("enqueue purchase notify failed", "purchase_id", purchaseID, "error", err)
	}
}

func (s *PurchaseService) notifyStatusChanged(purchaseID uint, from, to string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueOrderStatusChanged(queue.OrderStatusChangedPayload{
		OrderKind:  constants.OrderKindStore,
		OrderID:    purchaseID,
		FromStatus: from,
		ToStatus:   to,
	})
	if err != nil {
		logger.SW().Warnw("enqueue purchase status task failed", "purchase_id", purchaseID, "error", err)
	}
}
