package service

import (
	"strings"
	"time"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/logger"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/queue"
	"github.com/niaga-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 服务订单业务服务
type OrderService struct {
	orderRepo       repository.ServiceOrderRepository
	serviceRepo     repository.ServiceRepository
	discountRepo    repository.DiscountRepository
	usageRepo       repository.DiscountUsageRepository
	discountService *DiscountService
	queueClient     *queue.Client
}

// NewOrderService 创建服务订单服务
func NewOrderService(orderRepo repository.ServiceOrderRepository, serviceRepo repository.ServiceRepository, discountRepo repository.DiscountRepository, usageRepo repository.DiscountUsageRepository, discountService *DiscountService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		serviceRepo:     serviceRepo,
		discountRepo:    discountRepo,
		usageRepo:       usageRepo,
		discountService: discountService,
		queueClient:     queueClient,
	}
}

// CreateServiceOrderInput 创建服务订单输入
type CreateServiceOrderInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ServiceID     uint
	PackageID     uint
	DiscountCode  string
	Note          string
}

// Create 创建服务订单。
// 折扣核销与订单落库在同一事务内完成，使用次数通过条件更新递增，
// 并发下超限的请求会整体回滚。
func (s *OrderService) Create(input CreateServiceOrderInput) (*models.ServiceOrder, error) {
	name := strings.TrimSpace(input.CustomerName)
	email := strings.TrimSpace(input.CustomerEmail)
	if name == "" || email == "" {
		return nil, ErrOrderValidation
	}

	svc, pkg, err := s.resolvePackage(input.ServiceID, input.PackageID)
	if err != nil {
		return nil, err
	}

	subtotal := pkg.Price
	now := time.Now()
	target := DiscountTarget{OrderKind: constants.OrderKindService, ServiceID: svc.ID}

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

	order := &models.ServiceOrder{
		InvoiceNo:      generateInvoiceNo(constants.InvoicePrefixServiceOrder),
		CustomerName:   name,
		CustomerEmail:  email,
		CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
		ServiceID:      svc.ID,
		PackageID:      pkg.ID,
		ServiceName:    svc.Name,
		PackageName:    pkg.Name,
		PackagePrice:   pkg.Price,
		OriginalAmount: subtotal,
		DiscountAmount: discountAmount,
		TotalAmount:    models.NewMoneyFromDecimal(subtotal.Decimal.Sub(discountAmount.Decimal)),
		PaymentStatus:  constants.PaymentStatusPending,
		Note:           input.Note,
	}
	if discount != nil {
		order.DiscountID = &discount.ID
		order.DiscountCode = discount.Code
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
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
				OrderKind:      constants.OrderKindService,
				OrderID:        order.ID,
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

	s.notifyCreated(order.ID)
	return order, nil
}

// Quote 服务订单下单前试算
func (s *OrderService) Quote(serviceID, packageID uint, code string) (*DiscountQuote, error) {
	svc, pkg, err := s.resolvePackage(serviceID, packageID)
	if err != nil {
		return nil, err
	}
	target := DiscountTarget{OrderKind: constants.OrderKindService, ServiceID: svc.ID}
	return s.discountService.Quote(code, pkg.Price, target, time.Now())
}

// Get 获取订单
func (s *OrderService) Get(id uint) (*models.ServiceOrder, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByInvoice 客户自助查询，单号与邮箱需同时匹配
func (s *OrderService) GetByInvoice(invoiceNo, email string) (*models.ServiceOrder, error) {
	order, err := s.orderRepo.GetByInvoiceNoAndEmail(strings.TrimSpace(invoiceNo), strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List 获取订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.ServiceOrder, int64, error) {
	return s.orderRepo.List(filter)
}

// UpdatePaymentStatus 流转订单支付状态
func (s *OrderService) UpdatePaymentStatus(id uint, target, adminName string) (*models.ServiceOrder, error) {
	target = normalizePaymentStatus(target)
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !isTransitionAllowed(order.PaymentStatus, target) {
		return nil, ErrOrderStatusInvalid
	}

	from := order.PaymentStatus
	now := time.Now()
	updates := paymentStatusUpdates(target, adminName, now)

	affected, err := s.orderRepo.BulkUpdatePaymentStatus([]uint{id}, from, updates)
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
func (s *OrderService) BulkUpdatePaymentStatus(ids []uint, target, adminName string) (int64, error) {
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
		affected, err = s.orderRepo.WithTx(tx).BulkUpdatePaymentStatus(unique, from, updates)
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

// Delete 删除订单，任意状态均可删除。
// 未审核通过的订单删除时回滚折扣核销；已通过的订单核销保留。
func (s *OrderService) Delete(id uint) error {
	order, err := s.Get(id)
	if err != nil {
		return err
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		if order.DiscountID != nil && order.PaymentStatus != constants.PaymentStatusVerified {
			if err := s.discountRepo.WithTx(tx).DecrementUsage(*order.DiscountID); err != nil {
				return err
			}
			if err := s.usageRepo.WithTx(tx).DeleteByOrder(constants.OrderKindService, order.ID); err != nil {
				return err
			}
		}
		return s.orderRepo.WithTx(tx).Delete(order.ID)
	})
}

// BulkDelete 批量删除订单，整体成功或整体失败。
// 未审核通过的订单删除时回滚折扣核销；已通过的订单核销保留。
func (s *OrderService) BulkDelete(ids []uint) error {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return ErrOrderNotFound
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		discountRepo := s.discountRepo.WithTx(tx)
		usageRepo := s.usageRepo.WithTx(tx)
		for _, id := range unique {
			order, err := orderRepo.GetByID(id)
			if err != nil {
				return err
			}
			if order == nil {
				return ErrOrderNotFound
			}
			if order.DiscountID != nil && order.PaymentStatus != constants.PaymentStatusVerified {
				if err := discountRepo.DecrementUsage(*order.DiscountID); err != nil {
					return err
				}
				if err := usageRepo.DeleteByOrder(constants.OrderKindService, order.ID); err != nil {
					return err
				}
			}
			if err := orderRepo.Delete(order.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *OrderService) resolvePackage(serviceID, packageID uint) (*models.Service, *models.ServicePackage, error) {
	svc, err := s.serviceRepo.GetByID(serviceID)
	if err != nil {
		return nil, nil, err
	}
	if svc == nil || !svc.IsActive {
		return nil, nil, ErrServiceNotFound
	}

	pkg, err := s.serviceRepo.GetPackageByID(packageID)
	if err != nil {
		return nil, nil, err
	}
	if pkg == nil || pkg.ServiceID != svc.ID || !pkg.IsActive {
		return nil, nil, ErrPackageNotFound
	}
	return svc, pkg, nil
}

func (s *OrderService) notifyCreated(orderID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueOrderNotify(queue.OrderNotifyPayload{
		OrderKind: constants.OrderKindService,
		OrderID:   orderID,
	})
	if err != nil {
		logger.SW().Warnw("enqueue order notify failed", "order_id", orderID, "error", err)
	}
}

func (s *OrderService) notifyStatusChanged(orderID uint, from, to string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueOrderStatusChanged(queue.OrderStatusChangedPayload{
		OrderKind:  constants.OrderKindService,
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
	})
	if err != nil {
		logger.SW().Warnw("enqueue order status task failed", "order_id", orderID, "error", err)
	}
}
