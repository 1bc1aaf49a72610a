package service

import (
	"strings"
	"time"

	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/repository"

	"gorm.io/gorm"
)

// CartOwner 购物车归属：登录用户优先，否则为匿名会话
type CartOwner struct {
	UserID    *uint
	SessionID string
}

// Valid 判断归属键是否可用
func (o CartOwner) Valid() bool {
	return (o.UserID != nil && *o.UserID > 0) || strings.TrimSpace(o.SessionID) != ""
}

// AddCartItemInput 加入购物车输入
type AddCartItemInput struct {
	ProductID uint
	VariantID *uint
	Quantity  int
	Options   models.JSON
}

// CartSummary 购物车详情与金额汇总
type CartSummary struct {
	ID     uint              `json:"id"`
	Items  []models.CartItem `json:"items"`
	Coupon *models.Coupon    `json:"coupon"`
	CartTotals
}

// CartService 购物车服务
type CartService struct {
	cartRepo      repository.CartRepository
	productRepo   repository.ProductRepository
	couponService *CouponService
	pricing       PricingConfig
}

// NewCartService 创建购物车服务
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponService *CouponService,
	pricing PricingConfig,
) *CartService {
	return &CartService{
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		couponService: couponService,
		pricing:       pricing,
	}
}

// Find 查找归属购物车，不存在时返回 nil
func (s *CartService) Find(owner CartOwner) (*models.Cart, error) {
	if !owner.Valid() {
		return nil, ErrCartOwnerRequired
	}
	if owner.UserID != nil && *owner.UserID > 0 {
		return s.cartRepo.GetByUser(*owner.UserID)
	}
	return s.cartRepo.GetBySession(strings.TrimSpace(owner.SessionID))
}

// GetOrCreate 获取归属购物车，不存在时创建空购物车
func (s *CartService) GetOrCreate(owner CartOwner) (*models.Cart, error) {
	cart, err := s.Find(owner)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	fresh := &models.Cart{}
	if owner.UserID != nil && *owner.UserID > 0 {
		userID := *owner.UserID
		fresh.UserID = &userID
	} else {
		sessionID := strings.TrimSpace(owner.SessionID)
		fresh.SessionID = &sessionID
	}
	cart, err = s.cartRepo.CreateOrGet(fresh)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// AddItem 加入商品；同一商品与规格的数量累加，新项记录当前价格快照
func (s *CartService) AddItem(cart *models.Cart, input AddCartItemInput) error {
	if cart == nil {
		return ErrCartNotFound
	}
	if input.Quantity < 1 {
		return ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductNotFound
	}

	variantID := models.NoVariant
	price := product.Price
	available := product.Stock
	if input.VariantID != nil && *input.VariantID != models.NoVariant {
		variant, err := s.productRepo.GetVariant(product.ID, *input.VariantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrVariantNotFound
		}
		variantID = variant.ID
		price = variant.EffectivePrice(product.Price)
		available = variant.Stock
	}
	if input.Quantity > available {
		return ErrInsufficientStock
	}

	now := time.Now()
	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		VariantID: variantID,
		Quantity:  input.Quantity,
		Price:     price,
		Options:   input.Options,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.cartRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		if err := repo.UpsertItem(item); err != nil {
			return err
		}
		return repo.Touch(cart.ID)
	})
}

// UpdateItemQuantity 修改数量，数量不大于 0 时删除该项
func (s *CartService) UpdateItemQuantity(cart *models.Cart, itemID uint, quantity int) error {
	if cart == nil {
		return ErrCartNotFound
	}
	if quantity <= 0 {
		return s.RemoveItem(cart, itemID)
	}
	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	if _, err := s.cartRepo.UpdateItemQuantity(cart.ID, itemID, quantity); err != nil {
		return err
	}
	return s.cartRepo.Touch(cart.ID)
}

// RemoveItem 删除购物车项（幂等）
func (s *CartService) RemoveItem(cart *models.Cart, itemID uint) error {
	if cart == nil {
		return ErrCartNotFound
	}
	if err := s.cartRepo.DeleteItem(cart.ID, itemID); err != nil {
		return err
	}
	return s.cartRepo.Touch(cart.ID)
}

// Clear 清空商品并移除优惠券
func (s *CartService) Clear(cart *models.Cart) error {
	if cart == nil {
		return ErrCartNotFound
	}
	return s.cartRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		if err := repo.ClearItems(cart.ID); err != nil {
			return err
		}
		return repo.SetCoupon(cart.ID, nil)
	})
}

// ApplyCoupon 按当前小计校验并替换已应用优惠券，不修改使用次数
func (s *CartService) ApplyCoupon(cart *models.Cart, code string) (*models.Coupon, error) {
	if cart == nil {
		return nil, ErrCartNotFound
	}
	detail, err := s.cartRepo.LoadDetail(cart.ID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrCartNotFound
	}
	subtotal := CalculateTotals(detail.Items, nil, s.pricing).Subtotal.Decimal
	coupon, err := s.couponService.Resolve(code, subtotal)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.SetCoupon(cart.ID, &coupon.ID); err != nil {
		return nil, err
	}
	return coupon, nil
}

// RemoveCoupon 移除优惠券（幂等）
func (s *CartService) RemoveCoupon(cart *models.Cart) error {
	if cart == nil {
		return ErrCartNotFound
	}
	return s.cartRepo.SetCoupon(cart.ID, nil)
}

// Summary 重新加载明细并计算金额
func (s *CartService) Summary(cart *models.Cart) (*CartSummary, error) {
	if cart == nil {
		return nil, ErrCartNotFound
	}
	detail, err := s.cartRepo.LoadDetail(cart.ID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrCartNotFound
	}
	items := detail.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return &CartSummary{
		ID:         detail.ID,
		Items:      items,
		Coupon:     detail.Coupon,
		CartTotals: CalculateTotals(items, detail.Coupon, s.pricing),
	}, nil
}

// ItemCount 购物车商品总件数；无购物车时为 0 且不会创建
func (s *CartService) ItemCount(owner CartOwner) (int64, error) {
	cart, err := s.Find(owner)
	if err != nil {
		return 0, err
	}
	if cart == nil {
		return 0, nil
	}
	return s.cartRepo.SumQuantity(cart.ID)
}

// PurgeStale 清理超过指定天数未更新的匿名购物车
func (s *CartService) PurgeStale(staleDays int, now time.Time) (int64, error) {
	if staleDays <= 0 {
		return 0, nil
	}
	return s.cartRepo.DeleteStaleAnonymous(repository.StaleCartFilter{
		UpdatedBefore: now.AddDate(0, 0, -staleDays),
	})
}
