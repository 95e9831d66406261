package payments

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/policy"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

var (
	expiryRe  = regexp.MustCompile(`^\d{2}/\d{2}$`)
	providers = map[string]bool{"Visa": true, "Mastercard": true, "Amex": true, "Discover": true}
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) Get(ctx context.Context, id string) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&pm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment method %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &pm, nil
}

func (r *GormRepo) Create(ctx context.Context, pm *models.PaymentMethod) error {
	return r.DB.WithContext(ctx).Create(pm).Error
}

func (r *GormRepo) Delete(ctx context.Context, id, userID string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.PaymentMethod{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment method %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type Input struct {
	CardNumber string `json:"card_number"`
	Provider   string `json:"provider"`
	Expiry     string `json:"expiry"`
}

// Validate normalizes the card number and returns its last four digits.
func (in Input) Validate() (string, error) {
	digits := strings.Join(strings.Fields(in.CardNumber), "")
	digits = strings.ReplaceAll(digits, "-", "")
	if len(digits) < 4 {
		return "", fmt.Errorf("card number needs at least 4 digits: %w", domain.ErrValidation)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("card number must be numeric: %w", domain.ErrValidation)
		}
	}
	if !providers[in.Provider] {
		return "", fmt.Errorf("provider %q is not supported: %w", in.Provider, domain.ErrValidation)
	}
	if err := validateExpiry(in.Expiry); err != nil {
		return "", err
	}
	return digits[len(digits)-4:], nil
}

func validateExpiry(expiry string) error {
	if !expiryRe.MatchString(expiry) {
		return fmt.Errorf("expiry must be MM/YY: %w", domain.ErrValidation)
	}
	month, _ := strconv.Atoi(expiry[:2])
	if month < 1 || month > 12 {
		return fmt.Errorf("expiry month %02d is out of range: %w", month, domain.ErrValidation)
	}
	return nil
}

type Service struct {
	Repo *GormRepo
}

func (s *Service) List(ctx context.Context, p *domain.Principal) ([]models.PaymentMethod, error) {
	if !policy.CanAccessPaymentAdmin(p) {
		return nil, fmt.Errorf("payment methods: %w", domain.ErrUnauthorized)
	}
	return s.Repo.ListByUser(ctx, p.ID)
}

func (s *Service) Add(ctx context.Context, p *domain.Principal, in Input) (*models.PaymentMethod, error) {
	l := logging.FromContext(ctx).With("svc", "payments.add")
	if !policy.CanAccessPaymentAdmin(p) {
		return nil, fmt.Errorf("payment methods: %w", domain.ErrUnauthorized)
	}
	last4, err := in.Validate()
	if err != nil {
		l.Warn("add_payment_method_error", "status", 400, "error", err)
		return nil, err
	}

	pm := &models.PaymentMethod{UserID: p.ID, CardLast4: last4, Provider: in.Provider, Expiry: in.Expiry}
	if err := s.Repo.Create(ctx, pm); err != nil {
		return nil, err
	}
	l.Info("payment_method_added", "id", pm.ID, "provider", pm.Provider)
	return pm, nil
}

func (s *Service) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if !policy.CanAccessPaymentAdmin(p) {
		return fmt.Errorf("payment methods: %w", domain.ErrUnauthorized)
	}
	return s.Repo.Delete(ctx, id, p.ID)
}

// ForCheckout lists the methods a principal can pick from at checkout.
func (s *Service) ForCheckout(ctx context.Context, p *domain.Principal) ([]models.PaymentMethod, error) {
	if !policy.CanCheckout(p) {
		return nil, fmt.Errorf("checkout: %w", domain.ErrUnauthorized)
	}
	return s.Repo.ListByUser(ctx, p.ID)
}

// Owned returns the method only when it belongs to p. Anything else is a
// validation error so other users' method ids are not confirmed to exist.
func (s *Service) Owned(ctx context.Context, p *domain.Principal, id string) (*models.PaymentMethod, error) {
	if p == nil || id == "" {
		return nil, fmt.Errorf("payment method is required: %w", domain.ErrValidation)
	}
	pm, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("payment method %s is not available: %w", id, domain.ErrValidation)
		}
		return nil, err
	}
	if pm.UserID != p.ID {
		return nil, fmt.Errorf("payment method %s is not available: %w", id, domain.ErrValidation)
	}
	return pm, nil
}
