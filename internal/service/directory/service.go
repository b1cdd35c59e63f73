package directory

import (
	"context"
	"log/slog"
	"time"

	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
	"github.com/pontohub/ponto-backend-go/internal/pkg/cache"
)

const (
	tokenTTL     = 30 * time.Minute
	bankTTL      = time.Hour
	employeeTTL  = 5 * time.Minute
	renewalRetry = 30 * time.Second
)

// Company is a vendor bank decorated with its active employee count.
type Company struct {
	vendor.Bank
	EmployeeCount int `json:"totalFuncionarios"`
}

// Service fronts the vendor with cached lookups. It owns the token,
// bank-list and aggregate employee caches and the background token
// renewal loop.
type Service struct {
	client    vendor.Client
	logger    *slog.Logger
	token     *cache.Entry[string]
	banks     *cache.Entry[[]vendor.Bank]
	employees *cache.Entry[[]vendor.Employee]
}

func NewService(client vendor.Client, clock cache.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:    client,
		logger:    logger,
		token:     cache.NewEntry[string](tokenTTL, clock),
		banks:     cache.NewEntry[[]vendor.Bank](bankTTL, clock),
		employees: cache.NewEntry[[]vendor.Employee](employeeTTL, clock),
	}
}

// Token returns the cached vendor bearer token, acquiring one when the
// cache is empty or expired.
func (s *Service) Token(ctx context.Context) (string, error) {
	return s.token.Get(ctx, s.client.AcquireToken)
}

// Banks returns the cached bank list.
func (s *Service) Banks(ctx context.Context) ([]vendor.Bank, error) {
	return s.banks.Get(ctx, func(ctx context.Context) ([]vendor.Bank, error) {
		token, err := s.Token(ctx)
		if err != nil {
			return nil, err
		}
		banks, err := s.client.ListBanks(ctx, token)
		if err != nil {
			s.expireOnAuthError(err)
			return nil, err
		}
		return banks, nil
	})
}

// Companies returns the banks decorated with per-bank employee counts. A
// denied or failed employee listing yields a zero count, never an error.
func (s *Service) Companies(ctx context.Context) ([]Company, error) {
	banks, err := s.Banks(ctx)
	if err != nil {
		return nil, err
	}
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	companies := make([]Company, 0, len(banks))
	for _, bank := range banks {
		company := Company{Bank: bank}
		result := s.client.ListEmployees(ctx, token, bank.ID)
		if result.Failed() {
			s.logger.Warn("employee listing failed, counting zero",
				"bank", bank.ID, "error", result.Err)
		} else {
			company.EmployeeCount = len(result.Items)
		}
		companies = append(companies, company)
	}
	return companies, nil
}

// AllEmployees returns the cached aggregate of active employees across
// every bank. Banks whose listing fails are skipped with a warning.
func (s *Service) AllEmployees(ctx context.Context) ([]vendor.Employee, error) {
	return s.employees.Get(ctx, func(ctx context.Context) ([]vendor.Employee, error) {
		banks, err := s.Banks(ctx)
		if err != nil {
			return nil, err
		}
		token, err := s.Token(ctx)
		if err != nil {
			return nil, err
		}

		var all []vendor.Employee
		for _, bank := range banks {
			result := s.client.ListEmployees(ctx, token, bank.ID)
			if result.Failed() {
				s.logger.Warn("skipping bank in employee aggregate",
					"bank", bank.ID, "error", result.Err)
				continue
			}
			for _, emp := range result.Items {
				emp.BankName = bank.Name
				all = append(all, emp)
			}
		}
		return all, nil
	})
}

// EmployeesByBank lists one bank's active employees without touching the
// aggregate cache.
func (s *Service) EmployeesByBank(ctx context.Context, bankID int) ([]vendor.Employee, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	result := s.client.ListEmployees(ctx, token, bankID)
	if result.Failed() {
		s.expireOnAuthError(result.Err)
		return nil, result.Err
	}
	return result.Items, nil
}

// Departments aggregates departments across every bank; failed banks are
// skipped.
func (s *Service) Departments(ctx context.Context) ([]vendor.Department, error) {
	banks, err := s.Banks(ctx)
	if err != nil {
		return nil, err
	}
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	var all []vendor.Department
	for _, bank := range banks {
		result := s.client.ListDepartments(ctx, token, bank.ID)
		if result.Failed() {
			s.logger.Warn("skipping bank in department aggregate",
				"bank", bank.ID, "error", result.Err)
			continue
		}
		for _, dep := range result.Items {
			dep.BankName = bank.Name
			all = append(all, dep)
		}
	}
	return all, nil
}

// ClockEvents fetches the raw punches for one employee in a date range.
func (s *Service) ClockEvents(ctx context.Context, bankID int, cpf, dateStart, dateEnd string) ([]vendor.ClockEvent, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	result := s.client.ListClockEvents(ctx, token, bankID, cpf, dateStart, dateEnd)
	if result.Failed() {
		s.expireOnAuthError(result.Err)
		return nil, result.Err
	}
	return result.Items, nil
}

// Equipment lists the punch-clock devices registered under a bank.
func (s *Service) Equipment(ctx context.Context, bankID int) ([]vendor.Equipment, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	equipment, err := s.client.ListEquipment(ctx, token, bankID)
	if err != nil {
		s.expireOnAuthError(err)
		return nil, err
	}
	return equipment, nil
}

// EquipmentEvents fetches the raw events recorded by one device.
func (s *Service) EquipmentEvents(ctx context.Context, bankID, equipmentID int, dateStart, dateEnd string) ([]vendor.ClockEvent, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	result := s.client.EquipmentEvents(ctx, token, bankID, equipmentID, dateStart, dateEnd)
	if result.Failed() {
		return nil, result.Err
	}
	return result.Items, nil
}

// StartRenewal primes the token cache in the background. Failed
// acquisitions retry on a fixed delay; successful ones sleep until
// shortly before expiry.
func (s *Service) StartRenewal(ctx context.Context) {
	go func() {
		for {
			delay := renewalRetry
			token, err := s.client.AcquireToken(ctx)
			if err != nil {
				s.logger.Warn("token renewal failed", "error", err)
			} else {
				s.token.Set(token)
				delay = tokenTTL - time.Minute
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}()
}

// expireOnAuthError drops the cached token after an upstream 401/403 so
// the next caller re-authenticates.
func (s *Service) expireOnAuthError(err error) {
	if vendor.IsAuthError(err) {
		s.token.Invalidate()
	}
}
