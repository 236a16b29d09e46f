package payslip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/wcewong/paygen/internal/events"
	"github.com/wcewong/paygen/internal/messaging/kafka"
	paysliperrors "github.com/wcewong/paygen/internal/payslip/errors"
	"github.com/wcewong/paygen/internal/shared/apperror"
	"github.com/wcewong/paygen/internal/shared/contextutil"
	"github.com/wcewong/paygen/internal/shared/money"
	"github.com/wcewong/paygen/internal/taxstrategy"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StatsCountKey = "payslip:stats:count"
	StatsCountTTL = time.Minute

	ServiceVersion  = "1.0.0"
	DefaultCurrency = "MYR"
)

var SupportedCurrencies = []string{"MYR", "SGD", "IDR"}

type Statistics struct {
	TotalPayslipsGenerated int64    `json:"total_payslips_generated"`
	CurrentTaxStrategy     string   `json:"current_tax_strategy"`
	CurrentTaxStrategyKind string   `json:"current_tax_strategy_kind"`
	SupportedCurrencies    []string `json:"supported_currencies"`
	Version                string   `json:"version"`
}

type Service interface {
	GenerateMonthlyPayslip(ctx context.Context, employeeName string, annualSalaryCents money.Cents, currencyCode string) (Result, error)
	PrintPayslip(ctx context.Context, w io.Writer, employeeName string, annualSalaryCents money.Cents) error
	GetAllSalaryComputations(ctx context.Context) ([]Record, error)
	GetSalaryComputationsByEmployee(ctx context.Context, employeeName string) ([]Record, error)
	GetSalaryComputationsByDateRange(ctx context.Context, start, end time.Time) ([]Record, error)
	GetServiceStatistics(ctx context.Context) (Statistics, error)

	SwitchToDefaultStrategy()
	SwitchToAlternativeStrategy()
	SwitchToCustomStrategy(brackets []taxstrategy.TaxBracket) error
	SwitchToFlatTaxStrategy(rate float64) error
	CurrentTaxStrategy() taxstrategy.Strategy
}

type strategyHolder struct {
	strategy taxstrategy.Strategy
}

type service struct {
	db              *sql.DB
	repo            Repository
	outbox          kafka.OutboxRepository
	rdb             *redis.Client
	sf              *singleflight.Group
	factory         taxstrategy.Factory
	current         atomic.Pointer[strategyHolder]
	defaultCurrency string
	logger          *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, DefaultCurrency, logger...)
}

// NewServiceWithOutbox starts on the default strategy. An empty
// defaultCurrency falls back to MYR.
func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	defaultCurrency string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}

	s := &service{
		db:              db,
		repo:            repo,
		outbox:          outboxRepo,
		rdb:             rdb,
		sf:              &singleflight.Group{},
		factory:         taxstrategy.NewFactory(),
		defaultCurrency: strings.ToUpper(defaultCurrency),
		logger:          l,
	}
	s.setStrategy(s.factory.CreateDefaultStrategy())
	return s
}

func (s *service) GenerateMonthlyPayslip(
	ctx context.Context,
	employeeName string,
	annualSalaryCents money.Cents,
	currencyCode string,
) (Result, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	// Loaded once so a concurrent switch cannot change strategy mid-calculation.
	strategy := s.CurrentTaxStrategy()

	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if currencyCode == "" {
		currencyCode = s.defaultCurrency
	}

	if annualSalaryCents > HighSalaryWarningCents {
		log.Warn("very high salary detected",
			zap.String("request_id", rid),
			zap.String("employee_name", employeeName),
			zap.Float64("annual_salary", money.CentsToDollars(annualSalaryCents)),
		)
	}

	result, err := Calculate(strategy, employeeName, annualSalaryCents, currencyCode)
	if err != nil {
		log.Warn("generate payslip rejected", zap.String("request_id", rid), zap.Error(err))
		return Result{}, wrapGenerateError(err)
	}
	if len(result.CurrencyCode) != 3 {
		return Result{}, wrapGenerateError(paysliperrors.ErrInvalidCurrencyCode)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("generate payslip begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return Result{}, wrapGenerateError(err)
	}
	defer tx.Rollback()

	strategyName := strategy.StrategyName()
	calc := &PayslipCalculation{
		ID:                      uuid.New(),
		EmployeeName:            result.EmployeeName,
		AnnualSalaryCents:       int64(annualSalaryCents),
		MonthlyIncomeTaxCents:   int64(result.MonthlyIncomeTaxCents),
		GrossMonthlyIncomeCents: int64(result.GrossMonthlyIncomeCents),
		NetMonthlyIncomeCents:   int64(result.NetMonthlyIncomeCents),
		TaxStrategyUsed:         &strategyName,
		CurrencyCode:            result.CurrencyCode,
		CreatedAt:               result.CalculatedAt,
	}

	if err := s.repo.WithTx(tx).Save(ctx, calc); err != nil {
		log.Error("generate payslip persist failed", zap.String("request_id", rid), zap.Error(err))
		return Result{}, wrapGenerateError(err)
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(rid, "payslip", calc.ID.String(),
			events.PayslipGeneratedEventType, events.PayslipGeneratedTopic,
			events.PayslipGeneratedEvent{
				EventType:               events.PayslipGeneratedEventType,
				RequestID:               rid,
				PayslipID:               calc.ID.String(),
				EmployeeName:            calc.EmployeeName,
				AnnualSalaryCents:       calc.AnnualSalaryCents,
				GrossMonthlyIncomeCents: calc.GrossMonthlyIncomeCents,
				MonthlyIncomeTaxCents:   calc.MonthlyIncomeTaxCents,
				NetMonthlyIncomeCents:   calc.NetMonthlyIncomeCents,
				CurrencyCode:            calc.CurrencyCode,
				TaxStrategy:             string(strategy.Kind()),
				OccurredAt:              result.CalculatedAt.UTC(),
			})
		if err != nil {
			return Result{}, wrapGenerateError(err)
		}

		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("generate payslip outbox persist failed",
				zap.String("request_id", rid),
				zap.String("payslip_id", calc.ID.String()),
				zap.Error(err),
			)
			return Result{}, wrapGenerateError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("generate payslip commit failed", zap.String("request_id", rid), zap.Error(err))
		return Result{}, wrapGenerateError(err)
	}

	s.invalidateStats(ctx)

	log.Info("payslip generated",
		zap.String("request_id", rid),
		zap.String("payslip_id", calc.ID.String()),
		zap.String("employee_name", result.EmployeeName),
		zap.String("tax_strategy", string(strategy.Kind())),
	)

	return result, nil
}

// PrintPayslip calculates with the current strategy and writes the payslip
// to w. Nothing is persisted.
func (s *service) PrintPayslip(ctx context.Context, w io.Writer, employeeName string, annualSalaryCents money.Cents) error {
	result, err := Calculate(s.CurrentTaxStrategy(), employeeName, annualSalaryCents, s.defaultCurrency)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("print payslip rejected",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return wrapGenerateError(err)
	}
	return WritePayslip(w, result)
}

func (s *service) GetAllSalaryComputations(ctx context.Context) ([]Record, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(items), nil
}

func (s *service) GetSalaryComputationsByEmployee(ctx context.Context, employeeName string) ([]Record, error) {
	employeeName = strings.TrimSpace(employeeName)
	if employeeName == "" {
		return nil, paysliperrors.ErrEmptyEmployeeName
	}

	items, err := s.repo.FindByEmployeeName(ctx, employeeName)
	if err != nil {
		return nil, err
	}
	return toRecords(items), nil
}

func (s *service) GetSalaryComputationsByDateRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	if start.After(end) {
		return nil, paysliperrors.ErrInvalidDateRange
	}

	items, err := s.repo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toRecords(items), nil
}

func (s *service) GetServiceStatistics(ctx context.Context) (Statistics, error) {
	count, err := s.countPayslips(ctx)
	if err != nil {
		return Statistics{}, err
	}

	strategy := s.CurrentTaxStrategy()
	currencies := make([]string, len(SupportedCurrencies))
	copy(currencies, SupportedCurrencies)

	return Statistics{
		TotalPayslipsGenerated: count,
		CurrentTaxStrategy:     strategy.StrategyName(),
		CurrentTaxStrategyKind: string(strategy.Kind()),
		SupportedCurrencies:    currencies,
		Version:                ServiceVersion,
	}, nil
}

func (s *service) countPayslips(ctx context.Context) (int64, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, StatsCountKey).Result(); err == nil {
			if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return n, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("read payslip count cache failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(StatsCountKey, func() (any, error) {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if err := s.rdb.Set(ctx, StatsCountKey, n, StatsCountTTL).Err(); err != nil {
				s.logger.Warn("write payslip count cache failed", zap.Error(err))
			}
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}

	return v.(int64), nil
}

func (s *service) invalidateStats(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, StatsCountKey).Err(); err != nil {
		s.logger.Error("failed to invalidate payslip stats cache",
			zap.Error(err),
			zap.String("key", StatsCountKey),
		)
	}
}

func (s *service) SwitchToDefaultStrategy() {
	s.setStrategy(s.factory.CreateDefaultStrategy())
}

func (s *service) SwitchToAlternativeStrategy() {
	s.setStrategy(s.factory.CreateAlternativeStrategy())
}

// SwitchToCustomStrategy keeps the current strategy when brackets are invalid.
func (s *service) SwitchToCustomStrategy(brackets []taxstrategy.TaxBracket) error {
	strategy, err := s.factory.CreateCustomStrategy(brackets)
	if err != nil {
		return err
	}
	s.setStrategy(strategy)
	return nil
}

func (s *service) SwitchToFlatTaxStrategy(rate float64) error {
	strategy, err := s.factory.CreateFlatTaxStrategy(rate)
	if err != nil {
		return err
	}
	s.setStrategy(strategy)
	return nil
}

func (s *service) CurrentTaxStrategy() taxstrategy.Strategy {
	return s.current.Load().strategy
}

func (s *service) setStrategy(strategy taxstrategy.Strategy) {
	s.current.Store(&strategyHolder{strategy: strategy})
	s.logger.Info("tax strategy set",
		zap.String("strategy", strategy.StrategyName()),
		zap.String("kind", string(strategy.Kind())),
	)
}

// wrapGenerateError keeps the status and code of input errors and hides
// everything else behind a 500.
func wrapGenerateError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return apperror.Wrap(err, appErr.Code, "failed to generate payslip", appErr.HTTPStatus)
	}
	return fmt.Errorf("failed to generate payslip: %w", err)
}
