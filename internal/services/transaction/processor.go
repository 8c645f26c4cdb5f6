package transaction

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainerrors "ledger/internal/errors"
	"ledger/internal/repositories"
	"ledger/internal/repositories/cache"
	"ledger/internal/services/gateway"
	"ledger/internal/telemetry"
)

type ProcessorConfig struct {
	Repo     repositories.LedgerRepository
	Gateway  gateway.Gateway
	Balances BalanceInvalidator
	Cache    cache.Cache
	Metrics  telemetry.MetricsCollector
	Logger   *slog.Logger

	MinDepositAmount  int64
	MinTransferAmount int64
	GatewayTimeout    time.Duration
	StatusCacheTTL    time.Duration
}

// Processor runs deposits, gateway notifications and transfers. Every balance
// change happens inside one unit of work with the affected wallet rows locked.
type Processor struct {
	repo     repositories.LedgerRepository
	gateway  gateway.Gateway
	balances BalanceInvalidator
	cache    cache.Cache
	metrics  telemetry.MetricsCollector
	log      *slog.Logger
	tracer   trace.Tracer

	minDeposit     int64
	minTransfer    int64
	gatewayTimeout time.Duration
	statusTTL      time.Duration

	newReference func(prefix string) (string, error)
}

var _ Service = (*Processor)(nil)

func NewProcessor(config ProcessorConfig) *Processor {
	if config.Repo == nil {
		panic("repo is required")
	}
	if config.Gateway == nil {
		panic("gateway is required")
	}
	if config.Balances == nil {
		panic("balance invalidator is required")
	}
	if config.Cache == nil {
		panic("cache is required")
	}
	if config.Metrics == nil {
		config.Metrics = telemetry.NoopMetricsCollector{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MinDepositAmount <= 0 {
		config.MinDepositAmount = DefaultMinDepositAmount
	}
	if config.MinTransferAmount <= 0 {
		config.MinTransferAmount = DefaultMinTransferAmount
	}
	if config.GatewayTimeout <= 0 {
		config.GatewayTimeout = DefaultGatewayTimeout
	}
	if config.StatusCacheTTL <= 0 {
		config.StatusCacheTTL = DefaultStatusCacheTTL
	}

	return &Processor{
		repo:           config.Repo,
		gateway:        config.Gateway,
		balances:       config.Balances,
		cache:          config.Cache,
		metrics:        config.Metrics,
		log:            config.Logger.With("component", "transaction"),
		tracer:         otel.Tracer(tracerName),
		minDeposit:     config.MinDepositAmount,
		minTransfer:    config.MinTransferAmount,
		gatewayTimeout: config.GatewayTimeout,
		statusTTL:      config.StatusCacheTTL,
		newReference:   newReference,
	}
}

func (p *Processor) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	ctx, span := p.tracer.Start(ctx, "transaction."+op, trace.WithAttributes(attrs...))
	return ctx, span, time.Now()
}

// finish records the outcome of op on its span and in the metrics.
func (p *Processor) finish(span trace.Span, op string, started time.Time, err error) {
	p.metrics.RecordOperationDuration(op, time.Since(started))
	if err != nil {
		kind := domainerrors.KindOf(err)
		p.metrics.RecordError(op, kind.String())
		p.metrics.RecordOperationResult(op, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		p.metrics.RecordOperationResult(op, "success")
	}
	span.End()
}

func (p *Processor) validateAmount(amount, min int64) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount.WithMessage("amount must be a positive integer in minor units")
	}
	if amount < min {
		return domainerrors.ErrInvalidAmount.WithMessage("amount must be at least %d", min)
	}
	return nil
}
