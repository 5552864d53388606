package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	paymentspb "github.com/example/bank-core/api/gen/payments"
	"github.com/example/bank-core/internal/account"
	"github.com/example/bank-core/internal/bank"
	"github.com/example/bank-core/internal/config"
	"github.com/example/bank-core/internal/store"
	"github.com/example/bank-core/internal/transfer"
	"github.com/example/bank-core/pkg/audit"
)

// PaymentsGRPCService exposes transfers over gRPC.
type PaymentsGRPCService struct {
	paymentspb.UnimplementedTransactionsServiceServer

	transfers   *transfer.Service
	accounts    *account.Service
	auditLogger *audit.ChainLogger
	logger      *slog.Logger
}

func NewPaymentsGRPCService(transfers *transfer.Service, accounts *account.Service, logger *slog.Logger) *PaymentsGRPCService {
	return &PaymentsGRPCService{
		transfers:   transfers,
		accounts:    accounts,
		auditLogger: audit.NewChainLogger(),
		logger:      logger,
	}
}

func (s *PaymentsGRPCService) ProcessPayment(ctx context.Context, req *paymentspb.PaymentRequest) (*paymentspb.PaymentResponse, error) {
	entry := s.auditLogger.Append(fmt.Sprintf("ProcessPayment from=%d to=%d amount=%s",
		req.FromAccountId, req.ToAccountId, req.Amount))
	s.logger.Info("audit", "hash", entry.Hash)

	amount, err := bank.ParseAmount(req.Amount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "amount must be a positive decimal")
	}

	le, err := s.transfers.Transfer(ctx, req.FromAccountId, req.ToAccountId, amount)
	if err != nil {
		s.auditLogger.Append(fmt.Sprintf("ProcessPayment failed: %v", err))
		return nil, domainStatus(err)
	}

	return &paymentspb.PaymentResponse{
		Id:            le.ID,
		FromAccountId: le.FromAccountID,
		ToAccountId:   le.ToAccountID,
		Amount:        bank.FormatAmount(le.Amount),
		CreatedAt:     le.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *PaymentsGRPCService) GetBalance(ctx context.Context, req *paymentspb.BalanceRequest) (*paymentspb.BalanceResponse, error) {
	balance, err := s.accounts.Balance(ctx, req.AccountId)
	if err != nil {
		return nil, domainStatus(err)
	}
	return &paymentspb.BalanceResponse{
		AccountId: req.AccountId,
		Amount:    bank.FormatAmount(balance),
	}, nil
}

func domainStatus(err error) error {
	switch {
	case bank.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, bank.ErrInvalidAmount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, bank.ErrInsufficientFunds),
		errors.Is(err, bank.ErrSourceBlocked),
		errors.Is(err, bank.ErrSourceClosed),
		errors.Is(err, bank.ErrDestinationClosed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case bank.IsRetryable(err):
		return status.Error(codes.Unavailable, "storage unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	svc := NewPaymentsGRPCService(
		transfer.NewService(st, logger),
		account.NewService(st, logger),
		logger,
	)

	grpcServer := grpc.NewServer()
	paymentspb.RegisterTransactionsServiceServer(grpcServer, svc)
	reflection.Register(grpcServer)

	ln, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("grpc listening", "addr", cfg.GRPCAddr, "env", cfg.Environment)
		if err := grpcServer.Serve(ln); err != nil {
			logger.Error("grpc server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	grpcServer.GracefulStop()
}
