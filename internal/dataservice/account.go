package dataservice

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flyagain/server/internal/wire"
)

// AccountService serves flyagain.AccountData.
type AccountService struct {
	log      *slog.Logger
	accounts accountStore
}

func (s *AccountService) GetByUsername(ctx context.Context, req *wire.GetByUsernameRequest) (*wire.AccountRecord, error) {
	acc, err := s.accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, rpcError(s.log, "AccountData.GetByUsername", err)
	}
	if acc == nil {
		return nil, status.Error(codes.NotFound, "account not found")
	}
	return wire.AccountToRecord(acc), nil
}

func (s *AccountService) GetByID(ctx context.Context, req *wire.GetByIDRequest) (*wire.AccountRecord, error) {
	acc, err := s.accounts.GetByID(ctx, req.ID)
	if err != nil {
		return nil, rpcError(s.log, "AccountData.GetById", err)
	}
	if acc == nil {
		return nil, status.Error(codes.NotFound, "account not found")
	}
	return wire.AccountToRecord(acc), nil
}

func (s *AccountService) Create(ctx context.Context, req *wire.CreateAccountRequest) (*wire.AccountRecord, error) {
	if req.Username == "" || req.PasswordHash == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password hash are required")
	}
	acc, err := s.accounts.Create(ctx, req.Username, req.Email, req.PasswordHash)
	if err != nil {
		return nil, rpcError(s.log, "AccountData.Create", err)
	}
	s.log.Info("account created", "account", acc.ID, "username", acc.Username)
	return wire.AccountToRecord(acc), nil
}

func (s *AccountService) UpdateLastLogin(ctx context.Context, req *wire.GetByIDRequest) (*wire.Ack, error) {
	if err := s.accounts.UpdateLastLogin(ctx, req.ID); err != nil {
		return nil, rpcError(s.log, "AccountData.UpdateLastLogin", err)
	}
	return &wire.Ack{Ok: true}, nil
}

// CheckBan reports the live ban state; an elapsed temporary ban reads as
// not banned even while the row still carries the flag.
func (s *AccountService) CheckBan(ctx context.Context, req *wire.GetByIDRequest) (*wire.CheckBanResponse, error) {
	acc, err := s.accounts.GetByID(ctx, req.ID)
	if err != nil {
		return nil, rpcError(s.log, "AccountData.CheckBan", err)
	}
	if acc == nil {
		return nil, status.Error(codes.NotFound, "account not found")
	}
	resp := &wire.CheckBanResponse{Banned: acc.BanActive(time.Now())}
	if resp.Banned {
		resp.Reason = acc.BanReason
		if acc.BanUntil != nil {
			resp.BanUntil = acc.BanUntil.Unix()
		}
	}
	return resp, nil
}
