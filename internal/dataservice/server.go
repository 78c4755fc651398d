package dataservice

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"

	"github.com/flyagain/server/internal/rpc"
)

// Server hosts the four RPC surfaces on one gRPC listener.
type Server struct {
	log  *slog.Logger
	svc  *Services
	addr string
}

func NewServer(addr string, svc *Services, log *slog.Logger) *Server {
	return &Server{log: log, svc: svc, addr: addr}
}

// Run serves until ctx is cancelled, then drains in-flight RPCs.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	grpcServer := grpc.NewServer()
	rpc.RegisterAccountData(grpcServer, s.svc.Account)
	rpc.RegisterCharacterData(grpcServer, s.svc.Character)
	rpc.RegisterInventoryData(grpcServer, s.svc.Inventory)
	rpc.RegisterGameData(grpcServer, s.svc.GameData)

	s.log.Info("data service listening", "addr", ln.Addr().String())

	serveErr := make(chan error, 1)
	go func() { serveErr <- grpcServer.Serve(ln) }()

	select {
	case <-ctx.Done():
		grpcServer.GracefulStop()
		<-serveErr
		return nil
	case err := <-serveErr:
		return fmt.Errorf("serving rpc: %w", err)
	}
}
