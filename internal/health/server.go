// Package health exposes the bot's session phase through the standard gRPC
// health service.
package health

import (
	"net"

	"github.com/mitchelldurbincs/tankbot/internal/events"
	"github.com/mitchelldurbincs/tankbot/internal/session"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reporting the match session
const ServiceName = "tankbot.Session"

// Server serves grpc.health.v1.Health. Both the overall status and
// ServiceName are SERVING while the session is attached to a live match.
type Server struct {
	grpcServer   *grpc.Server
	healthServer *health.Server
	logger       zerolog.Logger
}

// NewServer creates a health server reporting NOT_SERVING until a phase is set
func NewServer(logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "Health").Logger()
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor(logger),
			recoveryInterceptor(logger),
		),
		grpc.ChainStreamInterceptor(
			streamLoggingInterceptor(logger),
			streamRecoveryInterceptor(logger),
		),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	s := &Server{grpcServer: grpcServer, healthServer: healthServer, logger: logger}
	s.SetPhase(session.PhaseConnecting)
	return s
}

// SetPhase updates the serving status from the session phase
func (s *Server) SetPhase(phase session.Phase) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if phase.IsServing() {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.healthServer.SetServingStatus("", status)
	s.healthServer.SetServingStatus(ServiceName, status)
	s.logger.Debug().
		Str("phase", phase.String()).
		Str("status", status.String()).
		Msg("Health status updated")
}

// Serve accepts connections on lis until Stop is called
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info().Str("address", lis.Addr().String()).Msg("Health server listening")
	return s.grpcServer.Serve(lis)
}

// Stop reports NOT_SERVING to watchers and stops the server
func (s *Server) Stop() {
	s.healthServer.Shutdown()
	s.grpcServer.GracefulStop()
}

// ID implements events.Subscriber
func (s *Server) ID() string {
	return "health"
}

// InterestedIn implements events.Subscriber
func (s *Server) InterestedIn(eventType string) bool {
	return eventType == events.TypeSessionTransition
}

// HandleEvent implements events.Subscriber
func (s *Server) HandleEvent(event events.Event) {
	e, ok := event.(*events.SessionTransitionEvent)
	if !ok {
		return
	}
	phase, err := session.ParsePhase(e.ToPhase)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Ignoring transition")
		return
	}
	s.SetPhase(phase)
}
