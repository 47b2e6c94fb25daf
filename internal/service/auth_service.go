package service

import (
	"alcyxob/trainer-planner/internal/config"
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// --- Service Interface ---

// AuthService turns a bearer token from the identity provider into a trainer.
type AuthService interface {
	// Authenticate verifies token and returns the trainer it names,
	// provisioning the trainer on first sight. Failures wrap ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (*domain.Trainer, error)
}

// --- Service Implementation ---

type authService struct {
	trainers repository.TrainerRepository
	secret   []byte
	issuer   string
	audience string
	parser   *jwt.Parser
	log      *logger.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(trainers repository.TrainerRepository, cfg config.AuthConfig, log *logger.Logger) (AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret cannot be empty")
	}
	return &authService{
		trainers: trainers,
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})),
		log:      log,
	}, nil
}

// jwtClaims is the token payload issued by the identity provider.
// Subject is preferred; UserID covers providers that only set "uid".
type jwtClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func (c *jwtClaims) subject() string {
	if s := strings.TrimSpace(c.Subject); s != "" {
		return s
	}
	return strings.TrimSpace(c.UserID)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Trainer, error) {
	claims, err := s.verify(token)
	if err != nil {
		return nil, err
	}
	trainer, err := s.trainers.GetOrCreateBySubject(ctx, claims.subject(), strings.ToLower(strings.TrimSpace(claims.Email)), strings.TrimSpace(claims.Name))
	if err != nil {
		s.log.Error("Failed to resolve trainer", "subject", claims.subject(), "error", err)
		return nil, err
	}
	return trainer, nil
}

func (s *authService) verify(token string) (*jwtClaims, error) {
	claims := &jwtClaims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !parsed.Valid || claims.subject() == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrUnauthenticated)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrUnauthenticated)
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrUnauthenticated)
	}
	if s.audience != "" && !claims.VerifyAudience(s.audience, true) {
		return nil, fmt.Errorf("%w: unexpected audience", ErrUnauthenticated)
	}
	return claims, nil
}
