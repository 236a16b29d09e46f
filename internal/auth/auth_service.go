package auth

import (
	"context"
	"crypto/subtle"
	"time"

	autherrors "github.com/wcewong/paygen/internal/auth/errors"
	"github.com/wcewong/paygen/internal/rbac"
	"github.com/wcewong/paygen/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 15 * time.Minute

// Credentials is the single operator account allowed to switch tax
// strategies. PasswordHash is a bcrypt hash.
type Credentials struct {
	Username     string
	PasswordHash string
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	IssueToken(ctx context.Context, username, password string) (TokenResponse, error)
}

type service struct {
	creds  Credentials
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewService(creds Credentials, secret []byte, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &service{
		creds:  creds,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) IssueToken(ctx context.Context, username, password string) (TokenResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	// bcrypt always runs so a username miss takes as long as a password miss.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		log.Warn("admin token rejected",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("username", username),
		)
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	now := s.now()
	token, err := s.generateToken(username, rbac.RoleAdmin, now)
	if err != nil {
		log.Error("sign admin token failed", zap.Error(err))
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}

	log.Info("admin token issued",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("username", username),
	)

	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.ttl / time.Second),
		Role:        rbac.RoleAdmin,
	}, nil
}

func (s *service) generateToken(subject, role string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
