package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Durações padrão dos tokens emitidos
const (
	DefaultTokenDuration    = time.Hour
	DefaultExtendedDuration = 7 * 24 * time.Hour
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// KeyManager assina e verifica tokens JWT com o segredo do processo.
// É stateless: não há lista de revogação, a expiração é o único
// mecanismo de término.
type KeyManager struct {
	secretKey        []byte
	tokenDuration    time.Duration
	extendedDuration time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

func NewKeyManager(secretKey []byte, tokenDuration, extendedDuration time.Duration, logger *zap.Logger) (*KeyManager, error) {
	if len(secretKey) < 32 {
		return nil, errors.New("jwt secret key muito curta")
	}
	if tokenDuration <= 0 {
		tokenDuration = DefaultTokenDuration
	}
	if extendedDuration <= 0 {
		extendedDuration = DefaultExtendedDuration
	}

	return &KeyManager{
		secretKey:        secretKey,
		tokenDuration:    tokenDuration,
		extendedDuration: extendedDuration,
		logger:           logger,
		now:              time.Now,
	}, nil
}

// WithClock retorna uma cópia do KeyManager com outra fonte de tempo.
// Usado nos testes de expiração.
func (km *KeyManager) WithClock(now func() time.Time) *KeyManager {
	clone := *km
	clone.now = now
	return &clone
}

// GenerateToken emite um token para o usuário. Com extended=true a validade
// passa de 1 hora para 1 semana ("remember me").
func (km *KeyManager) GenerateToken(userID string, extended bool) (string, error) {
	duration := km.tokenDuration
	if extended {
		duration = km.extendedDuration
	}

	issuedAt := km.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(km.secretKey)
	if err != nil {
		km.logger.Error("falha ao gerar token JWT", zap.Error(err))
		return "", err
	}

	return tokenString, nil
}

// VerifyToken valida assinatura e expiração e retorna as claims.
func (km *KeyManager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return km.secretKey, nil
	}, jwt.WithTimeFunc(km.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expirado")
		}
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("token inválido")
}
