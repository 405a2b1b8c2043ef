package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmarques/graphql-user-api/internal/infra/metrics"
	"go.uber.org/zap"
)

type contextKey string

const bearerTokenKey contextKey = "bearerToken"

// Middleware contém todos os middlewares da aplicação
type Middleware struct {
	logger             *zap.Logger
	recoveryMiddleware *RecoveryMiddleware
	metricsMiddleware  *MetricsMiddleware
}

// NewMiddleware cria um novo conjunto de middlewares
func NewMiddleware(logger *zap.Logger, apiMetrics *metrics.APIMetrics) *Middleware {
	return &Middleware{
		logger:             logger,
		recoveryMiddleware: NewRecoveryMiddleware(logger),
		metricsMiddleware:  NewMetricsMiddleware(apiMetrics, logger),
	}
}

// Recovery middleware para recuperação de pânicos
func (m *Middleware) Recovery() gin.HandlerFunc {
	return m.recoveryMiddleware.Recovery()
}

// Metrics retorna o middleware de métricas
func (m *Middleware) Metrics() gin.HandlerFunc {
	return m.metricsMiddleware.Middleware()
}

// Logger middleware para logging de requisições
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method

		m.logger.Info("request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", clientIP),
		)
	}
}

// ExtractBearer copia o token do header Authorization para o contexto da
// requisição. A decisão de exigir ou não o token é de cada operação
// GraphQL, então nada é abortado aqui.
func (m *Middleware) ExtractBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			token := strings.TrimPrefix(header, "Bearer ")
			if token != header && token != "" {
				ctx := context.WithValue(c.Request.Context(), bearerTokenKey, token)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}

// BearerFromContext retorna o token bearer da requisição, se presente
func BearerFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerTokenKey).(string)
	return token, ok
}

// WithBearerToken injeta um token no contexto; útil em testes
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey, token)
}
