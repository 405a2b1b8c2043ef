package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Tipos de erro comuns
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrBadRequest         = errors.New("requisição inválida")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrInternalServer     = errors.New("erro interno do servidor")
	ErrServiceUnavailable = errors.New("serviço indisponível")
	ErrDuplicate          = errors.New("recurso já existe")
)

// APIError representa um erro da API com o código HTTP que viaja dentro do
// envelope de erros do GraphQL (o status da resposta HTTP continua 200).
type APIError struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	OriginalErr    error  `json:"-"`
}

// Error implementa a interface error
func (e *APIError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
	}
	return e.Message
}

// Unwrap permite usar errors.Is e errors.As
func (e *APIError) Unwrap() error {
	return e.OriginalErr
}

// New cria um novo APIError
func New(code int, message string, err error) *APIError {
	apiErr := &APIError{
		Code:        code,
		Message:     message,
		OriginalErr: err,
	}
	if err != nil {
		apiErr.AdditionalInfo = err.Error()
	}
	return apiErr
}

// NotFound cria um erro 404
func NotFound(resource string, err error) *APIError {
	return New(http.StatusNotFound, fmt.Sprintf("%s not found", resource), err)
}

// BadRequest cria um erro 400
func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, message, err)
}

// Unauthorized cria um erro 401
func Unauthorized(message string, err error) *APIError {
	if message == "" {
		message = "Authentication required"
	}
	return New(http.StatusUnauthorized, message, err)
}

// InternalServer cria um erro 500
func InternalServer(message string, err error) *APIError {
	if message == "" {
		message = "Internal server error"
	}
	return New(http.StatusInternalServerError, message, err)
}

// ServiceUnavailable cria um erro 503, usado apenas em falhas de inicialização
func ServiceUnavailable(message string, err error) *APIError {
	if message == "" {
		message = "Service unavailable"
	}
	return New(http.StatusServiceUnavailable, message, err)
}

// AsAPIError extrai um *APIError de uma cadeia de erros, se houver
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
