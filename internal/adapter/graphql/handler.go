package graphql

import (
	"net/http"

	apperrors "github.com/lmarques/graphql-user-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"go.uber.org/zap"
)

// Handler expõe o schema em um único endpoint HTTP. Seguindo a convenção
// do protocolo, erros de aplicação viajam na lista de errors com status
// HTTP 200; apenas um corpo ilegível gera status 400.
type Handler struct {
	schema *Schema
	logger *zap.Logger
}

// NewHandler cria um novo handler GraphQL
func NewHandler(schema *Schema, logger *zap.Logger) *Handler {
	return &Handler{
		schema: schema,
		logger: logger,
	}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// wireError é o envelope de erro exposto ao cliente
type wireError struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

type graphqlResponse struct {
	Data   interface{} `json:"data,omitempty"`
	Errors []wireError `json:"errors,omitempty"`
}

// Serve processa uma requisição GraphQL
func (h *Handler) Serve(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("corpo de requisição inválido", zap.Error(err))
		c.JSON(http.StatusBadRequest, graphqlResponse{
			Errors: []wireError{{
				Code:    http.StatusBadRequest,
				Message: "Invalid request body",
			}},
		})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema.Schema(),
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})

	response := graphqlResponse{Data: result.Data}
	for _, gqlErr := range result.Errors {
		response.Errors = append(response.Errors, h.flattenError(gqlErr))
	}

	c.JSON(http.StatusOK, response)
}

// flattenError converte o erro formatado do GraphQL no envelope
// {code, message, additionalInfo}. Erros tipados dos use-cases mantêm o
// código original; erros de sintaxe ou validação da query viram 400 e
// qualquer outra falha de resolver vira 500.
func (h *Handler) flattenError(fe gqlerrors.FormattedError) wireError {
	err := fe.OriginalError()
	for err != nil {
		switch e := err.(type) {
		case *apperrors.APIError:
			return wireError{
				Code:           e.Code,
				Message:        e.Message,
				AdditionalInfo: e.AdditionalInfo,
			}
		case *gqlerrors.Error:
			err = e.OriginalError
		case gqlerrors.FormattedError:
			err = e.OriginalError()
		default:
			if apiErr, ok := apperrors.AsAPIError(err); ok {
				return wireError{
					Code:           apiErr.Code,
					Message:        apiErr.Message,
					AdditionalInfo: apiErr.AdditionalInfo,
				}
			}
			h.logger.Error("erro inesperado de resolver", zap.Error(err))
			return wireError{
				Code:    http.StatusInternalServerError,
				Message: fe.Message,
			}
		}
	}

	return wireError{
		Code:    http.StatusBadRequest,
		Message: fe.Message,
	}
}
