package server

import (
	"errors"
	"net/http"

	"github.com/agenthands/autoflow/internal/apperr"
	"github.com/agenthands/autoflow/internal/core"
	"github.com/agenthands/autoflow/internal/llm"
	"github.com/agenthands/autoflow/internal/n8n"
	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"
	"go.uber.org/zap"
)

func badRequest(c *gin.Context, detail string) {
	p := problems.NewStatusProblem(http.StatusBadRequest).
		WithInstance(c.Request.URL.Path).
		WithType("BAD_REQUEST").
		WithDetail(detail)
	c.AbortWithStatusJSON(http.StatusBadRequest, p)
}

// fail maps an error to a problem response whose type is the error kind.
func (s *Server) fail(c *gin.Context, err error) {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.String("kind", kind), zap.Error(err))
	}

	// The detail carries the subject (node, connection or field) when set.
	p := problems.NewStatusProblem(status).
		WithInstance(c.Request.URL.Path).
		WithType(kind).
		WithDetail(err.Error())

	var e *apperr.Error
	if errors.As(err, &e) && e.Raw != "" {
		c.AbortWithStatusJSON(status, rawProblem{
			Type:     p.Type,
			Title:    p.Title,
			Status:   p.Status,
			Detail:   p.Detail,
			Instance: p.Instance,
			Raw:      e.Raw,
		})
		return
	}
	c.AbortWithStatusJSON(status, p)
}

// rawProblem is a problem document that also carries the unparsed model
// output behind a generation or analysis failure.
type rawProblem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Raw      string `json:"raw"`
}

func classify(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.KindConfiguration:
		return http.StatusUnauthorized, string(apperr.KindConfiguration)
	case apperr.KindAnalysis:
		return http.StatusUnprocessableEntity, string(apperr.KindAnalysis)
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity, string(apperr.KindValidation)
	case apperr.KindGeneration:
		return http.StatusBadGateway, string(apperr.KindGeneration)
	case apperr.KindDiagnosis:
		return http.StatusBadGateway, string(apperr.KindDiagnosis)
	}

	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		return http.StatusBadGateway, core.ProviderErrorKind
	}
	var nerr *n8n.APIError
	if errors.As(err, &nerr) {
		return http.StatusBadGateway, "N8N_ERROR"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
