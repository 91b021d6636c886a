package server

import (
	"net/http"

	"github.com/agenthands/autoflow/internal/core"
	"github.com/agenthands/autoflow/internal/core/intent"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/agenthands/autoflow/internal/core/registry"
	"github.com/agenthands/autoflow/internal/core/repair"
	"github.com/gin-gonic/gin"
)

type AnalyzeRequest struct {
	Input string `json:"input" validate:"required"`
}

type ModifyRequest struct {
	OriginalAnalysis    *model.Intent `json:"originalAnalysis" validate:"required"`
	ModificationRequest string        `json:"modificationRequest" validate:"required"`
}

type GenerateRequest struct {
	IntentAnalysis *model.Intent `json:"intent_analysis" validate:"required"`
	UserInput      string        `json:"user_input"`
}

type GenerateResponse struct {
	Workflow            *model.Workflow  `json:"workflow_json"`
	EstimatedComplexity model.Complexity `json:"estimated_complexity,omitempty"`
}

type DebugRequest struct {
	Workflow      *model.Workflow  `json:"workflow" validate:"required"`
	Execution     *model.Execution `json:"execution" validate:"required_without=Screenshot"`
	Screenshot    string           `json:"screenshot"`
	MaxAttempts   int              `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	QuickDiagnose bool             `json:"quick_diagnose"`
}

type DeployRequest struct {
	Workflow    *model.Workflow `json:"workflow_json" validate:"required"`
	N8nInstance string          `json:"n8n_instance" validate:"required,url"`
	APIKey      string          `json:"api_key" validate:"required"`
	Activate    bool            `json:"activate"`
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Examples(c *gin.Context) {
	respond(c, gin.H{"examples": intent.Examples()})
}

func (s *Server) AnalyzeIntent(c *gin.Context) {
	var req AnalyzeRequest
	if !s.bind(c, &req) {
		return
	}
	p, ok := s.pipeline(c)
	if !ok {
		return
	}
	defer s.closePipeline(p)

	in, err := p.Analyze(c.Request.Context(), req.Input)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, in)
}

func (s *Server) ModifyIntent(c *gin.Context) {
	var req ModifyRequest
	if !s.bind(c, &req) {
		return
	}
	p, ok := s.pipeline(c)
	if !ok {
		return
	}
	defer s.closePipeline(p)

	in, err := p.Modify(c.Request.Context(), req.OriginalAnalysis, req.ModificationRequest)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, in)
}

func (s *Server) GenerateWorkflow(c *gin.Context) {
	var req GenerateRequest
	if !s.bind(c, &req) {
		return
	}
	p, ok := s.pipeline(c)
	if !ok {
		return
	}
	defer s.closePipeline(p)

	wf, err := p.Generate(c.Request.Context(), req.IntentAnalysis, req.UserInput)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, GenerateResponse{Workflow: wf, EstimatedComplexity: req.IntentAnalysis.Complexity})
}

func (s *Server) DebugWorkflow(c *gin.Context) {
	var req DebugRequest
	if !s.bind(c, &req) {
		return
	}
	p, ok := s.pipeline(c)
	if !ok {
		return
	}
	defer s.closePipeline(p)

	res, err := p.Debug(c.Request.Context(), repair.Request{
		Workflow:      req.Workflow,
		Execution:     req.Execution,
		Screenshot:    req.Screenshot,
		MaxAttempts:   req.MaxAttempts,
		QuickDiagnose: req.QuickDiagnose,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, res)
}

func (s *Server) DeployWorkflow(c *gin.Context) {
	var req DeployRequest
	if !s.bind(c, &req) {
		return
	}

	d := s.newDeployer(req.N8nInstance, req.APIKey)
	out, err := core.Deploy(c.Request.Context(), d, req.Workflow, req.Activate, s.logger)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, out)
}

type nodesResponse struct {
	Nodes []model.Capability `json:"nodes"`
	Names []string           `json:"names"`
}

func (s *Server) SearchNodes(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		badRequest(c, "query parameter q is required")
		return
	}
	nodes := s.registry.Search(c.Request.Context(), q)
	respond(c, nodesResponse{Nodes: nodes, Names: registry.Names(nodes)})
}

func (s *Server) RecommendNodes(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		badRequest(c, "query parameter q is required")
		return
	}
	nodes := s.registry.Recommend(c.Request.Context(), q)
	respond(c, nodesResponse{Nodes: nodes, Names: registry.Names(nodes)})
}
