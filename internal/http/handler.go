package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/ocean-forcing/internal/domain"
	"go.ngs.io/ocean-forcing/internal/usecase"
)

// Handler handles HTTP requests for the vertical coordinate and variable table.
type Handler struct {
	scoordUC *usecase.ScoordUseCase
	registry *domain.Registry
}

// NewHandler creates a new HTTP handler.
func NewHandler(scoordUC *usecase.ScoordUseCase, registry *domain.Registry) *Handler {
	return &Handler{
		scoordUC: scoordUC,
		registry: registry,
	}
}

// GetScoord handles GET /v1/scoord.
func (h *Handler) GetScoord(c *gin.Context) {
	transform, err := domain.ParseTransform(c.DefaultQuery("transform", "new2008"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := usecase.ScoordRequest{
		Spec: domain.VerticalCoordinateSpec{Transform: transform, Dcrit: domain.DefaultDcrit},
	}

	// Parse stretching parameters.
	floats := []struct {
		name string
		dst  *float64
		def  string
	}{
		{"theta_s", &req.Spec.ThetaS, "7"},
		{"theta_b", &req.Spec.ThetaB, "2"},
		{"hc", &req.Spec.Hc, "200"},
		{"dcrit", &req.Spec.Dcrit, strconv.FormatFloat(domain.DefaultDcrit, 'g', -1, 64)},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(c.DefaultQuery(f.name, f.def), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %v", f.name, err)})
			return
		}
		*f.dst = v
	}

	n, err := strconv.Atoi(c.DefaultQuery("n", "32"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid n: %v", err)})
		return
	}
	req.Spec.N = n

	// Parse columns.
	hStr := c.Query("h")
	if hStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "h parameter is required"})
		return
	}
	if req.Depths, err = parseList(hStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid h: %v", err)})
		return
	}
	if zetaStr := c.Query("zeta"); zetaStr != "" {
		if req.Zeta, err = parseList(zetaStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid zeta: %v", err)})
			return
		}
	}

	switch c.DefaultQuery("point", "rho") {
	case "rho":
		req.Point = domain.PointRho
	case "w":
		req.Point = domain.PointW
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "point must be rho or w"})
		return
	}

	response, err := h.scoordUC.Compute(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// VariableResponse describes one variable kind.
type VariableResponse struct {
	Kind        string  `json:"kind"`
	Family      string  `json:"family"`
	ThreeD      bool    `json:"three_d"`
	OwnTimeAxis bool    `json:"own_time_axis"`
	TimeDim     string  `json:"time_dim"`
	ValidMin    float64 `json:"valid_min"`
	ValidMax    float64 `json:"valid_max"`
	Offset      float64 `json:"offset"`
	Factor      float64 `json:"factor"`
	Units       string  `json:"units,omitempty"`
	LongName    string  `json:"long_name,omitempty"`
}

// GetVariables handles GET /v1/variables.
func (h *Handler) GetVariables(c *gin.Context) {
	descriptors := h.registry.All()

	response := make([]VariableResponse, len(descriptors))
	for i, d := range descriptors {
		response[i] = VariableResponse{
			Kind:        d.Kind,
			Family:      string(d.Family),
			ThreeD:      d.ThreeD,
			OwnTimeAxis: d.OwnTimeAxis,
			TimeDim:     d.TimeDim,
			ValidMin:    d.Valid.Min,
			ValidMax:    d.Valid.Max,
			Offset:      d.Offset,
			Factor:      d.Factor,
			Units:       d.Units,
			LongName:    d.LongName,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"variables": response,
		"count":     len(response),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// parseList parses a comma-separated list of numbers.
func parseList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
