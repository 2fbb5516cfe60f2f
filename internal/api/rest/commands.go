package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openmodbus/shmwrite/internal/engine"
	"github.com/openmodbus/shmwrite/internal/types"
)

type commandRequest struct {
	Commands []string `json:"commands" binding:"required"`
}

type commandResult struct {
	Line      string `json:"line"`
	Applied   bool   `json:"applied"`
	Registers int    `json:"registers,omitempty"`
	Error     string `json:"error,omitempty"`
}

type commandResponse struct {
	BatchID  string          `json:"batch_id"`
	Applied  int             `json:"applied"`
	Rejected int             `json:"rejected"`
	Results  []commandResult `json:"results"`
}

// POST /api/v1/commands
//
// Lines run through the same parser and target as stdin input. A rejected
// line does not stop the batch; each result reports its own outcome.
func (s *Server) postCommands(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeBadRequest, "Invalid request body", err.Error()))
		return
	}
	if len(req.Commands) == 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeBadRequest, "No commands given", nil))
		return
	}

	resp := commandResponse{
		BatchID: uuid.New().String(),
		Results: make([]commandResult, 0, len(req.Commands)),
	}

	for _, line := range req.Commands {
		result := commandResult{Line: line}

		instructions, err := s.pipeline.ApplyLine(c.Request.Context(), line)
		if err != nil {
			result.Error = err.Error()
			resp.Rejected++
			s.logger.Warn("line discarded",
				zap.String("line", line),
				zap.String("batch_id", resp.BatchID),
				zap.Error(err))
		} else {
			result.Applied = true
			result.Registers = len(instructions)
			resp.Applied++
		}

		resp.Results = append(resp.Results, result)
	}

	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/datatypes
func (s *Server) getDataTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"datatypes": engine.DataTypes()})
}
