package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"sage/internal/server/middleware"
	"sage/pkg/common"
	"sage/pkg/layout"
	"sage/pkg/logger"
	"sage/pkg/store"
	analysisstorage "sage/pkg/store/pgx"
)

const defaultLayoutTicks = 300

// LayoutAnalysisHandler computes node positions for one of the analysis
// graphs and the transform that fits them into the requested viewport.
func LayoutAnalysisHandler(c echo.Context) error {
	type layoutBody struct {
		Graph     string  `json:"graph"`
		Width     float64 `json:"width" validate:"required,gt=0"`
		Height    float64 `json:"height" validate:"required,gt=0"`
		RowHeight float64 `json:"row_height"`
		MaxTicks  int     `json:"max_ticks"`
	}

	type layoutResponse struct {
		Message   string            `json:"message"`
		Positions []layout.Position `json:"positions,omitempty"`
		Transform *layout.Transform `json:"transform,omitempty"`
		Levels    map[string]int    `json:"levels,omitempty"`
		Settled   bool              `json:"settled,omitempty"`
	}

	id := c.Param("id")

	data := new(layoutBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, layoutResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, layoutResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := analysisstorage.NewAnalysisDBStorageWithConnection(app.DBConn)

	record, err := storage.GetAnalysis(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, layoutResponse{
			Message: "Analysis not found",
		})
	}
	if err != nil {
		logger.Error("Failed to get analysis", "err", err)
		return c.JSON(http.StatusInternalServerError, layoutResponse{
			Message: "Internal server error",
		})
	}
	if record.Analysis == nil {
		return c.JSON(http.StatusConflict, layoutResponse{
			Message: "Analysis has no result yet",
		})
	}

	var graph *common.Graph
	switch data.Graph {
	case "", "reasoning":
		graph = record.Analysis.Reasoning
	case "misconceptions":
		graph = record.Analysis.Misconceptions
	default:
		return c.JSON(http.StatusBadRequest, layoutResponse{
			Message: "Unknown graph",
		})
	}
	if graph == nil {
		return c.JSON(http.StatusNotFound, layoutResponse{
			Message: "Graph not available for this analysis",
		})
	}

	levels := layout.AssignLevels(graph.Nodes, graph.Edges)
	sim := layout.NewSimulator(graph.Nodes, graph.Edges, levels, layout.Config{
		RowHeight: data.RowHeight,
	})

	maxTicks := data.MaxTicks
	if maxTicks <= 0 {
		maxTicks = defaultLayoutTicks
	}
	sim.Run(maxTicks)

	transform := sim.FitTransform(data.Width, data.Height)

	return c.JSON(http.StatusOK, layoutResponse{
		Message:   "OK",
		Positions: sim.Positions(),
		Transform: &transform,
		Levels:    levels,
		Settled:   sim.Settled(),
	})
}
