package spectatorapi

import (
	"net/http"

	"github.com/beka-birhanu/vinom-dwarfs/game"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FrameSource is the run being watched.
type FrameSource interface {
	ID() uuid.UUID
	Latest() game.Frame
	Simulation() *game.Simulation
}

// SimulationController serves the latest frame and the live stream.
type SimulationController struct {
	source  FrameSource
	encoder game.Encoder
	hub     *Hub
}

// NewSimulationController initializes a SimulationController.
func NewSimulationController(source FrameSource, encoder game.Encoder, hub *Hub) (*SimulationController, error) {
	if source == nil || encoder == nil || hub == nil {
		return nil, ErrMissingDependency
	}
	return &SimulationController{source: source, encoder: encoder, hub: hub}, nil
}

// RegisterPublic registers public routes.
func (sc *SimulationController) RegisterPublic(route *gin.RouterGroup) {
	simulation := route.Group("/simulation")
	{
		simulation.GET("", sc.latest)
		simulation.GET("/info", sc.info)
	}
}

// RegisterProtected registers protected routes.
func (sc *SimulationController) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/simulation/stream", sc.stream)
}

// latest returns the most recent frame as JSON.
func (sc *SimulationController) latest(ctx *gin.Context) {
	payload, err := sc.encoder.MarshalFrame(sc.source.Latest())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	ctx.Data(http.StatusOK, "application/json", payload)
}

func (sc *SimulationController) info(ctx *gin.Context) {
	sim := sc.source.Simulation()
	ctx.JSON(http.StatusOK, RunInfoResponse{
		RunID:      sc.source.ID().String(),
		State:      sim.State().String(),
		Ticks:      sim.Ticks(),
		Spectators: sc.hub.Clients(),
	})
}

// stream upgrades to a websocket carrying one JSON frame per message.
func (sc *SimulationController) stream(ctx *gin.Context) {
	if !ctx.IsWebsocket() {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "websocket upgrade required"})
		return
	}
	sc.hub.Serve(ctx.Writer, ctx.Request)
}
