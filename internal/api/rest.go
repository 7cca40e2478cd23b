package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/autopilot/internal/dynamo"
)

const (
	EndpointPathAlive   = "/alive"
	EndpointPathStatus  = "/status"
	EndpointPathMetrics = "/metrics"

	indentationChar = "  "
)

// Source reports the latest tick of a running loop.
type Source interface {
	Snapshot() (ticks int, t float64, x dynamo.State, u dynamo.Control)
}

type Status struct {
	Plant   string         `json:"plant"`
	Law     string         `json:"law"`
	Ticks   int            `json:"ticks"`
	Time    float64        `json:"time"`
	State   dynamo.State   `json:"state"`
	Control dynamo.Control `json:"control"`
}

type Result struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// CreateRestService serves liveness, loop status and the metrics of gatherer.
func CreateRestService(plant, law string, source Source, gatherer prometheus.Gatherer) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	echoRest.Use(middleware.Recover())

	echoRest.GET(EndpointPathAlive, isAlive)
	echoRest.GET(EndpointPathStatus, func(c echo.Context) error {
		if source == nil {
			return c.JSONPretty(http.StatusServiceUnavailable, &Result{
				Name:    "Not running",
				Message: "no loop attached",
			}, indentationChar)
		}
		ticks, t, x, u := source.Snapshot()
		return c.JSONPretty(http.StatusOK, &Status{
			Plant:   plant,
			Law:     law,
			Ticks:   ticks,
			Time:    t,
			State:   x,
			Control: u,
		}, indentationChar)
	})
	echoRest.GET(EndpointPathMetrics, echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
