package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/berfenger/heatnet/internal/core/domain"

	"github.com/carlmjohnson/versioninfo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const MAX_DOCUMENT_SIZE = 16 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type versionResponse struct {
	Version  string    `json:"version"`
	Revision string    `json:"revision"`
	Dirty    bool      `json:"dirty"`
	Time     time.Time `json:"time"`
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/version", s.VersionHandler)

	e.GET("/networks", s.ListNetworksHandler)
	e.POST("/networks/convert", s.ConvertDocumentHandler, middleware.BodyLimit("16M"))
	e.POST("/networks/reload", s.ReloadNetworksHandler)
	e.GET("/networks/:name", s.NetworkReportHandler)
	e.POST("/networks/:name/convert", s.ConvertNetworkHandler)

	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics))
	}

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, versionResponse{
		Version:  versioninfo.Version,
		Revision: versioninfo.Revision,
		Dirty:    versioninfo.DirtyBuild,
		Time:     versioninfo.LastCommit,
	})
}

func (s *Server) ListNetworksHandler(c echo.Context) error {
	res, err := s.request(domain.ListNetworksRequest{})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.ListNetworksResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	return c.JSON(http.StatusOK, response.Names)
}

func (s *Server) NetworkReportHandler(c echo.Context) error {
	res, err := s.request(domain.GetNetworkReportRequest{Name: c.Param("name")})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.GetNetworkReportResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if response.HasResponseError() {
		return c.JSON(statusOf(response.GetResponseError()), errorResponse{Error: response.GetResponseError().Error()})
	}
	return c.JSON(http.StatusOK, response.Report)
}

// ConvertDocumentHandler converts the asset graph document in the request
// body. The query parameter name overrides the document name.
func (s *Server) ConvertDocumentHandler(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, MAX_DOCUMENT_SIZE))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	graph, err := s.loader.Load(c.QueryParam("name"), body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	return s.convert(c, domain.ConvertNetworkRequest{Graph: graph})
}

func (s *Server) ConvertNetworkHandler(c echo.Context) error {
	return s.convert(c, domain.ConvertNetworkRequest{Name: c.Param("name")})
}

func (s *Server) ReloadNetworksHandler(c echo.Context) error {
	res, err := s.request(domain.ReloadNetworksRequest{})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.ReloadNetworksResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	return c.JSON(http.StatusOK, response.Reports)
}

func (s *Server) convert(c echo.Context, req domain.ConvertNetworkRequest) error {
	res, err := s.request(req)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	response, ok := res.(domain.ConvertNetworkResponse)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected response"})
	}
	if response.HasResponseError() {
		return c.JSON(statusOf(response.GetResponseError()), errorResponse{Error: response.GetResponseError().Error()})
	}
	if !response.Report.Ok() {
		return c.JSON(http.StatusUnprocessableEntity, response.Report)
	}
	return c.JSON(http.StatusOK, response.Report)
}

func (s *Server) request(msg any) (any, error) {
	return s.rootContext.RequestFuture(s.masterActor, msg, s.requestTimeout).Result()
}

func statusOf(err error) int {
	if errors.Is(err, domain.ErrUnknownNetwork) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
