package router

import (
	"github.com/labstack/echo/v4"
)

func New(
	e *echo.Echo,
	docCtrl interface {
		Upload(echo.Context) error
		IngestURL(echo.Context) error
		List(echo.Context) error
		Get(echo.Context) error
		Delete(echo.Context) error
	},
	chatCtrl interface {
		Ask(echo.Context) error
		Models(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)

	// Documents
	e.POST("/documents", docCtrl.Upload)
	e.POST("/documents/url", docCtrl.IngestURL)
	e.GET("/documents", docCtrl.List)
	e.GET("/documents/:id", docCtrl.Get)
	e.DELETE("/documents/:id", docCtrl.Delete)

	// Chat
	e.POST("/chat", chatCtrl.Ask)
	e.GET("/models", chatCtrl.Models)

	return e
}
