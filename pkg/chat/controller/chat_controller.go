package controller

import "github.com/labstack/echo/v4"

type ChatController interface {
	Ask(c echo.Context) error
	Models(c echo.Context) error
}
