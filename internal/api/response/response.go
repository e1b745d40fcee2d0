// Package response renders the JSON envelope shared by every endpoint:
// {"success":true,"data":...} on success, {"success":false,"message":...}
// on failure.
package response

import "github.com/labstack/echo/v4"

type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Data wraps payload in a success envelope.
func Data(c echo.Context, code int, payload any) error {
	return c.JSON(code, Envelope{Success: true, Data: payload})
}

// Message writes a success envelope that carries only a message.
func Message(c echo.Context, code int, msg string) error {
	return c.JSON(code, Envelope{Success: true, Message: msg})
}

// Fail writes a failure envelope.
func Fail(c echo.Context, code int, msg string, errs ...string) error {
	return c.JSON(code, Envelope{Success: false, Message: msg, Errors: errs})
}
