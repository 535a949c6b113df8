package root

import (
	"net/http"

	"github.com/princekumarofficial/multipost-api/internal/utils/response"
)

const (
	RootMessage  = "Hello from the Go backend!"
	HelloMessage = "Hello from the backend API!"
)

// Root handles the service greeting
// @Summary Service greeting
// @Tags health
// @Produce json
// @Success 200 {object} response.Message
// @Router / [get]
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.OK(RootMessage))
	}
}

// Hello handles the API greeting
// @Summary API greeting
// @Tags health
// @Produce json
// @Success 200 {object} response.Message
// @Router /api/hello [get]
func Hello() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.OK(HelloMessage))
	}
}
