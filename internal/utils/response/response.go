package response

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Message is the body of the greeting endpoints.
type Message struct {
	Message string `json:"message"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Detail string `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func Detail(message string) Error {
	return Error{Detail: message}
}

func GeneralError(err error) Error {
	return Error{Detail: err.Error()}
}

func ValidationError(errs validator.ValidationErrors) Error {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Field()+": "+err.Tag())
	}

	return Error{Detail: strings.Join(messages, "; ")}
}

func OK(message string) Message {
	return Message{Message: message}
}
