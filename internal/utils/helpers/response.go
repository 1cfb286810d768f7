package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"blogplatform/internal/apperr"
)

// Payload: поля ответа рядом с message.
type Payload map[string]interface{}

// JSON пишет {message, ...payload}.
func JSON(w http.ResponseWriter, status int, message string, payload Payload) {
	body := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	if message != "" {
		body["message"] = message
	}
	write(w, status, body)
}

// Error пишет {message, errors?}; статус выбирается по виду ошибки.
// debug добавляет текст причины для внутренних ошибок (ENV=dev).
func Error(w http.ResponseWriter, err error, debug bool) {
	status := apperr.HTTPStatus(err)
	body := map[string]interface{}{"message": apperr.PublicMessage(err)}
	if details := apperr.DetailsOf(err); len(details) > 0 {
		body["errors"] = details
	}
	if debug && status == http.StatusInternalServerError {
		body["error"] = err.Error()
	}
	write(w, status, body)
}

// Fail: ошибка без доменного контекста (неверный JSON, запрещённый маршрут).
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]interface{}{"message": message})
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperr.Validation("Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return apperr.Validation("Invalid JSON")
		}
		return apperr.Validation("Invalid request body", err.Error())
	}
	return nil
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		return
	}
}
