package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/logger"
	"blogplatform/internal/models"
	"blogplatform/internal/reqctx"
	helpers "blogplatform/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// base общий для всех обработчиков. Режим отладки определяет,
// попадёт ли текст внутренней ошибки в ответ.
type base struct {
	debug bool
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.WithCtx(r.Context())
	if apperr.HTTPStatus(err) == http.StatusInternalServerError {
		log.Error("Внутренняя ошибка обработки запроса", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		log.Debug("Запрос отклонён", zap.String("path", r.URL.Path), zap.Error(err))
	}
	helpers.Error(w, err, b.debug)
}

func actor(r *http.Request) models.Actor {
	return reqctx.Actor(r.Context())
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// queryInt возвращает 0 для пустого или нечислового значения; сервис подставит значение по умолчанию.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return 0
	}
	return n
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	return b
}
