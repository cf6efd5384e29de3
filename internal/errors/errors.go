// errors стандартизирует ответы об ошибках HTTP-слоя news-gateway.
// На вход он принимает ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей;
//   - стабильный машиночитаемый код для клиента.
//
// Источник истинности по маппингу: sentinel-ошибки internal/service
// и таксономия internal/guardian.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/news-gateway/internal/guardian"
	"github.com/pribylovaa/news-gateway/internal/service"
)

// APIError — единый формат для клиента.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус и
// унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal, чтобы не
//     послать "200 OK" с телом ошибки и не маскировать баг;
//   - известные sentinel-ошибки маппятся по таблице ниже;
//   - прочее — 500/internal без утечки деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := mapError(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// mapError — таблица «ошибка -> HTTP-статус / код / сообщение».
//
//   - ErrInvalidArgument -> 400 (вина клиента, повтор без изменений бессмыслен);
//   - ErrNotFound -> 404;
//   - ErrQuotaExhausted -> 429 (повтор после паузы уместен);
//   - ErrTimeout -> 504; ErrUnreachable/ErrServer/ErrUpstream -> 502;
//   - ErrRateLimited -> 503 (rate-limit самого провайдера);
//   - ErrAPIKeyInvalid -> 500 (ошибка оператора, деталей не раскрываем);
//   - прочее -> 500/internal.
func mapError(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, service.ErrQuotaExhausted):
		return http.StatusTooManyRequests, "quota_exhausted", "request quota exhausted, retry later"
	case stderrors.Is(err, guardian.ErrTimeout):
		return http.StatusGatewayTimeout, "upstream_timeout", "upstream timeout"
	case stderrors.Is(err, guardian.ErrRateLimited):
		return http.StatusServiceUnavailable, "upstream_overloaded", "upstream overloaded"
	case stderrors.Is(err, guardian.ErrUnreachable):
		return http.StatusBadGateway, "upstream_unreachable", "upstream unreachable"
	case stderrors.Is(err, guardian.ErrServer):
		return http.StatusBadGateway, "upstream_server_error", "upstream server error"
	case stderrors.Is(err, guardian.ErrUpstream):
		return http.StatusBadGateway, "upstream_failed", "upstream request failed"
	case stderrors.Is(err, guardian.ErrAPIKeyInvalid):
		return http.StatusInternalServerError, "upstream_config_invalid", "internal error"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
