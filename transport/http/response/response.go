package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"realty/shared/constant"
	"realty/shared/failure"
	"realty/shared/logger"

	"github.com/rs/zerolog/log"
)

// Data, Error and Message are the three envelopes every endpoint answers with.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError writes err under its failure code. Only *failure.Failure
// messages reach the client; anything else is logged and masked.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	var fail *failure.Failure
	if errors.As(err, &fail) {
		write(writer, code, Error{Error: &fail.Message})

		return
	}

	log.Error().Err(err).Int("status", code).Msg("request failed")

	message := constant.ResponseErrorInternal
	if code == http.StatusGatewayTimeout {
		message = constant.ResponseErrorTimeout
	}

	write(writer, code, Error{Error: &message})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown answers health probes during the shutdown grace period.
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		code = http.StatusInternalServerError
		body = []byte(`{"error":"` + constant.ResponseErrorInternal + `"}`)
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err := writer.Write(body); err != nil {
		log.Debug().Err(err).Msg("client went away before the response was written")
	}
}
