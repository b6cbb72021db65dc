package response

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fair/shared/constant"
	"fair/shared/failure"
	"fair/shared/logger"
)

const headerRetryAfter = "Retry-After"

// Data, Error and Message are the three response bodies of the API.
type Data[T any] struct {
	Data T `json:"data"`
}

type Error struct {
	Error string `json:"error"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: payload})
}

// WithError maps err to its failure code. Messages of unclassified errors
// stay in the logs and the client only sees a generic text.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	message := constant.ResponseErrorInternal
	if code < http.StatusInternalServerError {
		message = err.Error()
	}

	write(writer, code, Error{Error: message})
}

// WithRequestLimitExceeded tells the client when the current rate window ends.
func WithRequestLimitExceeded(writer http.ResponseWriter, retryAfter time.Duration) {
	setRetryAfter(writer, retryAfter)
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	setRetryAfter(writer, 5*time.Second)
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func setRetryAfter(writer http.ResponseWriter, after time.Duration) {
	seconds := int(after.Round(time.Second) / time.Second)
	writer.Header().Set(headerRetryAfter, strconv.Itoa(max(1, seconds)))
}

func write(writer http.ResponseWriter, code int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		logger.ErrorWithStack(err)

		code = http.StatusInternalServerError
		payload = []byte(`{"error":"` + constant.ResponseErrorInternal + `"}`)
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(payload); err != nil {
		logger.ErrorWithStack(err)
	}
}
