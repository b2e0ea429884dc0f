package response

import "github.com/gofiber/fiber/v3"

// Envelope is the body shape of every JSON response: a success flag, an
// optional message, and the payload keys merged at the top level.
type Envelope map[string]any

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageTooManyRequests     = "too many requests"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

func Success(c fiber.Ctx, status int, message string, payload fiber.Map) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(build(true, message, payload))
}

// Error writes a failure envelope. A fiber.Map data is merged like a success
// payload; any other non-nil value is placed under "details".
func Error(c fiber.Ctx, status int, message string, data any) error {
	st := normalizeStatus(status)
	msg := normalizeMessage(message, st)

	var payload fiber.Map
	switch d := data.(type) {
	case nil:
	case fiber.Map:
		payload = d
	default:
		payload = fiber.Map{"details": d}
	}
	return c.Status(st).JSON(build(false, msg, payload))
}

func build(success bool, message string, payload fiber.Map) Envelope {
	env := make(Envelope, len(payload)+2)
	for k, v := range payload {
		env[k] = v
	}
	env["success"] = success
	if message != "" {
		env["message"] = message
	} else {
		delete(env, "message")
	}
	return env
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func normalizeMessage(message string, status int) string {
	if message != "" {
		return message
	}
	return DefaultMessageForStatus(status)
}

func DefaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusTooManyRequests:
		return MessageTooManyRequests
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
