package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

const MessageBodyTooLarge = "Request body too large"

// BodyLimit caps request bodies at limit bytes when the server streams
// bodies. Multipart forms of known length are exempt: the server spools
// their parts to disk before routing, and each handler sizes its own part.
func BodyLimit(limit int) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := &c.Request().Header
		n := h.ContentLength()
		if n != -1 && (limit <= 0 || n <= limit || spooledMultipart(h.ContentType(), h.ContentEncoding())) {
			return c.Next()
		}
		// The unread remainder of the body cannot be reused as the next request.
		c.RequestCtx().SetConnectionClose()
		return NewAppError(fiber.StatusRequestEntityTooLarge, MessageBodyTooLarge, nil, fiber.ErrRequestEntityTooLarge)
	}
}

func spooledMultipart(contentType, contentEncoding []byte) bool {
	return len(contentEncoding) == 0 && strings.HasPrefix(strings.ToLower(string(contentType)), fiber.MIMEMultipartForm)
}
