package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/pkg/validation"
	"campus-recruit/internal/upload"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var validate = validation.New()

// principal returns the caller attached by AuthMiddleware.Require.
func principal(c fiber.Ctx) (middleware.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return middleware.Principal{}, middleware.Unauthenticated("", nil)
	}
	return p, nil
}

// pathID parses a route id. An id that is not a UUID cannot name a stored
// entity, so it is reported with the resource's not-found message.
func pathID(c fiber.Ctx, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NotFound(notFound, err)
	}
	return id, nil
}

func bindJSON(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.BadRequest("Invalid request body", err)
	}
	return nil
}

func validateBody(v any) error {
	if err := validate.Struct(v); err != nil {
		return middleware.BadRequest(err.Error(), err)
	}
	return nil
}

// formFile reads one multipart part, refusing oversized parts before the body
// is read. A missing part yields an empty File.
func formFile(c fiber.Ctx, field string, policy upload.Policy) (upload.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return upload.File{}, policy.CheckSize(policy.MaxBytes + 1)
		}
		return upload.File{}, nil
	}
	if err := policy.CheckSize(fh.Size); err != nil {
		return upload.File{}, err
	}

	src, err := fh.Open()
	if err != nil {
		return upload.File{}, middleware.BadRequest("No file provided", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, policy.MaxBytes+1))
	if err != nil {
		return upload.File{}, middleware.BadRequest("No file provided", err)
	}
	return upload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// asRejection renders a policy rejection as a 400 carrying its message and
// returns nil for any other error.
func asRejection(err error) *middleware.AppError {
	var rej *upload.Rejection
	if errors.As(err, &rej) {
		return middleware.BadRequest(rej.Message, err)
	}
	return nil
}
