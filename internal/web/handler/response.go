package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/biluochun/biluochun/internal/apperror"
	"github.com/biluochun/biluochun/internal/imaging"
)

// internalErrorMsg is all a client learns about unexpected errors.
const internalErrorMsg = "Internal server error"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details apperror.Details `json:"details,omitempty"`
}

// StatusOf maps an error to its http status.
func StatusOf(err error) int {
	var fe *fiber.Error

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return fiber.StatusConflict
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// SendError writes the json error envelope for err.
// Errors without a known kind are logged and answered with a generic 500.
func SendError(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	resp := ErrorResponse{Error: internalErrorMsg}

	var fe *fiber.Error

	if appErr, ok := apperror.As(err); ok {
		resp.Error = appErr.Message
		resp.Details = appErr.Details
	} else if errors.As(err, &fe) {
		resp.Error = fe.Message
	}

	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")

		resp.Error = internalErrorMsg
		resp.Details = nil
	}

	return c.Status(status).JSON(resp)
}

// ErrorHandler is the fiber error handler of the app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return SendError(c, err)
}

// Empty answers with the empty success object.
func Empty(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{})
}

// Bind parses the request body into out. An empty body leaves out untouched.
func Bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}

	if err := c.BodyParser(out); err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("can't parse body")
		return apperror.FieldInvalid("body", "Malformed request body.")
	}

	return nil
}

// ParamID parses the numeric route parameter "id". Anything else is reported as notFound.
func ParamID(c *fiber.Ctx, notFound string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound("%s", notFound)
	}

	return id, nil
}

// UploadedImage returns the image of a multipart upload in the avatar field,
// or the raw body for any other request.
func UploadedImage(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile(imaging.Field)
	if err != nil {
		return append([]byte(nil), c.Body()...), nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	defer func() { _ = f.Close() }()

	return io.ReadAll(f) //nolint:wrapcheck
}

// NoCache marks the response as not cacheable.
func NoCache(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate, public, max-age=0")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")

	return c.Next()
}
