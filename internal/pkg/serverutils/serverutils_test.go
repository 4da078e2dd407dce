package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Question string `json:"question" validate:"required"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Question: "hi"}))

	err := ValidateRequest(sampleRequest{})
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Equal(t, "question is required", fe.Message)
}

type strictRequest struct {
	Question string `json:"question" validate:"required,notblank"`
}

func TestValidateRequest_NotBlank(t *testing.T) {
	for _, q := range []string{"   ", "\t\n"} {
		err := ValidateRequest(strictRequest{Question: q})
		var fe *fiber.Error
		require.True(t, errors.As(err, &fe), "question %q", q)
		assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		assert.Equal(t, "question is required", fe.Message)
	}

	assert.NoError(t, ValidateRequest(strictRequest{Question: " what changed in version 4? "}))
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/bad", func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "nope") })
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("boom") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.JSON(SuccessResponse("fine", 1)) })

	cases := []struct {
		path    string
		code    int
		success bool
		message string
	}{
		{"/bad", 400, false, "nope"},
		{"/boom", 500, false, "boom"},
		{"/ok", 200, true, "fine"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.code, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var env map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &env))
			assert.Equal(t, tc.success, env["success"])
			assert.Equal(t, tc.message, env["message"])
		})
	}
}
