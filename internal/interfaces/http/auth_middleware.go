package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/pkg/jwt"
)

// LocalUserID clave en c.Locals del operador autenticado.
const LocalUserID = "user_id"

// AuthMiddleware identifica al operador por Bearer JWT; el operador firma los movimientos.
// Con secret vacío no exige token y los movimientos quedan sin operador.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	if jwtSecret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		token, code := bearerToken(c.Get(fiber.HeaderAuthorization))
		if code != "" {
			return unauthorized(c, code)
		}
		userID, err := jwt.Parse(jwtSecret, token)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN")
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// bearerToken extrae el token; code no vacío indica el motivo del rechazo.
func bearerToken(header string) (token, code string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "MISSING_TOKEN"
	}
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "INVALID_TOKEN"
	}
	if token = strings.TrimSpace(rest); token == "" {
		return "", "MISSING_TOKEN"
	}
	return token, ""
}

func unauthorized(c *fiber.Ctx, code string) error {
	msg := "token inválido o expirado"
	if code == "MISSING_TOKEN" {
		msg = "Authorization: Bearer <token> requerido"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// GetUserID operador del contexto, vacío sin autenticación.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}
