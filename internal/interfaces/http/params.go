package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

func pageFrom(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}

// kindsFrom lee ?kind=raw_material,finished. Vacío = todos.
func kindsFrom(c *fiber.Ctx) ([]entity.ItemKind, error) {
	raw := strings.TrimSpace(c.Query("kind"))
	if raw == "" {
		return nil, nil
	}
	var kinds []entity.ItemKind
	for _, part := range strings.Split(raw, ",") {
		k := entity.ItemKind(strings.TrimSpace(part))
		if !k.Valid() {
			return nil, domain.Invalid("item", "", "tipo de ítem desconocido: "+string(k))
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// timeQuery lee un parámetro RFC3339 opcional.
func timeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.Invalid("query", key, "fecha inválida, use RFC3339")
	}
	return &t, nil
}
