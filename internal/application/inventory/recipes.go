package inventory

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// loadRecipes carga y valida las recetas de los ítems de salida indicados.
// Los ítems sin receta (o inexistentes) quedan fuera del mapa; quien expande decide el error.
func loadRecipes(ctx context.Context, items repository.ItemRepository, bom repository.BOMRepository, ownerIDs []string) (map[string]*domaininv.Recipe, error) {
	ids := uniqueIDs(ownerIDs)
	out := make(map[string]*domaininv.Recipe, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	lines, err := bom.ListByOwners(ctx, ids)
	if err != nil {
		return nil, domain.Persistence("list bom", err)
	}
	for _, id := range ids {
		if len(lines[id]) == 0 {
			continue
		}
		owner, err := items.GetByID(ctx, id)
		if err != nil {
			return nil, domain.Persistence("get item "+id, err)
		}
		if owner == nil {
			continue
		}
		r, err := domaininv.NewRecipe(owner, lines[id])
		if err != nil {
			return nil, err
		}
		out[id] = r
	}
	return out, nil
}

// requireOutput valida que el ítem de salida exista, sea del tipo esperado y tenga receta.
// line es 1-based y se usa para identificar la línea culpable.
func requireOutput(ctx context.Context, items repository.ItemRepository, recipes map[string]*domaininv.Recipe, id string, kind entity.ItemKind, line int) error {
	if id == "" {
		return domain.InvalidLine("order_line", line, "output_item_id requerido")
	}
	item, err := items.GetByID(ctx, id)
	if err != nil {
		return domain.Persistence("get item "+id, err)
	}
	if item == nil {
		return &domain.Error{Kind: domain.ErrNotFound, Entity: "item", ID: id, Line: line}
	}
	if item.Kind != kind {
		return &domain.Error{
			Kind: domain.ErrInvalidInput, Entity: "order_line", ID: id, Line: line,
			Message: "el ítem " + item.Code + " es " + string(item.Kind) + ", se esperaba " + string(kind),
		}
	}
	if _, ok := recipes[id]; !ok {
		return &domain.Error{Kind: domain.ErrNotFound, Entity: "recipe", ID: id, Line: line, Message: "el ítem " + item.Code + " no tiene receta"}
	}
	return nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
