package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo unitario tras una entrada de qty unidades a unitCost.
// Si el ítem no tenía stock positivo el costo de la entrada reemplaza al promedio.
func WeightedAverageCost(onHand, currentCost, qty, unitCost decimal.Decimal) decimal.Decimal {
	if !onHand.IsPositive() {
		return unitCost
	}
	total := onHand.Add(qty)
	if !total.IsPositive() {
		return decimal.Zero
	}
	return onHand.Mul(currentCost).Add(qty.Mul(unitCost)).Div(total)
}

// UnitCostOf costo de los componentes consumidos por unidad producida.
func UnitCostOf(consumedCost, produced decimal.Decimal) decimal.Decimal {
	if !produced.IsPositive() {
		return decimal.Zero
	}
	return consumedCost.Div(produced)
}
