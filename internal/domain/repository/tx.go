package repository

// Tx agrupa los repositorios atados a una misma transacción.
type Tx struct {
	Items       ItemRepository
	BOM         BOMRepository
	Orders      ConversionOrderRepository
	Movements   MovementRepository
	Stocktaking StocktakingRepository
	Sequences   SequenceRepository
}
