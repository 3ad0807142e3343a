package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/botiquin-api/internal/application/ledger"
	"github.com/jhoicas/botiquin-api/internal/domain"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
	"github.com/jhoicas/botiquin-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	balances   map[string]int // drugID + "|" + location
	idToCode   map[string]string
	pharmacy   map[string]int // saldo de farmacia por código
	txs        []*entity.DrugTransaction
	failDelta  error
	failAppend error
}

func newMemStore() *memStore {
	return &memStore{
		balances: make(map[string]int),
		idToCode: make(map[string]string),
		pharmacy: make(map[string]int),
	}
}

func balKey(drugID string, loc entity.Location) string {
	return drugID + "|" + string(loc)
}

func (s *memStore) Get(drugID string, loc entity.Location) (*entity.StockBalance, error) {
	return &entity.StockBalance{DrugID: drugID, Location: loc, Quantity: s.balances[balKey(drugID, loc)]}, nil
}

func (s *memStore) ApplyDelta(drugID string, loc entity.Location, delta int, collegeID string) error {
	if s.failDelta != nil {
		return s.failDelta
	}
	s.balances[balKey(drugID, loc)] += delta
	if loc == entity.LocationPharmacy {
		s.pharmacy[s.idToCode[drugID]] += delta
	}
	return nil
}

func (s *memStore) GetPharmacyQuantity(drugCode string) (int, error) {
	return s.pharmacy[drugCode], nil
}

func (s *memStore) Append(t *entity.DrugTransaction) (string, error) {
	if s.failAppend != nil {
		return "", s.failAppend
	}
	cp := *t
	s.txs = append(s.txs, &cp)
	return cp.ID, nil
}

func (s *memStore) List(f repository.TransactionFilter) ([]*entity.DrugTransaction, error) {
	var out []*entity.DrugTransaction
	for _, t := range s.txs {
		if f.DrugCode != "" && t.DrugCode != f.DrugCode {
			continue
		}
		if f.CollegeID != "" && !tenant.SameCollege(t.CollegeID, f.CollegeID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type memDrugRepo struct {
	byCode map[string]*entity.Drug
}

func (r *memDrugRepo) Create(d *entity.Drug) error {
	r.byCode[d.Code] = d
	return nil
}

func (r *memDrugRepo) GetByCode(code string) (*entity.Drug, error) {
	return r.byCode[code], nil // nil, nil si no existe
}

func (r *memDrugRepo) ListAvailable(claim tenant.Claim) ([]*entity.DrugAvailability, error) {
	return nil, nil
}

// memTxRunner pasa los mismos fakes; sin rollback real, suficiente para
// el contrato observable del caso de uso.
type memTxRunner struct {
	store *memStore
	boxes repository.BoxRepository
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	txLogRepo repository.TransactionRepository,
	boxRepo repository.BoxRepository,
) error) error {
	return fn(r.store, r.store, r.boxes)
}

func newLedger(mode ledger.Mode, store *memStore, drugs *memDrugRepo) *ledger.UseCase {
	return ledger.NewUseCase(mode, &memTxRunner{store: store}, drugs, store, store, logger.Nop())
}

func seedDrug(store *memStore, drugs *memDrugRepo, code string, pharmacyQty int) *entity.Drug {
	d := &entity.Drug{ID: "drug-" + code, Code: code, TradeName: code, IsActive: true}
	drugs.byCode[code] = d
	store.idToCode[d.ID] = code
	store.pharmacy[code] = pharmacyQty
	store.balances[balKey(d.ID, entity.LocationPharmacy)] = pharmacyQty
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_DispensacionAplicaDeltasYUnRegistro(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	d := seedDrug(store, drugs, "PARA500", 100)
	uc := newLedger(ledger.ModeBestEffort, store, drugs)

	in := ledger.DispenseInput("PARA500", 5, "box-1", "Botiquín Lab", "Medicina", "user-1")
	res, err := uc.ApplyMovement(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.False(t, res.Skipped)
	assert.Empty(t, res.Warning)
	assert.NotEmpty(t, res.TransactionID)

	assert.Equal(t, -5, store.balances[balKey(d.ID, entity.LocationWarehouse)],
		"la fila de bodega se crea perezosa sembrada con el delta")
	assert.Equal(t, 95, store.balances[balKey(d.ID, entity.LocationPharmacy)])

	require.Len(t, store.txs, 1, "exactamente un registro de auditoría por movimiento")
	rec := store.txs[0]
	assert.Equal(t, res.TransactionID, rec.ID)
	assert.Equal(t, entity.TransactionWarehouseToBox, rec.Type)
	assert.Equal(t, -5, rec.QuantityChange, "dispensación se registra con signo negativo")
	assert.Equal(t, "warehouse", rec.Source)
	assert.Equal(t, "box_box-1", rec.Destination)
	assert.Equal(t, "Medicina", rec.CollegeID)
	assert.Equal(t, "user-1", rec.CreatedBy)
}

func TestApplyMovement_SinCodigoSeOmite(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	uc := newLedger(ledger.ModeBestEffort, store, drugs)

	in := ledger.DispenseInput("", 3, "box-1", "Botiquín", "", "user-1")
	res, err := uc.ApplyMovement(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, store.txs)
	assert.Empty(t, store.balances)
}

func TestApplyMovement_CodigoFueraDeCatalogoSeOmite(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	uc := newLedger(ledger.ModeBestEffort, store, drugs)

	in := ledger.DispenseInput("NOEXISTE", 3, "box-1", "Botiquín", "", "user-1")
	res, err := uc.ApplyMovement(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.Skipped, "un código sin entrada de catálogo no es un error")
	assert.Empty(t, store.txs)
}

func TestApplyMovement_BestEffort_StockInsuficienteAvisaPeroAplica(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	d := seedDrug(store, drugs, "IBU400", 2)
	uc := newLedger(ledger.ModeBestEffort, store, drugs)

	in := ledger.DispenseInput("IBU400", 10, "box-1", "Botiquín", "", "user-1")
	res, err := uc.ApplyMovement(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.NotEmpty(t, res.Warning, "el chequeo de farmacia es consultivo, no bloqueante")
	assert.Equal(t, -8, store.balances[balKey(d.ID, entity.LocationPharmacy)],
		"el saldo puede quedar negativo bajo best-effort")
	require.Len(t, store.txs, 1)
}

func TestApplyMovement_Atomic_StockInsuficienteBloquea(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	d := seedDrug(store, drugs, "IBU400", 2)
	uc := newLedger(ledger.ModeAtomic, store, drugs)

	in := ledger.DispenseInput("IBU400", 10, "box-1", "Botiquín", "", "user-1")
	_, err := uc.ApplyMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, store.balances[balKey(d.ID, entity.LocationPharmacy)],
		"nada se escribe cuando el modo atómico rechaza")
	assert.Empty(t, store.txs)
}

func TestApplyMovement_BestEffort_FalloDePersistenciaSeTraga(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	seedDrug(store, drugs, "PARA500", 100)
	store.failAppend = errors.New("conexión perdida")
	uc := newLedger(ledger.ModeBestEffort, store, drugs)

	in := ledger.DispenseInput("PARA500", 5, "box-1", "Botiquín", "", "user-1")
	res, err := uc.ApplyMovement(context.Background(), in)
	require.NoError(t, err, "best-effort nunca propaga fallos de persistencia del ledger")
	assert.True(t, res.Degraded)
	assert.False(t, res.Applied)
	assert.Empty(t, store.txs)
}

func TestApplyMovement_Atomic_FalloDePersistenciaPropaga(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	seedDrug(store, drugs, "PARA500", 100)
	store.failDelta = errors.New("disco lleno")
	uc := newLedger(ledger.ModeAtomic, store, drugs)

	in := ledger.DispenseInput("PARA500", 5, "box-1", "Botiquín", "", "user-1")
	_, err := uc.ApplyMovement(context.Background(), in)
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversión
// ──────────────────────────────────────────────────────────────────────────────

func TestReverseMovement_RestauraSaldosExactos(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	d := seedDrug(store, drugs, "PARA500", 50)
	uc := newLedger(ledger.ModeBestEffort, store, drugs)

	original := ledger.DispenseInput("PARA500", 7, "box-9", "Botiquín", "Medicina", "user-1")
	_, err := uc.ApplyMovement(context.Background(), original)
	require.NoError(t, err)

	res, err := uc.ReverseMovement(context.Background(), original)
	require.NoError(t, err)
	assert.True(t, res.Applied)

	assert.Equal(t, 0, store.balances[balKey(d.ID, entity.LocationWarehouse)])
	assert.Equal(t, 50, store.balances[balKey(d.ID, entity.LocationPharmacy)],
		"la reversión restaura los deltas inversos exactos")

	require.Len(t, store.txs, 2)
	rev := store.txs[1]
	assert.Equal(t, entity.TransactionBoxReturn, rev.Type)
	assert.Equal(t, 7, rev.QuantityChange, "la devolución se registra con signo positivo")
	assert.Equal(t, "box_box-9", rev.Source, "origen y destino van invertidos")
	assert.Equal(t, "warehouse", rev.Destination)
}

func TestReversal_DevolucionNoChequeaFarmacia(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	seedDrug(store, drugs, "PARA500", 0)
	uc := newLedger(ledger.ModeAtomic, store, drugs)

	original := ledger.DispenseInput("PARA500", 3, "box-1", "Botiquín", "", "user-1")
	res, err := uc.ApplyMovement(context.Background(), ledger.Reversal(original))
	require.NoError(t, err, "box_return no pasa por el chequeo de dispensación")
	assert.True(t, res.Applied)
}

// ──────────────────────────────────────────────────────────────────────────────
// Prepare — validación
// ──────────────────────────────────────────────────────────────────────────────

func TestPrepare_EntradaInvalida(t *testing.T) {
	store := newMemStore()
	drugs := &memDrugRepo{byCode: map[string]*entity.Drug{}}
	uc := newLedger(ledger.ModeBestEffort, store, drugs)

	cases := []ledger.MovementInput{
		{DrugCode: "X", Quantity: 0, Type: entity.TransactionWarehouseToBox,
			Deltas: []ledger.LocationDelta{{Location: entity.LocationPharmacy, Delta: -1}}},
		{DrugCode: "X", Quantity: -2, Type: entity.TransactionWarehouseToBox,
			Deltas: []ledger.LocationDelta{{Location: entity.LocationPharmacy, Delta: 2}}},
		{DrugCode: "X", Quantity: 1, Type: entity.TransactionWarehouseToBox},
		{DrugCode: "X", Quantity: 1, Type: "transfer",
			Deltas: []ledger.LocationDelta{{Location: entity.LocationPharmacy, Delta: -1}}},
	}
	for _, in := range cases {
		_, err := uc.Prepare(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ledger.ModeAtomic, ledger.ParseMode("atomic"))
	assert.Equal(t, ledger.ModeBestEffort, ledger.ParseMode("best_effort"))
	assert.Equal(t, ledger.ModeBestEffort, ledger.ParseMode(""))
	assert.Equal(t, ledger.ModeBestEffort, ledger.ParseMode("whatever"))
}
