package firstaid_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/botiquin-api/internal/application/firstaid"
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

type fakeBoxRepo struct {
	boxes  map[string]*entity.FirstAidBox
	items  map[string]*entity.BoxItem // itemID → item
	legacy tenant.LegacyVisibility
}

func newFakeBoxRepo() *fakeBoxRepo {
	return &fakeBoxRepo{
		boxes:  make(map[string]*entity.FirstAidBox),
		items:  make(map[string]*entity.BoxItem),
		legacy: tenant.LegacyVisible,
	}
}

func (r *fakeBoxRepo) CreateBox(b *entity.FirstAidBox) error {
	cp := *b
	r.boxes[b.ID] = &cp
	return nil
}

func (r *fakeBoxRepo) GetBox(id string) (*entity.FirstAidBox, error) {
	b, ok := r.boxes[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBoxRepo) ListBoxes(claim tenant.Claim) ([]*entity.FirstAidBox, error) {
	var out []*entity.FirstAidBox
	for _, b := range r.boxes {
		switch {
		case claim.IsGlobal():
		case claim.IsScoped():
			if b.CollegeID == "" {
				if r.legacy == tenant.LegacyAdminOnly {
					continue
				}
			} else if !tenant.SameCollege(b.CollegeID, claim.College()) {
				continue
			}
		default:
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBoxRepo) TouchReviewed(id string, at time.Time) error {
	if b, ok := r.boxes[id]; ok {
		t := at
		b.LastReviewedAt = &t
	}
	return nil
}

func (r *fakeBoxRepo) CreateItem(it *entity.BoxItem) error {
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeBoxRepo) GetItem(boxID, itemID string) (*entity.BoxItem, error) {
	it, ok := r.items[itemID]
	if !ok || it.BoxID != boxID {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeBoxRepo) ListItems(boxID string) ([]*entity.BoxItem, error) {
	var out []*entity.BoxItem
	for _, it := range r.items {
		if it.BoxID == boxID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBoxRepo) DeleteItem(boxID, itemID string) error {
	if it, ok := r.items[itemID]; ok && it.BoxID == boxID {
		delete(r.items, itemID)
	}
	return nil
}

type fakeStockRepo struct {
	balances map[string]int // drugID + "|" + location
	pharmacy map[string]int // por código
	idToCode map[string]string
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		balances: make(map[string]int),
		pharmacy: make(map[string]int),
		idToCode: make(map[string]string),
	}
}

func (s *fakeStockRepo) key(drugID string, loc entity.Location) string {
	return drugID + "|" + string(loc)
}

func (s *fakeStockRepo) Get(drugID string, loc entity.Location) (*entity.StockBalance, error) {
	return &entity.StockBalance{DrugID: drugID, Location: loc, Quantity: s.balances[s.key(drugID, loc)]}, nil
}

func (s *fakeStockRepo) ApplyDelta(drugID string, loc entity.Location, delta int, collegeID string) error {
	s.balances[s.key(drugID, loc)] += delta
	if loc == entity.LocationPharmacy {
		s.pharmacy[s.idToCode[drugID]] += delta
	}
	return nil
}

func (s *fakeStockRepo) GetPharmacyQuantity(drugCode string) (int, error) {
	return s.pharmacy[drugCode], nil
}

type fakeTxLog struct {
	txs []*entity.DrugTransaction
}

func (l *fakeTxLog) Append(t *entity.DrugTransaction) (string, error) {
	cp := *t
	l.txs = append(l.txs, &cp)
	return cp.ID, nil
}

func (l *fakeTxLog) List(f repository.TransactionFilter) ([]*entity.DrugTransaction, error) {
	return l.txs, nil
}

type fakeDrugRepo struct {
	byCode map[string]*entity.Drug
}

func (r *fakeDrugRepo) Create(d *entity.Drug) error {
	r.byCode[d.Code] = d
	return nil
}

func (r *fakeDrugRepo) GetByCode(code string) (*entity.Drug, error) {
	return r.byCode[code], nil
}

func (r *fakeDrugRepo) ListAvailable(claim tenant.Claim) ([]*entity.DrugAvailability, error) {
	return nil, nil
}

type fakeTxRunner struct {
	stock *fakeStockRepo
	txLog *fakeTxLog
	boxes *fakeBoxRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	txLogRepo repository.TransactionRepository,
	boxRepo repository.BoxRepository,
) error) error {
	return fn(r.stock, r.txLog, r.boxes)
}

// env agrupa los fakes de un escenario.
type env struct {
	boxes *fakeBoxRepo
	stock *fakeStockRepo
	txLog *fakeTxLog
	drugs *fakeDrugRepo
	uc    *firstaid.UseCase
}

func newEnv(mode ledger.Mode, legacy tenant.LegacyVisibility) *env {
	boxes := newFakeBoxRepo()
	boxes.legacy = legacy
	stock := newFakeStockRepo()
	txLog := &fakeTxLog{}
	drugs := &fakeDrugRepo{byCode: map[string]*entity.Drug{}}
	runner := &fakeTxRunner{stock: stock, txLog: txLog, boxes: boxes}
	ledgerUC := ledger.NewUseCase(mode, runner, drugs, stock, txLog, logger.Nop())
	uc := firstaid.NewUseCase(tenant.NewGuard(legacy), boxes, ledgerUC, runner, logger.Nop())
	return &env{boxes: boxes, stock: stock, txLog: txLog, drugs: drugs, uc: uc}
}

func (e *env) seedDrug(code string, pharmacyQty int) *entity.Drug {
	d := &entity.Drug{ID: "drug-" + code, Code: code, TradeName: code, IsActive: true}
	e.drugs.byCode[code] = d
	e.stock.idToCode[d.ID] = code
	e.stock.pharmacy[code] = pharmacyQty
	e.stock.balances[e.stock.key(d.ID, entity.LocationPharmacy)] = pharmacyQty
	return d
}

func doctor(id, college string) *entity.User {
	return &entity.User{ID: id, IsDoctor: true, DoctorCollege: college, IsActive: true}
}

func admin(id string) *entity.User {
	return &entity.User{ID: id, IsAdmin: true, IsActive: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBox / ListBoxes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBox_SellaLaFacultadDelActor(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	box, err := e.uc.CreateBox(context.Background(), doctor("u1", "Medicina"), "Botiquín Lab 2", "Edificio B")
	require.NoError(t, err)
	assert.Equal(t, "Medicina", box.CollegeID)
	assert.Equal(t, "u1", box.CreatedBy)
}

func TestCreateBox_SinFacultadRechazado(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	_, err := e.uc.CreateBox(context.Background(), &entity.User{ID: "u1"}, "Botiquín", "")
	assert.ErrorIs(t, err, domain.ErrTenantUnassigned)

	// El admin global tampoco porta facultad propia.
	_, err = e.uc.CreateBox(context.Background(), admin("a1"), "Botiquín", "")
	assert.ErrorIs(t, err, domain.ErrTenantUnassigned)
}

func TestListBoxes_AislamientoEntreFacultades(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	medBox, err := e.uc.CreateBox(ctx, doctor("u1", "Medicina"), "Botiquín Medicina", "")
	require.NoError(t, err)
	_, err = e.uc.CreateBox(ctx, doctor("u2", "Ingeniería"), "Botiquín Ingeniería", "")
	require.NoError(t, err)

	mine, err := e.uc.ListBoxes(ctx, doctor("u1", "Medicina"))
	require.NoError(t, err)
	require.Len(t, mine, 1, "cada facultad ve solo sus botiquines")
	assert.Equal(t, medBox.ID, mine[0].ID)

	all, err := e.uc.ListBoxes(ctx, admin("a1"))
	require.NoError(t, err)
	assert.Len(t, all, 2, "el admin global ve todo")

	_, err = e.uc.ListBoxes(ctx, &entity.User{ID: "u3"})
	assert.ErrorIs(t, err, domain.ErrTenantUnassigned)
}

func TestListBoxes_LegacySegunPolitica(t *testing.T) {
	legacyBox := &entity.FirstAidBox{ID: "legacy-1", Name: "Botiquín antiguo"}

	visible := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	require.NoError(t, visible.boxes.CreateBox(legacyBox))
	boxes, err := visible.uc.ListBoxes(context.Background(), doctor("u1", "Medicina"))
	require.NoError(t, err)
	assert.Len(t, boxes, 1, "bajo visible el botiquín sin facultad aparece")

	adminOnly := newEnv(ledger.ModeBestEffort, tenant.LegacyAdminOnly)
	require.NoError(t, adminOnly.boxes.CreateBox(legacyBox))
	boxes, err = adminOnly.uc.ListBoxes(context.Background(), doctor("u1", "Medicina"))
	require.NoError(t, err)
	assert.Empty(t, boxes, "bajo admin_only solo lo ven administradores")
}

// ──────────────────────────────────────────────────────────────────────────────
// AddItemToBox
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItemToBox_ConCodigoDisparaElLedger(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	d := e.seedDrug("PARA500", 100)
	actor := doctor("u1", "Medicina")
	box, err := e.uc.CreateBox(ctx, actor, "Botiquín Lab", "")
	require.NoError(t, err)

	item, res, err := e.uc.AddItemToBox(ctx, actor, box.ID, firstaid.AddItemInput{
		DrugName: "Paracetamol",
		DrugCode: "PARA500",
		Quantity: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Medicina", item.CollegeID, "la facultad del elemento se copia del claim")
	assert.Equal(t, firstaid.DefaultUnit, item.Unit)
	assert.True(t, res.Applied)
	assert.NotEmpty(t, res.TransactionID)

	assert.Equal(t, 90, e.stock.balances[e.stock.key(d.ID, entity.LocationPharmacy)])
	assert.Equal(t, -10, e.stock.balances[e.stock.key(d.ID, entity.LocationWarehouse)])
	require.Len(t, e.txLog.txs, 1)
	assert.Equal(t, entity.TransactionWarehouseToBox, e.txLog.txs[0].Type)
}

func TestAddItemToBox_SinCodigoNoHayLedger(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	actor := doctor("u1", "Medicina")
	box, err := e.uc.CreateBox(ctx, actor, "Botiquín", "")
	require.NoError(t, err)

	item, res, err := e.uc.AddItemToBox(ctx, actor, box.ID, firstaid.AddItemInput{
		DrugName: "Venda artesanal",
		Quantity: 3,
		Unit:     "rollos",
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped, "sin código de catálogo el ledger se omite por completo")
	assert.Empty(t, e.txLog.txs)

	items, err := e.boxes.ListItems(box.ID)
	require.NoError(t, err)
	require.Len(t, items, 1, "el contenido del botiquín es lo autoritativo y sí persiste")
	assert.Equal(t, item.ID, items[0].ID)
}

func TestAddItemToBox_OtraFacultadEsForbidden(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	box, err := e.uc.CreateBox(ctx, doctor("u1", "Medicina"), "Botiquín Medicina", "")
	require.NoError(t, err)

	_, _, err = e.uc.AddItemToBox(ctx, doctor("u2", "Ingeniería"), box.ID, firstaid.AddItemInput{
		DrugName: "Gasa",
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"cruzar facultades devuelve 403, distinto de not-found")
}

func TestAddItemToBox_AdminGlobalCopiaLaFacultadDelBotiquin(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	box, err := e.uc.CreateBox(ctx, doctor("u1", "Medicina"), "Botiquín", "")
	require.NoError(t, err)

	item, _, err := e.uc.AddItemToBox(ctx, admin("a1"), box.ID, firstaid.AddItemInput{
		DrugName: "Gasa",
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Medicina", item.CollegeID,
		"el elemento hereda la facultad del botiquín cuando el actor es global")
}

func TestAddItemToBox_Atomic_StockInsuficienteRevierteTodo(t *testing.T) {
	e := newEnv(ledger.ModeAtomic, tenant.LegacyVisible)
	ctx := context.Background()
	e.seedDrug("IBU400", 1)
	actor := doctor("u1", "Medicina")
	box, err := e.uc.CreateBox(ctx, actor, "Botiquín", "")
	require.NoError(t, err)

	_, _, err = e.uc.AddItemToBox(ctx, actor, box.ID, firstaid.AddItemInput{
		DrugName: "Ibuprofeno",
		DrugCode: "IBU400",
		Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	items, err := e.boxes.ListItems(box.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "en modo atómico el elemento no queda a medio crear")
	assert.Empty(t, e.txLog.txs)
}

func TestAddItemToBox_BestEffort_StockInsuficienteSoloAvisa(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	e.seedDrug("IBU400", 1)
	actor := doctor("u1", "Medicina")
	box, err := e.uc.CreateBox(ctx, actor, "Botiquín", "")
	require.NoError(t, err)

	item, res, err := e.uc.AddItemToBox(ctx, actor, box.ID, firstaid.AddItemInput{
		DrugName: "Ibuprofeno",
		DrugCode: "IBU400",
		Quantity: 5,
	})
	require.NoError(t, err)
	assert.NotNil(t, item)
	assert.True(t, res.Applied)
	assert.NotEmpty(t, res.Warning)
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveItemFromBox
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveItemFromBox_RevierteLaDispensacion(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	d := e.seedDrug("PARA500", 100)
	actor := doctor("u1", "Medicina")
	box, err := e.uc.CreateBox(ctx, actor, "Botiquín", "")
	require.NoError(t, err)
	item, _, err := e.uc.AddItemToBox(ctx, actor, box.ID, firstaid.AddItemInput{
		DrugName: "Paracetamol", DrugCode: "PARA500", Quantity: 10,
	})
	require.NoError(t, err)

	res, err := e.uc.RemoveItemFromBox(ctx, actor, box.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, res.Applied)

	assert.Equal(t, 100, e.stock.balances[e.stock.key(d.ID, entity.LocationPharmacy)],
		"la reversión restaura el saldo exacto")
	assert.Equal(t, 0, e.stock.balances[e.stock.key(d.ID, entity.LocationWarehouse)])
	require.Len(t, e.txLog.txs, 2)
	assert.Equal(t, entity.TransactionBoxReturn, e.txLog.txs[1].Type)
	assert.Equal(t, 10, e.txLog.txs[1].QuantityChange)

	items, err := e.boxes.ListItems(box.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveItemFromBox_ElementoAjenoEsItemNotFound(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	actor := doctor("u1", "Medicina")
	boxA, err := e.uc.CreateBox(ctx, actor, "Botiquín A", "")
	require.NoError(t, err)
	boxB, err := e.uc.CreateBox(ctx, actor, "Botiquín B", "")
	require.NoError(t, err)
	item, _, err := e.uc.AddItemToBox(ctx, actor, boxA.ID, firstaid.AddItemInput{
		DrugName: "Gasa", Quantity: 1,
	})
	require.NoError(t, err)

	// Id de elemento válido pero en otro botiquín: ITEM_NOT_FOUND, no NOT_FOUND.
	_, err = e.uc.RemoveItemFromBox(ctx, actor, boxB.ID, item.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	// Botiquín inexistente: NOT_FOUND del recurso padre.
	_, err = e.uc.RemoveItemFromBox(ctx, actor, "no-existe", item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Vistas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetBoxView_ActualizaLastReviewed(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	actor := doctor("u1", "Medicina")
	box, err := e.uc.CreateBox(ctx, actor, "Botiquín", "")
	require.NoError(t, err)
	require.Nil(t, box.LastReviewedAt)

	snap, err := e.uc.GetBoxView(ctx, actor, box.ID)
	require.NoError(t, err)
	assert.NotNil(t, snap.Box.LastReviewedAt, "cada visita al detalle cuenta como revisión")

	stored, err := e.boxes.GetBox(box.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastReviewedAt)
}

func TestGetPublicBoxView_SinAutenticacionNiFacultad(t *testing.T) {
	e := newEnv(ledger.ModeBestEffort, tenant.LegacyVisible)
	ctx := context.Background()
	actor := doctor("u1", "Medicina")
	box, err := e.uc.CreateBox(ctx, actor, "Botiquín Pasillo 3", "Edificio C")
	require.NoError(t, err)
	_, _, err = e.uc.AddItemToBox(ctx, actor, box.ID, firstaid.AddItemInput{
		DrugName: "Gasa", Quantity: 4,
	})
	require.NoError(t, err)

	snap, err := e.uc.GetPublicBoxView(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, "Botiquín Pasillo 3", snap.Name)
	assert.Len(t, snap.Items, 1)

	_, err = e.uc.GetPublicBoxView(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
