package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/domain/invoice"
	"github.com/sroursolar/invoicegen/internal/domain/wizard"
)

type mockSnapshotRepo struct {
	saveFunc func(ctx context.Context, snapshot *invoice.DraftSnapshot) error
	saved    *invoice.DraftSnapshot
}

func (m *mockSnapshotRepo) Save(ctx context.Context, snapshot *invoice.DraftSnapshot) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, snapshot)
	}
	m.saved = snapshot
	return nil
}

func (m *mockSnapshotRepo) Load(ctx context.Context) (*invoice.DraftSnapshot, error) {
	return m.saved, nil
}

type mockExportQueue struct {
	enqueued []*invoice.DraftSnapshot
}

func (m *mockExportQueue) Enqueue(snapshot *invoice.DraftSnapshot) {
	m.enqueued = append(m.enqueued, snapshot)
}

func str(s string) *string { return &s }

func testManager(t *testing.T) (*Manager, *mockSnapshotRepo, *mockExportQueue) {
	t.Helper()
	repo := &mockSnapshotRepo{}
	queue := &mockExportQueue{}
	company := invoice.CompanyProfile{
		Brand: "Acme",
		Addr1: "1 Main St",
		Phone: "555-0100",
		Email: "billing@acme.test",
	}
	return NewManager(company, repo, queue, zap.NewNop()), repo, queue
}

// fillValid edits the session until every step predicate passes
func fillValid(t *testing.T, s *Session) {
	t.Helper()
	s.UpdateCustomer(CustomerPatch{Name: str("Jane"), Phone: str("555-0199")})
	item := s.Snapshot().Items[0]
	require.NoError(t, s.UpdateItem(item.ID, FieldDescription, "Widget"))
	require.NoError(t, s.UpdateItem(item.ID, FieldQuantity, "3"))
	require.NoError(t, s.UpdateItem(item.ID, FieldPrice, "10"))
}

func TestManager_CreatePrefillsDraft(t *testing.T) {
	mgr, _, _ := testManager(t)

	s := mgr.Create()
	draft := s.Snapshot()

	assert.Equal(t, "Acme", draft.Company.Brand)
	assert.NotZero(t, draft.Meta.Number)
	assert.NotEmpty(t, draft.Meta.Date)
	assert.Len(t, draft.Items, 1)
	assert.False(t, draft.Items[0].HasQuantity())
	assert.Equal(t, invoice.CurrencyUSD, draft.Settings.Currency)
	assert.Equal(t, wizard.StepCompanyInfo, s.Step())

	got, ok := mgr.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestSession_UpdateCompanyPreservesSiblings(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()

	s.UpdateCompany(CompanyPatch{Brand: str("New Brand")})

	draft := s.Snapshot()
	assert.Equal(t, "New Brand", draft.Company.Brand)
	// Sibling fields defaulted from config stay as they were
	assert.Equal(t, "1 Main St", draft.Company.Addr1)
	assert.Equal(t, "billing@acme.test", draft.Company.Email)
}

func TestSession_UpdateItemIsolation(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()

	first := s.Snapshot().Items[0]
	second := s.AddItem()

	require.NoError(t, s.UpdateItem(second.ID, FieldDescription, "Panel"))
	require.NoError(t, s.UpdateItem(second.ID, FieldNote, "roof mounted"))
	require.NoError(t, s.UpdateItem(first.ID, FieldQuantity, "4"))

	draft := s.Snapshot()
	require.Len(t, draft.Items, 2)

	// Quantity edit on the first item left its other fields untouched
	assert.Equal(t, first.Description, draft.Items[0].Description)
	assert.Nil(t, draft.Items[0].UnitPrice)
	require.NotNil(t, draft.Items[0].Quantity)
	assert.True(t, draft.Items[0].Quantity.Equal(decimal.NewFromInt(4)))

	// The second item is byte-for-byte unaffected by the first item's edit
	assert.Equal(t, "Panel", draft.Items[1].Description)
	assert.Equal(t, "roof mounted", draft.Items[1].Note)
	assert.Nil(t, draft.Items[1].Quantity)
}

func TestSession_UpdateItemCoercion(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()
	id := s.Snapshot().Items[0].ID

	tests := []struct {
		name  string
		value string
		want  *string // nil means unset expected
	}{
		{"integer", "3", str("3")},
		{"fractional", "2.5", str("2.5")},
		{"zero is a value", "0", str("0")},
		{"blank is unset", "", nil},
		{"whitespace is unset", "  ", nil},
		{"garbage is unset", "three", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.UpdateItem(id, FieldQuantity, tt.value))
			got := s.Snapshot().Items[0].Quantity
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(*tt.want)))
		})
	}
}

func TestSession_UpdateItemUnknownField(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()
	id := s.Snapshot().Items[0].ID

	err := s.UpdateItem(id, ItemField("color"), "blue")
	assert.Error(t, err)
}

func TestSession_RemoveItem(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()

	second := s.AddItem()
	require.Len(t, s.Snapshot().Items, 2)

	s.RemoveItem(second.ID)
	items := s.Snapshot().Items
	require.Len(t, items, 1)
	assert.NotEqual(t, second.ID, items[0].ID)
}

func TestSession_RemoveItemAbsentIDIsNoOp(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()
	s.AddItem()

	before := s.Snapshot()
	s.RemoveItem("no-such-id")
	after := s.Snapshot()

	require.Len(t, after.Items, len(before.Items))
	for i := range before.Items {
		assert.Equal(t, before.Items[i].ID, after.Items[i].ID)
		assert.Equal(t, before.Items[i].Description, after.Items[i].Description)
	}
}

func TestSession_AdvanceBlockedThenAllowed(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()

	// Company step is pre-filled from config, so the first advance passes
	require.NoError(t, s.Advance())
	assert.Equal(t, wizard.StepCustomerInfo, s.Step())

	// Customer step is empty and must block
	err := s.Advance()
	assert.ErrorIs(t, err, wizard.ErrGuardFailed)
	assert.Equal(t, wizard.StepCustomerInfo, s.Step())

	s.UpdateCustomer(CustomerPatch{Name: str("Jane"), Phone: str("555-0199")})
	require.NoError(t, s.Advance())
	assert.Equal(t, wizard.StepInvoiceDetails, s.Step())
}

func TestSession_NonNumericQuantityBlocksItemsStep(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()
	fillValid(t, s)

	id := s.Snapshot().Items[0].ID
	require.NoError(t, s.UpdateItem(id, FieldQuantity, "not a number"))

	// Walk to the items step; the coerced-to-unset quantity must block there
	require.NoError(t, s.Advance())
	require.NoError(t, s.Advance())
	require.NoError(t, s.Advance())
	assert.Equal(t, wizard.StepItems, s.Step())

	err := s.Advance()
	assert.ErrorIs(t, err, wizard.ErrGuardFailed)
}

func TestSession_SubmitStoresSnapshotAndEnqueuesExport(t *testing.T) {
	mgr, repo, queue := testManager(t)
	s := mgr.Create()
	fillValid(t, s)

	for s.Step() != wizard.StepReview {
		require.NoError(t, s.Advance())
	}
	require.NoError(t, s.Submit(context.Background()))

	require.NotNil(t, repo.saved)
	assert.Equal(t, "Acme", repo.saved.Company.Brand)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, repo.saved.Meta.Number, queue.enqueued[0].Meta.Number)

	// The stored snapshot is frozen; later edits must not leak into it
	require.NoError(t, s.UpdateItem(repo.saved.Items[0].ID, FieldDescription, "changed later"))
	assert.Equal(t, "Widget", repo.saved.Items[0].Description)
}

func TestSession_SubmitRejectedMidWizard(t *testing.T) {
	mgr, repo, _ := testManager(t)
	s := mgr.Create()

	err := s.Submit(context.Background())
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)
	assert.Nil(t, repo.saved)
}

func TestSession_UpdateDetails(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()

	number := 7777
	s.UpdateDetails(DetailsPatch{
		Number:        &number,
		Date:          str("Sep 1, 2026"),
		Currency:      str("EUR"),
		UseConversion: boolPtr(true),
		Rate:          str("1.1"),
	})

	draft := s.Snapshot()
	assert.Equal(t, 7777, draft.Meta.Number)
	assert.Equal(t, "Sep 1, 2026", draft.Meta.Date)
	assert.Equal(t, invoice.CurrencyEUR, draft.Settings.Currency)
	assert.True(t, draft.Settings.UseConversion)
	assert.True(t, draft.Settings.Rate.Equal(decimal.RequireFromString("1.1")))
}

func TestSession_UpdateDetailsBadRateResetsToUnset(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()

	s.UpdateDetails(DetailsPatch{Rate: str("1.1")})
	s.UpdateDetails(DetailsPatch{Rate: str("abc")})

	assert.True(t, s.Snapshot().Settings.Rate.IsZero())
}

func TestSession_UpdateDetailsUnknownCurrencyIgnored(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()

	s.UpdateDetails(DetailsPatch{Currency: str("GBP")})
	assert.Equal(t, invoice.CurrencyUSD, s.Snapshot().Settings.Currency)
}

func TestSession_TodayShortcut(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()

	s.UpdateDetails(DetailsPatch{Date: str("overwritten"), Today: true})

	date := s.Snapshot().Meta.Date
	assert.NotEqual(t, "overwritten", date)
	assert.NotEmpty(t, date)
}

func TestSession_GrandTotal(t *testing.T) {
	mgr, _, _ := testManager(t)
	s := mgr.Create()
	fillValid(t, s)

	assert.True(t, s.GrandTotal().Equal(decimal.NewFromInt(30)))
}

func TestSession_EndToEndSnapshotRoundTrip(t *testing.T) {
	mgr, repo, _ := testManager(t)
	s := mgr.Create()
	fillValid(t, s)

	// Second, untouched row contributes zero and survives as unset
	s.AddItem()

	for s.Step() != wizard.StepReview {
		require.NoError(t, s.Advance())
	}
	require.NoError(t, s.Submit(context.Background()))
	require.NotNil(t, repo.saved)

	raw, err := json.Marshal(repo.saved)
	require.NoError(t, err)
	var restored invoice.DraftSnapshot
	require.NoError(t, json.Unmarshal(raw, &restored))

	assert.Equal(t, repo.saved.Company, restored.Company)
	assert.Equal(t, repo.saved.Customer, restored.Customer)
	assert.Equal(t, repo.saved.Meta, restored.Meta)
	require.Len(t, restored.Items, 2)
	assert.False(t, restored.Items[1].HasQuantity())

	total := invoice.GrandTotal(restored.Items, restored.Settings)
	assert.Equal(t, "30.00", total.StringFixed(2))
}

func boolPtr(b bool) *bool { return &b }
