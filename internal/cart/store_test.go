package cart

import (
	"sync"
	"testing"

	"sales-order-booking/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widget(mode model.PurchaseMode, qty int) model.LineItem {
	return model.LineItem{
		ProductID: "P-100",
		Name:      "Widget",
		Mode:      mode,
		Qty:       qty,
		PackPrice: decimal.NewNullDecimal(decimal.NewFromInt(100)),
		CasePrice: decimal.NewNullDecimal(decimal.NewFromInt(50)),
	}
}

func TestStore_Add(t *testing.T) {
	tests := []struct {
		name          string
		item          model.LineItem
		expectedError error
	}{
		{name: "Valid pack line", item: widget(model.ModePack, 1)},
		{name: "Zero quantity", item: widget(model.ModePack, 0), expectedError: model.ErrInvalidQuantity},
		{name: "Unknown option", item: widget("pallet", 1), expectedError: model.ErrInvalidOption},
		{name: "Blank name", item: model.LineItem{Name: " ", Mode: model.ModePack, Qty: 1}, expectedError: model.ErrValidationFailed},
		{
			name: "Negative price",
			item: model.LineItem{Name: "Widget", Mode: model.ModePack, Qty: 1,
				PackPrice: decimal.NewNullDecimal(decimal.NewFromInt(-1))},
			expectedError: model.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			added, err := s.Add(tt.item)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Equal(t, 0, s.Len())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, added.CartID)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestStore_AddSameProductTwice(t *testing.T) {
	s := NewStore()
	a, err := s.Add(widget(model.ModePack, 1))
	require.NoError(t, err)
	b, err := s.Add(widget(model.ModePack, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.NotEqual(t, a.CartID, b.CartID)
	assert.Equal(t, a.ProductID, b.ProductID)
}

func TestStore_AddThenRemoveRestoresCart(t *testing.T) {
	s := NewStore()
	_, err := s.Add(widget(model.ModePack, 2))
	require.NoError(t, err)
	before := s.Items()

	added, err := s.Add(widget(model.ModeCase, 1))
	require.NoError(t, err)
	assert.True(t, s.Remove(added.CartID))

	assert.Equal(t, before, s.Items())
}

func TestStore_RemoveOnlyTargetsOneEntry(t *testing.T) {
	s := NewStore()
	first, _ := s.Add(widget(model.ModePack, 1))
	second, _ := s.Add(widget(model.ModePack, 1))

	assert.True(t, s.Remove(first.CartID))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, second.CartID, items[0].CartID)

	assert.False(t, s.Remove("missing"))
	assert.Equal(t, 1, s.Len())
}

func TestStore_UpdateQty(t *testing.T) {
	s := NewStore()
	added, _ := s.Add(widget(model.ModePack, 1))

	require.NoError(t, s.UpdateQty(added.CartID, 5))
	assert.Equal(t, 5, s.Items()[0].Qty)

	assert.ErrorIs(t, s.UpdateQty(added.CartID, 0), model.ErrInvalidQuantity)
	assert.ErrorIs(t, s.UpdateQty(added.CartID, -3), model.ErrInvalidQuantity)
	assert.Equal(t, 5, s.Items()[0].Qty)

	require.NoError(t, s.UpdateQty("missing", 9))
	assert.Equal(t, 5, s.Items()[0].Qty)
}

func TestStore_UpdatePrice(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(widget(model.ModeCase, 1))

	require.NoError(t, s.UpdatePrice(0, "42.50"))
	item := s.Items()[0]
	assert.Equal(t, "42.5", item.CasePrice.Decimal.String())
	assert.Equal(t, "100", item.PackPrice.Decimal.String(), "inactive price untouched")

	require.NoError(t, s.UpdatePrice(0, "0"))
	item = s.Items()[0]
	assert.True(t, item.CasePrice.Valid)
	assert.True(t, item.CasePrice.Decimal.IsZero())

	require.NoError(t, s.UpdatePrice(0, ""))
	assert.False(t, s.Items()[0].CasePrice.Valid)

	assert.ErrorIs(t, s.UpdatePrice(0, "-1"), model.ErrInvalidPrice)
	assert.ErrorIs(t, s.UpdatePrice(0, "abc"), model.ErrInvalidPrice)
	assert.False(t, s.Items()[0].CasePrice.Valid)

	assert.ErrorIs(t, s.UpdatePrice(3, "1"), model.ErrLineItemNotFound)
}

func TestStore_ReplaceAll(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(widget(model.ModePack, 1))

	err := s.ReplaceAll([]model.LineItem{widget(model.ModePack, 2), widget(model.ModeCase, 0)})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Items()[0].Qty)

	kept := widget(model.ModeCase, 3)
	kept.CartID = "keep-me"
	require.NoError(t, s.ReplaceAll([]model.LineItem{kept, widget(model.ModePack, 2)}))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "keep-me", items[0].CartID)
	assert.NotEmpty(t, items[1].CartID)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(widget(model.ModePack, 1))
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Items())
}

func TestStore_ItemsIsACopy(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(widget(model.ModePack, 1))

	items := s.Items()
	items[0].Qty = 99
	assert.Equal(t, 1, s.Items()[0].Qty)
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore()

	var calls []int
	unsubscribe := s.Subscribe(func(items []model.LineItem) {
		calls = append(calls, len(items))
		// observers may read the store
		_ = s.Len()
	})

	added, _ := s.Add(widget(model.ModePack, 1))
	_, _ = s.Add(widget(model.ModePack, 1))
	s.Remove(added.CartID)
	_, _ = s.Add(widget(model.ModePack, 0))

	assert.Equal(t, []int{1, 2, 1}, calls)

	unsubscribe()
	s.Clear()
	assert.Equal(t, []int{1, 2, 1}, calls)
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Add(widget(model.ModePack, 1))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
