package optimistic

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Id   string
	Name string
}

func newEntries(t *testing.T) *Collection[entry] {
	t.Helper()
	c := NewCollection(func(e entry) string { return e.Id })
	c.SetItems([]entry{
		{Id: "a", Name: "Alpha"},
		{Id: "b", Name: "Beta"},
		{Id: "c", Name: "Gamma"},
	})
	return c
}

func ids(items []entry) []string {
	out := []string{}
	for _, item := range items {
		out = append(out, item.Id)
	}
	return out
}

func TestDeleteFailureRollsBackOrderAndSelection(t *testing.T) {
	c := newEntries(t)
	c.Select("b")

	err := c.Delete(context.Background(), "b", func(ctx context.Context) error {
		// The item is already gone from the visible list while the
		// call is in flight.
		assert.Equal(t, []string{"a", "c"}, ids(c.Items()))
		assert.Equal(t, "", c.SelectedId())
		return errors.New("store unavailable")
	})

	require.Error(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Items()))
	assert.Equal(t, "b", c.SelectedId())
}

func TestDeleteSuccessKeepsRemoval(t *testing.T) {
	c := newEntries(t)
	c.Select("b")

	err := c.Delete(context.Background(), "b", func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(c.Items()))
	assert.Equal(t, "", c.SelectedId())
}

func TestDeleteKeepsUnrelatedSelection(t *testing.T) {
	c := newEntries(t)
	c.Select("a")

	require.NoError(t, c.Delete(context.Background(), "b", func(ctx context.Context) error {
		return nil
	}))
	assert.Equal(t, "a", c.SelectedId())
}

func TestDeleteUnknownId(t *testing.T) {
	c := newEntries(t)
	called := false
	err := c.Delete(context.Background(), "zzz", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Items()))
}

func TestCreateAppendsOnlyOnSuccess(t *testing.T) {
	c := newEntries(t)

	created, err := c.Create(context.Background(), func(ctx context.Context) (entry, error) {
		return entry{Id: "d", Name: "Delta"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "d", created.Id)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(c.Items()))

	_, err = c.Create(context.Background(), func(ctx context.Context) (entry, error) {
		return entry{}, errors.New("store unavailable")
	})
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(c.Items()))
}

func TestCreateFrontPrepends(t *testing.T) {
	c := newEntries(t)

	_, err := c.CreateFront(context.Background(), func(ctx context.Context) (entry, error) {
		return entry{Id: "d", Name: "Delta"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids(c.Items()))
}

func TestSetItemsClearsDanglingSelection(t *testing.T) {
	c := newEntries(t)
	c.Select("b")

	c.SetItems([]entry{{Id: "a", Name: "Alpha"}})
	assert.Equal(t, "", c.SelectedId())
	_, ok := c.Selected()
	assert.False(t, ok)
}
