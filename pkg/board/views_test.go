package board_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/muralis/pkg/board"
	"github.com/aretw0/muralis/pkg/codec"
	"github.com/aretw0/muralis/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagged(t *testing.T, e *board.Engine, tags ...string) core.Note {
	t.Helper()
	n, err := e.AddNote(context.Background(), strings.Join(tags, ","))
	require.NoError(t, err)
	n.Tags = tags
	require.NoError(t, e.UpdateNote(context.Background(), n))
	return n
}

func TestAllTags(t *testing.T) {
	e, _ := newEngine(t)
	assert.Empty(t, e.AllTags())

	tagged(t, e, "work", "urgent")
	tagged(t, e, "home", "work")
	tagged(t, e)

	assert.ElementsMatch(t, []string{"home", "urgent", "work"}, e.AllTags())
}

func TestVisibleNotes_Filter(t *testing.T) {
	e, _ := newEngine(t)
	a := tagged(t, e, "work")
	tagged(t, e, "home")
	c := tagged(t, e, "work", "home")

	e.SetTagFilter("work")
	tag, ok := e.TagFilter()
	assert.True(t, ok)
	assert.Equal(t, "work", tag)
	assert.Equal(t, []string{a.ID, c.ID}, ids(e.VisibleNotes()))
	assert.Len(t, e.Notes(), 3)

	e.SetTagFilter("nobody")
	assert.Empty(t, e.VisibleNotes())

	e.ClearTagFilter()
	_, ok = e.TagFilter()
	assert.False(t, ok)
	assert.Len(t, e.VisibleNotes(), 3)
}

func TestMatchTags(t *testing.T) {
	e, _ := newEngine(t)
	a := tagged(t, e, "work/urgent")
	b := tagged(t, e, "work/later/maybe")
	tagged(t, e, "home")

	got, err := e.MatchTags("work/*")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(got))

	got, err = e.MatchTags("work/**")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids(got))

	_, err = e.MatchTags("work/[")
	assert.Error(t, err)
}

func TestStacked(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	a, _ := e.AddNote(ctx, "a")
	b, _ := e.AddNote(ctx, "b")
	require.NoError(t, e.BringToFront(ctx, a.ID))

	assert.Equal(t, []string{b.ID, a.ID}, ids(e.Stacked()))
}

func TestShare(t *testing.T) {
	e, _ := newEngine(t)
	tagged(t, e, "work")

	link, err := e.Share("https://muralis.example/")
	require.NoError(t, err)

	got, err := codec.DecodeLink(codec.FragmentOf(link))
	require.NoError(t, err)
	assert.Equal(t, e.Notes(), got)
}
