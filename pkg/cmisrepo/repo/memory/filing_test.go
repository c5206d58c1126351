package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cmis/pkg/cmisrepo"
)

func TestMoveObject(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rootID := store.RootFolderID()

	source, err := store.CreateFolder(ctx, rootID, "source", cmisrepo.BaseTypeFolder, "alice", nil)
	require.NoError(t, err)
	target, err := store.CreateFolder(ctx, rootID, "target", cmisrepo.BaseTypeFolder, "alice", nil)
	require.NoError(t, err)

	t.Run("retargets the parent", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, &source.ID, "move.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)

		moved, err := store.MoveObject(ctx, doc.ID, source.ID, target.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{target.ID}, moved.ParentIDs)

		children, err := store.GetChildren(ctx, source.ID)
		require.NoError(t, err)
		assert.Empty(t, children)
	})

	t.Run("wrong source folder fails", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, &source.ID, "stay.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		_, err = store.MoveObject(ctx, doc.ID, target.ID, rootID, "alice")
		assert.ErrorIs(t, err, cmisrepo.ErrInvalidArgument)
	})

	t.Run("duplicate name in target fails", func(t *testing.T) {
		_, err := store.CreateDocument(ctx, &source.ID, "clash.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		doc, err := store.CreateDocument(ctx, &target.ID, "clash.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)

		_, err = store.MoveObject(ctx, doc.ID, target.ID, source.ID, "alice")
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})

	t.Run("move into a folder already holding the object fails", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, &source.ID, "filed.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		require.NoError(t, store.AddParent(ctx, doc.ID, target.ID))

		_, err = store.MoveObject(ctx, doc.ID, source.ID, target.ID, "alice")
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)

		kept, err := store.GetObjectByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{source.ID, target.ID}, kept.ParentIDs)
	})

	t.Run("folder cannot move below itself", func(t *testing.T) {
		outer, err := store.CreateFolder(ctx, rootID, "outer", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
		inner, err := store.CreateFolder(ctx, outer.ID, "inner", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)

		_, err = store.MoveObject(ctx, outer.ID, rootID, inner.ID, "alice")
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)

		_, err = store.MoveObject(ctx, outer.ID, rootID, outer.ID, "alice")
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})
}

func TestMultiFiling(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rootID := store.RootFolderID()

	a, err := store.CreateFolder(ctx, rootID, "a", cmisrepo.BaseTypeFolder, "alice", nil)
	require.NoError(t, err)
	b, err := store.CreateFolder(ctx, rootID, "b", cmisrepo.BaseTypeFolder, "alice", nil)
	require.NoError(t, err)

	t.Run("document files into several folders", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, &a.ID, "both.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		require.NoError(t, store.AddParent(ctx, doc.ID, b.ID))

		parents, err := store.GetParents(ctx, doc.ID)
		require.NoError(t, err)
		assert.Len(t, parents, 2)
	})

	t.Run("adding the same parent twice fails", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, &a.ID, "once.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		err = store.AddParent(ctx, doc.ID, a.ID)
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})

	t.Run("folders cannot be multi-filed", func(t *testing.T) {
		err := store.AddParent(ctx, a.ID, b.ID)
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})

	t.Run("removing the last parent leaves the object unfiled", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, &a.ID, "loose.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		require.NoError(t, store.RemoveParent(ctx, doc.ID, a.ID))

		obj, err := store.GetObjectByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Empty(t, obj.ParentIDs)

		err = store.RemoveParent(ctx, doc.ID, a.ID)
		assert.ErrorIs(t, err, cmisrepo.ErrInvalidArgument)
	})
}

func TestGetChildrenOrdering(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rootID := store.RootFolderID()

	for _, name := range []string{"cherry", "apple", "banana"} {
		_, err := store.CreateFolder(ctx, rootID, name, cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
	}

	children, err := store.GetChildren(ctx, rootID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "apple", children[0].Name)
	assert.Equal(t, "banana", children[1].Name)
	assert.Equal(t, "cherry", children[2].Name)

	doc, err := store.CreateDocument(ctx, &rootID, "x.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
	require.NoError(t, err)
	_, err = store.GetChildren(ctx, doc.ID)
	assert.ErrorIs(t, err, cmisrepo.ErrInvalidArgument)
}
