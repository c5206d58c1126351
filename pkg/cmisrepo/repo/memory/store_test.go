package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cmis/pkg/cmisrepo"
	"github.com/tendant/simple-cmis/pkg/cmisrepo/repo/memory"
)

func setupStore(t *testing.T) *memory.Store {
	tm := memory.NewTypeManager()
	store := memory.NewStore("test-repo", tm)
	require.NotNil(t, store)
	return store
}

func setupStoreWithTypes(t *testing.T) (*memory.Store, *memory.TypeManager) {
	tm := memory.NewTypeManager()
	store := memory.NewStore("test-repo", tm)
	require.NotNil(t, store)
	return store, tm
}

func TestRootFolder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	root, err := store.GetObjectByID(ctx, store.RootFolderID())
	require.NoError(t, err)
	assert.Equal(t, cmisrepo.KindFolder, root.Kind)
	assert.Equal(t, cmisrepo.BaseTypeFolder, root.TypeID)
	assert.Empty(t, root.ParentIDs)
}

func TestCreateFolder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	t.Run("creates under root", func(t *testing.T) {
		folder, err := store.CreateFolder(ctx, store.RootFolderID(), "docs", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, "docs", folder.Name)
		assert.Equal(t, cmisrepo.KindFolder, folder.Kind)
		assert.Equal(t, "alice", folder.CreatedBy)
		assert.Equal(t, []uuid.UUID{store.RootFolderID()}, folder.ParentIDs)
	})

	t.Run("duplicate name fails", func(t *testing.T) {
		_, err := store.CreateFolder(ctx, store.RootFolderID(), "docs", cmisrepo.BaseTypeFolder, "alice", nil)
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})

	t.Run("unknown parent fails", func(t *testing.T) {
		_, err := store.CreateFolder(ctx, uuid.New(), "orphan", cmisrepo.BaseTypeFolder, "alice", nil)
		assert.ErrorIs(t, err, cmisrepo.ErrNotFound)
	})

	t.Run("non-folder type fails", func(t *testing.T) {
		_, err := store.CreateFolder(ctx, store.RootFolderID(), "bad", cmisrepo.BaseTypeDocument, "alice", nil)
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})
}

func TestValidateName(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "a/b", "a\\b", "bad\x00name"} {
		_, err := store.CreateFolder(ctx, store.RootFolderID(), name, cmisrepo.BaseTypeFolder, "alice", nil)
		assert.ErrorIs(t, err, cmisrepo.ErrInvalidArgument, "name %q", name)
	}
}

func TestCreateDocument(t *testing.T) {
	store, tm := setupStoreWithTypes(t)
	ctx := context.Background()

	require.NoError(t, tm.AddType(ctx, &cmisrepo.TypeDefinition{
		ID:           "plain:document",
		ParentTypeID: cmisrepo.BaseTypeDocument,
		Creatable:    true,
		Fileable:     true,
		Versionable:  false,
	}))

	rootID := store.RootFolderID()

	t.Run("versionable type creates a series", func(t *testing.T) {
		content := &cmisrepo.ContentStream{FileName: "a.txt", MimeType: "text/plain", Data: []byte("v1")}
		doc, err := store.CreateDocument(ctx, &rootID, "a.txt", cmisrepo.BaseTypeDocument, "alice", nil, content, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		assert.Equal(t, cmisrepo.KindVersionedDocument, doc.Kind)
		require.Len(t, doc.VersionIDs, 1)

		first, err := store.GetObjectByID(ctx, doc.VersionIDs[0])
		require.NoError(t, err)
		assert.Equal(t, cmisrepo.KindDocumentVersion, first.Kind)
		assert.True(t, first.IsMajor)
		assert.False(t, first.IsPWC)
		assert.Equal(t, doc.ID, first.SeriesID)
		require.NotNil(t, first.Content)
		assert.Equal(t, []byte("v1"), first.Content.Data)
	})

	t.Run("non-versionable type creates a plain document", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, &rootID, "b.txt", "plain:document", "alice", nil, nil, cmisrepo.VersioningStateNone)
		require.NoError(t, err)
		assert.Equal(t, cmisrepo.KindDocument, doc.Kind)
		assert.Empty(t, doc.VersionIDs)
	})

	t.Run("non-versionable checkedout fails", func(t *testing.T) {
		_, err := store.CreateDocument(ctx, &rootID, "c.txt", "plain:document", "alice", nil, nil, cmisrepo.VersioningStateCheckedOut)
		assert.ErrorIs(t, err, cmisrepo.ErrNotSupported)
	})

	t.Run("non-versionable major fails", func(t *testing.T) {
		_, err := store.CreateDocument(ctx, &rootID, "c.txt", "plain:document", "alice", nil, nil, cmisrepo.VersioningStateMajor)
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)

		_, err = store.CreateDocument(ctx, &rootID, "c.txt", "plain:document", "alice", nil, nil, cmisrepo.VersioningStateMinor)
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})

	t.Run("checkedout state creates a lone PWC", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, nil, "draft.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateCheckedOut)
		require.NoError(t, err)
		checkedOut, by, err := store.IsCheckedOut(ctx, doc.ID)
		require.NoError(t, err)
		assert.True(t, checkedOut)
		assert.Equal(t, "alice", by)
	})

	t.Run("nil folder creates unfiled", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, nil, "unfiled.txt", "plain:document", "alice", nil, nil, "")
		require.NoError(t, err)
		assert.Empty(t, doc.ParentIDs)
	})

	t.Run("unknown property fails", func(t *testing.T) {
		_, err := store.CreateDocument(ctx, &rootID, "d.txt", "plain:document", "alice",
			map[string]interface{}{"custom:title": "nope"}, nil, "")
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})
}

func TestGetObjectByPath(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rootID := store.RootFolderID()

	docs, err := store.CreateFolder(ctx, rootID, "docs", cmisrepo.BaseTypeFolder, "alice", nil)
	require.NoError(t, err)
	sub, err := store.CreateFolder(ctx, docs.ID, "2026", cmisrepo.BaseTypeFolder, "alice", nil)
	require.NoError(t, err)
	doc, err := store.CreateDocument(ctx, &sub.ID, "report.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
	require.NoError(t, err)

	t.Run("root", func(t *testing.T) {
		obj, err := store.GetObjectByPath(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, rootID, obj.ID)
	})

	t.Run("nested", func(t *testing.T) {
		obj, err := store.GetObjectByPath(ctx, "/docs/2026/report.txt")
		require.NoError(t, err)
		assert.Equal(t, doc.ID, obj.ID)
	})

	t.Run("missing segment", func(t *testing.T) {
		_, err := store.GetObjectByPath(ctx, "/docs/2027")
		assert.ErrorIs(t, err, cmisrepo.ErrNotFound)
	})

	t.Run("relative path fails", func(t *testing.T) {
		_, err := store.GetObjectByPath(ctx, "docs/2026")
		assert.ErrorIs(t, err, cmisrepo.ErrInvalidArgument)
	})
}

func TestUpdateProperties(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rootID := store.RootFolderID()

	folder, err := store.CreateFolder(ctx, rootID, "before", cmisrepo.BaseTypeFolder, "alice", nil)
	require.NoError(t, err)

	t.Run("rename", func(t *testing.T) {
		updated, err := store.UpdateProperties(ctx, folder.ID, map[string]interface{}{cmisrepo.PropertyName: "after"}, "bob")
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Name)
		assert.Equal(t, "bob", updated.ModifiedBy)

		obj, err := store.GetObjectByPath(ctx, "/after")
		require.NoError(t, err)
		assert.Equal(t, folder.ID, obj.ID)

		_, err = store.GetObjectByPath(ctx, "/before")
		assert.ErrorIs(t, err, cmisrepo.ErrNotFound)
	})

	t.Run("rename onto sibling fails", func(t *testing.T) {
		_, err := store.CreateFolder(ctx, rootID, "taken", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
		_, err = store.UpdateProperties(ctx, folder.ID, map[string]interface{}{cmisrepo.PropertyName: "taken"}, "bob")
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})

	t.Run("non-string name fails", func(t *testing.T) {
		_, err := store.UpdateProperties(ctx, folder.ID, map[string]interface{}{cmisrepo.PropertyName: 7}, "bob")
		assert.ErrorIs(t, err, cmisrepo.ErrInvalidArgument)
	})
}

func TestSetContentStream(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rootID := store.RootFolderID()

	series, err := store.CreateDocument(ctx, &rootID, "a.txt", cmisrepo.BaseTypeDocument, "alice", nil,
		&cmisrepo.ContentStream{MimeType: "text/plain", Data: []byte("v1")}, cmisrepo.VersioningStateMajor)
	require.NoError(t, err)

	t.Run("series id targets the latest version", func(t *testing.T) {
		err := store.SetContentStream(ctx, series.ID, &cmisrepo.ContentStream{MimeType: "text/plain", Data: []byte("v2")}, "alice")
		require.NoError(t, err)

		latest, err := store.GetLatestVersion(ctx, series.ID, false)
		require.NoError(t, err)
		require.NotNil(t, latest.Content)
		assert.Equal(t, []byte("v2"), latest.Content.Data)
	})

	t.Run("folder has no content", func(t *testing.T) {
		err := store.SetContentStream(ctx, rootID, &cmisrepo.ContentStream{Data: []byte("x")}, "alice")
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})
}

func TestDeleteObject(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rootID := store.RootFolderID()

	t.Run("root folder is protected", func(t *testing.T) {
		err := store.DeleteObject(ctx, rootID, false)
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})

	t.Run("non-empty folder fails", func(t *testing.T) {
		folder, err := store.CreateFolder(ctx, rootID, "full", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
		_, err = store.CreateFolder(ctx, folder.ID, "inner", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)

		err = store.DeleteObject(ctx, folder.ID, false)
		assert.ErrorIs(t, err, cmisrepo.ErrConstraint)
	})

	t.Run("series delete cascades to versions", func(t *testing.T) {
		series, err := store.CreateDocument(ctx, &rootID, "gone.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		versionID := series.VersionIDs[0]

		require.NoError(t, store.DeleteObject(ctx, series.ID, true))
		_, err = store.GetObjectByID(ctx, versionID)
		assert.ErrorIs(t, err, cmisrepo.ErrNotFound)
	})

	t.Run("series id cascades regardless of the flag", func(t *testing.T) {
		series, err := store.CreateDocument(ctx, &rootID, "whole.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		versionID := series.VersionIDs[0]

		require.NoError(t, store.DeleteObject(ctx, series.ID, false))
		_, err = store.GetObjectByID(ctx, versionID)
		assert.ErrorIs(t, err, cmisrepo.ErrNotFound)
	})

	t.Run("version id with allVersions removes the series", func(t *testing.T) {
		series, err := store.CreateDocument(ctx, &rootID, "versions.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		_, err = store.CheckOut(ctx, series.ID, "alice")
		require.NoError(t, err)
		v2, err := store.CheckIn(ctx, series.ID, true, nil, nil, "", "alice")
		require.NoError(t, err)

		require.NoError(t, store.DeleteObject(ctx, v2.ID, true))
		_, err = store.GetObjectByID(ctx, series.ID)
		assert.ErrorIs(t, err, cmisrepo.ErrNotFound)
	})

	t.Run("deleting the last version deletes the series", func(t *testing.T) {
		series, err := store.CreateDocument(ctx, &rootID, "single.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)

		require.NoError(t, store.DeleteObject(ctx, series.VersionIDs[0], false))
		_, err = store.GetObjectByID(ctx, series.ID)
		assert.ErrorIs(t, err, cmisrepo.ErrNotFound)
	})
}

func TestDeleteTree(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rootID := store.RootFolderID()

	t.Run("removes the whole subtree", func(t *testing.T) {
		top, err := store.CreateFolder(ctx, rootID, "tree", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
		mid, err := store.CreateFolder(ctx, top.ID, "mid", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
		doc, err := store.CreateDocument(ctx, &mid.ID, "leaf.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)

		failed, err := store.DeleteTree(ctx, top.ID, false)
		require.NoError(t, err)
		assert.Empty(t, failed)

		for _, id := range []uuid.UUID{top.ID, mid.ID, doc.ID} {
			_, err := store.GetObjectByID(ctx, id)
			assert.ErrorIs(t, err, cmisrepo.ErrNotFound)
		}
	})

	t.Run("multi-filed children survive elsewhere", func(t *testing.T) {
		doomed, err := store.CreateFolder(ctx, rootID, "doomed", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
		keep, err := store.CreateFolder(ctx, rootID, "keep", cmisrepo.BaseTypeFolder, "alice", nil)
		require.NoError(t, err)
		doc, err := store.CreateDocument(ctx, &doomed.ID, "shared.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		require.NoError(t, store.AddParent(ctx, doc.ID, keep.ID))

		failed, err := store.DeleteTree(ctx, doomed.ID, false)
		require.NoError(t, err)
		assert.Empty(t, failed)

		survivor, err := store.GetObjectByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{keep.ID}, survivor.ParentIDs)
	})

	t.Run("non-folder fails", func(t *testing.T) {
		doc, err := store.CreateDocument(ctx, &rootID, "notafolder.txt", cmisrepo.BaseTypeDocument, "alice", nil, nil, cmisrepo.VersioningStateMajor)
		require.NoError(t, err)
		_, err = store.DeleteTree(ctx, doc.ID, false)
		assert.ErrorIs(t, err, cmisrepo.ErrInvalidArgument)
	})
}
