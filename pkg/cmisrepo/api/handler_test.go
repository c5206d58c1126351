package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cmis/pkg/cmisrepo"
	"github.com/tendant/simple-cmis/pkg/cmisrepo/api"
	"github.com/tendant/simple-cmis/pkg/cmisrepo/repo/memory"
)

func setupHandler(t *testing.T) http.Handler {
	manager := memory.NewManager()
	require.NoError(t, manager.CreateAndInitRepository(context.Background(), "A1", "Main Repository", ""))

	svc, err := cmisrepo.New(cmisrepo.WithStoreManager(manager))
	require.NoError(t, err)

	return api.NewHandler(svc).Routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.SetBasicAuth("alice", "")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func createFolder(t *testing.T, handler http.Handler, parentID, name string) cmisrepo.StoredObject {
	rec := doJSON(t, handler, http.MethodPost, "/repositories/A1/folders", api.CreateFolderRequest{
		ParentID: parentID,
		Name:     name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var folder cmisrepo.StoredObject
	decode(t, rec, &folder)
	return folder
}

func repositoryRootID(t *testing.T, handler http.Handler) string {
	rec := doJSON(t, handler, http.MethodGet, "/repositories/A1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info cmisrepo.RepositoryInfo
	decode(t, rec, &info)
	return info.RootFolderID.String()
}

func TestRepositoryEndpoints(t *testing.T) {
	handler := setupHandler(t)

	t.Run("list repositories", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/repositories", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var infos []cmisrepo.RepositoryInfo
		decode(t, rec, &infos)
		require.Len(t, infos, 1)
		assert.Equal(t, "A1", infos[0].ID)
		assert.Equal(t, "1.1", infos[0].CMISVersion)
	})

	t.Run("unknown repository", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/repositories/B2", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("type definition", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/repositories/A1/types/cmis:document", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var def cmisrepo.TypeDefinition
		decode(t, rec, &def)
		assert.Equal(t, cmisrepo.BaseTypeDocument, def.ID)
		assert.True(t, def.Versionable)
	})

	t.Run("register type", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/repositories/A1/types", cmisrepo.TypeDefinition{
			ID:           "custom:doc",
			ParentTypeID: cmisrepo.BaseTypeDocument,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, handler, http.MethodPost, "/repositories/A1/types", cmisrepo.TypeDefinition{
			ID:           "custom:doc",
			ParentTypeID: cmisrepo.BaseTypeDocument,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestFolderEndpoints(t *testing.T) {
	handler := setupHandler(t)
	rootID := repositoryRootID(t, handler)

	folder := createFolder(t, handler, rootID, "docs")
	assert.Equal(t, "docs", folder.Name)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/repositories/A1/folders", api.CreateFolderRequest{
			ParentID: rootID,
			Name:     "docs",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid parent id", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/repositories/A1/folders", api.CreateFolderRequest{
			ParentID: "not-a-uuid",
			Name:     "bad",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("children listing", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s/children?maxItems=10", rootID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list cmisrepo.ObjectList
		decode(t, rec, &list)
		require.Len(t, list.Entries, 1)
		assert.Equal(t, "docs", list.Entries[0].Object.Name)
		assert.Equal(t, "docs", list.Entries[0].PathSegment)
	})

	t.Run("lookup by path", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/repositories/A1/path?path=/docs", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var obj cmisrepo.StoredObject
		decode(t, rec, &obj)
		assert.Equal(t, folder.ID, obj.ID)
	})

	t.Run("delete tree", func(t *testing.T) {
		inner := createFolder(t, handler, folder.ID.String(), "inner")
		rec := doJSON(t, handler, http.MethodDelete,
			fmt.Sprintf("/repositories/A1/objects/%s/tree", folder.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s", inner.ID), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDocumentEndpoints(t *testing.T) {
	handler := setupHandler(t)
	rootID := repositoryRootID(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/repositories/A1/documents", api.CreateDocumentRequest{
		FolderID:        rootID,
		Name:            "report.txt",
		VersioningState: string(cmisrepo.VersioningStateMajor),
		MimeType:        "text/plain",
		Content:         "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var doc cmisrepo.StoredObject
	decode(t, rec, &doc)
	assert.Equal(t, cmisrepo.KindVersionedDocument, doc.Kind)

	t.Run("content stream round trip", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s/content", doc.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
		assert.Equal(t, "hello", rec.Body.String())
	})

	t.Run("replace content", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/repositories/A1/objects/%s/content", doc.ID),
			bytes.NewBufferString("replaced"))
		req.Header.Set("Content-Type", "text/plain")
		req.SetBasicAuth("alice", "")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s/content", doc.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "replaced", rec.Body.String())
	})

	t.Run("properties", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s/properties?filter=cmis:name", doc.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var props map[string]interface{}
		decode(t, rec, &props)
		assert.Equal(t, "report.txt", props[cmisrepo.PropertyName])
		assert.Len(t, props, 1)
	})

	t.Run("invalid object id", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/repositories/A1/objects/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodDelete,
			fmt.Sprintf("/repositories/A1/objects/%s", doc.ID), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s", doc.ID), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestVersioningEndpoints(t *testing.T) {
	handler := setupHandler(t)
	rootID := repositoryRootID(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/repositories/A1/documents", api.CreateDocumentRequest{
		FolderID:        rootID,
		Name:            "versioned.txt",
		VersioningState: string(cmisrepo.VersioningStateMajor),
		MimeType:        "text/plain",
		Content:         "v1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var doc cmisrepo.StoredObject
	decode(t, rec, &doc)

	t.Run("checkout", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost,
			fmt.Sprintf("/repositories/A1/objects/%s/checkout", doc.ID), nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var pwc cmisrepo.StoredObject
		decode(t, rec, &pwc)
		assert.True(t, pwc.IsPWC)
	})

	t.Run("second checkout conflicts", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost,
			fmt.Sprintf("/repositories/A1/objects/%s/checkout", doc.ID), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("checked out listing", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/repositories/A1/checkedout", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list cmisrepo.ObjectList
		decode(t, rec, &list)
		assert.Len(t, list.Entries, 1)
	})

	t.Run("checkin", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost,
			fmt.Sprintf("/repositories/A1/objects/%s/checkin", doc.ID), api.CheckInRequest{
				Major:    true,
				Comment:  "second cut",
				MimeType: "text/plain",
				Content:  "v2",
			})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var version cmisrepo.StoredObject
		decode(t, rec, &version)
		assert.True(t, version.IsMajor)
		assert.Equal(t, "second cut", version.CheckinComment)
	})

	t.Run("versions", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s/versions", doc.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var versions []cmisrepo.StoredObject
		decode(t, rec, &versions)
		assert.Len(t, versions, 2)
	})

	t.Run("latest", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s/latest?major=true", doc.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var latest cmisrepo.StoredObject
		decode(t, rec, &latest)
		assert.Equal(t, "second cut", latest.CheckinComment)
	})
}

func TestMultiFilingEndpoints(t *testing.T) {
	handler := setupHandler(t)
	rootID := repositoryRootID(t, handler)

	a := createFolder(t, handler, rootID, "a")
	b := createFolder(t, handler, rootID, "b")

	rec := doJSON(t, handler, http.MethodPost, "/repositories/A1/documents", api.CreateDocumentRequest{
		FolderID: a.ID.String(),
		Name:     "shared.txt",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var doc cmisrepo.StoredObject
	decode(t, rec, &doc)

	t.Run("add parent", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost,
			fmt.Sprintf("/repositories/A1/objects/%s/parents", doc.ID),
			api.AddParentRequest{FolderID: b.ID.String()})
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		rec = doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s/parents", doc.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var parents []cmisrepo.ObjectParentEntry
		decode(t, rec, &parents)
		assert.Len(t, parents, 2)
	})

	t.Run("remove parent", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodDelete,
			fmt.Sprintf("/repositories/A1/objects/%s/parents/%s", doc.ID, a.ID), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, handler, http.MethodGet,
			fmt.Sprintf("/repositories/A1/objects/%s/parents", doc.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var parents []cmisrepo.ObjectParentEntry
		decode(t, rec, &parents)
		assert.Len(t, parents, 1)
	})

	t.Run("move", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost,
			fmt.Sprintf("/repositories/A1/objects/%s/move", doc.ID),
			api.MoveObjectRequest{SourceFolderID: b.ID.String(), TargetFolderID: a.ID.String()})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var moved cmisrepo.StoredObject
		decode(t, rec, &moved)
		require.Len(t, moved.ParentIDs, 1)
		assert.Equal(t, a.ID, moved.ParentIDs[0])
	})
}
