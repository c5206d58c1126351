package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-cmis/pkg/cmisrepo"
)

// CreateFolderRequest is the request body for creating a folder.
type CreateFolderRequest struct {
	ParentID   string                 `json:"parent_id"`
	Name       string                 `json:"name"`
	TypeID     string                 `json:"type_id,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	FolderID        string                 `json:"folder_id,omitempty"`
	Name            string                 `json:"name"`
	TypeID          string                 `json:"type_id,omitempty"`
	Properties      map[string]interface{} `json:"properties,omitempty"`
	VersioningState string                 `json:"versioning_state,omitempty"`
	MimeType        string                 `json:"mime_type,omitempty"`
	FileName        string                 `json:"file_name,omitempty"`
	Content         string                 `json:"content,omitempty"`
}

// MoveObjectRequest is the request body for moving an object.
type MoveObjectRequest struct {
	SourceFolderID string `json:"source_folder_id"`
	TargetFolderID string `json:"target_folder_id"`
}

// CheckInRequest is the request body for checking in a PWC.
type CheckInRequest struct {
	Major      bool                   `json:"major"`
	Comment    string                 `json:"comment,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	MimeType   string                 `json:"mime_type,omitempty"`
	Content    string                 `json:"content,omitempty"`
}

// AddParentRequest is the request body for multi-filing an object.
type AddParentRequest struct {
	FolderID string `json:"folder_id"`
}

func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	parentID, err := uuid.Parse(req.ParentID)
	if err != nil {
		http.Error(w, "invalid parent id", http.StatusBadRequest)
		return
	}
	folder, err := h.service.CreateFolder(r.Context(), callContext(r), cmisrepo.CreateFolderRequest{
		ParentID:   parentID,
		Name:       req.Name,
		TypeID:     req.TypeID,
		Properties: req.Properties,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, folder)
}

func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var folderID *uuid.UUID
	if req.FolderID != "" {
		id, err := uuid.Parse(req.FolderID)
		if err != nil {
			http.Error(w, "invalid folder id", http.StatusBadRequest)
			return
		}
		folderID = &id
	}
	var content *cmisrepo.ContentStream
	if req.Content != "" {
		content = &cmisrepo.ContentStream{
			FileName: req.FileName,
			MimeType: req.MimeType,
			Data:     []byte(req.Content),
		}
	}
	doc, err := h.service.CreateDocument(r.Context(), callContext(r), cmisrepo.CreateDocumentRequest{
		FolderID:        folderID,
		Name:            req.Name,
		TypeID:          req.TypeID,
		Properties:      req.Properties,
		Content:         content,
		VersioningState: cmisrepo.VersioningState(req.VersioningState),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, doc)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var folderID *uuid.UUID
	if req.ParentID != "" {
		id, err := uuid.Parse(req.ParentID)
		if err != nil {
			http.Error(w, "invalid parent id", http.StatusBadRequest)
			return
		}
		folderID = &id
	}
	item, err := h.service.CreateItem(r.Context(), callContext(r), cmisrepo.CreateItemRequest{
		FolderID:   folderID,
		Name:       req.Name,
		TypeID:     req.TypeID,
		Properties: req.Properties,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

func (h *Handler) GetObject(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	obj, err := h.service.GetObject(r.Context(), callContext(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, obj)
}

func (h *Handler) GetObjectByPath(w http.ResponseWriter, r *http.Request) {
	obj, err := h.service.GetObjectByPath(r.Context(), callContext(r), r.URL.Query().Get("path"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, obj)
}

func (h *Handler) GetProperties(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	props, err := h.service.GetProperties(r.Context(), callContext(r), id, r.URL.Query().Get("filter"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, props)
}

func (h *Handler) UpdateProperties(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	var props map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&props); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	obj, err := h.service.UpdateProperties(r.Context(), callContext(r), cmisrepo.UpdatePropertiesRequest{
		ObjectID:   id,
		Properties: props,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, obj)
}

func (h *Handler) GetContentStream(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	stream, err := h.service.GetContentStream(r.Context(), callContext(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if stream.MimeType != "" {
		w.Header().Set("Content-Type", stream.MimeType)
	}
	w.Write(stream.Data)
}

func (h *Handler) SetContentStream(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = h.service.SetContentStream(r.Context(), callContext(r), cmisrepo.SetContentStreamRequest{
		ObjectID: id,
		Content: &cmisrepo.ContentStream{
			MimeType: r.Header.Get("Content-Type"),
			FileName: r.URL.Query().Get("fileName"),
			Data:     data,
		},
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteContentStream(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteContentStream(r.Context(), callContext(r), id); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MoveObject(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	var req MoveObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sourceID, err := uuid.Parse(req.SourceFolderID)
	if err != nil {
		http.Error(w, "invalid source folder id", http.StatusBadRequest)
		return
	}
	targetID, err := uuid.Parse(req.TargetFolderID)
	if err != nil {
		http.Error(w, "invalid target folder id", http.StatusBadRequest)
		return
	}
	obj, err := h.service.MoveObject(r.Context(), callContext(r), cmisrepo.MoveObjectRequest{
		ObjectID:       id,
		SourceFolderID: sourceID,
		TargetFolderID: targetID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, obj)
}

func (h *Handler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	allVersions := r.URL.Query().Get("allVersions") != "false"
	if err := h.service.DeleteObject(r.Context(), callContext(r), id, allVersions); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	result, err := h.service.DeleteTree(r.Context(), callContext(r), cmisrepo.DeleteTreeRequest{
		FolderID:          id,
		ContinueOnFailure: r.URL.Query().Get("continueOnFailure") == "true",
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *Handler) GetAllowableActions(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	actions, err := h.service.GetAllowableActions(r.Context(), callContext(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, actions)
}

// Navigation services

func (h *Handler) GetChildren(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	list, err := h.service.GetChildren(r.Context(), callContext(r), cmisrepo.GetChildrenRequest{
		FolderID:                id,
		Filter:                  r.URL.Query().Get("filter"),
		OrderBy:                 r.URL.Query().Get("orderBy"),
		MaxItems:                queryInt(r, "maxItems", -1),
		SkipCount:               queryInt(r, "skipCount", 0),
		IncludeAllowableActions: r.URL.Query().Get("includeAllowableActions") == "true",
		IncludePathSegment:      true,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}

func (h *Handler) GetDescendants(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	tree, err := h.service.GetDescendants(r.Context(), callContext(r), cmisrepo.GetDescendantsRequest{
		FolderID:                id,
		Depth:                   queryInt(r, "depth", -1),
		Filter:                  r.URL.Query().Get("filter"),
		IncludeAllowableActions: r.URL.Query().Get("includeAllowableActions") == "true",
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, tree)
}

func (h *Handler) GetFolderTree(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	tree, err := h.service.GetFolderTree(r.Context(), callContext(r), cmisrepo.GetDescendantsRequest{
		FolderID:                id,
		Depth:                   queryInt(r, "depth", -1),
		Filter:                  r.URL.Query().Get("filter"),
		IncludeAllowableActions: r.URL.Query().Get("includeAllowableActions") == "true",
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, tree)
}

func (h *Handler) GetFolderParent(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	parent, err := h.service.GetFolderParent(r.Context(), callContext(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, parent)
}

func (h *Handler) GetObjectParents(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	parents, err := h.service.GetObjectParents(r.Context(), callContext(r), cmisrepo.GetObjectParentsRequest{
		ObjectID:                   id,
		Filter:                     r.URL.Query().Get("filter"),
		IncludeRelativePathSegment: true,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, parents)
}

func (h *Handler) GetCheckedOutDocs(w http.ResponseWriter, r *http.Request) {
	var folderID *uuid.UUID
	if raw := r.URL.Query().Get("folderId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid folder id", http.StatusBadRequest)
			return
		}
		folderID = &id
	}
	list, err := h.service.GetCheckedOutDocs(r.Context(), callContext(r), cmisrepo.GetCheckedOutDocsRequest{
		FolderID:  folderID,
		MaxItems:  queryInt(r, "maxItems", -1),
		SkipCount: queryInt(r, "skipCount", 0),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}

// Versioning services

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	pwc, err := h.service.CheckOut(r.Context(), callContext(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, pwc)
}

func (h *Handler) CancelCheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	if err := h.service.CancelCheckOut(r.Context(), callContext(r), id); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var content *cmisrepo.ContentStream
	if req.Content != "" {
		content = &cmisrepo.ContentStream{MimeType: req.MimeType, Data: []byte(req.Content)}
	}
	version, err := h.service.CheckIn(r.Context(), callContext(r), cmisrepo.CheckInRequest{
		ObjectID:   id,
		Major:      req.Major,
		Properties: req.Properties,
		Content:    content,
		Comment:    req.Comment,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, version)
}

func (h *Handler) GetAllVersions(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	versions, err := h.service.GetAllVersions(r.Context(), callContext(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, versions)
}

func (h *Handler) GetObjectOfLatestVersion(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	version, err := h.service.GetObjectOfLatestVersion(r.Context(), callContext(r), id, r.URL.Query().Get("major") == "true")
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, version)
}

func (h *Handler) GetPropertiesOfLatestVersion(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	props, err := h.service.GetPropertiesOfLatestVersion(r.Context(), callContext(r), id,
		r.URL.Query().Get("major") == "true", r.URL.Query().Get("filter"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, props)
}

// Multi-filing services

func (h *Handler) AddObjectToFolder(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	var req AddParentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	folderID, err := uuid.Parse(req.FolderID)
	if err != nil {
		http.Error(w, "invalid folder id", http.StatusBadRequest)
		return
	}
	err = h.service.AddObjectToFolder(r.Context(), callContext(r), cmisrepo.AddObjectToFolderRequest{
		ObjectID: id,
		FolderID: folderID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveObjectFromFolder(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}
	folderID, err := uuid.Parse(chi.URLParam(r, "folderID"))
	if err != nil {
		http.Error(w, "invalid folder id", http.StatusBadRequest)
		return
	}
	err = h.service.RemoveObjectFromFolder(r.Context(), callContext(r), cmisrepo.RemoveObjectFromFolderRequest{
		ObjectID: id,
		FolderID: folderID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
