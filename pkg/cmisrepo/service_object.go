package cmisrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Object operations

func (s *service) CreateDocument(ctx context.Context, cc CallContext, req CreateDocumentRequest) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	typeID := req.TypeID
	if typeID == "" {
		typeID = BaseTypeDocument
	}
	return store.CreateDocument(ctx, req.FolderID, req.Name, typeID, cc.Username, req.Properties, req.Content, req.VersioningState)
}

func (s *service) CreateFolder(ctx context.Context, cc CallContext, req CreateFolderRequest) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	typeID := req.TypeID
	if typeID == "" {
		typeID = BaseTypeFolder
	}
	return store.CreateFolder(ctx, req.ParentID, req.Name, typeID, cc.Username, req.Properties)
}

func (s *service) CreateItem(ctx context.Context, cc CallContext, req CreateItemRequest) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	typeID := req.TypeID
	if typeID == "" {
		typeID = BaseTypeItem
	}
	return store.CreateItem(ctx, req.FolderID, req.Name, typeID, cc.Username, req.Properties)
}

func (s *service) GetObject(ctx context.Context, cc CallContext, id uuid.UUID) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	return store.GetObjectByID(ctx, id)
}

func (s *service) GetObjectByPath(ctx context.Context, cc CallContext, path string) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	return store.GetObjectByPath(ctx, path)
}

func (s *service) GetProperties(ctx context.Context, cc CallContext, id uuid.UUID, filter string) (map[string]interface{}, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	obj, err := store.GetObjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return objectProperties(obj, filter), nil
}

func (s *service) GetContentStream(ctx context.Context, cc CallContext, id uuid.UUID) (*ContentStream, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	obj, err := store.GetObjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch obj.Kind {
	case KindDocument, KindDocumentVersion:
	case KindVersionedDocument:
		if obj, err = store.GetLatestVersion(ctx, id, false); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: object %s has no content stream", ErrConstraint, id)
	}
	if obj.Content == nil {
		return nil, fmt.Errorf("%w: object %s has no content stream", ErrConstraint, id)
	}
	return obj.Content, nil
}

func (s *service) SetContentStream(ctx context.Context, cc CallContext, req SetContentStreamRequest) error {
	store, err := s.store(cc)
	if err != nil {
		return err
	}
	if req.Content == nil {
		return fmt.Errorf("%w: content stream is required", ErrInvalidArgument)
	}
	return store.SetContentStream(ctx, req.ObjectID, req.Content, cc.Username)
}

func (s *service) DeleteContentStream(ctx context.Context, cc CallContext, id uuid.UUID) error {
	store, err := s.store(cc)
	if err != nil {
		return err
	}
	return store.SetContentStream(ctx, id, nil, cc.Username)
}

func (s *service) UpdateProperties(ctx context.Context, cc CallContext, req UpdatePropertiesRequest) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	return store.UpdateProperties(ctx, req.ObjectID, req.Properties, cc.Username)
}

func (s *service) MoveObject(ctx context.Context, cc CallContext, req MoveObjectRequest) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	return store.MoveObject(ctx, req.ObjectID, req.SourceFolderID, req.TargetFolderID, cc.Username)
}

func (s *service) DeleteObject(ctx context.Context, cc CallContext, id uuid.UUID, allVersions bool) error {
	store, err := s.store(cc)
	if err != nil {
		return err
	}
	return store.DeleteObject(ctx, id, allVersions)
}

func (s *service) DeleteTree(ctx context.Context, cc CallContext, req DeleteTreeRequest) (*DeleteTreeResult, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	failed, err := store.DeleteTree(ctx, req.FolderID, req.ContinueOnFailure)
	if err != nil {
		return nil, err
	}
	return &DeleteTreeResult{FailedIDs: failed}, nil
}

func (s *service) GetAllowableActions(ctx context.Context, cc CallContext, id uuid.UUID) (*AllowableActions, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	obj, err := store.GetObjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return allowableActions(ctx, store, obj)
}

// allowableActions derives the action set from object kind and versioning
// state; access control is a collaborator's concern.
func allowableActions(ctx context.Context, store ObjectStore, obj *StoredObject) (*AllowableActions, error) {
	actions := &AllowableActions{
		CanGetProperties:    true,
		CanUpdateProperties: true,
		CanGetObjectParents: obj.Fileable() && obj.ID != store.RootFolderID(),
		CanDeleteObject:     obj.ID != store.RootFolderID(),
		CanMoveObject:       obj.Fileable() && obj.ID != store.RootFolderID(),
	}
	switch obj.Kind {
	case KindFolder:
		actions.CanGetChildren = true
		actions.CanCreateDocument = true
		actions.CanCreateFolder = true
		actions.CanDeleteTree = obj.ID != store.RootFolderID()
		actions.CanGetFolderParent = obj.ID != store.RootFolderID()
	case KindDocument:
		actions.CanGetContentStream = obj.Content != nil
		actions.CanSetContentStream = true
		actions.CanDeleteContentStream = obj.Content != nil
		actions.CanAddObjectToFolder = true
		actions.CanRemoveObjectFromFolder = len(obj.ParentIDs) > 0
	case KindVersionedDocument:
		checkedOut, _, err := store.IsCheckedOut(ctx, obj.ID)
		if err != nil {
			return nil, err
		}
		actions.CanGetContentStream = len(obj.VersionIDs) > 0
		actions.CanSetContentStream = checkedOut
		actions.CanGetAllVersions = true
		actions.CanCheckOut = !checkedOut
		actions.CanCancelCheckOut = checkedOut
		actions.CanCheckIn = checkedOut
		actions.CanAddObjectToFolder = true
		actions.CanRemoveObjectFromFolder = len(obj.ParentIDs) > 0
	case KindDocumentVersion:
		actions.CanGetContentStream = obj.Content != nil
		actions.CanSetContentStream = obj.IsPWC
		actions.CanGetAllVersions = true
		actions.CanCancelCheckOut = obj.IsPWC
		actions.CanCheckIn = obj.IsPWC
		actions.CanUpdateProperties = obj.IsPWC
		actions.CanMoveObject = false
		actions.CanGetObjectParents = false
	case KindItem:
		actions.CanAddObjectToFolder = true
		actions.CanRemoveObjectFromFolder = len(obj.ParentIDs) > 0
	}
	return actions, nil
}
