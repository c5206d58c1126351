package cmisrepo

import (
	"context"

	"github.com/google/uuid"
)

// Versioning operations

func (s *service) CheckOut(ctx context.Context, cc CallContext, id uuid.UUID) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	return store.CheckOut(ctx, id, cc.Username)
}

func (s *service) CancelCheckOut(ctx context.Context, cc CallContext, id uuid.UUID) error {
	store, err := s.store(cc)
	if err != nil {
		return err
	}
	return store.CancelCheckOut(ctx, id, cc.Username)
}

func (s *service) CheckIn(ctx context.Context, cc CallContext, req CheckInRequest) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	return store.CheckIn(ctx, req.ObjectID, req.Major, req.Properties, req.Content, req.Comment, cc.Username)
}

func (s *service) GetObjectOfLatestVersion(ctx context.Context, cc CallContext, id uuid.UUID, major bool) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	return store.GetLatestVersion(ctx, id, major)
}

func (s *service) GetPropertiesOfLatestVersion(ctx context.Context, cc CallContext, id uuid.UUID, major bool, filter string) (map[string]interface{}, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	version, err := store.GetLatestVersion(ctx, id, major)
	if err != nil {
		return nil, err
	}
	return objectProperties(version, filter), nil
}

func (s *service) GetAllVersions(ctx context.Context, cc CallContext, id uuid.UUID) ([]*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	return store.GetAllVersions(ctx, id)
}

// Multi-filing operations

func (s *service) AddObjectToFolder(ctx context.Context, cc CallContext, req AddObjectToFolderRequest) error {
	store, err := s.store(cc)
	if err != nil {
		return err
	}
	return store.AddParent(ctx, req.ObjectID, req.FolderID)
}

func (s *service) RemoveObjectFromFolder(ctx context.Context, cc CallContext, req RemoveObjectFromFolderRequest) error {
	store, err := s.store(cc)
	if err != nil {
		return err
	}
	return store.RemoveParent(ctx, req.ObjectID, req.FolderID)
}
