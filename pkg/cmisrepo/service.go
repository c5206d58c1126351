package cmisrepo

import (
	"context"

	"github.com/google/uuid"
)

// Service is the protocol-agnostic operation surface binding layers call
// into. Every operation carries the caller's CallContext; the engine keeps
// no per-request state of its own.
type Service interface {
	// Repository operations
	GetRepositoryInfo(ctx context.Context, cc CallContext) (*RepositoryInfo, error)
	GetRepositoryInfos(ctx context.Context, cc CallContext) ([]*RepositoryInfo, error)
	GetTypeDefinition(ctx context.Context, cc CallContext, typeID string) (*TypeDefinition, error)
	GetTypeChildren(ctx context.Context, cc CallContext, typeID string, includeProps bool, maxItems, skipCount int) (*TypeDefinitionPage, error)
	GetTypeDescendants(ctx context.Context, cc CallContext, typeID string, depth int, includeProps bool) ([]*TypeDefinitionContainer, error)
	CreateType(ctx context.Context, cc CallContext, def *TypeDefinition) error

	// Navigation operations
	GetChildren(ctx context.Context, cc CallContext, req GetChildrenRequest) (*ObjectList, error)
	GetDescendants(ctx context.Context, cc CallContext, req GetDescendantsRequest) ([]*ObjectContainer, error)
	GetFolderTree(ctx context.Context, cc CallContext, req GetDescendantsRequest) ([]*ObjectContainer, error)
	GetFolderParent(ctx context.Context, cc CallContext, folderID uuid.UUID) (*StoredObject, error)
	GetObjectParents(ctx context.Context, cc CallContext, req GetObjectParentsRequest) ([]ObjectParentEntry, error)
	GetCheckedOutDocs(ctx context.Context, cc CallContext, req GetCheckedOutDocsRequest) (*ObjectList, error)

	// Object operations
	CreateDocument(ctx context.Context, cc CallContext, req CreateDocumentRequest) (*StoredObject, error)
	CreateFolder(ctx context.Context, cc CallContext, req CreateFolderRequest) (*StoredObject, error)
	CreateItem(ctx context.Context, cc CallContext, req CreateItemRequest) (*StoredObject, error)
	GetObject(ctx context.Context, cc CallContext, id uuid.UUID) (*StoredObject, error)
	GetObjectByPath(ctx context.Context, cc CallContext, path string) (*StoredObject, error)
	GetProperties(ctx context.Context, cc CallContext, id uuid.UUID, filter string) (map[string]interface{}, error)
	GetContentStream(ctx context.Context, cc CallContext, id uuid.UUID) (*ContentStream, error)
	SetContentStream(ctx context.Context, cc CallContext, req SetContentStreamRequest) error
	DeleteContentStream(ctx context.Context, cc CallContext, id uuid.UUID) error
	UpdateProperties(ctx context.Context, cc CallContext, req UpdatePropertiesRequest) (*StoredObject, error)
	MoveObject(ctx context.Context, cc CallContext, req MoveObjectRequest) (*StoredObject, error)
	DeleteObject(ctx context.Context, cc CallContext, id uuid.UUID, allVersions bool) error
	DeleteTree(ctx context.Context, cc CallContext, req DeleteTreeRequest) (*DeleteTreeResult, error)
	GetAllowableActions(ctx context.Context, cc CallContext, id uuid.UUID) (*AllowableActions, error)

	// Versioning operations
	CheckOut(ctx context.Context, cc CallContext, id uuid.UUID) (*StoredObject, error)
	CancelCheckOut(ctx context.Context, cc CallContext, id uuid.UUID) error
	CheckIn(ctx context.Context, cc CallContext, req CheckInRequest) (*StoredObject, error)
	GetObjectOfLatestVersion(ctx context.Context, cc CallContext, id uuid.UUID, major bool) (*StoredObject, error)
	GetPropertiesOfLatestVersion(ctx context.Context, cc CallContext, id uuid.UUID, major bool, filter string) (map[string]interface{}, error)
	GetAllVersions(ctx context.Context, cc CallContext, id uuid.UUID) ([]*StoredObject, error)

	// Multi-filing operations
	AddObjectToFolder(ctx context.Context, cc CallContext, req AddObjectToFolderRequest) error
	RemoveObjectFromFolder(ctx context.Context, cc CallContext, req RemoveObjectFromFolderRequest) error

	// Discovery operations
	Query(ctx context.Context, cc CallContext, req QueryRequest) (*ObjectList, error)
	GetContentChanges(ctx context.Context, cc CallContext, changeLogToken string, maxItems int) (*ChangeLogPage, error)
}
