package cmisrepo

import (
	"context"

	"github.com/google/uuid"
)

// ObjectStore is the per-repository object arena together with its filing
// and versioning rules. Implementations must be safe for concurrent use;
// every check-then-act sequence (name uniqueness, checkout state, structural
// deletes) happens under the store's own lock, and a failed mutation leaves
// the store unchanged.
//
// Returned objects are copies; callers never observe another caller's
// in-flight mutation.
type ObjectStore interface {
	RepositoryID() string
	RootFolderID() uuid.UUID

	// Lookup.
	GetObjectByID(ctx context.Context, id uuid.UUID) (*StoredObject, error)
	GetObjectByPath(ctx context.Context, path string) (*StoredObject, error)
	GetIDs(ctx context.Context) ([]uuid.UUID, error)

	// Creation. A nil folder id creates the object unfiled.
	CreateFolder(ctx context.Context, parentID uuid.UUID, name, typeID, user string, props map[string]interface{}) (*StoredObject, error)
	CreateDocument(ctx context.Context, folderID *uuid.UUID, name, typeID, user string, props map[string]interface{}, content *ContentStream, state VersioningState) (*StoredObject, error)
	CreateItem(ctx context.Context, folderID *uuid.UUID, name, typeID, user string, props map[string]interface{}) (*StoredObject, error)

	// Object mutation. allVersions is meaningful when id names a document
	// version: true cascades to the whole series, false removes only that
	// version (the series goes once its last version does). A series id
	// always deletes the series together with all of its versions.
	UpdateProperties(ctx context.Context, id uuid.UUID, props map[string]interface{}, user string) (*StoredObject, error)
	SetContentStream(ctx context.Context, id uuid.UUID, content *ContentStream, user string) error
	DeleteObject(ctx context.Context, id uuid.UUID, allVersions bool) error
	DeleteTree(ctx context.Context, folderID uuid.UUID, continueOnFailure bool) ([]uuid.UUID, error)

	// Filing.
	MoveObject(ctx context.Context, id, sourceID, targetID uuid.UUID, user string) (*StoredObject, error)
	AddParent(ctx context.Context, id, folderID uuid.UUID) error
	RemoveParent(ctx context.Context, id, folderID uuid.UUID) error
	GetParents(ctx context.Context, id uuid.UUID) ([]*StoredObject, error)
	GetChildren(ctx context.Context, folderID uuid.UUID) ([]*StoredObject, error)

	// Versioning. Ids may name either a series or one of its versions.
	CheckOut(ctx context.Context, id uuid.UUID, user string) (*StoredObject, error)
	CancelCheckOut(ctx context.Context, id uuid.UUID, user string) error
	CheckIn(ctx context.Context, id uuid.UUID, major bool, props map[string]interface{}, content *ContentStream, comment, user string) (*StoredObject, error)
	GetAllVersions(ctx context.Context, id uuid.UUID) ([]*StoredObject, error)
	GetLatestVersion(ctx context.Context, id uuid.UUID, major bool) (*StoredObject, error)
	IsCheckedOut(ctx context.Context, id uuid.UUID) (bool, string, error)
	GetCheckedOutDocs(ctx context.Context, folderID *uuid.UUID) ([]*StoredObject, error)
}

// TypeManager owns the type forest of one repository.
type TypeManager interface {
	// AddType registers a new type under its declared parent. An unknown
	// parent or an id collision rejects the registration; the inherited
	// property copy is computed once, at this point.
	AddType(ctx context.Context, def *TypeDefinition) error

	GetTypeDefinition(ctx context.Context, typeID string) (*TypeDefinition, error)

	// GetTypeChildren pages over the immediate children of typeID in a
	// stable order. An empty typeID pages over the base types. maxItems < 0
	// means no limit.
	GetTypeChildren(ctx context.Context, typeID string, includeProps bool, maxItems, skipCount int) (*TypeDefinitionPage, error)

	// GetTypeDescendants copies the subtree under typeID down to depth
	// levels (-1 for unbounded; 0 is invalid). An empty typeID returns the
	// whole forest.
	GetTypeDescendants(ctx context.Context, typeID string, depth int, includeProps bool) ([]*TypeDefinitionContainer, error)
}

// StoreManager is the process-wide registry mapping repository ids to their
// object store and type manager. Repositories are registered explicitly;
// duplicate registration fails with ErrRepositoryExists.
type StoreManager interface {
	CreateAndInitRepository(ctx context.Context, id, name, description string) error
	GetObjectStore(repositoryID string) (ObjectStore, error)
	GetTypeManager(repositoryID string) (TypeManager, error)
	GetRepositoryInfo(ctx context.Context, repositoryID string) (*RepositoryInfo, error)
	RepositoryIDs() []string
}
