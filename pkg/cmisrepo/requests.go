package cmisrepo

import "github.com/google/uuid"

// Request/Response DTOs

// CreateFolderRequest contains parameters for creating a folder.
type CreateFolderRequest struct {
	ParentID   uuid.UUID
	Name       string
	TypeID     string
	Properties map[string]interface{}
}

// CreateDocumentRequest contains parameters for creating a document. A nil
// FolderID creates the document unfiled. An empty VersioningState defaults
// to VersioningStateNone.
type CreateDocumentRequest struct {
	FolderID        *uuid.UUID
	Name            string
	TypeID          string
	Properties      map[string]interface{}
	Content         *ContentStream
	VersioningState VersioningState
}

// CreateItemRequest contains parameters for creating an item.
type CreateItemRequest struct {
	FolderID   *uuid.UUID
	Name       string
	TypeID     string
	Properties map[string]interface{}
}

// UpdatePropertiesRequest contains parameters for updating object properties.
type UpdatePropertiesRequest struct {
	ObjectID   uuid.UUID
	Properties map[string]interface{}
}

// MoveObjectRequest contains parameters for moving an object between folders.
type MoveObjectRequest struct {
	ObjectID       uuid.UUID
	SourceFolderID uuid.UUID
	TargetFolderID uuid.UUID
}

// DeleteTreeRequest contains parameters for deleting a folder subtree.
type DeleteTreeRequest struct {
	FolderID          uuid.UUID
	ContinueOnFailure bool
}

// DeleteTreeResult lists the ids that could not be deleted.
type DeleteTreeResult struct {
	FailedIDs []uuid.UUID `json:"failed_ids,omitempty"`
}

// SetContentStreamRequest contains parameters for replacing document content.
type SetContentStreamRequest struct {
	ObjectID uuid.UUID
	Content  *ContentStream
}

// CheckInRequest contains parameters for checking in a private working copy.
type CheckInRequest struct {
	ObjectID   uuid.UUID
	Major      bool
	Properties map[string]interface{}
	Content    *ContentStream
	Comment    string
}

// GetChildrenRequest contains parameters for listing folder children.
// MaxItems < 0 means no limit.
type GetChildrenRequest struct {
	FolderID                uuid.UUID
	Filter                  string
	OrderBy                 string
	MaxItems                int
	SkipCount               int
	IncludeAllowableActions bool
	IncludePathSegment      bool
}

// GetDescendantsRequest contains parameters for listing a folder subtree.
// Depth -1 means unbounded; 0 is invalid.
type GetDescendantsRequest struct {
	FolderID                uuid.UUID
	Depth                   int
	Filter                  string
	IncludeAllowableActions bool
	FoldersOnly             bool
}

// GetObjectParentsRequest contains parameters for listing object parents.
type GetObjectParentsRequest struct {
	ObjectID                   uuid.UUID
	Filter                     string
	IncludeRelativePathSegment bool
}

// GetCheckedOutDocsRequest contains parameters for listing checked-out
// documents. A nil FolderID scans the whole repository.
type GetCheckedOutDocsRequest struct {
	FolderID  *uuid.UUID
	MaxItems  int
	SkipCount int
}

// AddObjectToFolderRequest contains parameters for multi-filing an object.
type AddObjectToFolderRequest struct {
	ObjectID    uuid.UUID
	FolderID    uuid.UUID
	AllVersions bool
}

// RemoveObjectFromFolderRequest contains parameters for unfiling an object
// from one folder.
type RemoveObjectFromFolderRequest struct {
	ObjectID uuid.UUID
	FolderID uuid.UUID
}

// QueryRequest contains parameters for a discovery query.
type QueryRequest struct {
	Statement         string
	SearchAllVersions bool
	MaxItems          int
	SkipCount         int
}

// ObjectEntry is one navigation result: an object plus the per-entry data
// the caller asked for.
type ObjectEntry struct {
	Object           *StoredObject     `json:"object"`
	PathSegment      string            `json:"path_segment,omitempty"`
	AllowableActions *AllowableActions `json:"allowable_actions,omitempty"`
}

// ObjectList is one page of navigation results. NumItems counts the unpaged
// result set.
type ObjectList struct {
	Entries      []ObjectEntry `json:"entries"`
	HasMoreItems bool          `json:"has_more_items"`
	NumItems     int           `json:"num_items"`
}

// ObjectContainer is one node of a descendants or folder tree result.
type ObjectContainer struct {
	Entry    ObjectEntry        `json:"entry"`
	Children []*ObjectContainer `json:"children,omitempty"`
}

// ObjectParentEntry is one parent of an object together with the object's
// path segment under that parent.
type ObjectParentEntry struct {
	Folder              *StoredObject `json:"folder"`
	RelativePathSegment string        `json:"relative_path_segment,omitempty"`
}
