package cmisrepo

import (
	"time"

	"github.com/google/uuid"
)

// ObjectKind identifies the concrete kind of a StoredObject. The set is
// closed: every consumer switches exhaustively over these values instead of
// inspecting the object shape.
type ObjectKind string

// Object kind constants (typed).
const (
	KindFolder            ObjectKind = "folder"
	KindDocument          ObjectKind = "document"
	KindVersionedDocument ObjectKind = "versioned-document"
	KindDocumentVersion   ObjectKind = "document-version"
	KindItem              ObjectKind = "item"
)

// VersioningState controls how a new document enters the version model.
type VersioningState string

// Versioning state constants (typed).
const (
	VersioningStateNone       VersioningState = "none"
	VersioningStateMajor      VersioningState = "major"
	VersioningStateMinor      VersioningState = "minor"
	VersioningStateCheckedOut VersioningState = "checkedout"
)

// ContentStream carries the bytes of a document or document version.
// Data is treated as read-only once attached to an object.
type ContentStream struct {
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Length returns the byte length of the stream.
func (c *ContentStream) Length() int64 {
	if c == nil {
		return 0
	}
	return int64(len(c.Data))
}

// StoredObject is the single entity type held by an object store. Which of
// the payload fields are meaningful depends on Kind:
//
//   - KindFolder: ParentIDs holds at most one entry (none for the root).
//   - KindDocument: ParentIDs (orderable, multi-filing allowed), Content.
//   - KindVersionedDocument: ParentIDs, VersionIDs (oldest first).
//   - KindDocumentVersion: SeriesID, Content, IsMajor, IsPWC. Versions are
//     never filed directly; they are reached through their series.
//   - KindItem: ParentIDs.
//
// All relationships are id references resolved through the owning store,
// never pointers into other objects.
type StoredObject struct {
	ID         uuid.UUID              `json:"id"`
	Kind       ObjectKind             `json:"kind"`
	Name       string                 `json:"name"`
	TypeID     string                 `json:"type_id"`
	CreatedBy  string                 `json:"created_by"`
	CreatedAt  time.Time              `json:"created_at"`
	ModifiedBy string                 `json:"modified_by"`
	ModifiedAt time.Time              `json:"modified_at"`
	Properties map[string]interface{} `json:"properties,omitempty"`

	// Filing: parent folder ids in filing order.
	ParentIDs []uuid.UUID `json:"parent_ids,omitempty"`

	// Content payload for documents and document versions.
	Content *ContentStream `json:"content,omitempty"`

	// Version series payload: version ids, oldest first.
	VersionIDs []uuid.UUID `json:"version_ids,omitempty"`

	// Document version payload.
	SeriesID       uuid.UUID `json:"series_id,omitempty"`
	IsMajor        bool      `json:"is_major,omitempty"`
	IsPWC          bool      `json:"is_pwc,omitempty"`
	CheckinComment string    `json:"checkin_comment,omitempty"`
}

// IsFolder reports whether the object is a folder.
func (o *StoredObject) IsFolder() bool { return o.Kind == KindFolder }

// Fileable reports whether the object may appear as a folder child.
// Document versions are reachable only through their series.
func (o *StoredObject) Fileable() bool {
	switch o.Kind {
	case KindFolder, KindDocument, KindVersionedDocument, KindItem:
		return true
	default:
		return false
	}
}

// MultiFileable reports whether the object may be filed under more than one
// folder. Folders never are; leaf kinds and version series may be.
func (o *StoredObject) MultiFileable() bool {
	switch o.Kind {
	case KindDocument, KindVersionedDocument, KindItem:
		return true
	default:
		return false
	}
}

// RepositoryInfo describes one repository for the repository service group.
type RepositoryInfo struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description,omitempty"`
	RootFolderID    uuid.UUID              `json:"root_folder_id"`
	CMISVersion     string                 `json:"cmis_version"`
	ProductName     string                 `json:"product_name"`
	Capabilities    RepositoryCapabilities `json:"capabilities"`
	LatestChangeLog string                 `json:"latest_change_log_token,omitempty"`
}

// RepositoryCapabilities advertises which optional behaviors the engine
// implements.
type RepositoryCapabilities struct {
	Multifiling           bool `json:"multifiling"`
	Unfiling              bool `json:"unfiling"`
	VersionSpecificFiling bool `json:"version_specific_filing"`
	GetDescendants        bool `json:"get_descendants"`
	GetFolderTree         bool `json:"get_folder_tree"`
	AllVersionsSearchable bool `json:"all_versions_searchable"`
	PWCUpdatable          bool `json:"pwc_updatable"`
}

// AllowableActions reports which operations the caller may invoke on an
// object. The engine derives these from object kind and state alone; access
// control decisions belong to a collaborator.
type AllowableActions struct {
	CanGetProperties          bool `json:"can_get_properties"`
	CanUpdateProperties       bool `json:"can_update_properties"`
	CanGetChildren            bool `json:"can_get_children"`
	CanGetFolderParent        bool `json:"can_get_folder_parent"`
	CanGetObjectParents       bool `json:"can_get_object_parents"`
	CanCreateDocument         bool `json:"can_create_document"`
	CanCreateFolder           bool `json:"can_create_folder"`
	CanDeleteObject           bool `json:"can_delete_object"`
	CanDeleteTree             bool `json:"can_delete_tree"`
	CanMoveObject             bool `json:"can_move_object"`
	CanGetContentStream       bool `json:"can_get_content_stream"`
	CanSetContentStream       bool `json:"can_set_content_stream"`
	CanDeleteContentStream    bool `json:"can_delete_content_stream"`
	CanCheckOut               bool `json:"can_check_out"`
	CanCancelCheckOut         bool `json:"can_cancel_check_out"`
	CanCheckIn                bool `json:"can_check_in"`
	CanGetAllVersions         bool `json:"can_get_all_versions"`
	CanAddObjectToFolder      bool `json:"can_add_object_to_folder"`
	CanRemoveObjectFromFolder bool `json:"can_remove_object_from_folder"`
}

// ChangeEvent is one entry of the repository change log.
type ChangeEvent struct {
	ObjectID   uuid.UUID `json:"object_id"`
	ChangeType string    `json:"change_type"`
	ChangeTime time.Time `json:"change_time"`
}

// ChangeLogPage is the result of GetContentChanges. The engine keeps no
// change log, so pages are always empty with a stable token.
type ChangeLogPage struct {
	Events         []ChangeEvent `json:"events"`
	ChangeLogToken string        `json:"change_log_token"`
	HasMoreItems   bool          `json:"has_more_items"`
}
