package cmisrepo

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Navigation engine: read-only tree and paging algorithms over the object
// store. All listings are deterministically ordered (by name unless the
// caller asks otherwise) so pagination is stable.

func (s *service) GetChildren(ctx context.Context, cc CallContext, req GetChildrenRequest) (*ObjectList, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	children, err := store.GetChildren(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}
	orderChildren(children, req.OrderBy)
	page, hasMore, err := pageObjects(children, req.MaxItems, req.SkipCount)
	if err != nil {
		return nil, err
	}
	entries := make([]ObjectEntry, 0, len(page))
	for _, child := range page {
		entry := ObjectEntry{Object: filterObject(child, req.Filter)}
		if req.IncludePathSegment {
			entry.PathSegment = child.Name
		}
		if req.IncludeAllowableActions {
			actions, err := allowableActions(ctx, store, child)
			if err != nil {
				return nil, err
			}
			entry.AllowableActions = actions
		}
		entries = append(entries, entry)
	}
	return &ObjectList{Entries: entries, HasMoreItems: hasMore, NumItems: len(children)}, nil
}

func (s *service) GetDescendants(ctx context.Context, cc CallContext, req GetDescendantsRequest) ([]*ObjectContainer, error) {
	return s.descendants(ctx, cc, req, false)
}

// GetFolderTree is GetDescendants restricted to folders.
func (s *service) GetFolderTree(ctx context.Context, cc CallContext, req GetDescendantsRequest) ([]*ObjectContainer, error) {
	return s.descendants(ctx, cc, req, true)
}

func (s *service) descendants(ctx context.Context, cc CallContext, req GetDescendantsRequest, foldersOnly bool) ([]*ObjectContainer, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	if req.Depth == 0 || req.Depth < -1 {
		return nil, fmt.Errorf("%w: depth must be -1 or positive, got %d", ErrInvalidArgument, req.Depth)
	}
	folder, err := store.GetObjectByID(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder() {
		return nil, fmt.Errorf("%w: object %s is not a folder", ErrInvalidArgument, req.FolderID)
	}
	return s.descendantLevel(ctx, store, req, foldersOnly || req.FoldersOnly, req.FolderID, 0)
}

// descendantLevel lists one folder level and recurses until level reaches
// the requested depth (-1 never stops on depth).
func (s *service) descendantLevel(ctx context.Context, store ObjectStore, req GetDescendantsRequest, foldersOnly bool, folderID uuid.UUID, level int) ([]*ObjectContainer, error) {
	if req.Depth != -1 && level >= req.Depth {
		return nil, nil
	}
	children, err := store.GetChildren(ctx, folderID)
	if err != nil {
		return nil, err
	}
	var containers []*ObjectContainer
	for _, child := range children {
		if foldersOnly && !child.IsFolder() {
			continue
		}
		entry := ObjectEntry{Object: filterObject(child, req.Filter), PathSegment: child.Name}
		if req.IncludeAllowableActions {
			actions, err := allowableActions(ctx, store, child)
			if err != nil {
				return nil, err
			}
			entry.AllowableActions = actions
		}
		container := &ObjectContainer{Entry: entry}
		if child.IsFolder() {
			container.Children, err = s.descendantLevel(ctx, store, req, foldersOnly, child.ID, level+1)
			if err != nil {
				return nil, err
			}
		}
		containers = append(containers, container)
	}
	return containers, nil
}

func (s *service) GetFolderParent(ctx context.Context, cc CallContext, folderID uuid.UUID) (*StoredObject, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	folder, err := store.GetObjectByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder() {
		return nil, fmt.Errorf("%w: object %s is not a folder", ErrInvalidArgument, folderID)
	}
	if folderID == store.RootFolderID() {
		return nil, fmt.Errorf("%w: the root folder has no parent", ErrInvalidArgument)
	}
	parents, err := store.GetParents(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, fmt.Errorf("%w: folder %s has no parent", ErrNotFound, folderID)
	}
	return parents[0], nil
}

// GetObjectParents returns one entry per parent folder, each carrying the
// object's path segment under that parent. An unfiled object yields an
// empty list, not an error.
func (s *service) GetObjectParents(ctx context.Context, cc CallContext, req GetObjectParentsRequest) ([]ObjectParentEntry, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	obj, err := store.GetObjectByID(ctx, req.ObjectID)
	if err != nil {
		return nil, err
	}
	if obj.IsFolder() {
		return nil, fmt.Errorf("%w: use GetFolderParent for folders", ErrInvalidArgument)
	}
	parents, err := store.GetParents(ctx, req.ObjectID)
	if err != nil {
		return nil, err
	}
	entries := make([]ObjectParentEntry, 0, len(parents))
	for _, parent := range parents {
		entry := ObjectParentEntry{Folder: filterObject(parent, req.Filter)}
		if req.IncludeRelativePathSegment {
			entry.RelativePathSegment = obj.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *service) GetCheckedOutDocs(ctx context.Context, cc CallContext, req GetCheckedOutDocsRequest) (*ObjectList, error) {
	store, err := s.store(cc)
	if err != nil {
		return nil, err
	}
	docs, err := store.GetCheckedOutDocs(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}
	page, hasMore, err := pageObjects(docs, req.MaxItems, req.SkipCount)
	if err != nil {
		return nil, err
	}
	entries := make([]ObjectEntry, 0, len(page))
	for _, doc := range page {
		entries = append(entries, ObjectEntry{Object: doc})
	}
	return &ObjectList{Entries: entries, HasMoreItems: hasMore, NumItems: len(docs)}, nil
}

// pageObjects applies [skipCount, skipCount+maxItems) to an ordered result
// set. maxItems < 0 means no limit.
func pageObjects(objs []*StoredObject, maxItems, skipCount int) ([]*StoredObject, bool, error) {
	if skipCount < 0 {
		return nil, false, fmt.Errorf("%w: negative skip count", ErrInvalidArgument)
	}
	if skipCount >= len(objs) {
		return nil, false, nil
	}
	page := objs[skipCount:]
	if maxItems >= 0 && maxItems < len(page) {
		page = page[:maxItems]
	}
	return page, skipCount+len(page) < len(objs), nil
}

// orderChildren re-sorts an already name-ordered child list when the caller
// asks for a different order.
func orderChildren(children []*StoredObject, orderBy string) {
	switch orderBy {
	case "", PropertyName:
		// Store order is by name already.
	case PropertyCreationDate:
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].CreatedAt.Before(children[j].CreatedAt)
		})
	case PropertyModDate:
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].ModifiedAt.Before(children[j].ModifiedAt)
		})
	}
}

// filterObject narrows an object's custom property map per the filter
// string. Header fields always travel with the object.
func filterObject(obj *StoredObject, filter string) *StoredObject {
	selected := parseFilter(filter)
	if selected == nil || len(obj.Properties) == 0 {
		return obj
	}
	narrowed := make(map[string]interface{})
	for key, value := range obj.Properties {
		if selected[key] {
			narrowed[key] = value
		}
	}
	obj.Properties = narrowed
	return obj
}
