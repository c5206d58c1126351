package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-cmis/pkg/cmisrepo"
)

// Filing operations. Folders hold at most one parent; leaf kinds may be
// multi-filed; document versions are never filed directly.

func (s *Store) MoveObject(ctx context.Context, id, sourceID, targetID uuid.UUID, user string) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !obj.Fileable() {
		return nil, fmt.Errorf("%w: object %s cannot be filed", cmisrepo.ErrConstraint, id)
	}
	if !containsID(obj.ParentIDs, sourceID) {
		return nil, fmt.Errorf("%w: object %s is not filed in folder %s", cmisrepo.ErrInvalidArgument, id, sourceID)
	}
	// A multi-filed object already under the target would end up with a
	// duplicate parent entry; unfile from the source instead.
	if targetID != sourceID && containsID(obj.ParentIDs, targetID) {
		return nil, fmt.Errorf("%w: object %s is already filed in folder %s", cmisrepo.ErrConstraint, id, targetID)
	}
	if err := s.checkTargetLocked(obj, targetID); err != nil {
		return nil, err
	}
	if obj.IsFolder() && s.wouldCycleLocked(obj.ID, targetID) {
		return nil, fmt.Errorf("%w: cannot move folder %s below itself", cmisrepo.ErrConstraint, id)
	}

	// Retarget in one step under the lock; the object is never observable
	// under both parents.
	delete(s.children[sourceID], obj.Name)
	s.children[targetID][obj.Name] = obj.ID
	for i, parentID := range obj.ParentIDs {
		if parentID == sourceID {
			obj.ParentIDs[i] = targetID
			break
		}
	}
	s.touch(obj, user)
	return copyObject(obj), nil
}

func (s *Store) AddParent(ctx context.Context, id, folderID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.get(id)
	if err != nil {
		return err
	}
	if !obj.MultiFileable() {
		return fmt.Errorf("%w: object %s of kind %s cannot be multi-filed", cmisrepo.ErrConstraint, id, obj.Kind)
	}
	if containsID(obj.ParentIDs, folderID) {
		return fmt.Errorf("%w: object %s is already filed in folder %s", cmisrepo.ErrConstraint, id, folderID)
	}
	return s.fileLocked(obj, folderID)
}

func (s *Store) RemoveParent(ctx context.Context, id, folderID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.get(id)
	if err != nil {
		return err
	}
	if !containsID(obj.ParentIDs, folderID) {
		return fmt.Errorf("%w: object %s is not filed in folder %s", cmisrepo.ErrInvalidArgument, id, folderID)
	}
	// Removing the last parent leaves the object unfiled, which is legal.
	s.unfileOneLocked(obj, folderID)
	return nil
}

func (s *Store) GetParents(ctx context.Context, id uuid.UUID) ([]*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, err := s.get(id)
	if err != nil {
		return nil, err
	}
	parents := make([]*cmisrepo.StoredObject, 0, len(obj.ParentIDs))
	for _, parentID := range obj.ParentIDs {
		if parent, ok := s.objects[parentID]; ok {
			parents = append(parents, copyObject(parent))
		}
	}
	return parents, nil
}

// GetChildren returns the full child list of a folder, ordered by name.
// Paging is the navigation engine's concern.
func (s *Store) GetChildren(ctx context.Context, folderID uuid.UUID) ([]*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	folder, err := s.get(folderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder() {
		return nil, fmt.Errorf("%w: object %s is not a folder", cmisrepo.ErrInvalidArgument, folderID)
	}
	ids := sortedChildIDs(s.children[folderID])
	result := make([]*cmisrepo.StoredObject, 0, len(ids))
	for _, id := range ids {
		result = append(result, copyObject(s.objects[id]))
	}
	return result, nil
}

// fileLocked validates the target folder and the child name, then files obj
// under it. Folders may hold at most one parent.
func (s *Store) fileLocked(obj *cmisrepo.StoredObject, folderID uuid.UUID) error {
	if err := s.checkTargetLocked(obj, folderID); err != nil {
		return err
	}
	if obj.IsFolder() && len(obj.ParentIDs) > 0 {
		return fmt.Errorf("%w: folder %s already has a parent", cmisrepo.ErrConstraint, obj.ID)
	}
	s.children[folderID][obj.Name] = obj.ID
	obj.ParentIDs = append(obj.ParentIDs, folderID)
	return nil
}

// checkTargetLocked verifies folderID names an existing folder without a
// same-named child.
func (s *Store) checkTargetLocked(obj *cmisrepo.StoredObject, folderID uuid.UUID) error {
	target, ok := s.objects[folderID]
	if !ok {
		return fmt.Errorf("%w: folder %s", cmisrepo.ErrNotFound, folderID)
	}
	if !target.IsFolder() {
		return fmt.Errorf("%w: object %s is not a folder", cmisrepo.ErrConstraint, folderID)
	}
	if existing, ok := s.children[folderID][obj.Name]; ok && existing != obj.ID {
		return fmt.Errorf("%w: folder %s already has a child named %q", cmisrepo.ErrConstraint, folderID, obj.Name)
	}
	return nil
}

func (s *Store) unfileOneLocked(obj *cmisrepo.StoredObject, folderID uuid.UUID) {
	delete(s.children[folderID], obj.Name)
	obj.ParentIDs = removeID(obj.ParentIDs, folderID)
}

func (s *Store) unfileAllLocked(obj *cmisrepo.StoredObject) {
	for _, parentID := range obj.ParentIDs {
		delete(s.children[parentID], obj.Name)
	}
	obj.ParentIDs = nil
}

// wouldCycleLocked reports whether folderID lies inside the subtree rooted
// at ancestorID.
func (s *Store) wouldCycleLocked(ancestorID, folderID uuid.UUID) bool {
	current := folderID
	for {
		if current == ancestorID {
			return true
		}
		obj, ok := s.objects[current]
		if !ok || len(obj.ParentIDs) == 0 {
			return false
		}
		current = obj.ParentIDs[0]
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
