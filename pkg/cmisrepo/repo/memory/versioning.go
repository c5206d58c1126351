package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-cmis/pkg/cmisrepo"
)

// Versioning state machine. A series is CHECKED_OUT exactly when one of its
// versions carries the PWC flag; isCheckedOut and checkedOutBy are derived
// from that version, never stored separately.

func (s *Store) CheckOut(ctx context.Context, id uuid.UUID, user string) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	series, err := s.resolveSeriesLocked(id)
	if err != nil {
		return nil, err
	}
	if pwc := s.pwcLocked(series); pwc != nil {
		return nil, fmt.Errorf("%w: series %s is already checked out by %q", cmisrepo.ErrUpdateConflict, series.ID, pwc.CreatedBy)
	}

	// The PWC starts as a copy of the latest version's content.
	pwc := s.newObject(cmisrepo.KindDocumentVersion, series.Name, series.TypeID, user, nil)
	pwc.SeriesID = series.ID
	pwc.IsPWC = true
	if len(series.VersionIDs) > 0 {
		latest := s.objects[series.VersionIDs[len(series.VersionIDs)-1]]
		if latest.Content != nil {
			stream := *latest.Content
			pwc.Content = &stream
		}
	}
	series.VersionIDs = append(series.VersionIDs, pwc.ID)
	s.objects[pwc.ID] = pwc
	s.touch(series, user)
	return copyObject(pwc), nil
}

func (s *Store) CancelCheckOut(ctx context.Context, id uuid.UUID, user string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	series, err := s.resolveSeriesLocked(id)
	if err != nil {
		return err
	}
	pwc := s.pwcLocked(series)
	if pwc == nil {
		return fmt.Errorf("%w: series %s is not checked out", cmisrepo.ErrConstraint, series.ID)
	}
	series.VersionIDs = removeID(series.VersionIDs, pwc.ID)
	delete(s.objects, pwc.ID)

	// A series created in the checked-out state has no surviving version
	// once the PWC is discarded; the series goes with it.
	if len(series.VersionIDs) == 0 {
		s.unfileAllLocked(series)
		delete(s.objects, series.ID)
		return nil
	}
	s.touch(series, user)
	return nil
}

func (s *Store) CheckIn(ctx context.Context, id uuid.UUID, major bool, props map[string]interface{}, content *cmisrepo.ContentStream, comment, user string) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	series, err := s.resolveSeriesLocked(id)
	if err != nil {
		return nil, err
	}
	pwc := s.pwcLocked(series)
	if pwc == nil {
		return nil, fmt.Errorf("%w: series %s is not checked out", cmisrepo.ErrConstraint, series.ID)
	}
	if pwc.CreatedBy != user {
		return nil, fmt.Errorf("%w: series %s is checked out by %q, not %q", cmisrepo.ErrConstraint, series.ID, pwc.CreatedBy, user)
	}
	if len(props) > 0 {
		def, err := s.types.GetTypeDefinition(ctx, series.TypeID)
		if err != nil {
			return nil, err
		}
		if err := validateProperties(def, props); err != nil {
			return nil, err
		}
	}

	// Checked-in properties belong to the new version; the series keeps
	// its own property set.
	for key, value := range props {
		if key == cmisrepo.PropertyName {
			continue
		}
		if pwc.Properties == nil {
			pwc.Properties = map[string]interface{}{}
		}
		pwc.Properties[key] = value
	}
	if content != nil {
		pwc.Content = content
	}
	pwc.IsPWC = false
	pwc.IsMajor = major
	pwc.CheckinComment = comment
	s.touch(pwc, user)
	s.touch(series, user)
	return copyObject(pwc), nil
}

func (s *Store) GetAllVersions(ctx context.Context, id uuid.UUID) ([]*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, err := s.resolveSeriesLocked(id)
	if err != nil {
		return nil, err
	}
	versions := make([]*cmisrepo.StoredObject, 0, len(series.VersionIDs))
	for _, versionID := range series.VersionIDs {
		versions = append(versions, copyObject(s.objects[versionID]))
	}
	return versions, nil
}

func (s *Store) GetLatestVersion(ctx context.Context, id uuid.UUID, major bool) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, err := s.resolveSeriesLocked(id)
	if err != nil {
		return nil, err
	}
	if !major {
		if len(series.VersionIDs) == 0 {
			return nil, fmt.Errorf("%w: series %s has no versions", cmisrepo.ErrNotFound, series.ID)
		}
		return copyObject(s.objects[series.VersionIDs[len(series.VersionIDs)-1]]), nil
	}
	for i := len(series.VersionIDs) - 1; i >= 0; i-- {
		version := s.objects[series.VersionIDs[i]]
		if version.IsMajor && !version.IsPWC {
			return copyObject(version), nil
		}
	}
	return nil, fmt.Errorf("%w: series %s has no major version", cmisrepo.ErrNotFound, series.ID)
}

func (s *Store) IsCheckedOut(ctx context.Context, id uuid.UUID) (bool, string, error) {
	if err := ctx.Err(); err != nil {
		return false, "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, err := s.resolveSeriesLocked(id)
	if err != nil {
		return false, "", err
	}
	if pwc := s.pwcLocked(series); pwc != nil {
		return true, pwc.CreatedBy, nil
	}
	return false, "", nil
}

// GetCheckedOutDocs lists every checked-out series, or with a folder id only
// those filed as direct children of that folder.
func (s *Store) GetCheckedOutDocs(ctx context.Context, folderID *uuid.UUID) ([]*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if folderID != nil {
		folder, ok := s.objects[*folderID]
		if !ok {
			return nil, fmt.Errorf("%w: folder %s", cmisrepo.ErrNotFound, *folderID)
		}
		if !folder.IsFolder() {
			return nil, fmt.Errorf("%w: object %s is not a folder", cmisrepo.ErrInvalidArgument, *folderID)
		}
	}
	var result []*cmisrepo.StoredObject
	for _, obj := range s.objects {
		if obj.Kind != cmisrepo.KindVersionedDocument || s.pwcLocked(obj) == nil {
			continue
		}
		if folderID != nil && !containsID(obj.ParentIDs, *folderID) {
			continue
		}
		result = append(result, copyObject(obj))
	}
	sortObjectsByName(result)
	return result, nil
}

// resolveSeriesLocked maps a series or version id to its series object.
// Non-versionable kinds fail with ErrNotSupported.
func (s *Store) resolveSeriesLocked(id uuid.UUID) (*cmisrepo.StoredObject, error) {
	obj, err := s.get(id)
	if err != nil {
		return nil, err
	}
	switch obj.Kind {
	case cmisrepo.KindVersionedDocument:
		return obj, nil
	case cmisrepo.KindDocumentVersion:
		return s.get(obj.SeriesID)
	case cmisrepo.KindDocument:
		return nil, fmt.Errorf("%w: type %q is not versionable", cmisrepo.ErrNotSupported, obj.TypeID)
	default:
		return nil, fmt.Errorf("%w: object %s of kind %s has no version series", cmisrepo.ErrNotSupported, id, obj.Kind)
	}
}

// pwcLocked returns the series' private working copy, or nil.
func (s *Store) pwcLocked(series *cmisrepo.StoredObject) *cmisrepo.StoredObject {
	for _, versionID := range series.VersionIDs {
		if version, ok := s.objects[versionID]; ok && version.IsPWC {
			return version
		}
	}
	return nil
}
