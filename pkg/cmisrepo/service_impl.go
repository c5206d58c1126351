package cmisrepo

import (
	"context"
	"fmt"
	"strings"
)

// service implements the Service interface.
type service struct {
	stores StoreManager
}

// Option represents a functional option for configuring the service.
type Option func(*service)

// WithStoreManager sets the store manager for the service.
func WithStoreManager(stores StoreManager) Option {
	return func(s *service) {
		s.stores = stores
	}
}

// New creates a new service instance with the given options.
func New(options ...Option) (Service, error) {
	s := &service{}
	for _, option := range options {
		option(s)
	}
	if s.stores == nil {
		return nil, fmt.Errorf("store manager is required")
	}
	return s, nil
}

// store resolves the caller's repository to its object store.
func (s *service) store(cc CallContext) (ObjectStore, error) {
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	store, err := s.stores.GetObjectStore(cc.RepositoryID)
	if err != nil {
		return nil, &RepositoryError{RepositoryID: cc.RepositoryID, Op: "resolve", Err: err}
	}
	return store, nil
}

// typeManager resolves the caller's repository to its type manager.
func (s *service) typeManager(cc CallContext) (TypeManager, error) {
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	types, err := s.stores.GetTypeManager(cc.RepositoryID)
	if err != nil {
		return nil, &RepositoryError{RepositoryID: cc.RepositoryID, Op: "resolve", Err: err}
	}
	return types, nil
}

// Repository operations

func (s *service) GetRepositoryInfo(ctx context.Context, cc CallContext) (*RepositoryInfo, error) {
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	return s.stores.GetRepositoryInfo(ctx, cc.RepositoryID)
}

func (s *service) GetRepositoryInfos(ctx context.Context, cc CallContext) ([]*RepositoryInfo, error) {
	if cc.Binding == "" {
		return nil, fmt.Errorf("%w: unknown binding %q", ErrInvalidArgument, cc.Binding)
	}
	ids := s.stores.RepositoryIDs()
	infos := make([]*RepositoryInfo, 0, len(ids))
	for _, id := range ids {
		info, err := s.stores.GetRepositoryInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *service) GetTypeDefinition(ctx context.Context, cc CallContext, typeID string) (*TypeDefinition, error) {
	types, err := s.typeManager(cc)
	if err != nil {
		return nil, err
	}
	return types.GetTypeDefinition(ctx, typeID)
}

func (s *service) GetTypeChildren(ctx context.Context, cc CallContext, typeID string, includeProps bool, maxItems, skipCount int) (*TypeDefinitionPage, error) {
	types, err := s.typeManager(cc)
	if err != nil {
		return nil, err
	}
	return types.GetTypeChildren(ctx, typeID, includeProps, maxItems, skipCount)
}

func (s *service) GetTypeDescendants(ctx context.Context, cc CallContext, typeID string, depth int, includeProps bool) ([]*TypeDefinitionContainer, error) {
	types, err := s.typeManager(cc)
	if err != nil {
		return nil, err
	}
	return types.GetTypeDescendants(ctx, typeID, depth, includeProps)
}

func (s *service) CreateType(ctx context.Context, cc CallContext, def *TypeDefinition) error {
	types, err := s.typeManager(cc)
	if err != nil {
		return err
	}
	return types.AddType(ctx, def)
}

// Discovery operations

// Query delegates CMISQL evaluation to an external collaborator; this
// engine does not evaluate statements.
func (s *service) Query(ctx context.Context, cc CallContext, req QueryRequest) (*ObjectList, error) {
	if _, err := s.store(cc); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: query evaluation is not part of this engine", ErrNotSupported)
}

// GetContentChanges returns an empty change log; the engine records no
// change events.
func (s *service) GetContentChanges(ctx context.Context, cc CallContext, changeLogToken string, maxItems int) (*ChangeLogPage, error) {
	if _, err := s.store(cc); err != nil {
		return nil, err
	}
	token := changeLogToken
	if token == "" {
		token = "0"
	}
	return &ChangeLogPage{Events: []ChangeEvent{}, ChangeLogToken: token}, nil
}

// parseFilter parses a property filter string: "*" or empty selects all
// properties, otherwise a comma-separated list of property ids.
func parseFilter(filter string) map[string]bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || filter == "*" {
		return nil
	}
	selected := make(map[string]bool)
	for _, id := range strings.Split(filter, ",") {
		if id = strings.TrimSpace(id); id != "" {
			selected[id] = true
		}
	}
	return selected
}

// objectProperties materializes the property map of an object: the
// well-known header properties plus custom ones, narrowed by filter.
func objectProperties(obj *StoredObject, filter string) map[string]interface{} {
	selected := parseFilter(filter)
	props := map[string]interface{}{
		PropertyObjectID:     obj.ID.String(),
		PropertyName:         obj.Name,
		PropertyObjectTypeID: obj.TypeID,
		PropertyCreatedBy:    obj.CreatedBy,
		PropertyCreationDate: obj.CreatedAt,
		PropertyModifiedBy:   obj.ModifiedBy,
		PropertyModDate:      obj.ModifiedAt,
	}
	if obj.Kind == KindDocumentVersion && obj.CheckinComment != "" {
		props[PropertyCheckinComment] = obj.CheckinComment
	}
	for key, value := range obj.Properties {
		props[key] = value
	}
	if selected == nil {
		return props
	}
	for key := range props {
		if !selected[key] {
			delete(props, key)
		}
	}
	return props
}
