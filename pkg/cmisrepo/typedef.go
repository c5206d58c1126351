package cmisrepo

// PropertyType is the value type of a property definition.
type PropertyType string

// Property type constants (typed).
const (
	PropertyTypeString   PropertyType = "string"
	PropertyTypeInteger  PropertyType = "integer"
	PropertyTypeBoolean  PropertyType = "boolean"
	PropertyTypeDateTime PropertyType = "datetime"
	PropertyTypeDecimal  PropertyType = "decimal"
	PropertyTypeID       PropertyType = "id"
	PropertyTypeURI      PropertyType = "uri"
)

// Cardinality of a property definition.
type Cardinality string

const (
	CardinalitySingle Cardinality = "single"
	CardinalityMulti  Cardinality = "multi"
)

// Updatability of a property definition.
type Updatability string

const (
	UpdatabilityReadOnly       Updatability = "readonly"
	UpdatabilityReadWrite      Updatability = "readwrite"
	UpdatabilityWhenCheckedOut Updatability = "whencheckedout"
	UpdatabilityOnCreate       Updatability = "oncreate"
)

// Base type ids forming the roots of the type forest.
const (
	BaseTypeFolder       = "cmis:folder"
	BaseTypeDocument     = "cmis:document"
	BaseTypeRelationship = "cmis:relationship"
	BaseTypePolicy       = "cmis:policy"
	BaseTypeItem         = "cmis:item"
	BaseTypeSecondary    = "cmis:secondary"
)

// Well-known property ids.
const (
	PropertyName           = "cmis:name"
	PropertyObjectID       = "cmis:objectId"
	PropertyObjectTypeID   = "cmis:objectTypeId"
	PropertyCreatedBy      = "cmis:createdBy"
	PropertyCreationDate   = "cmis:creationDate"
	PropertyModifiedBy     = "cmis:lastModifiedBy"
	PropertyModDate        = "cmis:lastModificationDate"
	PropertyCheckinComment = "cmis:checkinComment"
)

// PropertyDefinition describes one property carried by objects of a type.
type PropertyDefinition struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name,omitempty"`
	PropertyType PropertyType `json:"property_type"`
	Cardinality  Cardinality  `json:"cardinality"`
	Updatability Updatability `json:"updatability"`
	Required     bool         `json:"required"`
	Inherited    bool         `json:"inherited"`
}

// TypeDefinition describes one node of the type forest. PropertyDefinitions
// holds the effective set: the type's own definitions plus copies of the
// parent's, flagged Inherited. The copy is frozen when the type is
// registered; later edits to the parent do not flow down.
type TypeDefinition struct {
	ID           string `json:"id"`
	LocalName    string `json:"local_name,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	Description  string `json:"description,omitempty"`
	BaseTypeID   string `json:"base_type_id"`
	ParentTypeID string `json:"parent_type_id,omitempty"`

	Creatable   bool `json:"creatable"`
	Fileable    bool `json:"fileable"`
	Queryable   bool `json:"queryable"`
	Versionable bool `json:"versionable,omitempty"`

	PropertyDefinitions map[string]PropertyDefinition `json:"property_definitions,omitempty"`
}

// Clone returns a deep copy of the definition. With includeProps false the
// copy carries no property definitions; the receiver is never mutated.
func (t *TypeDefinition) Clone(includeProps bool) *TypeDefinition {
	c := *t
	c.PropertyDefinitions = nil
	if includeProps && t.PropertyDefinitions != nil {
		c.PropertyDefinitions = make(map[string]PropertyDefinition, len(t.PropertyDefinitions))
		for id, def := range t.PropertyDefinitions {
			c.PropertyDefinitions[id] = def
		}
	}
	return &c
}

// TypeDefinitionContainer is one node of a returned type tree: a definition
// plus its immediate child containers.
type TypeDefinitionContainer struct {
	Type     *TypeDefinition            `json:"type"`
	Children []*TypeDefinitionContainer `json:"children,omitempty"`
}

// TypeDefinitionPage is one page of GetTypeChildren. NumItems counts the
// unpaged child set.
type TypeDefinitionPage struct {
	Types        []*TypeDefinition `json:"types"`
	HasMoreItems bool              `json:"has_more_items"`
	NumItems     int               `json:"num_items"`
}

func basePropertyDefinitions() map[string]PropertyDefinition {
	return map[string]PropertyDefinition{
		PropertyName:         {ID: PropertyName, PropertyType: PropertyTypeString, Cardinality: CardinalitySingle, Updatability: UpdatabilityReadWrite, Required: true},
		PropertyObjectID:     {ID: PropertyObjectID, PropertyType: PropertyTypeID, Cardinality: CardinalitySingle, Updatability: UpdatabilityReadOnly},
		PropertyObjectTypeID: {ID: PropertyObjectTypeID, PropertyType: PropertyTypeID, Cardinality: CardinalitySingle, Updatability: UpdatabilityOnCreate, Required: true},
		PropertyCreatedBy:    {ID: PropertyCreatedBy, PropertyType: PropertyTypeString, Cardinality: CardinalitySingle, Updatability: UpdatabilityReadOnly},
		PropertyCreationDate: {ID: PropertyCreationDate, PropertyType: PropertyTypeDateTime, Cardinality: CardinalitySingle, Updatability: UpdatabilityReadOnly},
		PropertyModifiedBy:   {ID: PropertyModifiedBy, PropertyType: PropertyTypeString, Cardinality: CardinalitySingle, Updatability: UpdatabilityReadOnly},
		PropertyModDate:      {ID: PropertyModDate, PropertyType: PropertyTypeDateTime, Cardinality: CardinalitySingle, Updatability: UpdatabilityReadOnly},
	}
}

// DefaultTypeDefinitions returns the fixed base types every repository is
// seeded with.
func DefaultTypeDefinitions() []*TypeDefinition {
	docProps := basePropertyDefinitions()
	docProps[PropertyCheckinComment] = PropertyDefinition{
		ID: PropertyCheckinComment, PropertyType: PropertyTypeString,
		Cardinality: CardinalitySingle, Updatability: UpdatabilityReadOnly,
	}
	return []*TypeDefinition{
		{
			ID: BaseTypeFolder, LocalName: "folder", DisplayName: "Folder",
			BaseTypeID: BaseTypeFolder,
			Creatable:  true, Fileable: true, Queryable: true,
			PropertyDefinitions: basePropertyDefinitions(),
		},
		{
			ID: BaseTypeDocument, LocalName: "document", DisplayName: "Document",
			BaseTypeID: BaseTypeDocument,
			Creatable:  true, Fileable: true, Queryable: true, Versionable: true,
			PropertyDefinitions: docProps,
		},
		{
			ID: BaseTypeRelationship, LocalName: "relationship", DisplayName: "Relationship",
			BaseTypeID:          BaseTypeRelationship,
			PropertyDefinitions: basePropertyDefinitions(),
		},
		{
			ID: BaseTypePolicy, LocalName: "policy", DisplayName: "Policy",
			BaseTypeID:          BaseTypePolicy,
			PropertyDefinitions: basePropertyDefinitions(),
		},
		{
			ID: BaseTypeItem, LocalName: "item", DisplayName: "Item",
			BaseTypeID: BaseTypeItem,
			Creatable:  true, Fileable: true, Queryable: true,
			PropertyDefinitions: basePropertyDefinitions(),
		},
		{
			ID: BaseTypeSecondary, LocalName: "secondary", DisplayName: "Secondary",
			BaseTypeID:          BaseTypeSecondary,
			PropertyDefinitions: basePropertyDefinitions(),
		},
	}
}
