package darwin

// Enumerations are open: the server vocabulary grows over time, so any
// string decodes. Values outside the named constants are kept verbatim and
// reported by IsKnown as unrecognized.

// ItemStatus is the lifecycle status of a dataset item.
type ItemStatus string

const (
	ItemStatusNew        ItemStatus = "new"
	ItemStatusAnnotate   ItemStatus = "annotate"
	ItemStatusReview     ItemStatus = "review"
	ItemStatusComplete   ItemStatus = "complete"
	ItemStatusArchived   ItemStatus = "archived"
	ItemStatusError      ItemStatus = "error"
	ItemStatusProcessing ItemStatus = "processing"
	ItemStatusUploading  ItemStatus = "uploading"
)

// IsKnown returns false for values this client does not recognize.
func (s ItemStatus) IsKnown() bool {
	switch s {
	case ItemStatusNew, ItemStatusAnnotate, ItemStatusReview, ItemStatusComplete,
		ItemStatusArchived, ItemStatusError, ItemStatusProcessing, ItemStatusUploading:
		return true
	}
	return false
}

// IsTerminal returns true for statuses an item does not leave on its own.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusComplete || s == ItemStatusArchived || s == ItemStatusError
}

// StageType is the kind of a workflow stage.
type StageType string

const (
	StageTypeAnnotate  StageType = "annotate"
	StageTypeReview    StageType = "review"
	StageTypeComplete  StageType = "complete"
	StageTypeConsensus StageType = "consensus"
	StageTypeModel     StageType = "model"
	StageTypeNew       StageType = "new"
	StageTypeDataset   StageType = "dataset"
	StageTypeDiscard   StageType = "discard"
	StageTypeWebhook   StageType = "webhook"
	StageTypeLogic     StageType = "logic"
	StageTypeSampling  StageType = "sampling"
	StageTypeArchive   StageType = "archive"
)

// IsKnown returns false for values this client does not recognize.
func (t StageType) IsKnown() bool {
	switch t {
	case StageTypeAnnotate, StageTypeReview, StageTypeComplete, StageTypeConsensus,
		StageTypeModel, StageTypeNew, StageTypeDataset, StageTypeDiscard,
		StageTypeWebhook, StageTypeLogic, StageTypeSampling, StageTypeArchive:
		return true
	}
	return false
}

// IsTerminal returns true for stage types with no outgoing edges.
func (t StageType) IsTerminal() bool {
	return t == StageTypeComplete || t == StageTypeDiscard || t == StageTypeArchive
}

// AnnotationType is the geometry or tag kind of an annotation class.
type AnnotationType string

const (
	AnnotationTypeBoundingBox     AnnotationType = "bounding_box"
	AnnotationTypePolygon         AnnotationType = "polygon"
	AnnotationTypeTag             AnnotationType = "tag"
	AnnotationTypeKeypoint        AnnotationType = "keypoint"
	AnnotationTypeLine            AnnotationType = "line"
	AnnotationTypeEllipse         AnnotationType = "ellipse"
	AnnotationTypeCuboid          AnnotationType = "cuboid"
	AnnotationTypeSkeleton        AnnotationType = "skeleton"
	AnnotationTypeMask            AnnotationType = "mask"
	AnnotationTypeRasterLayer     AnnotationType = "raster_layer"
	AnnotationTypeAttributes      AnnotationType = "attributes"
	AnnotationTypeText            AnnotationType = "text"
	AnnotationTypeInstanceID      AnnotationType = "instance_id"
	AnnotationTypeDirectionalVect AnnotationType = "directional_vector"
	AnnotationTypeMeasures        AnnotationType = "measures"
	AnnotationTypeInference       AnnotationType = "inference"
	AnnotationTypeSimpleTable     AnnotationType = "simple_table"
)

// IsKnown returns false for values this client does not recognize.
func (t AnnotationType) IsKnown() bool {
	switch t {
	case AnnotationTypeBoundingBox, AnnotationTypePolygon, AnnotationTypeTag,
		AnnotationTypeKeypoint, AnnotationTypeLine, AnnotationTypeEllipse,
		AnnotationTypeCuboid, AnnotationTypeSkeleton, AnnotationTypeMask,
		AnnotationTypeRasterLayer, AnnotationTypeAttributes, AnnotationTypeText,
		AnnotationTypeInstanceID, AnnotationTypeDirectionalVect, AnnotationTypeMeasures,
		AnnotationTypeInference, AnnotationTypeSimpleTable:
		return true
	}
	return false
}

// TeamRole is a member's role within a team.
type TeamRole string

const (
	TeamRoleOwner            TeamRole = "owner"
	TeamRoleAdmin            TeamRole = "admin"
	TeamRoleUser             TeamRole = "user"
	TeamRoleAnnotator        TeamRole = "annotator"
	TeamRoleWorkforceManager TeamRole = "workforce_manager"
	TeamRoleReviewer         TeamRole = "reviewer"
)

// IsKnown returns false for values this client does not recognize.
func (r TeamRole) IsKnown() bool {
	switch r {
	case TeamRoleOwner, TeamRoleAdmin, TeamRoleUser, TeamRoleAnnotator,
		TeamRoleWorkforceManager, TeamRoleReviewer:
		return true
	}
	return false
}

// SlotType is the media type of an item slot.
type SlotType string

const (
	SlotTypeImage SlotType = "image"
	SlotTypeVideo SlotType = "video"
	SlotTypePDF   SlotType = "pdf"
	SlotTypeDICOM SlotType = "dicom"
)

// IsKnown returns false for values this client does not recognize.
func (t SlotType) IsKnown() bool {
	switch t {
	case SlotTypeImage, SlotTypeVideo, SlotTypePDF, SlotTypeDICOM:
		return true
	}
	return false
}
