package darwin

// Filter selects dataset items for bulk item operations. Unset fields are
// omitted and do not restrict the selection.
type Filter struct {
	DatasetIDs []int64  `json:"dataset_ids,omitempty"`
	ItemIDs    []string `json:"item_ids,omitempty"`
	NotItemIDs []string `json:"not_item_ids,omitempty"`

	ItemNames           []string `json:"item_names,omitempty"`
	NotItemNames        []string `json:"not_item_names,omitempty"`
	ItemNameContains    string   `json:"item_name_contains,omitempty"`
	NotItemNameContains string   `json:"not_item_name_contains,omitempty"`
	ItemNamePrefix      string   `json:"item_name_prefix,omitempty"`
	NotItemNamePrefix   string   `json:"not_item_name_prefix,omitempty"`
	ItemPaths           []string `json:"item_paths,omitempty"`
	NotItemPaths        []string `json:"not_item_paths,omitempty"`
	ItemPathPrefix      string   `json:"item_path_prefix,omitempty"`
	NotItemPathPrefix   string   `json:"not_item_path_prefix,omitempty"`

	Statuses    []ItemStatus `json:"statuses,omitempty"`
	NotStatuses []ItemStatus `json:"not_statuses,omitempty"`
	Types       []SlotType   `json:"types,omitempty"`
	NotTypes    []SlotType   `json:"not_types,omitempty"`

	WorkflowStageIDs    []string `json:"workflow_stage_ids,omitempty"`
	NotWorkflowStageIDs []string `json:"not_workflow_stage_ids,omitempty"`

	AnnotationClassIDs    []int64 `json:"annotation_class_ids,omitempty"`
	NotAnnotationClassIDs []int64 `json:"not_annotation_class_ids,omitempty"`

	Assignees           []int64 `json:"assignees,omitempty"`
	NotAssignees        []int64 `json:"not_assignees,omitempty"`
	CurrentAssignees    []int64 `json:"current_assignees,omitempty"`
	NotCurrentAssignees []int64 `json:"not_current_assignees,omitempty"`

	HasComments *bool `json:"has_comments,omitempty"`

	AccuracyFrom *int64  `json:"accuracy_from,omitempty"`
	AccuracyTo   *int64  `json:"accuracy_to,omitempty"`
	IOUThreshold *string `json:"iou_threshold,omitempty"`
	MapFrom      *int64  `json:"map_from,omitempty"`
	MapTo        *int64  `json:"map_to,omitempty"`

	EvaluationMetricsRunID       string   `json:"evaluation_metrics_run_id,omitempty"`
	EvaluationMetricsRunOutcomes []string `json:"evaluation_metrics_run_outcomes,omitempty"`

	SelectAll *bool `json:"select_all,omitempty"`
}

// IsEmpty returns true if the filter selects nothing specific. Bulk
// operations refuse an empty filter unless SelectAll is set.
func (f *Filter) IsEmpty() bool {
	return len(f.DatasetIDs) == 0 && len(f.ItemIDs) == 0 && len(f.NotItemIDs) == 0 &&
		len(f.ItemNames) == 0 && len(f.NotItemNames) == 0 &&
		f.ItemNameContains == "" && f.NotItemNameContains == "" &&
		f.ItemNamePrefix == "" && f.NotItemNamePrefix == "" &&
		len(f.ItemPaths) == 0 && len(f.NotItemPaths) == 0 &&
		f.ItemPathPrefix == "" && f.NotItemPathPrefix == "" &&
		len(f.Statuses) == 0 && len(f.NotStatuses) == 0 &&
		len(f.Types) == 0 && len(f.NotTypes) == 0 &&
		len(f.WorkflowStageIDs) == 0 && len(f.NotWorkflowStageIDs) == 0 &&
		len(f.AnnotationClassIDs) == 0 && len(f.NotAnnotationClassIDs) == 0 &&
		len(f.Assignees) == 0 && len(f.NotAssignees) == 0 &&
		len(f.CurrentAssignees) == 0 && len(f.NotCurrentAssignees) == 0 &&
		f.HasComments == nil && f.AccuracyFrom == nil && f.AccuracyTo == nil &&
		f.IOUThreshold == nil && f.MapFrom == nil && f.MapTo == nil &&
		f.EvaluationMetricsRunID == "" && len(f.EvaluationMetricsRunOutcomes) == 0
}
