package model

// PathBundle holds the root locations of one dataset run.
type PathBundle struct {
	// SourcePath is the root of the raw images.
	SourcePath string `yaml:"source_path" json:"source_path"`
	// MasksPath is the root of the raw masks. Optional.
	MasksPath string `yaml:"masks_path" json:"masks_path,omitempty"`
	// LabelsPath points to an external label table. Optional.
	LabelsPath string `yaml:"labels_path" json:"labels_path,omitempty"`
	// TargetPath is the root of the canonical tree.
	TargetPath string `yaml:"target_path" json:"target_path"`
}
