package model

// ImageRecord is the metadata of one canonical image.
type ImageRecord struct {
	ImageID      string   `json:"image_id"`
	StudyID      string   `json:"study_id"`
	PhaseID      string   `json:"phase_id,omitempty"`
	Labels       []string `json:"labels"`
	SourceLabels []string `json:"source_labels"`
	ImagePath    string   `json:"image_path"`
	MaskPath     string   `json:"mask_path,omitempty"`
	SourcePath   string   `json:"source_path"`

	SourceStudyID  string `json:"-"`
	SourceImageID  string `json:"-"`
	SourceMaskPath string `json:"-"`
	// Dropped marks records removed from the canonical tree by a cleanup step.
	Dropped bool `json:"-"`
}

// FileName returns the canonical file name shared by the image and its mask.
func (r *ImageRecord) FileName() string {
	return r.StudyID + "_" + r.ImageID + ".png"
}

// HasMask reports whether a source mask was paired with the image.
func (r *ImageRecord) HasMask() bool {
	return r.SourceMaskPath != ""
}
