package registry

import (
	"github.com/askiada/go-imgnorm/pkg/extractor"
	"github.com/askiada/go-imgnorm/pkg/mask"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

// Policy tells what happens to images without a source mask.
type Policy string

const (
	// PolicyKeep leaves unmasked images without mask.
	PolicyKeep Policy = ""
	// PolicyBlank synthesizes an all-background mask.
	PolicyBlank Policy = "blank"
	// PolicyDrop removes the image from the dataset.
	PolicyDrop Policy = "drop"
)

// File is the content of a registry file.
type File struct {
	// Defaults fills the fields left empty by a dataset.
	Defaults Dataset   `yaml:"defaults"`
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset is the definition of one dataset.
type Dataset struct {
	Name string `yaml:"name" validate:"required"`
	// Dir is the dataset directory under the target path. Defaults to the slug of Name.
	Dir            string               `yaml:"dir"`
	Paths          model.PathBundle     `yaml:"paths"`
	ZFill          int                  `yaml:"zfill" validate:"required,min=1,max=18"`
	MaskSuffix     string               `yaml:"mask_suffix"`
	Policy         Policy               `yaml:"policy" validate:"omitempty,oneof=blank drop"`
	ThresholdLevel uint8                `yaml:"threshold_level"`
	Workers        int                  `yaml:"workers" validate:"omitempty,min=1"`
	Labels         extractor.Vocabulary `yaml:"labels"`
	Phases         *PhaseConfig         `yaml:"phases"`
	Masks          []mask.ClassConfig   `yaml:"masks" validate:"dive"`
	Extractors     ExtractorConfigs     `yaml:"extractors"`
	Selectors      SelectorConfigs      `yaml:"selectors"`
	Steps          []string             `yaml:"steps" validate:"required,min=1"`
}

// PhaseConfig maps the name of an ancestor directory to a phase id.
type PhaseConfig struct {
	Level int               `yaml:"level" validate:"min=0"`
	Names map[string]string `yaml:"names" validate:"required,min=1"`
}

type ExtractorConfigs struct {
	ImageID IDConfig     `yaml:"image_id"`
	StudyID IDConfig     `yaml:"study_id"`
	Labels  *LabelConfig `yaml:"labels"`
}

// IDConfig selects how an id is read from a path.
type IDConfig struct {
	Kind  string `yaml:"kind" validate:"required,oneof=basename separator parent_dir constant"`
	Sep   string `yaml:"sep" validate:"required_if=Kind separator"`
	Index int    `yaml:"index"`
	Level int    `yaml:"level"`
	Value string `yaml:"value" validate:"required_if=Kind constant"`
}

// LabelConfig selects how labels are assigned.
type LabelConfig struct {
	Kind        string `yaml:"kind" validate:"required,oneof=table mask_classes"`
	KeyColumn   string `yaml:"key_column" validate:"required_if=Kind table"`
	LabelColumn string `yaml:"label_column" validate:"required_if=Kind table"`
	Separator   string `yaml:"separator"`
	Fallback    string `yaml:"fallback"`
}

type SelectorConfigs struct {
	Images *SelectorConfig `yaml:"images"`
	Masks  *SelectorConfig `yaml:"masks"`
}

// SelectorConfig selects files. Glob patterns are relative to the root the selector is applied to.
type SelectorConfig struct {
	Kind    string   `yaml:"kind" validate:"required,oneof=all contains glob mime"`
	Value   string   `yaml:"value" validate:"required_if=Kind contains"`
	Include []string `yaml:"include" validate:"required_if=Kind glob"`
	Exclude []string `yaml:"exclude"`
	Not     bool     `yaml:"not"`
}
