// Package registry loads dataset definitions from YAML and turns them into runnable pipelines.
package registry

import (
	"bytes"
	"os"
	"slices"
	"sort"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownDataset   = errors.New("unknown dataset")
	ErrDuplicateDataset = errors.New("duplicate dataset")
	ErrPolicyMismatch   = errors.New("unmasked image policy does not match the steps")
	ErrInvalidDataset   = errors.New("invalid dataset definition")
)

// Registry holds the datasets of a registry file.
type Registry struct {
	datasets map[string]Dataset
	skipped  []string
}

// Load reads a registry file.
func Load(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}
	reg, err := Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", path)
	}
	return reg, nil
}

// Parse decodes a registry. Datasets without a source path are not configured yet and are skipped.
func Parse(content []byte) (*Registry, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "unable to decode registry")
	}

	validate := validator.New()
	reg := &Registry{datasets: map[string]Dataset{}}
	for _, ds := range file.Datasets {
		if err := mergo.Merge(&ds, file.Defaults); err != nil {
			return nil, errors.Wrapf(err, "unable to apply defaults to %q", ds.Name)
		}
		if ds.Dir == "" {
			ds.Dir = slug.Make(ds.Name)
		}
		if err := validate.Struct(ds); err != nil {
			return nil, errors.Wrapf(ErrInvalidDataset, "%q: %v", ds.Name, err)
		}
		if err := ds.checkPolicy(); err != nil {
			return nil, errors.Wrapf(err, "dataset %q", ds.Name)
		}
		if _, ok := reg.datasets[ds.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateDataset, "%q", ds.Name)
		}
		if ds.Paths.SourcePath == "" {
			reg.skipped = append(reg.skipped, ds.Name)
			continue
		}
		reg.datasets[ds.Name] = ds
	}
	sort.Strings(reg.skipped)
	return reg, nil
}

// checkPolicy makes sure the policy for unmasked images is carried out by the steps.
func (d *Dataset) checkPolicy() error {
	blank := slices.Contains(d.Steps, "create_blank_masks")
	drop := slices.Contains(d.Steps, "delete_imgs_without_masks")
	switch {
	case d.Policy == PolicyBlank && !blank,
		d.Policy == PolicyDrop && !drop,
		d.Policy == PolicyKeep && (blank || drop),
		d.Policy == PolicyBlank && drop,
		d.Policy == PolicyDrop && blank:
		return errors.Wrapf(ErrPolicyMismatch, "policy %q", d.Policy)
	}
	return nil
}

// Names returns the names of the configured datasets, sorted.
func (r *Registry) Names() []string {
	res := make([]string, 0, len(r.datasets))
	for name := range r.datasets {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Skipped returns the names of the datasets without source path, sorted.
func (r *Registry) Skipped() []string {
	return r.skipped
}

// Get returns a configured dataset.
func (r *Registry) Get(name string) (Dataset, error) {
	ds, ok := r.datasets[name]
	if !ok {
		return Dataset{}, errors.Wrapf(ErrUnknownDataset, "%q", name)
	}
	return ds, nil
}
