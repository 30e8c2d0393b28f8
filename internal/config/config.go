// Package config defines the model and run parameters the rest of the
// synthesizer is configured with (spec.md §4.9), validated with struct
// tags the way the corpus validates request payloads.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/xdefago/synth-light/internal/errs"
	"github.com/xdefago/synth-light/internal/modelspace"
)

// validate is the shared validator instance, initialized once with the
// custom light-class rule.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("lightclass", validateLightClass)
}

func validateLightClass(fl validator.FieldLevel) bool {
	_, err := modelspace.ParseLightClass(fl.Field().String())
	return err == nil
}

// allowedSchedulers mirrors spec.md §6's scheduler selector: the
// synthesizer passes the name through to the checker without interpreting
// it, but still rejects names outside the known set at configuration time.
var allowedSchedulers = map[string]bool{
	"centralized": true, "fsync": true, "ssync": true, "async": true,
	"async-safe": true, "async-regular": true, "async-move-atomic": true,
	"async-move-safe": true, "async-move-regular": true,
	"async-lc-atomic": true, "async-lc-strict": true, "async-cm-atomic": true,
}

// ModelParams is the configuration an algorithm is enumerated and verified
// under: light visibility class, color count, position-obliviousness,
// scheduler, and movement rigidity (spec.md §4.9).
type ModelParams struct {
	LightClass string `yaml:"light_class" validate:"required,lightclass"`
	Colors     int    `yaml:"num_colors" validate:"required,gte=1,lte=5"`
	ClassL     bool   `yaml:"class_l"`
	Scheduler  string `yaml:"scheduler" validate:"required"`
	// Rigidity is passed through to the checker templates as a
	// preprocessor-style symbol, exactly like Scheduler; the synthesizer
	// never branches on its value (spec.md §9 redesign note).
	Rigidity string `yaml:"rigidity" validate:"required"`
	Retain   bool   `yaml:"retain"`
	Weak     bool   `yaml:"weak"`
}

// RunFlags controls how a run is executed, independent of the model being
// searched: parallelism, search bounds, and where scratch state lives.
type RunFlags struct {
	Parallelism      int    `yaml:"parallelism" validate:"required,gte=1"`
	SearchDepth      int    `yaml:"search_depth" validate:"required,gte=1"`
	VerifierTimeoutS int    `yaml:"verifier_timeout_seconds" validate:"required,gte=1"`
	WorkspaceBaseDir string `yaml:"workspace_base_dir"`
	UseTmpfs         bool   `yaml:"use_tmpfs"`
	CacheDir         string `yaml:"cache_dir"`
	ReportPath       string `yaml:"report_path"`
}

// DefaultModelParams reproduces spec.md §8 scenario 1's configuration:
// FULL light, 2 colors, position-aware, async scheduler.
func DefaultModelParams() ModelParams {
	return ModelParams{
		LightClass: "FULL",
		Colors:     2,
		ClassL:     false,
		Scheduler:  "async",
		Rigidity:   "rigid",
		Retain:     false,
		Weak:       false,
	}
}

// DefaultRunFlags is a conservative single-machine configuration suitable
// for a development run.
func DefaultRunFlags() RunFlags {
	return RunFlags{
		Parallelism:      4,
		SearchDepth:      10000,
		VerifierTimeoutS: 30,
		UseTmpfs:         false,
	}
}

// Validate checks m against its struct tags and the scheduler allow-list.
func (m ModelParams) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrConfiguration, err)
	}
	if !allowedSchedulers[m.Scheduler] {
		return fmt.Errorf("%w: unknown scheduler %q", errs.ErrConfiguration, m.Scheduler)
	}
	return nil
}

// Validate checks f against its struct tags.
func (f RunFlags) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrConfiguration, err)
	}
	return nil
}

// Domain resolves m's light class and builds the corresponding observation
// domain.
func (m ModelParams) Domain() (*modelspace.Domain, error) {
	class, err := modelspace.ParseLightClass(m.LightClass)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrConfiguration, err)
	}
	d, err := modelspace.NewDomain(class, m.Colors, m.ClassL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrConfiguration, err)
	}
	return d, nil
}

// File is the on-disk shape of a run's YAML configuration: model
// parameters plus run flags in one document.
type File struct {
	Model ModelParams `yaml:"model"`
	Run   RunFlags    `yaml:"run"`
}

// Load parses and validates a YAML configuration document.
func Load(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing config yaml: %v", errs.ErrConfiguration, err)
	}
	if err := f.Model.Validate(); err != nil {
		return nil, err
	}
	if err := f.Run.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
