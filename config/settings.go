package config

import (
	"strings"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

// ToSettings validates the raw configuration and lowers it into domain
// settings. All schema violations surface as ConfigurationError here, never
// later during a release.
func (cfg *Config) ToSettings() (*entities.Settings, error) {
	issueMode, err := parseIssueMode(cfg.IssueNumberSuffixHandling)
	if err != nil {
		return nil, err
	}

	tags, err := lowerTags(cfg.CommitTags)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		tags = entities.DefaultCommitTags()
	}

	components, err := cfg.lowerComponents()
	if err != nil {
		return nil, err
	}

	steps := make(map[string][]entities.StepSettings, len(components))
	for _, component := range components {
		componentCfg := cfg.componentConfig(component.Name)
		stepList, stepsErr := cfg.assembleSteps(componentCfg)
		if stepsErr != nil {
			return nil, stepsErr
		}
		steps[component.Name] = stepList
	}

	settings := &entities.Settings{
		RepoSlug:             cfg.Repository,
		BreakingChangeHeader: cfg.BreakingChangeHeader,
		IssueSuffixMode:      issueMode,
		CommitTags:           tags,
		Components:           components,
		Steps:                steps,
	}
	return settings, nil
}

func parseIssueMode(raw string) (entities.IssueSuffixMode, error) {
	switch entities.IssueSuffixMode(raw) {
	case "":
		return entities.IssueSuffixPlain, nil
	case entities.IssueSuffixPlain, entities.IssueSuffixLink, entities.IssueSuffixDelete:
		return entities.IssueSuffixMode(raw), nil
	}
	return "", entities.NewConfigurationError(
		"unknown issue_number_suffix_handling %q (plain, link or delete)", raw)
}

func lowerTags(tagConfigs []TagConfig) ([]entities.CommitTagSettings, error) {
	tags := make([]entities.CommitTagSettings, 0, len(tagConfigs))
	for _, tagCfg := range tagConfigs {
		if tagCfg.Tag == "" {
			return nil, entities.NewConfigurationError("commit tag entry without a tag name")
		}
		level, err := entities.ParseLevel(orDefault(tagCfg.Semver, "none"))
		if err != nil {
			return nil, err
		}

		var overrides map[string]entities.ScopeOverride
		if len(tagCfg.Scopes) > 0 {
			overrides = make(map[string]entities.ScopeOverride, len(tagCfg.Scopes))
			for scope, scopeCfg := range tagCfg.Scopes {
				override := entities.ScopeOverride{Header: scopeCfg.Header}
				if scopeCfg.Semver != nil {
					scopeLevel, scopeErr := entities.ParseLevel(*scopeCfg.Semver)
					if scopeErr != nil {
						return nil, scopeErr
					}
					override.Level = &scopeLevel
				}
				overrides[scope] = override
			}
		}

		tags = append(tags, entities.CommitTagSettings{
			Tag:            tagCfg.Tag,
			Header:         orDefault(tagCfg.Header, entities.HiddenHeader),
			Level:          level,
			ScopeOverrides: overrides,
		})
	}
	return tags, nil
}

func (cfg *Config) lowerComponents() ([]*entities.Component, error) {
	if len(cfg.Components) == 0 {
		return []*entities.Component{defaultComponent(cfg.Repository)}, nil
	}

	groupOf := make(map[string]string)
	for group, members := range cfg.CoordinationGroups {
		for _, member := range members {
			groupOf[member] = group
		}
	}

	components := make([]*entities.Component, 0, len(cfg.Components))
	names := make(map[string]bool, len(cfg.Components))
	for _, componentCfg := range cfg.Components {
		if componentCfg.Name == "" {
			return nil, entities.NewConfigurationError("component entry without a name")
		}
		if names[componentCfg.Name] {
			return nil, entities.NewConfigurationError(
				"duplicate component name %q", componentCfg.Name)
		}
		names[componentCfg.Name] = true

		tags, err := lowerTags(componentCfg.CommitTags)
		if err != nil {
			return nil, err
		}

		component := &entities.Component{
			Name:              componentCfg.Name,
			Directory:         orDefault(componentCfg.Directory, "."),
			ChangelogFile:     orDefault(componentCfg.ChangelogFile, "CHANGELOG.md"),
			VersionFile:       componentCfg.VersionFile,
			IncludeGlobs:      componentCfg.IncludeGlobs,
			ExcludeGlobs:      componentCfg.ExcludeGlobs,
			CoordinationGroup: groupOf[componentCfg.Name],
			CommitTags:        tags,
		}

		if deps := componentCfg.UpdateDependencies; deps != nil {
			threshold, thresholdErr := entities.ParseLevel(orDefault(deps.SemverThreshold, "minor"))
			if thresholdErr != nil {
				return nil, thresholdErr
			}
			constraint, constraintErr := entities.ParseLevel(orDefault(deps.ConstraintLevel, "patch"))
			if constraintErr != nil {
				return nil, constraintErr
			}
			component.UpdateDependencies = &entities.UpdateDependencies{
				Dependencies:    deps.Dependencies,
				Threshold:       threshold,
				ConstraintLevel: constraint,
			}
		}

		components = append(components, component)
	}

	for group, members := range cfg.CoordinationGroups {
		for _, member := range members {
			if !names[member] {
				return nil, entities.NewConfigurationError(
					"coordination group %q references unknown component %q", group, member)
			}
		}
	}

	return components, nil
}

func defaultComponent(slug string) *entities.Component {
	name := "root"
	if _, repo, found := strings.Cut(slug, "/"); found && repo != "" {
		name = repo
	}
	return &entities.Component{
		Name:          name,
		Directory:     ".",
		ChangelogFile: "CHANGELOG.md",
	}
}

func (cfg *Config) componentConfig(name string) *ComponentConfig {
	for i := range cfg.Components {
		if cfg.Components[i].Name == name {
			return &cfg.Components[i]
		}
	}
	return nil
}

// assembleSteps computes the effective step list of one component: the base
// list (component override, else repository steps, else built-in defaults),
// with prepend/append/modify applied repository-wide first, then
// per-component.
func (cfg *Config) assembleSteps(componentCfg *ComponentConfig) ([]entities.StepSettings, error) {
	base := cfg.Steps
	if componentCfg != nil && len(componentCfg.Steps) > 0 {
		base = componentCfg.Steps
	}

	var list []entities.StepSettings
	var err error
	if len(base) > 0 {
		if list, err = lowerSteps(base); err != nil {
			return nil, err
		}
	} else {
		list = DefaultSteps()
	}

	if list, err = applyEdits(list, cfg.PrependSteps, cfg.AppendSteps, cfg.ModifySteps); err != nil {
		return nil, err
	}
	if componentCfg != nil {
		list, err = applyEdits(
			list, componentCfg.PrependSteps, componentCfg.AppendSteps, componentCfg.ModifySteps)
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}

func applyEdits(
	list []entities.StepSettings,
	prepend, append_ []StepConfig,
	modify []ModifyStepConfig,
) ([]entities.StepSettings, error) {
	prepended, err := lowerSteps(prepend)
	if err != nil {
		return nil, err
	}
	appended, err := lowerSteps(append_)
	if err != nil {
		return nil, err
	}

	merged := make([]entities.StepSettings, 0, len(list)+len(prepended)+len(appended))
	merged = append(merged, prepended...)
	merged = append(merged, list...)
	merged = append(merged, appended...)

	for _, patch := range modify {
		found := false
		for i := range merged {
			if merged[i].Name != patch.Name {
				continue
			}
			found = true
			if patch.Run != nil {
				merged[i].Run = *patch.Run
			}
			if patch.Clean != nil {
				merged[i].Clean = *patch.Clean
			}
			if patch.ContinueOnError != nil {
				merged[i].ContinueOnError = *patch.ContinueOnError
			}
			if len(patch.Options) > 0 {
				options := make(map[string]any, len(merged[i].Options)+len(patch.Options))
				for key, value := range merged[i].Options {
					options[key] = value
				}
				for key, value := range patch.Options {
					options[key] = value
				}
				merged[i].Options = options
			}
		}
		if !found {
			return nil, entities.NewConfigurationError(
				"modify_steps references unknown step %q", patch.Name)
		}
	}
	return merged, nil
}

func lowerSteps(stepConfigs []StepConfig) ([]entities.StepSettings, error) {
	steps := make([]entities.StepSettings, 0, len(stepConfigs))
	for _, stepCfg := range stepConfigs {
		if stepCfg.Name == "" || stepCfg.Type == "" {
			return nil, entities.NewConfigurationError(
				"step entries require both name and type (got name=%q type=%q)",
				stepCfg.Name, stepCfg.Type)
		}

		inputs := make([]entities.InputSpec, 0, len(stepCfg.Inputs))
		for _, inputCfg := range stepCfg.Inputs {
			input := entities.InputSpec{
				Step:       inputCfg.Step,
				SourcePath: inputCfg.SourcePath,
				DestPath:   inputCfg.DestPath,
				Dest:       entities.InputDest(orDefault(inputCfg.Dest, string(entities.InputDestComponent))),
				Collisions: entities.CollisionPolicy(inputCfg.Collisions),
			}
			if !validInputDest(input.Dest) {
				return nil, entities.NewConfigurationError(
					"step %q input has unknown dest %q", stepCfg.Name, inputCfg.Dest)
			}
			if !entities.ValidCollisionPolicy(input.Collisions) {
				return nil, entities.NewConfigurationError(
					"step %q input has unknown collision policy %q", stepCfg.Name, inputCfg.Collisions)
			}
			inputs = append(inputs, input)
		}

		outputs := make([]entities.OutputSpec, 0, len(stepCfg.Outputs))
		for _, outputCfg := range stepCfg.Outputs {
			output := entities.OutputSpec{
				Source:     entities.OutputSource(orDefault(outputCfg.Source, string(entities.OutputSourceComponent))),
				SourcePath: outputCfg.SourcePath,
				DestPath:   outputCfg.DestPath,
				Collisions: entities.CollisionPolicy(outputCfg.Collisions),
			}
			if !validOutputSource(output.Source) {
				return nil, entities.NewConfigurationError(
					"step %q output has unknown source %q", stepCfg.Name, outputCfg.Source)
			}
			if !entities.ValidCollisionPolicy(output.Collisions) {
				return nil, entities.NewConfigurationError(
					"step %q output has unknown collision policy %q", stepCfg.Name, outputCfg.Collisions)
			}
			outputs = append(outputs, output)
		}

		clean := true
		if stepCfg.Clean != nil {
			clean = *stepCfg.Clean
		}

		steps = append(steps, entities.StepSettings{
			Name:            stepCfg.Name,
			Type:            stepCfg.Type,
			Run:             stepCfg.Run,
			Clean:           clean,
			ContinueOnError: stepCfg.ContinueOnError,
			Inputs:          inputs,
			Outputs:         outputs,
			Options:         stepCfg.Options,
		})
	}
	return steps, nil
}

func validInputDest(dest entities.InputDest) bool {
	switch dest {
	case entities.InputDestComponent, entities.InputDestRepoRoot,
		entities.InputDestOutput, entities.InputDestTemp, entities.InputDestNone:
		return true
	}
	return false
}

func validOutputSource(source entities.OutputSource) bool {
	switch source {
	case entities.OutputSourceComponent, entities.OutputSourceRepoRoot, entities.OutputSourceTemp:
		return true
	}
	return false
}

// DefaultSteps is the built-in pipeline: changelog rewrite, package build,
// package publish, release tag and GitHub release. Publish and release are
// opt-in; the others decide through their primary probes.
func DefaultSteps() []entities.StepSettings {
	return []entities.StepSettings{
		{
			Name:  "changelog",
			Type:  "changelog",
			Clean: true,
		},
		{
			Name:  "build",
			Type:  "package_build",
			Clean: true,
		},
		{
			Name:    "publish",
			Type:    "package_publish",
			Clean:   false,
			Options: map[string]any{"source": "build"},
		},
		{
			Name:  "tag",
			Type:  "git_tag",
			Clean: false,
		},
		{
			Name:    "release",
			Type:    "github_release",
			Clean:   false,
			Options: map[string]any{"source": "tag"},
		},
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
