package entities

import "fmt"

// DependencyUpdateHeader groups the synthesized entries of a cascade release.
const DependencyUpdateHeader = "Changed"

// ReleaseItem is one resolved release: the component, its target version and
// the finished change set backing the changelog.
type ReleaseItem struct {
	Component *Component
	Version   Version
	ChangeSet *ChangeSet
}

type releaseRequest struct {
	version  *Version
	minLevel Level
}

// RequestSpec resolves, across all components, which ones require a release
// and at what version: explicit requests, touch detection, coordination
// groups and dependency cascades, computed to a fixed point.
type RequestSpec struct {
	components []*Component
	byName     map[string]*Component
	current    map[string]*Version
	settings   ChangeSetSettings
	requests   map[string]releaseRequest
}

// NewRequestSpec validates the component graph and prepares a resolver.
// current maps component names to their latest released version (nil entry
// or missing key for never-released components).
func NewRequestSpec(
	components []*Component,
	current map[string]*Version,
	settings ChangeSetSettings,
) (*RequestSpec, error) {
	byName := make(map[string]*Component, len(components))
	for _, component := range components {
		if _, dup := byName[component.Name]; dup {
			return nil, NewReleaseError("duplicate component name %q", component.Name)
		}
		byName[component.Name] = component
	}

	for _, component := range components {
		deps := component.UpdateDependencies
		if deps == nil {
			continue
		}
		if component.CoordinationGroup != "" {
			return nil, NewReleaseError(
				"component %q cannot combine a coordination group with update_dependencies",
				component.Name)
		}
		for _, depName := range deps.Dependencies {
			if depName == component.Name {
				return nil, NewReleaseError("component %q depends on itself", component.Name)
			}
			dep, ok := byName[depName]
			if !ok {
				return nil, NewReleaseError(
					"component %q references unknown dependency %q", component.Name, depName)
			}
			if dep.UpdateDependencies != nil {
				return nil, NewReleaseError(
					"transitive update_dependencies: %q depends on cascading component %q",
					component.Name, depName)
			}
		}
	}

	return &RequestSpec{
		components: components,
		byName:     byName,
		current:    current,
		settings:   settings,
		requests:   make(map[string]releaseRequest),
	}, nil
}

// Request pre-registers a component for release, optionally at a fixed
// version or with a forced minimum bump level.
func (it *RequestSpec) Request(name string, version *Version, minLevel Level) error {
	component, ok := it.byName[name]
	if !ok {
		return NewReleaseError("unknown component %q", name)
	}
	if version != nil {
		if current := it.current[component.Name]; current != nil && version.Compare(*current) < 0 {
			return NewReleaseError(
				"requested version %s for %q is lower than the current release %s",
				version, name, current)
		}
	}
	it.requests[name] = releaseRequest{version: version, minLevel: minLevel}
	return nil
}

// Resolve folds the commit range (oldest first) into per-component change
// sets and computes the full release closure. The returned items follow
// coordination-group-then-declaration order.
func (it *RequestSpec) Resolve(commits []CommitInfo) ([]ReleaseItem, error) {
	changeSets := make(map[string]*ChangeSet, len(it.components))
	for _, component := range it.components {
		settings := it.settings
		if len(component.CommitTags) > 0 {
			settings.Tags = component.CommitTags
		}
		set := NewChangeSet(settings)
		for _, commit := range commits {
			if component.Touched(commit) {
				if err := set.AddCommit(commit); err != nil {
					return nil, err
				}
			}
		}
		changeSets[component.Name] = set
	}

	selected := make(map[string]bool)
	cascaded := make(map[string]bool)
	for name := range it.requests {
		selected[name] = true
	}
	for _, component := range it.components {
		if changeSets[component.Name].computeLevel() != LevelNone {
			selected[component.Name] = true
		}
	}

	// Fixed point: group expansion may select a dependency, which cascades,
	// and a cascaded component never cascades further, so this terminates.
	for changed := true; changed; {
		changed = false
		for _, component := range it.components {
			if component.CoordinationGroup == "" || !selected[component.Name] {
				continue
			}
			for _, member := range it.components {
				if member.CoordinationGroup == component.CoordinationGroup && !selected[member.Name] {
					selected[member.Name] = true
					changed = true
				}
			}
		}
		for _, component := range it.components {
			deps := component.UpdateDependencies
			if deps == nil || selected[component.Name] && cascaded[component.Name] {
				continue
			}
			for _, depName := range deps.Dependencies {
				if !selected[depName] {
					continue
				}
				if it.effectiveLevel(depName, changeSets[depName]) < deps.Threshold {
					continue
				}
				if !cascaded[component.Name] {
					cascaded[component.Name] = true
					changed = true
				}
				if !selected[component.Name] {
					selected[component.Name] = true
					changed = true
				}
			}
		}
	}

	versions, err := it.resolveVersions(selected, cascaded, changeSets)
	if err != nil {
		return nil, err
	}

	// Synthesize cascade entries now that dependency versions are known.
	for _, component := range it.components {
		if !cascaded[component.Name] {
			continue
		}
		deps := component.UpdateDependencies
		for _, depName := range deps.Dependencies {
			if !selected[depName] {
				continue
			}
			if it.effectiveLevel(depName, changeSets[depName]) < deps.Threshold {
				continue
			}
			text := fmt.Sprintf("Updated dependency %s to %s", depName, versions[depName])
			if err = changeSets[component.Name].AddEntry(
				DependencyUpdateHeader, deps.ConstraintLevel, text); err != nil {
				return nil, err
			}
		}
	}

	return it.orderedItems(selected, changeSets, versions)
}

// effectiveLevel is the component's commit-derived level raised to any
// requested minimum.
func (it *RequestSpec) effectiveLevel(name string, set *ChangeSet) Level {
	level := set.computeLevel()
	if request, ok := it.requests[name]; ok {
		level = MaxLevel(level, request.minLevel)
	}
	return level
}

func (it *RequestSpec) resolveVersions(
	selected, cascaded map[string]bool,
	changeSets map[string]*ChangeSet,
) (map[string]Version, error) {
	versions := make(map[string]Version, len(selected))
	groupVersions := make(map[string]Version)

	for _, component := range it.components {
		if !selected[component.Name] || component.CoordinationGroup == "" {
			continue
		}
		group := component.CoordinationGroup
		version, err := it.groupVersion(group, changeSets)
		if err != nil {
			return nil, err
		}
		groupVersions[group] = version
	}

	for _, component := range it.components {
		if !selected[component.Name] {
			continue
		}
		switch {
		case component.CoordinationGroup != "":
			versions[component.Name] = groupVersions[component.CoordinationGroup]
		default:
			level := it.effectiveLevel(component.Name, changeSets[component.Name])
			if cascaded[component.Name] {
				level = MaxLevel(level, component.UpdateDependencies.ConstraintLevel)
			}
			if request, ok := it.requests[component.Name]; ok && request.version != nil {
				versions[component.Name] = *request.version
				continue
			}
			versions[component.Name] = SuggestVersion(it.current[component.Name], level)
		}
	}
	return versions, nil
}

// groupVersion computes the shared version of a coordination group: a fixed
// requested version wins (conflicting fixed versions are an error);
// otherwise the highest member baseline bumped by the highest member level.
func (it *RequestSpec) groupVersion(
	group string,
	changeSets map[string]*ChangeSet,
) (Version, error) {
	var fixed *Version
	var base *Version
	level := LevelNone

	for _, member := range it.components {
		if member.CoordinationGroup != group {
			continue
		}
		if request, ok := it.requests[member.Name]; ok && request.version != nil {
			if fixed != nil && fixed.Compare(*request.version) != 0 {
				return Version{}, NewReleaseError(
					"conflicting fixed versions %s and %s in coordination group %q",
					fixed, request.version, group)
			}
			fixed = request.version
		}
		level = MaxLevel(level, it.effectiveLevel(member.Name, changeSets[member.Name]))
		if current := it.current[member.Name]; current != nil {
			if base == nil || current.Compare(*base) > 0 {
				base = current
			}
		}
	}

	if fixed != nil {
		return *fixed, nil
	}
	if level == LevelNone {
		// Untouched groups only resolve through a member request; releasing
		// at the shared baseline with a patch keeps members aligned.
		level = LevelPatch
	}
	return SuggestVersion(base, level), nil
}

func (it *RequestSpec) orderedItems(
	selected map[string]bool,
	changeSets map[string]*ChangeSet,
	versions map[string]Version,
) ([]ReleaseItem, error) {
	var items []ReleaseItem
	emittedGroups := make(map[string]bool)
	emitted := make(map[string]bool)

	emit := func(component *Component) {
		set := changeSets[component.Name]
		set.Finish()
		items = append(items, ReleaseItem{
			Component: component,
			Version:   versions[component.Name],
			ChangeSet: set,
		})
		emitted[component.Name] = true
	}

	for _, component := range it.components {
		if !selected[component.Name] || emitted[component.Name] {
			continue
		}
		if group := component.CoordinationGroup; group != "" {
			if emittedGroups[group] {
				continue
			}
			emittedGroups[group] = true
			for _, member := range it.components {
				if member.CoordinationGroup == group {
					emit(member)
				}
			}
			continue
		}
		emit(component)
	}
	return items, nil
}
